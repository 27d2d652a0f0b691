package service_test

import (
	"context"
	"testing"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/service"

	"github.com/google/uuid"
)

func TestIdentityResolver_AuthorizedUser(t *testing.T) {
	sessions := &MockSessionRepo{
		TouchFunc: func(ctx context.Context, token string, at time.Time) (bool, error) {
			t.Fatal("для пользователя сессия не трогается")
			return false, nil
		},
	}
	resolver := service.NewIdentityResolver(sessions)

	uid := uuid.New()
	owner, minted, err := resolver.ResolveOwner(service.WithUserID(context.Background(), uid), "stale-token")
	if err != nil {
		t.Fatalf("ResolveOwner: %v", err)
	}
	if minted {
		t.Fatal("для пользователя токен не выдаётся")
	}
	got, ok := owner.UserID()
	if !ok || got != uid {
		t.Fatalf("owner = %+v", owner)
	}
}

func TestIdentityResolver_KnownSession(t *testing.T) {
	sessions := &MockSessionRepo{
		TouchFunc: func(ctx context.Context, token string, at time.Time) (bool, error) {
			return token == "known", nil
		},
	}
	resolver := service.NewIdentityResolver(sessions)

	owner, minted, err := resolver.ResolveOwner(context.Background(), "known")
	if err != nil || minted {
		t.Fatalf("minted=%v err=%v", minted, err)
	}
	if tok, ok := owner.SessionToken(); !ok || tok != "known" {
		t.Fatalf("owner = %+v", owner)
	}
}

func TestIdentityResolver_MintsNewSession(t *testing.T) {
	var created *models.CartSession
	sessions := &MockSessionRepo{
		CreateFunc: func(ctx context.Context, s *models.CartSession) error {
			created = s
			return nil
		},
	}
	resolver := service.NewIdentityResolver(sessions)

	owner, minted, err := resolver.ResolveOwner(context.Background(), "")
	if err != nil {
		t.Fatalf("ResolveOwner: %v", err)
	}
	if !minted {
		t.Fatal("новому посетителю должен выдаваться токен")
	}
	tok, ok := owner.SessionToken()
	if !ok || tok == "" {
		t.Fatalf("owner = %+v", owner)
	}
	if created == nil || created.Token != tok {
		t.Fatalf("сессия не сохранена: %+v", created)
	}
}

// Неизвестный (вычищенный) токен заменяется новым.
func TestIdentityResolver_UnknownTokenReplaced(t *testing.T) {
	sessions := &MockSessionRepo{
		TouchFunc: func(ctx context.Context, token string, at time.Time) (bool, error) {
			return false, nil
		},
	}
	resolver := service.NewIdentityResolver(sessions)

	owner, minted, err := resolver.ResolveOwner(context.Background(), "gone")
	if err != nil || !minted {
		t.Fatalf("minted=%v err=%v", minted, err)
	}
	if tok, _ := owner.SessionToken(); tok == "gone" {
		t.Fatal("вычищенный токен не должен переиспользоваться")
	}
}
