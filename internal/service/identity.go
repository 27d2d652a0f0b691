package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"
)

// IdentityResolver определяет владельца корзины по запросу:
// авторизованный пользователь или анонимная сессия. Если у анонимного
// посетителя сессии ещё нет, она создаётся здесь — minted сообщает
// транспорту, что токен нужно выдать клиенту.
type IdentityResolver struct {
	sessions repository.SessionRepo
	now      func() time.Time
}

func NewIdentityResolver(sessions repository.SessionRepo) *IdentityResolver {
	return &IdentityResolver{
		sessions: sessions,
		now:      time.Now,
	}
}

func (r *IdentityResolver) ResolveOwner(ctx context.Context, sessionToken string) (owner models.Owner, minted bool, err error) {
	if uid, ok := UserIDFromContext(ctx); ok {
		return models.UserOwner(uid), false, nil
	}

	now := r.now()

	if sessionToken != "" {
		ok, err := r.sessions.Touch(ctx, sessionToken, now)
		if err != nil {
			return models.Owner{}, false, err
		}
		if ok {
			return models.AnonymousOwner(sessionToken), false, nil
		}
		// токен неизвестен (например, сессия вычищена) — выдаём новый
	}

	token, err := newSessionToken()
	if err != nil {
		return models.Owner{}, false, err
	}
	if err := r.sessions.Create(ctx, &models.CartSession{
		Token:      token,
		CreatedAt:  now,
		LastSeenAt: now,
	}); err != nil {
		return models.Owner{}, false, err
	}
	return models.AnonymousOwner(token), true, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
