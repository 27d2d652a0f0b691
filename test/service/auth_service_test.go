package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"duzanda/internal/models"
	"duzanda/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestAuthService_RegisterMaster(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	var created *models.User
	users.CreateFunc = func(ctx context.Context, u *models.User) error {
		u.ID = uuid.New()
		created = u
		return nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	u, err := svc.RegisterMaster(context.Background(), service.RegisterMasterInput{
		Username: "ceramics_master",
		Password: "secret123",
		Phone:    "+996 555 123 456",
	})
	if err != nil {
		t.Fatalf("RegisterMaster: %v", err)
	}
	if u.Role != models.RoleMaster {
		t.Fatalf("role = %s", u.Role)
	}
	if created.Phone == nil || *created.Phone != "996555123456" {
		t.Fatalf("телефон не нормализован: %+v", created.Phone)
	}
	if created.Password == "secret123" {
		t.Fatal("пароль сохранён открытым текстом")
	}
}

func TestAuthService_RegisterMaster_UsernameTaken(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	users.ExistsByUsernameFunc = func(ctx context.Context, username string) (bool, error) {
		return true, nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	_, err := svc.RegisterMaster(context.Background(), service.RegisterMasterInput{
		Username: "taken",
		Password: "secret123",
		Phone:    "996555123456",
	})
	if !errors.Is(err, service.ErrUsernameExists) {
		t.Fatalf("ожидалась ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	users.GetByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		return &models.User{ID: uuid.New(), Username: username, Password: "hashed:secret123"}, nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())

	if _, err := svc.Login(context.Background(), "master", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Login(context.Background(), "master", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("неверный пароль: ожидалась ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo, _, _, _, _, _, _ := newTestRepo()

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	_, err := svc.Login(context.Background(), "nobody", "secret123")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginByPhone_CreatesBuyer(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	users.CreateFunc = func(ctx context.Context, u *models.User) error {
		if !strings.HasPrefix(u.Username, "user_") {
			t.Fatalf("логин: %q", u.Username)
		}
		u.ID = uuid.New()
		return nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	u, created, err := svc.LoginByPhone(context.Background(), "+996 700 111 222")
	if err != nil {
		t.Fatalf("LoginByPhone: %v", err)
	}
	if !created {
		t.Fatal("ожидалось создание аккаунта")
	}
	if u.Role != models.RoleBuyer {
		t.Fatalf("role = %s", u.Role)
	}
}

func TestAuthService_LoginByPhone_ExistingBuyer(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	existing := &models.User{ID: uuid.New(), Role: models.RoleBuyer}
	users.GetByPhoneFunc = func(ctx context.Context, phone string) (*models.User, error) {
		return existing, nil
	}
	users.CreateFunc = func(ctx context.Context, u *models.User) error {
		t.Fatal("аккаунт не должен создаваться")
		return nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	u, created, err := svc.LoginByPhone(context.Background(), "996700111222")
	if err != nil || created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if u.ID != existing.ID {
		t.Fatalf("user = %s", u.ID)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo, users, _, _, _, _, _ := newTestRepo()

	uid := uuid.New()
	var updated map[string]any
	users.UpdateFieldsFunc = func(ctx context.Context, id uuid.UUID, fields map[string]any) error {
		updated = fields
		return nil
	}
	users.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return &models.User{ID: uid}, nil
	}

	svc := service.NewAuthService(repo, &MockPasswordHasher{}, zap.NewNop())
	phone := "+996 700 999 888"
	addr := "  Ош, ул. Ленина 1  "
	_, err := svc.UpdateProfile(buyerCtx(uid), service.ProfilePatch{Phone: &phone, Address: &addr})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated["phone"] != "996700999888" {
		t.Fatalf("phone = %v", updated["phone"])
	}
	if updated["address"] != "Ош, ул. Ленина 1" {
		t.Fatalf("address = %v", updated["address"])
	}
}
