package service

import (
	"context"
	"strings"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"go.uber.org/zap"
)

type authService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, hasher PasswordHasher, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
		log:    log,
	}
}

// RegisterMaster регистрирует продавца. Покупатели отдельно не
// регистрируются, их аккаунты появляются при оформлении заказа.
func (s *authService) RegisterMaster(ctx context.Context, in RegisterMasterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	phone := NormalizePhone(in.Phone)
	if !validPhone(phone) {
		return nil, ErrPhoneInvalid
	}

	exists, err := s.repo.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username: username,
		Password: hash,
		Role:     models.RoleMaster,
		Phone:    &phone,
		Address:  in.Address,
	}
	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("Зарегистрирован мастер", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// LoginByPhone находит покупателя по номеру телефона или создаёт нового.
// При нескольких аккаунтах с одним номером выбирается самый старый.
func (s *authService) LoginByPhone(ctx context.Context, phone string) (*models.User, bool, error) {
	normalized := NormalizePhone(phone)
	if !validPhone(normalized) {
		return nil, false, ErrPhoneInvalid
	}

	var (
		user    *models.User
		created bool
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		u, err := tx.Users.GetByPhone(ctx, normalized)
		if err != nil {
			return err
		}
		if u != nil {
			user = u
			return nil
		}
		u, _, err = provisionBuyer(ctx, tx, s.hasher, normalized)
		if err != nil {
			return err
		}
		user = u
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.Info("Создан покупатель по номеру телефона", zap.String("user_id", user.ID.String()))
	}
	return user, created, nil
}

func (s *authService) Profile(ctx context.Context) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Phone != nil {
		normalized := NormalizePhone(*patch.Phone)
		if !validPhone(normalized) {
			return nil, ErrPhoneInvalid
		}
		fields["phone"] = normalized
	}
	if patch.Address != nil {
		fields["address"] = strings.TrimSpace(*patch.Address)
	}

	if len(fields) > 0 {
		if err := s.repo.Users.UpdateFields(ctx, uid, fields); err != nil {
			return nil, err
		}
	}

	u, err := s.repo.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}
