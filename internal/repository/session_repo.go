package repository

import (
	"context"
	"time"

	"duzanda/internal/models"

	"gorm.io/gorm"
)

type SessionRepo interface {
	Create(ctx context.Context, s *models.CartSession) error
	// Touch продлевает сессию; false — токен неизвестен.
	Touch(ctx context.Context, token string, at time.Time) (bool, error)
	Delete(ctx context.Context, token string) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) SessionRepo { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *models.CartSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) Touch(ctx context.Context, token string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartSession{}).
		Where("token = ?", token).Update("last_seen_at", at)
	return res.RowsAffected > 0, res.Error
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&models.CartSession{}, "token = ?", token).Error
}

// DeleteIdleSince подчищает брошенные сессии (строки корзины остаются
// и удаляются каскадом по внешнему ключу).
func (r *sessionRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("last_seen_at < ?", cutoff).Delete(&models.CartSession{})
	return res.RowsAffected, res.Error
}
