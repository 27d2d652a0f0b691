package service_test

import (
	"context"
	"errors"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/google/uuid"
)

// Моки для всех зависимостей сервисов

// MockUserRepo
type MockUserRepo struct {
	CreateFunc           func(ctx context.Context, u *models.User) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsernameFunc    func(ctx context.Context, username string) (*models.User, error)
	GetByPhoneFunc       func(ctx context.Context, phone string) (*models.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	UpdateFieldsFunc     func(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *MockUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

// MockProductRepo
type MockProductRepo struct {
	CreateFunc         func(ctx context.Context, p *models.Product) error
	UpdateFieldsFunc   func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListFunc           func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	DeleteByMasterFunc func(ctx context.Context, id, masterID uuid.UUID) (bool, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) DeleteByMaster(ctx context.Context, id, masterID uuid.UUID) (bool, error) {
	if m.DeleteByMasterFunc != nil {
		return m.DeleteByMasterFunc(ctx, id, masterID)
	}
	return false, nil
}

// MockSessionRepo
type MockSessionRepo struct {
	CreateFunc          func(ctx context.Context, s *models.CartSession) error
	TouchFunc           func(ctx context.Context, token string, at time.Time) (bool, error)
	DeleteFunc          func(ctx context.Context, token string) error
	DeleteIdleSinceFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockSessionRepo) Create(ctx context.Context, s *models.CartSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepo) Touch(ctx context.Context, token string, at time.Time) (bool, error) {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, token, at)
	}
	return false, nil
}

func (m *MockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteIdleSinceFunc != nil {
		return m.DeleteIdleSinceFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockCartRepo
type MockCartRepo struct {
	CreateFunc                func(ctx context.Context, item *models.CartItem) error
	GetLineForUpdateFunc      func(ctx context.Context, owner models.Owner, productID uuid.UUID, unit models.UnitType) (*models.CartItem, error)
	GetByIDFunc               func(ctx context.Context, owner models.Owner, id uuid.UUID) (*models.CartItem, error)
	AddQuantityFunc           func(ctx context.Context, id uuid.UUID, qty uint32) error
	AdjustQuantityFunc        func(ctx context.Context, owner models.Owner, id uuid.UUID, delta int32) (bool, error)
	DeleteFunc                func(ctx context.Context, owner models.Owner, id uuid.UUID) (bool, error)
	ListByOwnerFunc           func(ctx context.Context, owner models.Owner) ([]models.CartItem, error)
	SumQuantityFunc           func(ctx context.Context, owner models.Owner) (int64, error)
	MergeSessionIntoBuyerFunc func(ctx context.Context, token string, buyerID uuid.UUID) error
	DeleteByOwnerFunc         func(ctx context.Context, owner models.Owner) (int64, error)
}

func (m *MockCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil
}

func (m *MockCartRepo) GetLineForUpdate(ctx context.Context, owner models.Owner, productID uuid.UUID, unit models.UnitType) (*models.CartItem, error) {
	if m.GetLineForUpdateFunc != nil {
		return m.GetLineForUpdateFunc(ctx, owner, productID, unit)
	}
	return nil, nil
}

func (m *MockCartRepo) GetByID(ctx context.Context, owner models.Owner, id uuid.UUID) (*models.CartItem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, owner, id)
	}
	return nil, nil
}

func (m *MockCartRepo) AddQuantity(ctx context.Context, id uuid.UUID, qty uint32) error {
	if m.AddQuantityFunc != nil {
		return m.AddQuantityFunc(ctx, id, qty)
	}
	return nil
}

func (m *MockCartRepo) AdjustQuantity(ctx context.Context, owner models.Owner, id uuid.UUID, delta int32) (bool, error) {
	if m.AdjustQuantityFunc != nil {
		return m.AdjustQuantityFunc(ctx, owner, id, delta)
	}
	return false, nil
}

func (m *MockCartRepo) Delete(ctx context.Context, owner models.Owner, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, owner, id)
	}
	return false, nil
}

func (m *MockCartRepo) ListByOwner(ctx context.Context, owner models.Owner) ([]models.CartItem, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, owner)
	}
	return nil, nil
}

func (m *MockCartRepo) SumQuantity(ctx context.Context, owner models.Owner) (int64, error) {
	if m.SumQuantityFunc != nil {
		return m.SumQuantityFunc(ctx, owner)
	}
	return 0, nil
}

func (m *MockCartRepo) MergeSessionIntoBuyer(ctx context.Context, token string, buyerID uuid.UUID) error {
	if m.MergeSessionIntoBuyerFunc != nil {
		return m.MergeSessionIntoBuyerFunc(ctx, token, buyerID)
	}
	return nil
}

func (m *MockCartRepo) DeleteByOwner(ctx context.Context, owner models.Owner) (int64, error) {
	if m.DeleteByOwnerFunc != nil {
		return m.DeleteByOwnerFunc(ctx, owner)
	}
	return 0, nil
}

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc           func(ctx context.Context, o *models.Order) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForBuyerFunc  func(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error)
	ListByBuyerFunc      func(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListByPhoneFunc      func(ctx context.Context, phone string) ([]models.Order, error)
	ListForMasterFunc    func(ctx context.Context, masterID uuid.UUID) ([]models.Order, error)
	UpdateStatusFromFunc func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForBuyerFunc != nil {
		return m.GetByIDForBuyerFunc(ctx, id, buyerID)
	}
	return nil, nil
}

func (m *MockOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	if m.ListByBuyerFunc != nil {
		return m.ListByBuyerFunc(ctx, buyerID)
	}
	return nil, nil
}

func (m *MockOrderRepo) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	if m.ListByPhoneFunc != nil {
		return m.ListByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *MockOrderRepo) ListForMaster(ctx context.Context, masterID uuid.UUID) ([]models.Order, error) {
	if m.ListForMasterFunc != nil {
		return m.ListForMasterFunc(ctx, masterID)
	}
	return nil, nil
}

func (m *MockOrderRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
	if m.UpdateStatusFromFunc != nil {
		return m.UpdateStatusFromFunc(ctx, id, from, to, tracking)
	}
	return false, nil
}

// MockOrderItemRepo
type MockOrderItemRepo struct {
	BulkCreateFunc           func(ctx context.Context, items []models.OrderItem) error
	ListByOrderFunc          func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListByOrderForMasterFunc func(ctx context.Context, orderID, masterID uuid.UUID) ([]models.OrderItem, error)
	ExistsForMasterFunc      func(ctx context.Context, orderID, masterID uuid.UUID) (bool, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.ListByOrderFunc != nil {
		return m.ListByOrderFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockOrderItemRepo) ListByOrderForMaster(ctx context.Context, orderID, masterID uuid.UUID) ([]models.OrderItem, error) {
	if m.ListByOrderForMasterFunc != nil {
		return m.ListByOrderForMasterFunc(ctx, orderID, masterID)
	}
	return nil, nil
}

func (m *MockOrderItemRepo) ExistsForMaster(ctx context.Context, orderID, masterID uuid.UUID) (bool, error) {
	if m.ExistsForMasterFunc != nil {
		return m.ExistsForMasterFunc(ctx, orderID, masterID)
	}
	return false, nil
}

// MockPasswordHasher
type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) bool
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return hash == "hashed:"+password
}

var errCacheMiss = errors.New("cache miss")

// MockCountCache
type MockCountCache struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value any, ttl time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

func (m *MockCountCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errCacheMiss
}

func (m *MockCountCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *MockCountCache) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

// newTestRepo собирает Repository на моках; DB == nil, поэтому WithTx
// выполняет функцию без транзакции.
func newTestRepo() (*repository.Repository, *MockUserRepo, *MockProductRepo, *MockSessionRepo, *MockCartRepo, *MockOrderRepo, *MockOrderItemRepo) {
	users := &MockUserRepo{}
	products := &MockProductRepo{}
	sessions := &MockSessionRepo{}
	carts := &MockCartRepo{}
	orders := &MockOrderRepo{}
	orderItems := &MockOrderItemRepo{}
	repo := &repository.Repository{
		Users:      users,
		Products:   products,
		Sessions:   sessions,
		CartItems:  carts,
		Orders:     orders,
		OrderItems: orderItems,
	}
	return repo, users, products, sessions, carts, orders, orderItems
}
