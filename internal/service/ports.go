package service

import (
	"context"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// CountCache — необязательный кэш для счётчика корзины (бейдж).
// Ошибка Get трактуется как промах.
type CountCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type AddToCartInput struct {
	ProductID uuid.UUID
	Quantity  uint32
	UnitType  models.UnitType
	Size      *string
}

type CartService interface {
	Add(ctx context.Context, owner models.Owner, in AddToCartInput) (*models.CartItem, error)
	AdjustQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, delta int32) error
	Remove(ctx context.Context, owner models.Owner, lineID uuid.UUID) error
	List(ctx context.Context, owner models.Owner) ([]models.CartItem, decimal.Decimal, error)
	Count(ctx context.Context, owner models.Owner) (int64, error)
}

type CheckoutInput struct {
	Phone           string
	DeliveryAddress string
}

// CheckoutResult: Buyer — покупатель, под которым оформлен заказ
// (транспорт выполняет вход под ним); для нового аккаунта возвращаются
// сгенерированные логин и пароль — их показывают один раз.
type CheckoutResult struct {
	Order             *models.Order
	Buyer             *models.User
	CreatedAccount    bool
	GeneratedUsername string
	GeneratedPassword string
}

type CheckoutService interface {
	Checkout(ctx context.Context, owner models.Owner, in CheckoutInput) (*CheckoutResult, error)
}

// SellerOrder — заказ и подмножество его позиций, относящихся к мастеру.
type SellerOrder struct {
	Order models.Order
	Items []models.OrderItem
}

type OrderService interface {
	Accept(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Reject(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, to models.OrderStatus, tracking *string) (*models.Order, error)
	ConfirmDelivery(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetMyOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context) ([]models.Order, error)
	FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error)
	ListSellerOrders(ctx context.Context) ([]SellerOrder, error)
}

type RegisterMasterInput struct {
	Username string
	Password string
	Phone    string
	Address  *string
}

type ProfilePatch struct {
	Phone   *string
	Address *string
}

type AuthService interface {
	RegisterMaster(ctx context.Context, in RegisterMasterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	// LoginByPhone находит покупателя по номеру или создаёт нового;
	// второй результат — создан ли аккаунт.
	LoginByPhone(ctx context.Context, phone string) (*models.User, bool, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.User, error)
}

type ProductInput struct {
	Name              string
	Description       string
	Volume            string
	PackageType       string
	QuantityInPackage uint32
	PricePerUnit      decimal.Decimal
	PricePerPackage   decimal.Decimal
	OldPrice          *decimal.Decimal
	Stock             uint32
}

type ProductPatch struct {
	Name              *string
	Description       *string
	Volume            *string
	PackageType       *string
	QuantityInPackage *uint32
	PricePerUnit      *decimal.Decimal
	PricePerPackage   *decimal.Decimal
	OldPrice          *decimal.Decimal
	Stock             *uint32
}

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
}
