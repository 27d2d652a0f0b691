package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleBuyer  Role = "ROLE_BUYER"
	RoleMaster Role = "ROLE_MASTER"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username string    `gorm:"type:text;not null;uniqueIndex"`
	Password string    `gorm:"not null"` // bcrypt hash
	Role     Role      `gorm:"type:text;not null;default:'ROLE_BUYER';index"`
	Phone    *string   `gorm:"type:text;index"` // нормализованный, только цифры
	Address  *string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

func (u *User) IsMaster() bool { return u.Role == RoleMaster }

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MasterID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`

	Volume            string `gorm:"type:text;not null;default:''"` // объём, г
	PackageType       string `gorm:"type:text;not null;default:''"` // вид упаковки
	QuantityInPackage uint32 `gorm:"type:int;not null;default:1"`

	PricePerUnit    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	PricePerPackage decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	// Устаревшее поле цены: при сохранении приравнивается к PricePerUnit,
	// но именно оно используется в сумме заказа.
	Price    decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0"`
	OldPrice decimal.NullDecimal `gorm:"type:numeric(10,2)"`

	Stock uint32 `gorm:"type:int;not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

type UnitType string

const (
	UnitPerUnit    UnitType = "unit"    // цена за единицу
	UnitPerPackage UnitType = "package" // цена за упаковку
)

func (u UnitType) Valid() bool {
	return u == UnitPerUnit || u == UnitPerPackage
}

// PriceFor выбирает цену товара по типу единицы.
func (p *Product) PriceFor(unit UnitType) decimal.Decimal {
	if unit == UnitPerPackage {
		return p.PricePerPackage
	}
	return p.PricePerUnit
}

// CartSession — анонимная сессия корзины: выдаётся при первом
// обращении неавторизованного покупателя.
type CartSession struct {
	Token      string    `gorm:"type:text;primaryKey"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	LastSeenAt time.Time `gorm:"not null;default:now();index"`
}

func (CartSession) TableName() string { return "cart_sessions" }

// CartItem принадлежит либо покупателю, либо анонимной сессии —
// ровно одному (CHECK cart_items_has_owner в миграции, конструкторы Owner).
type CartItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID      *uuid.UUID `gorm:"type:uuid;index"`
	SessionToken *string    `gorm:"type:text;index"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Size      *string   `gorm:"type:text"` // не входит в ключ слияния
	Quantity  uint32    `gorm:"type:int;not null;default:1"`
	UnitType  UnitType  `gorm:"type:text;not null;default:'unit'"`

	AddedAt time.Time `gorm:"not null;default:now()"`

	Product Product `gorm:"foreignKey:ProductID"`
}

func (CartItem) TableName() string { return "cart_items" }

// LinePrice — цена строки по типу единицы (для отображения корзины).
func (ci *CartItem) LinePrice() decimal.Decimal {
	return ci.Product.PriceFor(ci.UnitType)
}

// LineTotal — стоимость строки: цена × количество.
func (ci *CartItem) LineTotal() decimal.Decimal {
	return ci.LinePrice().Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PhoneNumber     string          `gorm:"type:text;not null;index"` // только цифры
	DeliveryAddress string          `gorm:"type:text;not null"`
	Status          OrderStatus     `gorm:"type:text;not null;default:'new';index"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	TrackingNumber  *string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem — снимок позиции на момент оформления. ProductID может стать
// NULL, если товар позже удалён; цена при этом сохраняется.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity  uint32          `gorm:"type:int;not null;default:1"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }
