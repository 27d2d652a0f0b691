package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/nanorand/nanorand"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type checkoutService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	events EventBus   // может быть nil
	counts CountCache // может быть nil
	now    func() time.Time
	log    *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, hasher PasswordHasher, events EventBus, counts CountCache, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:   repo,
		hasher: hasher,
		events: events,
		counts: counts,
		now:    time.Now,
		log:    log,
	}
}

// Checkout оформляет заказ из корзины владельца. Покупатель определяется
// по номеру телефона: авторизованный пользователь остаётся собой, для
// анонима находится или создаётся аккаунт, после чего сессионная корзина
// вливается в корзину покупателя и заказ собирается уже из неё.
func (s *checkoutService) Checkout(ctx context.Context, owner models.Owner, in CheckoutInput) (*CheckoutResult, error) {
	phone := NormalizePhone(in.Phone)
	if !validPhone(phone) {
		return nil, ErrPhoneInvalid
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, ErrAddressRequired
	}

	var res CheckoutResult
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		items, err := tx.CartItems.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		buyer, created, creds, err := s.resolveBuyer(ctx, tx, owner, phone)
		if err != nil {
			return err
		}

		buyerOwner := models.UserOwner(buyer.ID)

		// Анонимная корзина становится корзиной покупателя.
		if token, ok := owner.SessionToken(); ok {
			if err := tx.CartItems.MergeSessionIntoBuyer(ctx, token, buyer.ID); err != nil {
				return err
			}
			if err := tx.Sessions.Delete(ctx, token); err != nil {
				return err
			}
			items, err = tx.CartItems.ListByOwner(ctx, buyerOwner)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return ErrEmptyCart
			}
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for i := range items {
			it := &items[i]
			// Сумма заказа считается по устаревшему полю price товара.
			price := it.Product.Price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			pid := it.ProductID
			orderItems = append(orderItems, models.OrderItem{
				ProductID: &pid,
				Quantity:  it.Quantity,
				Price:     price,
			})
		}

		order := &models.Order{
			BuyerID:         buyer.ID,
			PhoneNumber:     phone,
			DeliveryAddress: address,
			Status:          models.OrderStatusNew,
			TotalAmount:     total,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.OrderItems.BulkCreate(ctx, orderItems); err != nil {
			return err
		}
		order.Items = orderItems

		if _, err := tx.CartItems.DeleteByOwner(ctx, buyerOwner); err != nil {
			return err
		}

		res = CheckoutResult{
			Order:          order,
			Buyer:          buyer,
			CreatedAccount: created,
		}
		if creds != nil {
			res.GeneratedUsername = creds.username
			res.GeneratedPassword = creds.password
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCounts(ctx, owner, models.UserOwner(res.Buyer.ID))
	s.publishCreated(ctx, res.Order)

	s.log.Info("Заказ оформлен",
		zap.String("order_id", res.Order.ID.String()),
		zap.String("buyer_id", res.Buyer.ID.String()),
		zap.Bool("created_account", res.CreatedAccount),
	)
	return &res, nil
}

type generatedCreds struct {
	username string
	password string
}

// resolveBuyer находит покупателя для заказа: авторизованный пользователь,
// существующий аккаунт с таким телефоном или новый автосозданный покупатель.
func (s *checkoutService) resolveBuyer(ctx context.Context, tx *repository.Repository, owner models.Owner, phone string) (*models.User, bool, *generatedCreds, error) {
	if uid, ok := owner.UserID(); ok {
		u, err := tx.Users.GetByID(ctx, uid)
		if err != nil {
			return nil, false, nil, err
		}
		if u == nil {
			return nil, false, nil, ErrUnauthorized
		}
		return u, false, nil, nil
	}

	u, err := tx.Users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, nil, err
	}
	if u != nil {
		return u, false, nil, nil
	}

	u, creds, err := provisionBuyer(ctx, tx, s.hasher, phone)
	if err != nil {
		return nil, false, nil, err
	}
	return u, true, creds, nil
}

// provisionBuyer создаёт покупателя со сгенерированными логином и паролем.
// Открытый пароль возвращается один раз, в базе хранится только хэш.
func provisionBuyer(ctx context.Context, tx *repository.Repository, hasher PasswordHasher, phone string) (*models.User, *generatedCreds, error) {
	suffix, err := nanorand.Gen(8)
	if err != nil {
		return nil, nil, err
	}
	username := fmt.Sprintf("user_%s", suffix)

	password, err := nanorand.Gen(12)
	if err != nil {
		return nil, nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	u := &models.User{
		Username: username,
		Password: hash,
		Role:     models.RoleBuyer,
		Phone:    &phone,
	}
	if err := tx.Users.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	return u, &generatedCreds{username: username, password: password}, nil
}

func (s *checkoutService) invalidateCounts(ctx context.Context, owners ...models.Owner) {
	if s.counts == nil {
		return
	}
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		if !o.IsZero() {
			keys = append(keys, countCacheKey(o))
		}
	}
	if err := s.counts.Del(ctx, keys...); err != nil {
		s.log.Warn("Не удалось сбросить кэш счётчика корзины", zap.Error(err))
	}
}

func (s *checkoutService) publishCreated(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}
	ev := OrderCreatedEvent{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		PhoneNumber: order.PhoneNumber,
		TotalAmount: order.TotalAmount,
		CreatedAt:   s.now(),
	}
	for i := range order.Items {
		it := &order.Items[i]
		ev.Items = append(ev.Items, OrderItemEvent{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
		s.log.Warn("Не удалось опубликовать событие о создании заказа",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}
