package service

import (
	"context"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderService struct {
	repo   *repository.Repository
	events EventBus // может быть nil
	now    func() time.Time
	log    *zap.Logger
}

func NewOrderService(repo *repository.Repository, events EventBus, log *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		events: events,
		now:    time.Now,
		log:    log,
	}
}

func (s *orderService) Accept(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.masterTransition(ctx, orderID, models.OrderStatusAccepted, nil)
}

func (s *orderService) Reject(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.masterTransition(ctx, orderID, models.OrderStatusRejected, nil)
}

func (s *orderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to models.OrderStatus, tracking *string) (*models.Order, error) {
	switch to {
	case models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered:
		return s.masterTransition(ctx, orderID, to, tracking)
	default:
		return nil, ErrInvalidTransition
	}
}

// masterTransition выполняет переход статуса от имени мастера. Мастер
// распоряжается заказом, только если в нём есть хотя бы один его товар.
func (s *orderService) masterTransition(ctx context.Context, orderID uuid.UUID, to models.OrderStatus, tracking *string) (*models.Order, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleMaster {
		return nil, ErrForbidden
	}

	order, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	ok, err := s.repo.OrderItems.ExistsForMaster(ctx, orderID, uid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.transition(ctx, order, to, tracking, uid)
}

// ConfirmDelivery — покупатель подтверждает получение: shipped -> delivered.
func (s *orderService) ConfirmDelivery(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Orders.GetByIDForBuyer(ctx, orderID, uid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return s.transition(ctx, order, models.OrderStatusDelivered, nil, uid)
}

// transition применяет переход через CAS по текущему статусу: параллельная
// смена статуса не перетирается, повторный вызов получает ErrInvalidTransition.
func (s *orderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus, tracking *string, actorID uuid.UUID) (*models.Order, error) {
	from := order.Status
	if !CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.Orders.UpdateStatusFrom(ctx, order.ID, from, to, tracking)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	order.Status = to
	if tracking != nil {
		order.TrackingNumber = tracking
	}

	if s.events != nil {
		ev := OrderStatusChangedEvent{
			OrderID:   order.ID,
			From:      from,
			To:        to,
			ActorID:   actorID,
			ChangedAt: s.now(),
		}
		if err := s.events.PublishOrderStatusChanged(ctx, ev); err != nil {
			s.log.Warn("Не удалось опубликовать событие о смене статуса",
				zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}

	s.log.Info("Статус заказа изменён",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return order, nil
}

func (s *orderService) GetMyOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.Orders.GetByIDForBuyer(ctx, orderID, uid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Orders.ListByBuyer(ctx, uid)
}

// FindOrdersByPhone — поиск заказов гостем по номеру телефона.
func (s *orderService) FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	normalized := NormalizePhone(phone)
	if !validPhone(normalized) {
		return nil, ErrPhoneInvalid
	}
	return s.repo.Orders.ListByPhone(ctx, normalized)
}

// ListSellerOrders — заказы мастера; в каждом заказе оставлены только
// позиции с его товарами.
func (s *orderService) ListSellerOrders(ctx context.Context) ([]SellerOrder, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleMaster {
		return nil, ErrForbidden
	}

	orders, err := s.repo.Orders.ListForMaster(ctx, uid)
	if err != nil {
		return nil, err
	}

	res := make([]SellerOrder, 0, len(orders))
	for i := range orders {
		items, err := s.repo.OrderItems.ListByOrderForMaster(ctx, orders[i].ID, uid)
		if err != nil {
			return nil, err
		}
		res = append(res, SellerOrder{Order: orders[i], Items: items})
	}
	return res, nil
}
