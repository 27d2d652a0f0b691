package service_test

import (
	"context"
	"errors"
	"testing"

	"duzanda/internal/models"
	"duzanda/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func masterCtx(id uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), id)
	return service.WithRole(ctx, models.RoleMaster)
}

func buyerCtx(id uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), id)
	return service.WithRole(ctx, models.RoleBuyer)
}

func TestOrderService_Accept(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	masterID := uuid.New()
	orderID := uuid.New()

	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: orderID, Status: models.OrderStatusNew}, nil
	}
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return mid == masterID, nil
	}
	orders.UpdateStatusFromFunc = func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
		if from != models.OrderStatusNew || to != models.OrderStatusAccepted {
			t.Fatalf("переход %s -> %s", from, to)
		}
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	order, err := svc.Accept(masterCtx(masterID), orderID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if order.Status != models.OrderStatusAccepted {
		t.Fatalf("status = %s", order.Status)
	}
}

func TestOrderService_Accept_OnRejected(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	masterID := uuid.New()
	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, Status: models.OrderStatusRejected}, nil
	}
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.Accept(masterCtx(masterID), uuid.New())
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_Accept_ForeignOrder(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, Status: models.OrderStatusNew}, nil
	}
	// в заказе нет товаров этого мастера
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return false, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.Accept(masterCtx(uuid.New()), uuid.New())
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, got %v", err)
	}
}

func TestOrderService_Accept_BuyerForbidden(t *testing.T) {
	repo, _, _, _, _, _, _ := newTestRepo()

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.Accept(buyerCtx(uuid.New()), uuid.New())
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, got %v", err)
	}
}

func TestOrderService_Accept_Unauthorized(t *testing.T) {
	repo, _, _, _, _, _, _ := newTestRepo()

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.Accept(context.Background(), uuid.New())
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("ожидалась ErrUnauthorized, got %v", err)
	}
}

func TestOrderService_AdvanceStatus_ShippedWithTracking(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	masterID := uuid.New()
	tracking := "TRK-123"

	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, Status: models.OrderStatusProcessing}, nil
	}
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return true, nil
	}
	orders.UpdateStatusFromFunc = func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, trk *string) (bool, error) {
		if to != models.OrderStatusShipped || trk == nil || *trk != tracking {
			t.Fatalf("to=%s tracking=%v", to, trk)
		}
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	order, err := svc.AdvanceStatus(masterCtx(masterID), uuid.New(), models.OrderStatusShipped, &tracking)
	if err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}
	if order.TrackingNumber == nil || *order.TrackingNumber != tracking {
		t.Fatalf("tracking = %v", order.TrackingNumber)
	}
}

func TestOrderService_AdvanceStatus_DeliveredBySeller(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	masterID := uuid.New()
	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, Status: models.OrderStatusShipped}, nil
	}
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return true, nil
	}
	orders.UpdateStatusFromFunc = func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
		if from != models.OrderStatusShipped || to != models.OrderStatusDelivered {
			t.Fatalf("переход %s -> %s", from, to)
		}
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	order, err := svc.AdvanceStatus(masterCtx(masterID), uuid.New(), models.OrderStatusDelivered, nil)
	if err != nil {
		t.Fatalf("мастер должен уметь перевести shipped -> delivered: %v", err)
	}
	if order.Status != models.OrderStatusDelivered {
		t.Fatalf("status = %s", order.Status)
	}
}

func TestOrderService_AdvanceStatus_DeliveredNotShipped(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, Status: models.OrderStatusProcessing}, nil
	}
	orderItems.ExistsForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) (bool, error) {
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	// delivered доступен только из shipped
	_, err := svc.AdvanceStatus(masterCtx(uuid.New()), uuid.New(), models.OrderStatusDelivered, nil)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_AdvanceStatus_DisallowedTarget(t *testing.T) {
	repo, _, _, _, _, _, _ := newTestRepo()

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	// accepted и rejected выставляются через Accept/Reject, не через AdvanceStatus
	_, err := svc.AdvanceStatus(masterCtx(uuid.New()), uuid.New(), models.OrderStatusAccepted, nil)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_ConfirmDelivery(t *testing.T) {
	repo, _, _, _, _, orders, _ := newTestRepo()

	buyerID := uuid.New()
	orders.GetByIDForBuyerFunc = func(ctx context.Context, id, bid uuid.UUID) (*models.Order, error) {
		if bid != buyerID {
			return nil, nil
		}
		return &models.Order{ID: id, BuyerID: buyerID, Status: models.OrderStatusShipped}, nil
	}
	orders.UpdateStatusFromFunc = func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
		if from != models.OrderStatusShipped || to != models.OrderStatusDelivered {
			t.Fatalf("переход %s -> %s", from, to)
		}
		return true, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	order, err := svc.ConfirmDelivery(buyerCtx(buyerID), uuid.New())
	if err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}
	if order.Status != models.OrderStatusDelivered {
		t.Fatalf("status = %s", order.Status)
	}
}

func TestOrderService_ConfirmDelivery_Twice(t *testing.T) {
	repo, _, _, _, _, orders, _ := newTestRepo()

	buyerID := uuid.New()
	orders.GetByIDForBuyerFunc = func(ctx context.Context, id, bid uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, BuyerID: buyerID, Status: models.OrderStatusDelivered}, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.ConfirmDelivery(buyerCtx(buyerID), uuid.New())
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("повторное подтверждение: ожидалась ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_ConfirmDelivery_ConcurrentChange(t *testing.T) {
	repo, _, _, _, _, orders, _ := newTestRepo()

	buyerID := uuid.New()
	orders.GetByIDForBuyerFunc = func(ctx context.Context, id, bid uuid.UUID) (*models.Order, error) {
		return &models.Order{ID: id, BuyerID: buyerID, Status: models.OrderStatusShipped}, nil
	}
	// статус успели поменять параллельно, CAS не прошёл
	orders.UpdateStatusFromFunc = func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
		return false, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	_, err := svc.ConfirmDelivery(buyerCtx(buyerID), uuid.New())
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_FindOrdersByPhone_Normalizes(t *testing.T) {
	repo, _, _, _, _, orders, _ := newTestRepo()

	orders.ListByPhoneFunc = func(ctx context.Context, phone string) ([]models.Order, error) {
		if phone != "996700111222" {
			t.Fatalf("телефон не нормализован: %q", phone)
		}
		return []models.Order{{ID: uuid.New()}}, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	list, err := svc.FindOrdersByPhone(context.Background(), "+996 (700) 111-222")
	if err != nil || len(list) != 1 {
		t.Fatalf("FindOrdersByPhone: len=%d err=%v", len(list), err)
	}
}

func TestOrderService_ListSellerOrders(t *testing.T) {
	repo, _, _, _, _, orders, orderItems := newTestRepo()

	masterID := uuid.New()
	orderID := uuid.New()

	orders.ListForMasterFunc = func(ctx context.Context, mid uuid.UUID) ([]models.Order, error) {
		return []models.Order{{ID: orderID, Status: models.OrderStatusNew}}, nil
	}
	orderItems.ListByOrderForMasterFunc = func(ctx context.Context, oid, mid uuid.UUID) ([]models.OrderItem, error) {
		if oid != orderID || mid != masterID {
			t.Fatalf("позиции запрошены с неверными аргументами")
		}
		return []models.OrderItem{{ID: uuid.New(), OrderID: orderID, Quantity: 2}}, nil
	}

	svc := service.NewOrderService(repo, nil, zap.NewNop())
	list, err := svc.ListSellerOrders(masterCtx(masterID))
	if err != nil {
		t.Fatalf("ListSellerOrders: %v", err)
	}
	if len(list) != 1 || len(list[0].Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
}
