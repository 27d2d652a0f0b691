package service

import "duzanda/internal/models"

// Машина статусов заказа. rejected, delivered и canceled — терминальные.
// Переход в canceled зарезервирован и операцией не выставлен.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusNew:        {models.OrderStatusAccepted, models.OrderStatusRejected, models.OrderStatusCanceled},
	models.OrderStatusAccepted:   {models.OrderStatusProcessing, models.OrderStatusCanceled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCanceled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCanceled},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsTerminalStatus(s models.OrderStatus) bool {
	return len(orderTransitions[s]) == 0
}
