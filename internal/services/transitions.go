package services

import (
	"errors"
	"fmt"

	"github.com/Renal37/resto-dashboard/internal/models"
)

// Определение пользовательских ошибок переходов статуса
var (
	ErrIllegalTransition = errors.New("недопустимый переход статуса")
	ErrUnknownOrder      = errors.New("заказ не найден")
)

// legalTransitions описывает машину состояний заказа:
// pending → accepted, accepted → delivered, pending → cancelled.
// Любой другой запрошенный переход отклоняется без изменения заказа.
var legalTransitions = map[models.OrderStatus]map[models.OrderStatus]struct{}{
	models.StatusPending: {
		models.StatusAccepted:  {},
		models.StatusCancelled: {},
	},
	models.StatusAccepted: {
		models.StatusDelivered: {},
	},
}

// CanTransition сообщает, допустим ли переход из статуса from в статус to.
func CanTransition(from, to models.OrderStatus) bool {
	targets, ok := legalTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// VerifyTransition возвращает ErrIllegalTransition, если переход недопустим.
func VerifyTransition(from, to models.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// BucketOrders раскладывает заказы по корзинам представления в зависимости от статуса.
// Отменённые заказы не попадают ни в одну корзину: рабочая панель их скрывает.
func BucketOrders(orders []models.OrderView) (newOrders, inProgress, finished []models.OrderView) {
	newOrders = []models.OrderView{}
	inProgress = []models.OrderView{}
	finished = []models.OrderView{}

	for _, order := range orders {
		switch order.Status {
		case models.StatusPending:
			newOrders = append(newOrders, order)
		case models.StatusAccepted:
			inProgress = append(inProgress, order)
		case models.StatusDelivered:
			finished = append(finished, order)
		}
	}

	return newOrders, inProgress, finished
}
