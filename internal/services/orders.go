package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/resto-dashboard/internal/database"
	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/utils"
	"go.uber.org/zap"
)

// Определение пользовательских ошибок
var (
	ErrInvalidDraft = errors.New("некорректные данные заказа")
)

// OrderService представляет сервис для работы с заказами арендатора:
// приём заказов от внешнего потока, авторитетный список и смена статуса.
type OrderService struct {
	storage   ordersStorage
	announcer orderAnnouncer
}

// Интерфейс хранилища для работы с заказами
type ordersStorage interface {
	CreateOrder(ctx context.Context, order *database.OrderDB) error
	FindOrders(ctx context.Context, tenant string) ([]database.OrderDB, error)
	FindOrderStatus(ctx context.Context, tenant string, orderID int64) (models.OrderStatus, error)
	UpdateOrderStatus(ctx context.Context, tenant string, orderID int64, from, to models.OrderStatus) error
}

// Интерфейс издателя уведомлений push-канала
type orderAnnouncer interface {
	PublishNewOrder(ctx context.Context, tenant string, event models.NewOrderEvent) error
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(storage ordersStorage, announcer orderAnnouncer) *OrderService {
	return &OrderService{storage: storage, announcer: announcer}
}

// CreateOrder принимает заказ от внешнего потока заказов, сохраняет его и
// публикует уведомление push-канала. Сбой публикации не отменяет заказ:
// панель увидит его при следующей авторитетной загрузке.
func (o *OrderService) CreateOrder(ctx context.Context, tenant string, draft models.OrderDraft) (models.Order, error) {
	if err := validateDraft(draft); err != nil {
		return models.Order{}, err
	}

	var total float64
	for _, item := range draft.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	total += draft.TipAmount

	order := database.OrderDB{
		Tenant:       tenant,
		CustomerName: *draft.CustomerName,
		Items:        draft.Items,
		TotalAmount:  total,
		TipAmount:    draft.TipAmount,
		Status:       database.OrderStatusDB{OrderStatus: models.StatusPending},
	}

	if err := o.storage.CreateOrder(ctx, &order); err != nil {
		return models.Order{}, err
	}

	event := models.NewOrderEvent{
		OrderID:      order.ID,
		Tenant:       tenant,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
	}
	if err := o.announcer.PublishNewOrder(ctx, tenant, event); err != nil {
		logger.Log.Error("failed to publish new order event",
			zap.String("tenant", tenant),
			zap.Int64("orderID", order.ID),
			zap.Error(err),
		)
	}

	return toModel(order), nil
}

// ListOrders возвращает авторитетный список заказов арендатора
func (o *OrderService) ListOrders(ctx context.Context, tenant string) ([]models.Order, error) {
	orders, err := o.storage.FindOrders(ctx, tenant)
	if err != nil {
		return nil, err
	}

	result := make([]models.Order, len(orders))
	for i, order := range orders {
		result[i] = toModel(order)
	}

	return result, nil
}

// UpdateStatus выполняет смену статуса заказа с проверкой машины состояний.
// Недопустимый переход отклоняется без изменения заказа; параллельная смена
// статуса другой сессией также считается отклонением.
func (o *OrderService) UpdateStatus(ctx context.Context, tenant string, orderID int64, status models.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: неизвестный статус %q", ErrIllegalTransition, status)
	}

	current, err := o.storage.FindOrderStatus(ctx, tenant, orderID)
	if err != nil {
		if errors.Is(err, database.ErrNoOrder) {
			return fmt.Errorf("%w: %d", ErrUnknownOrder, orderID)
		}
		return err
	}

	if err := VerifyTransition(current, status); err != nil {
		return err
	}

	if err := o.storage.UpdateOrderStatus(ctx, tenant, orderID, current, status); err != nil {
		if errors.Is(err, database.ErrStatusConflict) {
			return fmt.Errorf("%w: статус заказа %d уже изменён другой сессией", ErrIllegalTransition, orderID)
		}
		if errors.Is(err, database.ErrNoOrder) {
			return fmt.Errorf("%w: %d", ErrUnknownOrder, orderID)
		}
		return err
	}

	return nil
}

// validateDraft проверяет валидность входных данных заказа
func validateDraft(draft models.OrderDraft) error {
	if draft.CustomerName == nil || *draft.CustomerName == "" {
		return fmt.Errorf("%w: не указано имя клиента", ErrInvalidDraft)
	}
	if len(draft.Items) == 0 {
		return fmt.Errorf("%w: заказ не содержит позиций", ErrInvalidDraft)
	}
	for _, item := range draft.Items {
		if item.Name == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return fmt.Errorf("%w: некорректная позиция заказа", ErrInvalidDraft)
		}
	}
	if draft.TipAmount < 0 {
		return fmt.Errorf("%w: отрицательные чаевые", ErrInvalidDraft)
	}
	return nil
}

func toModel(order database.OrderDB) models.Order {
	return models.Order{
		ID:           order.ID,
		Status:       order.Status.OrderStatus,
		CustomerName: order.CustomerName,
		Items:        order.Items,
		TotalAmount:  order.TotalAmount,
		TipAmount:    order.TipAmount,
		CreatedAt:    utils.RFC3339Date{Time: order.CreatedAt},
	}
}
