package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/utils"
	"go.uber.org/zap"
)

// handleOrderEvent обрабатывает push-событие о новом заказе.
// Событие служит лишь сигналом: полезной нагрузке не доверяем как полной,
// вместо этого выполняется авторитетная перезагрузка списка заказов.
// Порядок шагов фиксирован: отметка "NEW", перезагрузка и сверка,
// баннер, затем короткая вспышка внимания.
func (e *Engine) handleOrderEvent(payload []byte) {
	var event models.NewOrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Log.Error("malformed push event payload",
			zap.String("tenant", e.cfg.Tenant),
			zap.Error(err),
		)
		return
	}

	e.markHighlight(event.OrderID)

	if err := e.Refresh(context.Background()); err != nil {
		logger.Log.Error("refetch after push event failed",
			zap.String("tenant", e.cfg.Tenant),
			zap.Int64("orderID", event.OrderID),
			zap.Error(err),
		)
	}

	e.flashAttention()
}

// markHighlight создаёт косметическую отметку "NEW" с фиксированным окном
// показа. Для уже отмеченного заказа повторная доставка события ничего не
// меняет: срок окончания не сдвигается, второй записи не возникает.
func (e *Engine) markHighlight(orderID int64) {
	if !e.highlights.Get(orderID).IsZero() {
		return
	}
	e.highlights.Set(orderID, time.Now().Add(e.cfg.HighlightWindow))
}

// flashAttention поднимает кратковременный флаг внимания (аналог мигания
// заголовка вкладки), независимый от остальных таймеров.
func (e *Engine) flashAttention() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.attentionUntil = time.Now().Add(e.cfg.AttentionWindow)
}

// Refresh перезагружает авторитетный список заказов и сверяет его с
// текущим состоянием. При ошибке загрузки последнее известное состояние
// остаётся нетронутым, а слою представления поднимается флаг повтора:
// пустой список из-за сбоя не предполагается.
func (e *Engine) Refresh(ctx context.Context) error {
	fetched, err := e.source.ListOrders(ctx, e.cfg.Tenant)
	if err != nil {
		e.mu.Lock()
		e.retryAvailable = true
		e.mu.Unlock()
		return fmt.Errorf("не удалось загрузить список заказов: %w", err)
	}

	e.reconcile(fetched)
	return nil
}

// reconcile выполняет полную сверку по идентификаторам между последним
// авторитетным списком и предыдущим состоянием. Полная сверка, а не
// инкрементальная заплатка: даже если несколько push-событий пришли до
// завершения первой перезагрузки, состояние сойдётся к корректному.
func (e *Engine) reconcile(fetched []models.Order) {
	e.mu.Lock()

	previous := e.orders
	next := make(map[int64]models.Order, len(fetched))

	var toStart, toStop []int64

	for _, order := range fetched {
		next[order.ID] = order

		old, seen := previous[order.ID]

		switch {
		case order.Status == models.StatusPending && !seen:
			// Впервые увиденный заказ в статусе pending: оповещение и,
			// если баннер сейчас не показан, новый баннер.
			if e.soundEnabled {
				toStart = append(toStart, order.ID)
			}
			if e.banner == nil {
				e.banner = &models.Banner{
					OrderID:   order.ID,
					Message:   fmt.Sprintf("Новый заказ №%d от %s", order.ID, order.CustomerName),
					Timestamp: utils.RFC3339Date{Time: time.Now()},
				}
			}
		case seen && old.Status == models.StatusPending && order.Status != models.StatusPending:
			// Другая сессия уже сменила статус: оповещение останавливается,
			// связанный баннер снимается.
			toStop = append(toStop, order.ID)
			if e.banner != nil && e.banner.OrderID == order.ID {
				e.banner = nil
			}
		}
	}

	for id := range previous {
		if _, still := next[id]; !still {
			toStop = append(toStop, id)
			if e.banner != nil && e.banner.OrderID == id {
				e.banner = nil
			}
		}
	}

	e.orders = next
	e.retryAvailable = false
	e.mu.Unlock()

	for _, id := range toStop {
		e.scheduler.StopContinuousSound(id)
	}
	for _, id := range toStart {
		e.scheduler.StartContinuousAlert(id)
	}
}
