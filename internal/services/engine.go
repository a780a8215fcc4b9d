package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/FloatTech/ttl"
	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/push"
	"go.uber.org/zap"
)

// OrderSource предоставляет авторитетный список заказов арендатора.
type OrderSource interface {
	ListOrders(ctx context.Context, tenant string) ([]models.Order, error)
}

// StatusWriter фиксирует смену статуса заказа в авторитетном хранилище.
// Переход считается завершённым только после успешного вызова.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, tenant string, orderID int64, status models.OrderStatus) error
}

// PushChannel представляет клиент push-канала, доставляющий события арендатора.
type PushChannel interface {
	Connect(ctx context.Context) error

	OnEvent(event string, handler func(payload []byte))

	Disconnect()

	Connected() bool
}

const (
	defaultHighlightWindow = 10 * time.Second
	defaultAttentionWindow = 3 * time.Second
)

// EngineConfig задаёт параметры движка оповещений одной сессии арендатора.
type EngineConfig struct {
	Tenant          string
	AlertInterval   time.Duration
	HighlightWindow time.Duration
	AttentionWindow time.Duration
}

// Engine представляет движок жизненного цикла оповещений о заказах одной сессии
// арендатора. Явно конструируется и внедряется в слой представления;
// Dispose освобождает таймеры и подписку на канал. Состояние защищено
// мьютексом, им владеет ровно один экземпляр движка.
type Engine struct {
	cfg       EngineConfig
	source    OrderSource
	writer    StatusWriter
	channel   PushChannel
	scheduler *AlertScheduler

	// highlights хранит срок окончания косметической отметки "NEW",
	// независимо от состояния оповещения и статуса заказа. Срок лежит в
	// значении: чтение кэша не сдвигает окно показа, сам кэш служит лишь
	// механизмом очистки устаревших записей.
	highlights  *ttl.Cache[int64, time.Time]
	disposeOnce sync.Once

	mu             sync.Mutex
	orders         map[int64]models.Order
	banner         *models.Banner
	attentionUntil time.Time
	soundEnabled   bool
	retryAvailable bool
}

// NewEngine создает движок оповещений для одной сессии арендатора.
func NewEngine(cfg EngineConfig, source OrderSource, writer StatusWriter, channel PushChannel, notifier AlertNotifier) *Engine {
	if cfg.HighlightWindow <= 0 {
		cfg.HighlightWindow = defaultHighlightWindow
	}
	if cfg.AttentionWindow <= 0 {
		cfg.AttentionWindow = defaultAttentionWindow
	}

	return &Engine{
		cfg:          cfg,
		source:       source,
		writer:       writer,
		channel:      channel,
		scheduler:    NewAlertScheduler(notifier, cfg.AlertInterval),
		highlights:   ttl.NewCache[int64, time.Time](cfg.HighlightWindow),
		orders:       map[int64]models.Order{},
		soundEnabled: true,
	}
}

// Run подписывается на события push-канала, подключается к нему и выполняет
// первоначальную авторитетную загрузку списка заказов. Ошибки транспорта и
// загрузки не фатальны: они отражаются флагами connected/retry_available.
func (e *Engine) Run(ctx context.Context) {
	e.channel.OnEvent(push.EventOrderCreated, e.handleOrderEvent)

	if err := e.channel.Connect(ctx); err != nil {
		logger.Log.Error("push channel connect failed",
			zap.String("tenant", e.cfg.Tenant),
			zap.Error(err),
		)
	}

	if err := e.Refresh(ctx); err != nil {
		logger.Log.Error("initial order fetch failed",
			zap.String("tenant", e.cfg.Tenant),
			zap.Error(err),
		)
	}
}

// Dispose останавливает общий тик оповещений, освобождает кэш отметок
// вместе с его фоновой очисткой и отключает push-канал, чтобы ни таймеры,
// ни трафик канала не пережили сессию арендатора. Повторный вызов безопасен.
func (e *Engine) Dispose() {
	e.disposeOnce.Do(func() {
		e.scheduler.StopAllContinuousSounds()
		e.highlights.Destroy()
		e.channel.Disconnect()
	})
}

// Accept переводит заказ pending → accepted по действию персонала.
func (e *Engine) Accept(ctx context.Context, orderID int64) error {
	return e.applyTransition(ctx, orderID, models.StatusAccepted)
}

// Deliver переводит заказ accepted → delivered по действию персонала.
func (e *Engine) Deliver(ctx context.Context, orderID int64) error {
	return e.applyTransition(ctx, orderID, models.StatusDelivered)
}

// Cancel переводит заказ pending → cancelled по действию персонала.
func (e *Engine) Cancel(ctx context.Context, orderID int64) error {
	return e.applyTransition(ctx, orderID, models.StatusCancelled)
}

// applyTransition выполняет переход машины состояний для явного действия
// персонала: сначала переход фиксируется в авторитетном хранилище, и только
// затем останавливается оповещение и снимается баннер. При отклонении
// перехода или ошибке записи состояние оповещений остаётся нетронутым.
func (e *Engine) applyTransition(ctx context.Context, orderID int64, to models.OrderStatus) error {
	e.mu.Lock()
	current, ok := e.orders[orderID]
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, orderID)
	}

	if err := VerifyTransition(current.Status, to); err != nil {
		return err
	}

	if err := e.writer.UpdateStatus(ctx, e.cfg.Tenant, orderID, to); err != nil {
		return fmt.Errorf("смена статуса заказа %d не зафиксирована: %w", orderID, err)
	}

	e.mu.Lock()
	if order, tracked := e.orders[orderID]; tracked {
		order.Status = to
		e.orders[orderID] = order
	}
	if e.banner != nil && e.banner.OrderID == orderID {
		e.banner = nil
	}
	e.mu.Unlock()

	e.scheduler.StopContinuousSound(orderID)

	logger.Log.Info("order transition applied",
		zap.String("tenant", e.cfg.Tenant),
		zap.Int64("orderID", orderID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
	)

	return nil
}

// SetSoundEnabled включает или выключает глобальный звуковой переключатель.
// Выключение безусловно останавливает все оповещения; включение заново
// взводит оповещения для всех заказов в статусе pending.
func (e *Engine) SetSoundEnabled(enabled bool) {
	e.mu.Lock()
	e.soundEnabled = enabled
	var pending []int64
	if enabled {
		for id, order := range e.orders {
			if order.Status == models.StatusPending {
				pending = append(pending, id)
			}
		}
	}
	e.mu.Unlock()

	if !enabled {
		e.scheduler.StopAllContinuousSounds()
		return
	}

	for _, id := range pending {
		e.scheduler.StartContinuousAlert(id)
	}
}

// DismissBanner снимает текущий баннер по явному действию персонала.
func (e *Engine) DismissBanner() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.banner = nil
}

// IsAlertActive сообщает, звучит ли сейчас оповещение по заказу.
func (e *Engine) IsAlertActive(orderID int64) bool {
	return e.scheduler.IsActive(orderID)
}

// Snapshot собирает срез состояния панели для слоя представления.
func (e *Engine) Snapshot() models.BoardSnapshot {
	e.mu.Lock()

	views := make([]models.OrderView, 0, len(e.orders))
	for id, order := range e.orders {
		views = append(views, models.OrderView{
			Order:       order,
			AlertActive: e.scheduler.IsActive(id),
			Highlighted: time.Now().Before(e.highlights.Get(id)),
		})
	}

	var banner *models.Banner
	if e.banner != nil {
		copied := *e.banner
		banner = &copied
	}

	snapshot := models.BoardSnapshot{
		Banner:         banner,
		Attention:      time.Now().Before(e.attentionUntil),
		SoundEnabled:   e.soundEnabled,
		RetryAvailable: e.retryAvailable,
	}
	e.mu.Unlock()

	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Time.Equal(views[j].CreatedAt.Time) {
			return views[i].CreatedAt.Time.Before(views[j].CreatedAt.Time)
		}
		return views[i].ID < views[j].ID
	})

	snapshot.New, snapshot.InProgress, snapshot.Finished = BucketOrders(views)
	snapshot.Connected = e.channel.Connected()

	return snapshot
}
