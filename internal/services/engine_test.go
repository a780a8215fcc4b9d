package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/push"
	"github.com/Renal37/resto-dashboard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderSource struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (s *fakeOrderSource) ListOrders(_ context.Context, _ string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Order{}, s.orders...), nil
}

func (s *fakeOrderSource) set(orders ...models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = orders
	s.err = nil
}

func (s *fakeOrderSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

type statusCall struct {
	orderID int64
	status  models.OrderStatus
}

type fakeStatusWriter struct {
	mu    sync.Mutex
	err   error
	calls []statusCall
}

func (w *fakeStatusWriter) UpdateStatus(_ context.Context, _ string, orderID int64, status models.OrderStatus) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return w.err
	}
	w.calls = append(w.calls, statusCall{orderID: orderID, status: status})
	return nil
}

type fakeChannel struct {
	mu          sync.Mutex
	handlers    map[string]func(payload []byte)
	connected   bool
	disconnects int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: map[string]func(payload []byte){}}
}

func (c *fakeChannel) Connect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = true
	return nil
}

func (c *fakeChannel) OnEvent(event string, handler func(payload []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = handler
}

func (c *fakeChannel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	c.disconnects++
}

func (c *fakeChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected
}

// deliver синхронно доставляет событие подписчику, как это делает
// диспетчер push-канала.
func (c *fakeChannel) deliver(t *testing.T, event models.NewOrderEvent) {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	c.mu.Lock()
	handler := c.handlers[push.EventOrderCreated]
	c.mu.Unlock()

	require.NotNil(t, handler)
	handler(payload)
}

func pendingOrder(id int64, customer string) models.Order {
	return models.Order{
		ID:           id,
		Status:       models.StatusPending,
		CustomerName: customer,
		TotalAmount:  12.5,
		CreatedAt:    utils.RFC3339Date{Time: time.Now()},
	}
}

func newTestEngine(t *testing.T, cfg EngineConfig) (*Engine, *fakeOrderSource, *fakeStatusWriter, *fakeChannel, *recordingNotifier) {
	t.Helper()

	if cfg.Tenant == "" {
		cfg.Tenant = "bistro"
	}
	if cfg.AlertInterval == 0 {
		cfg.AlertInterval = time.Hour
	}
	if cfg.HighlightWindow == 0 {
		cfg.HighlightWindow = time.Hour
	}
	if cfg.AttentionWindow == 0 {
		cfg.AttentionWindow = time.Hour
	}

	source := &fakeOrderSource{}
	writer := &fakeStatusWriter{}
	channel := newFakeChannel()
	notifier := newRecordingNotifier()

	engine := NewEngine(cfg, source, writer, channel, notifier)
	engine.Run(context.Background())
	t.Cleanup(engine.Dispose)

	return engine, source, writer, channel, notifier
}

// Push-событие о новом заказе: перезагрузка, оповещение, баннер, отметка NEW
func TestNewOrderEventStartsAlert(t *testing.T) {
	engine, source, _, channel, notifier := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro", CustomerName: "Анна"})

	assert.True(t, engine.IsAlertActive(42))
	assert.Equal(t, 1, notifier.count(42))

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.Equal(t, int64(42), snapshot.New[0].ID)
	assert.True(t, snapshot.New[0].AlertActive)
	assert.True(t, snapshot.New[0].Highlighted)
	require.NotNil(t, snapshot.Banner)
	assert.Equal(t, int64(42), snapshot.Banner.OrderID)
	assert.Contains(t, snapshot.Banner.Message, "№42")
	assert.True(t, snapshot.Attention)
	assert.True(t, snapshot.Connected)
}

// Принятие заказа останавливает оповещение и снимает баннер
func TestAcceptStopsAlertAndClearsBanner(t *testing.T) {
	engine, source, writer, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	require.NoError(t, engine.Accept(context.Background(), 42))

	assert.False(t, engine.IsAlertActive(42))
	assert.Equal(t, []statusCall{{orderID: 42, status: models.StatusAccepted}}, writer.calls)

	snapshot := engine.Snapshot()
	assert.Nil(t, snapshot.Banner)
	assert.Empty(t, snapshot.New)
	require.Len(t, snapshot.InProgress, 1)
	assert.Equal(t, int64(42), snapshot.InProgress[0].ID)
}

// Недопустимый переход отклоняется, состояние оповещений не меняется
func TestIllegalTransitionLeavesStateUntouched(t *testing.T) {
	engine, source, writer, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	err := engine.Deliver(context.Background(), 42)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Empty(t, writer.calls)

	assert.True(t, engine.IsAlertActive(42))
	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.NotNil(t, snapshot.Banner)
}

// Действие по неизвестному заказу возвращает ErrUnknownOrder
func TestTransitionUnknownOrder(t *testing.T) {
	engine, _, writer, _, _ := newTestEngine(t, EngineConfig{})

	err := engine.Accept(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownOrder)
	assert.Empty(t, writer.calls)
}

// Ошибка фиксации статуса оставляет оповещение и баннер на месте
func TestWriterFailureKeepsAlert(t *testing.T) {
	engine, source, writer, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	writer.err = errors.New("хранилище недоступно")
	assert.Error(t, engine.Accept(context.Background(), 42))

	assert.True(t, engine.IsAlertActive(42))
	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.NotNil(t, snapshot.Banner)
}

// Выключение звука глушит всё, включение заново взводит pending-заказы
func TestMuteAndUnmute(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(7, "Анна"), pendingOrder(9, "Борис"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 7, Tenant: "bistro"})

	require.True(t, engine.IsAlertActive(7))
	require.True(t, engine.IsAlertActive(9))

	engine.SetSoundEnabled(false)
	assert.False(t, engine.IsAlertActive(7))
	assert.False(t, engine.IsAlertActive(9))
	assert.False(t, engine.Snapshot().SoundEnabled)

	engine.SetSoundEnabled(true)
	assert.True(t, engine.IsAlertActive(7))
	assert.True(t, engine.IsAlertActive(9))
}

// При выключенном звуке новый заказ не взводит оповещение, но баннер показывается
func TestMutedNewOrderStillShowsBanner(t *testing.T) {
	engine, source, _, channel, notifier := newTestEngine(t, EngineConfig{})

	engine.SetSoundEnabled(false)

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	assert.False(t, engine.IsAlertActive(42))
	assert.Equal(t, 0, notifier.count(42))

	snapshot := engine.Snapshot()
	require.NotNil(t, snapshot.Banner)
	assert.Equal(t, int64(42), snapshot.Banner.OrderID)
}

// Дублирование push-события не приводит к второму немедленному сигналу
func TestDuplicateEventsSingleAlert(t *testing.T) {
	engine, source, _, channel, notifier := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	assert.True(t, engine.IsAlertActive(42))
	assert.Equal(t, 1, notifier.count(42))
	require.Len(t, engine.Snapshot().New, 1)
}

// Сбой перезагрузки сохраняет последнее состояние и поднимает флаг повтора
func TestRefetchFailureKeepsLastState(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	source.fail(errors.New("источник недоступен"))
	assert.Error(t, engine.Refresh(context.Background()))

	snapshot := engine.Snapshot()
	assert.True(t, snapshot.RetryAvailable)
	require.Len(t, snapshot.New, 1)
	assert.True(t, engine.IsAlertActive(42))

	source.set(pendingOrder(42, "Анна"))
	require.NoError(t, engine.Refresh(context.Background()))
	assert.False(t, engine.Snapshot().RetryAvailable)
}

// Переход, выполненный другой сессией, обнаруживается при сверке
func TestForeignTransitionStopsAlert(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})
	require.True(t, engine.IsAlertActive(42))

	accepted := pendingOrder(42, "Анна")
	accepted.Status = models.StatusAccepted
	source.set(accepted)
	require.NoError(t, engine.Refresh(context.Background()))

	assert.False(t, engine.IsAlertActive(42))
	snapshot := engine.Snapshot()
	assert.Nil(t, snapshot.Banner)
	assert.Empty(t, snapshot.New)
	require.Len(t, snapshot.InProgress, 1)
}

// Заказ, исчезнувший из авторитетного списка, перестаёт отслеживаться
func TestVanishedOrderStopsAlert(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	source.set()
	require.NoError(t, engine.Refresh(context.Background()))

	assert.False(t, engine.IsAlertActive(42))
	snapshot := engine.Snapshot()
	assert.Nil(t, snapshot.Banner)
	assert.Empty(t, snapshot.New)
}

// Баннер показывается один, следующий занимает слот только после снятия
func TestBannerSingleSlot(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(7, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 7, Tenant: "bistro"})

	source.set(pendingOrder(7, "Анна"), pendingOrder(9, "Борис"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 9, Tenant: "bistro"})

	snapshot := engine.Snapshot()
	require.NotNil(t, snapshot.Banner)
	assert.Equal(t, int64(7), snapshot.Banner.OrderID)

	engine.DismissBanner()
	assert.Nil(t, engine.Snapshot().Banner)

	source.set(pendingOrder(7, "Анна"), pendingOrder(9, "Борис"), pendingOrder(11, "Вера"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 11, Tenant: "bistro"})

	snapshot = engine.Snapshot()
	require.NotNil(t, snapshot.Banner)
	assert.Equal(t, int64(11), snapshot.Banner.OrderID)
}

// Отметка NEW истекает по своему окну независимо от статуса заказа
func TestHighlightExpires(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{HighlightWindow: 30 * time.Millisecond})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.True(t, snapshot.New[0].Highlighted)

	time.Sleep(80 * time.Millisecond)

	snapshot = engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.False(t, snapshot.New[0].Highlighted)
	assert.True(t, snapshot.New[0].AlertActive)
}

// Опрос панели не продлевает окно отметки NEW: окно фиксированное
func TestHighlightNotExtendedByPolling(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{HighlightWindow: 50 * time.Millisecond})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	require.True(t, snapshot.New[0].Highlighted)

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		engine.Snapshot()
		time.Sleep(10 * time.Millisecond)
	}

	snapshot = engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.False(t, snapshot.New[0].Highlighted)
}

// Повторная доставка события не сдвигает срок окончания отметки NEW
func TestDuplicateEventKeepsHighlightWindow(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{HighlightWindow: 60 * time.Millisecond})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	time.Sleep(40 * time.Millisecond)
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	time.Sleep(50 * time.Millisecond)

	snapshot := engine.Snapshot()
	require.Len(t, snapshot.New, 1)
	assert.False(t, snapshot.New[0].Highlighted)
}

// Вспышка внимания гаснет по истечении своего окна
func TestAttentionFlagExpires(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{AttentionWindow: 30 * time.Millisecond})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	assert.True(t, engine.Snapshot().Attention)

	time.Sleep(80 * time.Millisecond)
	assert.False(t, engine.Snapshot().Attention)
}

// Dispose глушит оповещения и отключает push-канал
func TestDisposeStopsEverything(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))
	channel.deliver(t, models.NewOrderEvent{OrderID: 42, Tenant: "bistro"})

	engine.Dispose()

	assert.False(t, engine.IsAlertActive(42))
	assert.False(t, channel.Connected())
	assert.Equal(t, 1, channel.disconnects)

	// Повторный Dispose ничего не освобождает второй раз.
	assert.NotPanics(t, engine.Dispose)
	assert.Equal(t, 1, channel.disconnects)
}

// Некорректная полезная нагрузка события игнорируется без перезагрузки
func TestMalformedEventPayloadIgnored(t *testing.T) {
	engine, source, _, channel, _ := newTestEngine(t, EngineConfig{})

	source.set(pendingOrder(42, "Анна"))

	channel.mu.Lock()
	handler := channel.handlers[push.EventOrderCreated]
	channel.mu.Unlock()
	require.NotNil(t, handler)
	handler([]byte("не json"))

	assert.Empty(t, engine.Snapshot().New)
	assert.False(t, engine.IsAlertActive(42))
}
