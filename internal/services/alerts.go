package services

import (
	"sync"
	"time"

	"github.com/Renal37/resto-dashboard/internal/logger"
	"go.uber.org/zap"
)

// AlertNotifier выполняет примитив оповещения (звуковой/визуальный сигнал).
// Ошибка выполнения не считается фатальной: планировщик повторит сигнал
// на следующем тике.
type AlertNotifier interface {
	Fire(orderID int64) error
}

const defaultAlertInterval = 3 * time.Second

// AlertScheduler поддерживает множество заказов, требующих непрерывного
// оповещения, и один общий повторяющийся тик на всё множество.
// Один тик на много заказов вместо таймера на каждый заказ: остановка
// сводится к удалению из множества, без очистки таймеров.
type AlertScheduler struct {
	notifier AlertNotifier
	interval time.Duration

	mu      sync.Mutex
	active  map[int64]struct{}
	stop    chan struct{}
	running bool
}

// NewAlertScheduler создает новый экземпляр AlertScheduler.
// Если interval <= 0, используется интервал по умолчанию (3 секунды).
func NewAlertScheduler(notifier AlertNotifier, interval time.Duration) *AlertScheduler {
	if interval <= 0 {
		interval = defaultAlertInterval
	}
	return &AlertScheduler{
		notifier: notifier,
		interval: interval,
		active:   map[int64]struct{}{},
	}
}

// StartContinuousAlert добавляет заказ в активное множество и немедленно
// выполняет сигнал, не дожидаясь следующего тика. Повторный вызов для уже
// отслеживаемого заказа ничего не меняет: двойной частоты сигнала не будет.
// Общий тик лениво запускается при первом активном заказе.
func (as *AlertScheduler) StartContinuousAlert(orderID int64) {
	as.mu.Lock()
	if _, ok := as.active[orderID]; ok {
		as.mu.Unlock()
		return
	}
	as.active[orderID] = struct{}{}

	if !as.running {
		as.running = true
		as.stop = make(chan struct{})
		go as.loop(as.stop)
	}
	as.mu.Unlock()

	as.fire(orderID)
}

// StopContinuousSound удаляет заказ из активного множества.
// Когда множество пустеет, общий тик останавливается полностью.
func (as *AlertScheduler) StopContinuousSound(orderID int64) {
	as.mu.Lock()
	defer as.mu.Unlock()

	delete(as.active, orderID)

	if len(as.active) == 0 {
		as.stopLoopLocked()
	}
}

// StopAllContinuousSounds очищает множество и безусловно останавливает тик.
// Используется ручным управлением "выключить все звуки".
func (as *AlertScheduler) StopAllContinuousSounds() {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.active = map[int64]struct{}{}
	as.stopLoopLocked()
}

// IsActive сообщает, ведётся ли непрерывное оповещение по заказу.
// Используется только слоем представления.
func (as *AlertScheduler) IsActive(orderID int64) bool {
	as.mu.Lock()
	defer as.mu.Unlock()

	_, ok := as.active[orderID]
	return ok
}

func (as *AlertScheduler) stopLoopLocked() {
	if as.running {
		close(as.stop)
		as.running = false
	}
}

// loop выполняет общий тик: на каждом срабатывании сигнал повторяется
// для каждого заказа, всё ещё находящегося в активном множестве.
func (as *AlertScheduler) loop(stop chan struct{}) {
	ticker := time.NewTicker(as.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, orderID := range as.snapshot() {
				as.fire(orderID)
			}
		case <-stop:
			return
		}
	}
}

func (as *AlertScheduler) snapshot() []int64 {
	as.mu.Lock()
	defer as.mu.Unlock()

	ids := make([]int64, 0, len(as.active))
	for id := range as.active {
		ids = append(ids, id)
	}
	return ids
}

// fire выполняет примитив оповещения. Ошибка не удаляет заказ из множества:
// причина отказа (например, ещё не было жеста пользователя) может исчезнуть
// к следующему тику, поэтому планировщик продолжает повторять сигнал.
func (as *AlertScheduler) fire(orderID int64) {
	if err := as.notifier.Fire(orderID); err != nil {
		logger.Log.Debug("alert cue failed, will retry on next tick",
			zap.Int64("orderID", orderID),
			zap.Error(err),
		)
	}
}
