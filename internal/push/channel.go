package push

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Имена событий push-канала.
const (
	EventOrderCreated = "order.created"
	EventAlertCue     = "alert.cue"
)

const (
	// DefaultExchange задаёт topic-обменник push-канала; ключи маршрутизации
	// ограничены арендатором: orders.<tenant>.<событие>.
	DefaultExchange = "dashboard.events"

	defaultMaxAttempts = 5
	defaultRetryDelay  = 2 * time.Second
)

var ErrChannelClosed = errors.New("push-канал закрыт")

// Handler обрабатывает полезную нагрузку одного события канала.
type Handler func(payload []byte)

// Config задаёт параметры клиента push-канала одной сессии арендатора.
type Config struct {
	URI         string
	Exchange    string
	Tenant      string
	MaxAttempts int
	RetryDelay  time.Duration
}

// Channel поддерживает одно соединение с брокером и подписку на канал
// арендатора. Ошибки транспорта не фатальны: они меняют наблюдаемый флаг
// подключённости и восстанавливаются ограниченным числом повторов.
type Channel struct {
	cfg Config

	// join выполняет ровно одно присоединение к каналу арендатора.
	// По умолчанию dialAndJoin; в тестах подменяется заглушкой.
	join func() error

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	handlers  map[string]Handler
	connected bool
	closed    bool
	session   string
}

// NewChannel создает клиент push-канала для одного арендатора.
func NewChannel(cfg Config) *Channel {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	c := &Channel{
		cfg:      cfg,
		handlers: map[string]Handler{},
		session:  uuid.NewString(),
	}
	c.join = c.dialAndJoin
	return c
}

// Connect устанавливает соединение и присоединяется к каналу арендатора.
// Вызов идемпотентен: при уже установленном соединении ничего не делает.
// При ошибке транспорта выполняется ограниченное число повторов с
// фиксированной задержкой.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	if c.connected {
		return nil
	}

	return c.connectLocked(ctx)
}

// connectLocked выполняет ограниченное число попыток присоединения.
// Вызывается с захваченным c.mu и возвращает управление, держа его; на время
// задержки между попытками мьютекс отпускается, чтобы Disconnect и опрос
// Connected не блокировались на протяжении всего переподключения.
func (c *Channel) connectLocked(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if c.closed {
			return ErrChannelClosed
		}

		if err := c.join(); err != nil {
			lastErr = err
			logger.Log.Debug("push channel connect attempt failed",
				zap.String("tenant", c.cfg.Tenant),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)

			c.mu.Unlock()
			select {
			case <-ctx.Done():
				c.mu.Lock()
				return ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
			c.mu.Lock()
			continue
		}

		c.connected = true
		logger.Log.Info("push channel joined",
			zap.String("tenant", c.cfg.Tenant),
			zap.Int("attempt", attempt),
		)
		return nil
	}

	return fmt.Errorf("не удалось подключиться к push-каналу: %w", lastErr)
}

// dialAndJoin устанавливает соединение и выполняет ровно одно присоединение
// к каналу арендатора: эксклюзивная очередь, привязанная к topic-обменнику
// по ключу арендатора, и запуск потребителя.
func (c *Channel) dialAndJoin() error {
	conn, err := amqp.Dial(c.cfg.URI)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return err
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		conn.Close()
		return err
	}

	bindingKey := fmt.Sprintf("orders.%s.*", c.cfg.Tenant)
	if err := ch.QueueBind(queue.Name, bindingKey, c.cfg.Exchange, false, nil); err != nil {
		conn.Close()
		return err
	}

	deliveries, err := ch.Consume(queue.Name, c.session, true, true, false, false, nil)
	if err != nil {
		conn.Close()
		return err
	}

	c.conn = conn
	c.ch = ch

	go c.dispatch(deliveries)
	go c.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	return nil
}

// dispatch доставляет события зарегистрированным обработчикам.
// Ошибки обработчиков никогда не покидают путь доставки событий.
func (c *Channel) dispatch(deliveries <-chan amqp.Delivery) {
	for delivery := range deliveries {
		c.mu.Lock()
		handler := c.handlers[delivery.Type]
		c.mu.Unlock()

		if handler == nil {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Error("push event handler panicked",
						zap.String("tenant", c.cfg.Tenant),
						zap.String("event", delivery.Type),
						zap.Any("panic", r),
					)
				}
			}()
			handler(delivery.Body)
		}()
	}
}

// watch следит за закрытием соединения и выполняет ограниченное
// переподключение. Успешное переподключение присоединяется к каналу
// арендатора ровно один раз.
func (c *Channel) watch(closed <-chan *amqp.Error) {
	err := <-closed

	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false

	if c.closed || err == nil {
		return
	}

	logger.Log.Info("push channel dropped, reconnecting",
		zap.String("tenant", c.cfg.Tenant),
		zap.Error(err),
	)

	if reconnectErr := c.connectLocked(context.Background()); reconnectErr != nil {
		logger.Log.Error("push channel reconnect failed",
			zap.String("tenant", c.cfg.Tenant),
			zap.Error(reconnectErr),
		)
	}
}

// OnEvent регистрирует ровно один обработчик на имя события.
// Повторная регистрация молча заменяет предыдущий обработчик.
func (c *Channel) OnEvent(event string, handler func(payload []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = Handler(handler)
}

// Connected сообщает наблюдаемое состояние подключённости канала.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected && !c.closed
}

// Disconnect разрывает соединение и снимает регистрации обработчиков.
// Безопасен при многократном вызове.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.connected = false
	c.handlers = map[string]Handler{}

	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}
	c.conn = nil
	c.ch = nil
}
