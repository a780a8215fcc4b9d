package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Renal37/resto-dashboard/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует события push-канала в topic-обменник.
// Одним издателем пользуются все арендаторы процесса: арендатор задаётся
// ключом маршрутизации.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher устанавливает соединение с брокером и объявляет обменник.
func NewPublisher(uri, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к брокеру: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка открытия канала брокера: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка объявления обменника: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) publish(ctx context.Context, key, eventType string, body []byte) error {
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// PublishNewOrder публикует уведомление о новом заказе в канал арендатора.
func (p *Publisher) PublishNewOrder(ctx context.Context, tenant string, event models.NewOrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	key := fmt.Sprintf("orders.%s.created", tenant)
	if err := p.publish(ctx, key, EventOrderCreated, body); err != nil {
		return fmt.Errorf("ошибка публикации события: %w", err)
	}

	return nil
}

// PublishAlertCue публикует звуковой/визуальный сигнал оповещения для
// слоя представления арендатора.
func (p *Publisher) PublishAlertCue(ctx context.Context, tenant string, orderID int64) error {
	body, err := json.Marshal(map[string]int64{"order_id": orderID})
	if err != nil {
		return fmt.Errorf("ошибка сериализации сигнала: %w", err)
	}

	key := fmt.Sprintf("orders.%s.alert", tenant)
	return p.publish(ctx, key, EventAlertCue, body)
}

// Close закрывает соединение с брокером.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// TenantNotifier связывает издателя с одним арендатором и реализует
// примитив оповещения движка.
type TenantNotifier struct {
	publisher *Publisher
	tenant    string
}

// ForTenant возвращает примитив оповещения, привязанный к арендатору.
func (p *Publisher) ForTenant(tenant string) *TenantNotifier {
	return &TenantNotifier{publisher: p, tenant: tenant}
}

// Fire выполняет сигнал оповещения по заказу.
func (n *TenantNotifier) Fire(orderID int64) error {
	return n.publisher.PublishAlertCue(context.Background(), n.tenant, orderID)
}
