package models

import (
	"github.com/Renal37/resto-dashboard/internal/utils"
)

type OrderStatus string

// Статусы заказа. Единственное каноническое написание принятого заказа: "accepted".
const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// IsValid проверяет, что статус является одним из известных значений.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes,omitempty"`
}

// Order представляет заказ ресторана, принадлежащий одному арендатору (tenant).
// Заказ создаётся внешним потоком заказов и изменяется только через смену статуса.
type Order struct {
	ID           int64             `json:"id"`
	Status       OrderStatus       `json:"status"`
	CustomerName string            `json:"customer_name"`
	Items        []OrderItem       `json:"items"`
	TotalAmount  float64           `json:"total_amount"`
	TipAmount    float64           `json:"tip_amount"`
	CreatedAt    utils.RFC3339Date `json:"created_at"`
}

// OrderDraft представляет входящие данные заказа от внешнего потока заказов.
type OrderDraft struct {
	CustomerName *string     `json:"customer_name"`
	Items        []OrderItem `json:"items"`
	TipAmount    float64     `json:"tip_amount"`
}

// StatusUpdate представляет тело запроса на смену статуса заказа.
type StatusUpdate struct {
	Status *OrderStatus `json:"status"`
}

// NewOrderEvent представляет событие push-канала о появлении нового заказа.
// Событие является сигналом: источником истины остаётся авторитетный список заказов.
type NewOrderEvent struct {
	OrderID      int64   `json:"order_id"`
	Tenant       string  `json:"tenant"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
}
