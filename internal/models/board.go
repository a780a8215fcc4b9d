package models

import (
	"github.com/Renal37/resto-dashboard/internal/utils"
)

// OrderView представляет заказ в представлении панели вместе с флагами оповещения.
type OrderView struct {
	Order
	AlertActive bool `json:"alert_active"`
	Highlighted bool `json:"highlighted"`
}

// Banner представляет закреплённое уведомление о новом заказе.
// Одновременно показывается не более одного баннера на сессию арендатора.
type Banner struct {
	OrderID   int64             `json:"order_id"`
	Message   string            `json:"message"`
	Timestamp utils.RFC3339Date `json:"timestamp"`
}

// BoardSnapshot представляет срез состояния панели для слоя представления.
// Заказы разложены по корзинам в зависимости от статуса; отменённые заказы
// не попадают ни в одну корзину.
type BoardSnapshot struct {
	New            []OrderView `json:"new"`
	InProgress     []OrderView `json:"in_progress"`
	Finished       []OrderView `json:"finished"`
	Banner         *Banner     `json:"banner,omitempty"`
	Connected      bool        `json:"connected"`
	Attention      bool        `json:"attention"`
	SoundEnabled   bool        `json:"sound_enabled"`
	RetryAvailable bool        `json:"retry_available"`
}

// SoundToggle представляет тело запроса на включение/выключение звука.
type SoundToggle struct {
	Enabled *bool `json:"enabled"`
}
