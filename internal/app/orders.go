package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Renal37/resto-dashboard/internal/middlewares"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/services"
	"github.com/go-chi/chi/v5"
)

// orderIDFromRequest извлекает идентификатор заказа из URL.
// В случае ошибки возвращает HTTP 422 и false.
func orderIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Идентификатор заказа недействителен", http.StatusUnprocessableEntity)
		return 0, false
	}
	return orderID, true
}

// CreateOrder обрабатывает приём заказа от внешнего потока заказов.
// Заказ сохраняется в авторитетном хранилище, после чего публикуется
// уведомление push-канала для панелей арендатора.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	// Извлекаем данные заказа из тела запроса.
	draft := middlewares.GetParsedJSONData[models.OrderDraft](w, r)

	// Получаем сервис заказов из контекста запроса.
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	// Получаем информацию о текущем сотруднике из контекста запроса.
	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	// Пытаемся создать новый заказ.
	order, err := (*orderService).CreateOrder(r.Context(), user.Tenant, draft)
	if err != nil {
		// Обрабатываем ошибку валидации данных заказа.
		if errors.Is(err, services.ErrInvalidDraft) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		// Обрабатываем другие возможные ошибки при создании заказа.
		http.Error(w, fmt.Sprintf("Произошла ошибка при создании заказа: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	// Кодируем созданный заказ в формат JSON и отправляем в ответе.
	middlewares.EncodeJSONResponse(w, order)
}

// GetOrders обрабатывает запрос авторитетного списка заказов арендатора.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	// Получаем сервис заказов из контекста запроса.
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	// Получаем информацию о текущем сотруднике из контекста запроса.
	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	// Пытаемся получить список заказов арендатора.
	orders, err := (*orderService).ListOrders(r.Context(), user.Tenant)
	if err != nil {
		http.Error(w, fmt.Sprintf("Произошла ошибка при получении заказов: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	// Если заказов нет, возвращаем статус "Нет контента".
	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Кодируем список заказов в формат JSON и отправляем в ответе.
	middlewares.EncodeJSONResponse(w, orders)
}

// UpdateOrderStatus обрабатывает запрос на смену статуса заказа.
// Недопустимый переход машины состояний отклоняется без изменения заказа.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromRequest(w, r)
	if !ok {
		return
	}

	// Извлекаем целевой статус из тела запроса.
	update := middlewares.GetParsedJSONData[models.StatusUpdate](w, r)
	if update.Status == nil {
		http.Error(w, "Запрос не содержит целевой статус", http.StatusBadRequest)
		return
	}

	// Получаем сервис заказов из контекста запроса.
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	// Получаем информацию о текущем сотруднике из контекста запроса.
	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	// Пытаемся выполнить смену статуса.
	if err := (*orderService).UpdateStatus(r.Context(), user.Tenant, orderID, *update.Status); err != nil {
		// Обрабатываем ошибку отсутствия заказа.
		if errors.Is(err, services.ErrUnknownOrder) {
			http.Error(w, fmt.Sprintf("Заказ %d не найден", orderID), http.StatusNotFound)
			return
		}

		// Обрабатываем недопустимый переход статуса.
		if errors.Is(err, services.ErrIllegalTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		// Обрабатываем другие возможные ошибки при смене статуса.
		http.Error(w, fmt.Sprintf("Произошла ошибка при смене статуса: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
