package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/resto-dashboard/internal/middlewares"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/services"
)

// boardFromRequest возвращает движок оповещений арендатора текущего сотрудника.
// В случае ошибки пишет ответ и возвращает nil.
func boardFromRequest(w http.ResponseWriter, r *http.Request) models.BoardService {
	boardHub := middlewares.GetServiceFromContext[models.BoardHub](w, r, middlewares.BoardHubKey)
	if boardHub == nil {
		return nil
	}

	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return nil
	}

	board, err := (*boardHub).Board(user.Tenant)
	if err != nil {
		http.Error(w, fmt.Sprintf("Произошла ошибка при получении панели: %s", err.Error()), http.StatusInternalServerError)
		return nil
	}

	return board
}

// GetBoard возвращает срез состояния панели: корзины заказов, флаги
// оповещений и подсветки, баннер и состояние подключения.
func GetBoard(w http.ResponseWriter, r *http.Request) {
	board := boardFromRequest(w, r)
	if board == nil {
		return
	}

	middlewares.EncodeJSONResponse(w, board.Snapshot())
}

// applyStaffAction выполняет действие персонала над заказом и транслирует
// ошибки движка в HTTP-статусы. Отклонённый переход не меняет состояние
// оповещений, поэтому возвращается конфликт без побочных эффектов.
func applyStaffAction(w http.ResponseWriter, r *http.Request, action func(board models.BoardService, orderID int64) error) {
	board := boardFromRequest(w, r)
	if board == nil {
		return
	}

	orderID, ok := orderIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := action(board, orderID); err != nil {
		if errors.Is(err, services.ErrUnknownOrder) {
			http.Error(w, fmt.Sprintf("Заказ %d не найден", orderID), http.StatusNotFound)
			return
		}

		if errors.Is(err, services.ErrIllegalTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при обработке действия: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AcceptOrder принимает заказ в работу (pending → accepted).
func AcceptOrder(w http.ResponseWriter, r *http.Request) {
	applyStaffAction(w, r, func(board models.BoardService, orderID int64) error {
		return board.Accept(r.Context(), orderID)
	})
}

// DeliverOrder отмечает заказ выданным (accepted → delivered).
func DeliverOrder(w http.ResponseWriter, r *http.Request) {
	applyStaffAction(w, r, func(board models.BoardService, orderID int64) error {
		return board.Deliver(r.Context(), orderID)
	})
}

// CancelOrder отменяет заказ (pending → cancelled).
func CancelOrder(w http.ResponseWriter, r *http.Request) {
	applyStaffAction(w, r, func(board models.BoardService, orderID int64) error {
		return board.Cancel(r.Context(), orderID)
	})
}

// SetSound включает или выключает глобальный звуковой переключатель сессии.
func SetSound(w http.ResponseWriter, r *http.Request) {
	toggle := middlewares.GetParsedJSONData[models.SoundToggle](w, r)
	if toggle.Enabled == nil {
		http.Error(w, "Запрос не содержит флаг enabled", http.StatusBadRequest)
		return
	}

	board := boardFromRequest(w, r)
	if board == nil {
		return
	}

	board.SetSoundEnabled(*toggle.Enabled)
	w.WriteHeader(http.StatusOK)
}

// DismissBanner снимает текущий баннер по явному действию сотрудника.
func DismissBanner(w http.ResponseWriter, r *http.Request) {
	board := boardFromRequest(w, r)
	if board == nil {
		return
	}

	board.DismissBanner()
	w.WriteHeader(http.StatusOK)
}

// RefreshBoard выполняет ручную повторную загрузку авторитетного списка
// заказов: возможность повтора после сбоя загрузки.
func RefreshBoard(w http.ResponseWriter, r *http.Request) {
	board := boardFromRequest(w, r)
	if board == nil {
		return
	}

	if err := board.Refresh(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Не удалось обновить список заказов: %s", err.Error()), http.StatusBadGateway)
		return
	}

	middlewares.EncodeJSONResponse(w, board.Snapshot())
}
