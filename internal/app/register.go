package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/resto-dashboard/internal/middlewares"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/Renal37/resto-dashboard/internal/services"
)

// Register обрабатывает запрос на регистрацию нового сотрудника ресторана.
func Register(w http.ResponseWriter, r *http.Request) {
	// Извлекаем данные сотрудника из тела запроса.
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)

	// Получаем сервисы аутентификации и JWT из контекста запроса.
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)
	if authService == nil || jwtService == nil {
		return
	}

	// Проверяем, что запрос содержит логин и пароль.
	if ok := IsUnknownUserDataValid(data); !ok {
		http.Error(w, "Запрос не содержит логин или пароль", http.StatusBadRequest)
		return
	}

	// Генерируем JWT токен заранее, чтобы вернуть его сразу после регистрации.
	token, err := (*jwtService).GenerateJWT(*data.Login)
	if err != nil {
		http.Error(w, fmt.Sprintf("Ошибка при генерации JWT токена: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	// Пытаемся зарегистрировать сотрудника.
	if err := (*authService).Register(r.Context(), data); err != nil {
		// Обрабатываем ошибку, если сотрудник уже зарегистрирован.
		if errors.Is(err, services.ErrUserIsAlreadyRegistered) {
			http.Error(w, "Пользователь уже зарегистрирован", http.StatusConflict)
			return
		}

		// Обрабатываем ошибку отсутствия ресторана в данных регистрации.
		if errors.Is(err, services.ErrNoTenantSpecified) {
			http.Error(w, "Не указан ресторан сотрудника", http.StatusBadRequest)
			return
		}

		// Обрабатываем другие ошибки при регистрации.
		http.Error(w, fmt.Sprintf("Произошла ошибка при регистрации: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	// Устанавливаем токен в заголовок ответа.
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
}
