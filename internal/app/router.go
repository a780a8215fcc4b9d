package router

import (
	"log"
	"net/http"

	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/Renal37/resto-dashboard/internal/middlewares"
	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/go-chi/chi/v5"
)

type Config struct {
	// Endpoint адрес и порт, на которых сервер будет слушать входящие запросы.
	Endpoint string
}

type Router struct {
	config       Config
	authService  models.AuthService
	jwtService   models.JWTService
	orderService models.OrderService
	boardHub     models.BoardHub
}

// New создает новый экземпляр Router с заданными зависимостями.
func New(
	config Config,
	authService models.AuthService,
	jwtService models.JWTService,
	orderService models.OrderService,
	boardHub models.BoardHub,
) *Router {
	return &Router{
		config:       config,
		authService:  authService,
		jwtService:   jwtService,
		orderService: orderService,
		boardHub:     boardHub,
	}
}

// get возвращает настроенный роутер.
func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	// Настройка промежуточного ПО (middleware) для роутера.
	r.Use(
		// Инжектор сервисов для предоставления сервисов в обработчиках.
		middlewares.ServiceInjectorMiddleware(
			router.authService,
			router.jwtService,
			router.orderService,
			router.boardHub,
		),
		// Логгер для регистрации запросов.
		logger.RequestLogger,
		// Middleware для проверки аутентификации, исключая указанные пути.
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/api/user/register",
			"/api/user/login",
		).Middleware,
	)

	// Маршруты аутентификации сотрудников.
	r.Route("/api/user", func(r chi.Router) {
		// Регистрация нового сотрудника.
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/register", Register)
		// Аутентификация сотрудника.
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/login", Login)
	})

	// Маршруты заказов: приём от потока заказов и два вызова,
	// от которых зависит движок оповещений.
	r.Route("/api/orders", func(r chi.Router) {
		// Приём заказа от внешнего потока заказов.
		r.With(middlewares.JSONMiddleware[models.OrderDraft]).Post("/", CreateOrder)
		// Авторитетный список заказов арендатора.
		r.Get("/", GetOrders)
		// Смена статуса заказа.
		r.With(middlewares.JSONMiddleware[models.StatusUpdate]).Patch("/{orderID}/status", UpdateOrderStatus)
	})

	// Маршруты сессии панели: граница представления движка оповещений.
	r.Route("/api/session", func(r chi.Router) {
		// Срез состояния панели.
		r.Get("/board", GetBoard)
		// Действия персонала над заказом.
		r.Post("/orders/{orderID}/accept", AcceptOrder)
		r.Post("/orders/{orderID}/deliver", DeliverOrder)
		r.Post("/orders/{orderID}/cancel", CancelOrder)
		// Глобальный звуковой переключатель.
		r.With(middlewares.JSONMiddleware[models.SoundToggle]).Post("/sound", SetSound)
		// Снятие баннера.
		r.Post("/banner/dismiss", DismissBanner)
		// Ручная повторная загрузка списка заказов.
		r.Post("/refresh", RefreshBoard)
	})

	return r
}

// Run запускает HTTP сервер на заданном endpoint и начинает принимать запросы.
func (router *Router) Run() {
	log.Fatal(http.ListenAndServe(router.config.Endpoint, router.get()))
}
