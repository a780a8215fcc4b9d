package main

import (
	"context"
	"log"

	router "github.com/Renal37/resto-dashboard/internal/app"
	"github.com/Renal37/resto-dashboard/internal/database"
	"github.com/Renal37/resto-dashboard/internal/logger"
	"github.com/Renal37/resto-dashboard/internal/push"
	"github.com/Renal37/resto-dashboard/internal/services"
	"github.com/Renal37/resto-dashboard/internal/utils"
)

func main() {
	ctx := context.Background()
	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	db, err := database.New(ctx, config.dsn)

	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	publisher, err := push.NewPublisher(config.amqpURI, push.DefaultExchange)

	if err != nil {
		log.Fatalf("Push channel publisher wasn't initialized due to %s", err)
	}

	orderService := services.NewOrderService(db, publisher)

	// Источник авторитетного списка заказов для движка: локальная база
	// либо удалённый сервис заказов, если задан его адрес.
	var source services.OrderSource = orderService
	var writer services.StatusWriter = orderService
	if config.ordersEndpoint != "" {
		remote := services.NewRemoteOrderSource(config.ordersEndpoint, config.ordersToken)
		source = remote
		writer = remote
	}

	boardHub := services.NewBoardHubService(ctx, func(tenant string) *services.Engine {
		channel := push.NewChannel(push.Config{
			URI:    config.amqpURI,
			Tenant: tenant,
		})
		return services.NewEngine(
			services.EngineConfig{Tenant: tenant},
			source,
			writer,
			channel,
			publisher.ForTenant(tenant),
		)
	})

	utils.HandleTerminationProcess(func() {
		boardHub.Shutdown()
		publisher.Close()
		db.Close()
	})

	log.Printf("Running server on %s\n", config.endpoint)

	router.New(
		router.Config{Endpoint: config.endpoint},
		services.NewAuthService(db),
		services.NewJWTService(config.authSecretKey),
		orderService,
		boardHub,
	).Run()
}
