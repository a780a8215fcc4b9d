package models

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

//go:generate mockgen -destination=mocks/mock_auth.go . AuthService
type AuthService interface {
	Register(ctx context.Context, user UnknownUser) error

	Login(ctx context.Context, user UnknownUser) error

	GetUser(ctx context.Context, login string) (*User, error)
}

//go:generate mockgen -destination=mocks/mock_jwt.go . JWTService
type JWTService interface {
	GenerateJWT(subject string) (string, error)

	ValidateToken(token string) (*jwt.Token, error)
}

//go:generate mockgen -destination=mocks/mock_order.go . OrderService
type OrderService interface {
	CreateOrder(ctx context.Context, tenant string, draft OrderDraft) (Order, error)

	ListOrders(ctx context.Context, tenant string) ([]Order, error)

	UpdateStatus(ctx context.Context, tenant string, orderID int64, status OrderStatus) error
}

//go:generate mockgen -destination=mocks/mock_board.go . BoardService
type BoardService interface {
	Snapshot() BoardSnapshot

	Accept(ctx context.Context, orderID int64) error

	Deliver(ctx context.Context, orderID int64) error

	Cancel(ctx context.Context, orderID int64) error

	SetSoundEnabled(enabled bool)

	DismissBanner()

	Refresh(ctx context.Context) error
}

//go:generate mockgen -destination=mocks/mock_hub.go . BoardHub
type BoardHub interface {
	Board(tenant string) (BoardService, error)
}
