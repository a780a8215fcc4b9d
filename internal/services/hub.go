package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Renal37/resto-dashboard/internal/models"
)

var ErrNoTenant = errors.New("не указан арендатор")

// EngineFactory создает движок оповещений для сессии арендатора.
type EngineFactory func(tenant string) *Engine

// BoardHubService выдаёт по одному движку оповещений на арендатора.
// Движки создаются лениво при первом обращении сессии и живут до остановки
// процесса; состояние между арендаторами не разделяется.
type BoardHubService struct {
	ctx     context.Context
	factory EngineFactory

	mu     sync.Mutex
	boards map[string]*Engine
}

// NewBoardHubService создает новый экземпляр BoardHubService.
func NewBoardHubService(ctx context.Context, factory EngineFactory) *BoardHubService {
	return &BoardHubService{
		ctx:     ctx,
		factory: factory,
		boards:  map[string]*Engine{},
	}
}

// Board возвращает движок оповещений арендатора, при необходимости создавая
// и запуская его.
func (h *BoardHubService) Board(tenant string) (models.BoardService, error) {
	if tenant == "" {
		return nil, ErrNoTenant
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if engine, ok := h.boards[tenant]; ok {
		return engine, nil
	}

	engine := h.factory(tenant)
	engine.Run(h.ctx)
	h.boards[tenant] = engine

	return engine, nil
}

// Shutdown освобождает все движки: останавливает тики оповещений и
// отключает push-каналы.
func (h *BoardHubService) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tenant, engine := range h.boards {
		engine.Dispose()
		delete(h.boards, tenant)
	}
}
