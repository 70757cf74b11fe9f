package cache

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// NoopCache заглушка кеша при выключенном Redis: каждый запрос
// доступности считается заново из базы.
type NoopCache struct{}

// NewNoopCache создает заглушку кеша
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get всегда возвращает кеш-промах
func (c *NoopCache) Get(_ context.Context, _ time.Time, _ int64, _ []int64) ([]domain.Slot, bool) {
	return nil, false
}

// Set ничего не сохраняет
func (c *NoopCache) Set(_ context.Context, _ time.Time, _ int64, _ []int64, _ []domain.Slot) {}

// InvalidateDate ничего не делает
func (c *NoopCache) InvalidateDate(_ context.Context, _ time.Time) {}
