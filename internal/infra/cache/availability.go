package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// AvailabilityCache кеш рассчитанных слотов доступности в Redis.
// Ключ включает дату, услугу и набор дополнений, поэтому любое изменение
// записей на дату инвалидирует все ключи этой даты разом.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewAvailabilityCache создает кеш доступности поверх Redis клиента
func NewAvailabilityCache(client *redis.Client, ttl time.Duration, logger Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get возвращает закешированные слоты или (nil, false), если ключа нет.
// Ошибки Redis не пробрасываются: кеш-промах дешевле отказа запроса.
func (c *AvailabilityCache) Get(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64) ([]domain.Slot, bool) {
	raw, err := c.client.Get(ctx, c.key(date, serviceID, addOnIDs)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("AvailabilityCache.Get - redis get failed: %v", err)
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		c.logger.Warn("AvailabilityCache.Get - unmarshal cached slots: %v", err)
		return nil, false
	}

	return slots, true
}

// Set сохраняет рассчитанные слоты с TTL
func (c *AvailabilityCache) Set(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64, slots []domain.Slot) {
	data, err := json.Marshal(slots)
	if err != nil {
		c.logger.Warn("AvailabilityCache.Set - marshal slots: %v", err)
		return
	}

	if err := c.client.Set(ctx, c.key(date, serviceID, addOnIDs), data, c.ttl).Err(); err != nil {
		c.logger.Warn("AvailabilityCache.Set - redis set failed: %v", err)
	}
}

// InvalidateDate удаляет все закешированные расчеты на дату.
// Вызывается после любой записи, меняющей занятость дня.
func (c *AvailabilityCache) InvalidateDate(ctx context.Context, date time.Time) {
	pattern := fmt.Sprintf("availability:%s:*", date.Format(domain.DateFormat))

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("AvailabilityCache.InvalidateDate - redis del %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("AvailabilityCache.InvalidateDate - redis scan failed: %v", err)
	}
}

func (c *AvailabilityCache) key(date time.Time, serviceID int64, addOnIDs []int64) string {
	ids := make([]int64, len(addOnIDs))
	copy(ids, addOnIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}

	return fmt.Sprintf("availability:%s:%d:%s", date.Format(domain.DateFormat), serviceID, strings.Join(parts, ","))
}
