// Package slotcache Redis-кэш рассчитанных наборов доступных слотов.
// Кэш никогда не является источником истины: финальная проверка при создании
// бронирования всегда идёт мимо кэша, а TTL лишь ограничивает устаревание
// для scope'ов, которые не были инвалидированы явно.
package slotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const keyPrefix = "availability"

var (
	// ErrMiss возвращается при отсутствии значения в кэше
	ErrMiss = errors.New("slotcache: cache miss")
)

// Cache кэш доступных слотов поверх Redis
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New создает кэш с указанным TTL
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get возвращает закэшированный набор слотов, либо ErrMiss
func (c *Cache) Get(ctx context.Context, businessID, serviceID int64, staffID *int64, date time.Time) ([]domain.AvailableSlot, error) {
	raw, err := c.rdb.Get(ctx, slotKey(businessID, serviceID, staffID, date)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slotcache: get failed: %w", err)
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// Повреждённое значение трактуем как промах - оно будет перезаписано
		return nil, ErrMiss
	}

	return slots, nil
}

// Set сохраняет набор слотов с TTL
func (c *Cache) Set(ctx context.Context, businessID, serviceID int64, staffID *int64, date time.Time, slots []domain.AvailableSlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("slotcache: marshal failed: %w", err)
	}

	if err := c.rdb.Set(ctx, slotKey(businessID, serviceID, staffID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("slotcache: set failed: %w", err)
	}

	return nil
}

// InvalidateDate удаляет все ключи бизнеса на дату.
// Бронирование сотрудника меняет доступность каждой услуги, которую он обслуживает,
// поэтому инвалидация идёт по всем услугам и сотрудникам бизнеса на эту дату.
// Вызывается синхронно в каждом мутирующем пути (create/cancel/reschedule).
func (c *Cache) InvalidateDate(ctx context.Context, businessID int64, date time.Time) error {
	pattern := fmt.Sprintf("%s:%d:*:%s", keyPrefix, businessID, date.Format(domain.DateFormat))
	return c.deleteByPattern(ctx, pattern)
}

// InvalidateBusiness удаляет все ключи бизнеса (смена расписания или политики)
func (c *Cache) InvalidateBusiness(ctx context.Context, businessID int64) error {
	pattern := fmt.Sprintf("%s:%d:*", keyPrefix, businessID)
	return c.deleteByPattern(ctx, pattern)
}

func (c *Cache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slotcache: scan failed: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("slotcache: delete failed: %w", err)
	}

	return nil
}

func slotKey(businessID, serviceID int64, staffID *int64, date time.Time) string {
	staffKey := "any"
	if staffID != nil {
		staffKey = fmt.Sprintf("%d", *staffID)
	}
	return fmt.Sprintf("%s:%d:%d:%s:%s", keyPrefix, businessID, serviceID, date.Format(domain.DateFormat), staffKey)
}
