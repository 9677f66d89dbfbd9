package cache

import (
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/campuskit/lostfound/internal/domain"
)

// statsTTL keeps projections fresh enough for a console dashboard without
// recomputing on every page load.
const statsTTL = 60

// StatsCache stores computed statistics projections in memcached.
type StatsCache struct {
	mc *memcache.Client
}

func NewStatsCache(mc *memcache.Client) *StatsCache {
	return &StatsCache{mc: mc}
}

func (c *StatsCache) Get(key string) ([]domain.StatsRow, bool) {
	item, err := c.mc.Get(key)
	if err != nil {
		return nil, false
	}

	var rows []domain.StatsRow
	if err := json.Unmarshal(item.Value, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *StatsCache) Set(key string, rows []domain.StatsRow) {
	value, err := json.Marshal(rows)
	if err != nil {
		return
	}

	// A failed write just means the next read recomputes.
	_ = c.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: statsTTL,
	})
}
