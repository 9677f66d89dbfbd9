package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/campuskit/lostfound/internal/domain"
)

var tracer = otel.Tracer("service")

// counterTTL keeps yesterday's counters around briefly so a publish right
// at the campus-day boundary still lands on a live key.
const counterTTL = 48 * time.Hour

// RateLimitService counts publishes per account per campus day in redis.
type RateLimitService struct {
	rdb *redis.Client
}

func NewRateLimitService(redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		rdb: redisClient,
	}
}

// Allow consumes one publish slot for the account. It reports false once
// the account has reached limit publishes within the current campus day.
func (s *RateLimitService) Allow(ctx context.Context, publisher string, limit int, now time.Time) (bool, error) {
	ctx, span := tracer.Start(ctx, "RateLimit.Service.Allow")
	defer span.End()

	key := fmt.Sprintf("publish:%s:%s", domain.DayKey(now), publisher)

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return false, errors.Wrap(err, "failed to increment publish counter")
	}

	if count == 1 {
		if err := s.rdb.Expire(ctx, key, counterTTL).Err(); err != nil {
			span.RecordError(err)
			return false, errors.Wrap(err, "failed to expire publish counter")
		}
	}

	if count > int64(limit) {
		// Undo the slot so a later retry within the day is not double
		// charged for this rejected attempt.
		if err := s.rdb.Decr(ctx, key).Err(); err != nil {
			span.RecordError(err)
		}
		return false, nil
	}

	return true, nil
}
