package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/lostfound/internal/domain"
)

// EventChannel is the redis pub/sub channel carrying state-transition
// events to every console replica.
const EventChannel = "lostfound:events"

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// Publish fans an event out to all subscribed replicas.
func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, EventChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime pumps events to output until ctx is cancelled. The input
// channel replaces the set of event types the consumer wants; an empty
// set means everything.
func (s *SignalService) Realtime(ctx context.Context, input chan []string, output chan domain.Event) {
	pubsub := s.rdb.Subscribe(ctx, EventChannel)
	defer pubsub.Close()

	filter := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case types, ok := <-input:
			if !ok {
				return
			}
			filter = map[string]bool{}
			for _, t := range types {
				filter[t] = true
			}
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if len(filter) > 0 && !filter[event.Type] {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
