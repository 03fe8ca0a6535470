// Package redisbus delivers native messaging events over Redis pub/sub. It
// implements the bridge.EventSource contract for hosts whose platform pushes
// events through an external bus rather than an in-process emitter.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tinywideclouds/go-push-messaging/internal/events"
	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

// Source subscribes to the two fixed native channels and fans decoded
// payloads out to local subscribers.
type Source struct {
	rdb      *redis.Client
	sub      *redis.PubSub
	registry *events.Registry
	logger   *slog.Logger
	done     chan struct{}
}

var _ bridge.EventSource = (*Source)(nil)

func New(addr, password string, db int, logger *slog.Logger) (*Source, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Fail fast if connection is bad
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	s := &Source{
		rdb:      rdb,
		sub:      rdb.Subscribe(context.Background(), bridge.EventMessageReceived, bridge.EventTokenRefreshed),
		registry: events.NewRegistry(),
		logger:   logger.With("component", "RedisEventSource"),
		done:     make(chan struct{}),
	}
	go s.pump(s.sub.Channel())
	return s, nil
}

func (s *Source) SubscribeEvent(name string, fn func(payload any)) func() {
	return s.registry.Subscribe(name, fn)
}

// Close stops the subscription and waits for the pump to drain.
func (s *Source) Close() error {
	err := s.sub.Close()
	<-s.done
	if cerr := s.rdb.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Source) pump(ch <-chan *redis.Message) {
	defer close(s.done)
	for msg := range ch {
		s.deliver(msg.Channel, msg.Payload)
	}
}

func (s *Source) deliver(channel, raw string) {
	switch channel {
	case bridge.EventMessageReceived:
		payload, err := decodeMessagePayload(raw)
		if err != nil {
			s.logger.Warn("Dropping undecodable message event", "err", err)
			return
		}
		s.registry.Emit(channel, payload)
	case bridge.EventTokenRefreshed:
		token := decodeTokenPayload(raw)
		if token == "" {
			s.logger.Warn("Dropping empty token event")
			return
		}
		s.registry.Emit(channel, token)
	default:
		s.logger.Warn("Ignoring event on unknown channel", "channel", channel)
	}
}

func decodeMessagePayload(raw string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// decodeTokenPayload accepts the shapes the platform emits: a bare string, a
// JSON string, or {"token": "..."}.
func decodeTokenPayload(raw string) string {
	var wrapped struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Token != "" {
		return wrapped.Token
	}
	var quoted string
	if err := json.Unmarshal([]byte(raw), &quoted); err == nil {
		return quoted
	}
	return raw
}
