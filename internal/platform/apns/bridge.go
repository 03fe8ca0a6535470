// Package apns implements the iOS capability surface of the bridge against
// the Apple Push Notification service.
package apns

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"

	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

// APNSClient defines the subset of the apns2.Client methods we use.
// This allows mocking for unit tests.
type APNSClient interface {
	Push(n *apns2.Notification) (*apns2.Response, error)
}

// Config holds the credentials required to sign APNs tokens.
type Config struct {
	KeyID    string
	TeamID   string
	BundleID string
	// P8KeyContent is the raw string content of the .p8 file
	P8KeyContent string
}

// Bridge is the APNs-backed bridge.IOSNative. The OS hands the device token
// to the host application, which feeds it in via SetDeviceToken.
type Bridge struct {
	client APNSClient
	topic  string // The App Bundle ID (e.g. com.tinywide.messenger)
	logger *slog.Logger

	mu          sync.Mutex
	deviceToken string
	registered  bool
	badge       int
}

var _ bridge.IOSNative = (*Bridge)(nil)

// NewBridge creates a configured APNs bridge. It parses the P8 key
// immediately to fail fast on startup if credentials are bad.
func NewBridge(cfg Config, logger *slog.Logger) (*Bridge, error) {
	authKey, err := token.AuthKeyFromBytes([]byte(cfg.P8KeyContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse APNs P8 key: %w", err)
	}

	tokenSource := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	return NewBridgeWithClient(apns2.NewTokenClient(tokenSource), cfg.BundleID, logger), nil
}

// NewBridgeWithClient wires a prebuilt client; used by tests.
func NewBridgeWithClient(client APNSClient, bundleID string, logger *slog.Logger) *Bridge {
	return &Bridge{
		client: client,
		topic:  bundleID,
		logger: logger.With("component", "APNSBridge"),
	}
}

// SetDeviceToken records the APNs device token delivered by the OS to the
// host application.
func (b *Bridge) SetDeviceToken(deviceToken string) {
	b.mu.Lock()
	b.deviceToken = deviceToken
	b.mu.Unlock()
}

func (b *Bridge) APNSToken(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.registered {
		return "", fmt.Errorf("not registered for remote notifications")
	}
	if b.deviceToken == "" {
		return "", fmt.Errorf("no device token delivered yet")
	}
	return b.deviceToken, nil
}

func (b *Bridge) RegisterForRemoteNotifications(ctx context.Context) error {
	b.mu.Lock()
	b.registered = true
	b.mu.Unlock()
	b.logger.Info("Registered for remote notifications", "bundle_id", b.topic)
	return nil
}

// SetBadge updates the app icon badge with a background push carrying only
// the badge count.
func (b *Bridge) SetBadge(ctx context.Context, count int) error {
	b.mu.Lock()
	deviceToken := b.deviceToken
	b.mu.Unlock()
	if deviceToken == "" {
		return fmt.Errorf("no device token delivered yet")
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       b.topic,
		Payload:     payload.NewPayload().Badge(count),
	}

	res, err := b.client.Push(notification)
	if err != nil {
		return fmt.Errorf("apns transport failed: %w", err)
	}
	if !res.Sent() {
		switch res.Reason {
		case apns2.ReasonBadDeviceToken, apns2.ReasonUnregistered, apns2.ReasonDeviceTokenNotForTopic:
			return fmt.Errorf("apns rejected device token: %s", res.Reason)
		default:
			b.logger.Warn("APNs rejected badge push", "reason", res.Reason, "status", res.StatusCode)
			return fmt.Errorf("apns rejected badge push: %s", res.Reason)
		}
	}

	b.mu.Lock()
	b.badge = count
	b.mu.Unlock()
	return nil
}

func (b *Bridge) Badge(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badge, nil
}
