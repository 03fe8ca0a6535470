package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

// IOSMessaging is the platform-specific sub-facade. It follows the same
// validation/delegation contract as Messaging over a narrower surface; when
// the bridge has no iOS capability, every operation fails with
// UnsupportedOperation.
type IOSMessaging struct {
	native bridge.IOSNative // nil when the bridge has no iOS surface
	logger *slog.Logger
}

// GetAPNSToken returns the APNs device token for this app instance.
func (i *IOSMessaging) GetAPNSToken(ctx context.Context) (string, error) {
	if i.native == nil {
		return "", &UnsupportedOperationError{Module: "messaging.ios", Method: "GetAPNSToken"}
	}
	token, err := i.native.APNSToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get apns token: %w", err)
	}
	return token, nil
}

// RegisterForRemoteNotifications performs the remote-notification
// registration handshake.
func (i *IOSMessaging) RegisterForRemoteNotifications(ctx context.Context) error {
	if i.native == nil {
		return &UnsupportedOperationError{Module: "messaging.ios", Method: "RegisterForRemoteNotifications"}
	}
	if err := i.native.RegisterForRemoteNotifications(ctx); err != nil {
		return fmt.Errorf("register for remote notifications: %w", err)
	}
	return nil
}

// SetBadge sets the app icon badge count.
func (i *IOSMessaging) SetBadge(ctx context.Context, count int) error {
	if i.native == nil {
		return &UnsupportedOperationError{Module: "messaging.ios", Method: "SetBadge"}
	}
	if count < 0 {
		return &InvalidArgumentError{Argument: "count", Reason: "must not be negative"}
	}
	if err := i.native.SetBadge(ctx, count); err != nil {
		return fmt.Errorf("set badge: %w", err)
	}
	return nil
}

// GetBadge returns the current app icon badge count.
func (i *IOSMessaging) GetBadge(ctx context.Context) (int, error) {
	if i.native == nil {
		return 0, &UnsupportedOperationError{Module: "messaging.ios", Method: "GetBadge"}
	}
	count, err := i.native.Badge(ctx)
	if err != nil {
		return 0, fmt.Errorf("get badge: %w", err)
	}
	return count, nil
}
