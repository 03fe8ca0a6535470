// Package bridge defines the contract between the messaging facade and a
// platform push-messaging implementation, plus the event channels the
// platform delivers inbound events on.
package bridge

import "context"

// Native event channel names. These are fixed by the platform counterpart and
// must not change.
const (
	EventMessageReceived = "messaging_message_received"
	EventTokenRefreshed  = "messaging_token_refreshed"
)

// Native is the outbound contract of a push-messaging platform. Each
// operation is opaque: delivery, retry and token lifecycle all live behind
// this interface, not in the facade.
type Native interface {
	// GetToken returns the registration token for the app/sender pair.
	GetToken(ctx context.Context, appName, senderID string) (string, error)

	// DeleteToken revokes the registration token for the app/sender pair.
	DeleteToken(ctx context.Context, appName, senderID string) error

	// RequestPermission prompts for notification permission where the
	// platform requires a prompt, and reports whether it was granted.
	RequestPermission(ctx context.Context) (bool, error)

	// HasPermission reports whether notification permission is granted.
	HasPermission(ctx context.Context) (bool, error)

	// Send delivers an upstream message, supplied as a native-compatible map.
	Send(ctx context.Context, message map[string]any) error

	// SubscribeToTopic subscribes this app instance to the topic.
	SubscribeToTopic(ctx context.Context, topic string) error

	// UnsubscribeFromTopic removes this app instance from the topic.
	UnsubscribeFromTopic(ctx context.Context, topic string) error

	// Initialised tells the platform the facade is ready to receive events.
	// Only called when the host enables it; see messaging.Config.
	Initialised(ctx context.Context) error
}

// IOSNative is the optional platform-specific surface. Bridges that do not
// serve an APNs-backed platform simply do not implement it.
type IOSNative interface {
	// APNSToken returns the APNs device token for this app instance.
	APNSToken(ctx context.Context) (string, error)

	// RegisterForRemoteNotifications performs the remote-notification
	// registration handshake with the platform.
	RegisterForRemoteNotifications(ctx context.Context) error

	// SetBadge sets the app icon badge count.
	SetBadge(ctx context.Context, count int) error

	// Badge returns the current app icon badge count.
	Badge(ctx context.Context) (int, error)
}

// EventSource delivers inbound native events. Implementations fan each event
// out to every subscriber of its channel; the returned cancel func removes
// exactly that subscription.
type EventSource interface {
	SubscribeEvent(name string, fn func(payload any)) (cancel func())
}
