// Package messaging provides the client-side facade over a push-messaging
// platform bridge: registration tokens, topic subscription, foreground
// message delivery and permission requests. Every operation validates its
// arguments and forwards to the bridge; inbound native events are re-emitted
// under stable public channel names on a registry owned by the facade.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tinywideclouds/go-push-messaging/internal/events"
	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

// Public event channel names.
const (
	ChannelMessage      = "onMessage"
	ChannelTokenRefresh = "onTokenRefresh"
)

// Unsubscribe removes exactly the listener registration that produced it.
type Unsubscribe func()

// Config carries the facade's identity and host capabilities.
type Config struct {
	// AppName is the owning application's name, the default for token
	// operations. Required.
	AppName string

	// SenderID is the configured sender id, the default for token operations.
	// Must be numeric when set.
	SenderID string

	// NotifyNativeOnInit makes New call Native.Initialised once. Hosts whose
	// platform expects an initialisation handshake set this; it replaces any
	// runtime platform check.
	NotifyNativeOnInit bool
}

// Messaging is the push-messaging facade. One instance per application
// object; construct with New.
type Messaging struct {
	cfg      Config
	native   bridge.Native
	registry *events.Registry
	logger   *slog.Logger
	ios      *IOSMessaging

	cancelNative []func()
}

// New assembles the facade: it validates the config, subscribes to the two
// native event channels on source, and optionally performs the platform
// initialisation handshake.
func New(ctx context.Context, cfg Config, native bridge.Native, source bridge.EventSource, logger *slog.Logger) (*Messaging, error) {
	if strings.TrimSpace(cfg.AppName) == "" {
		return nil, &InvalidArgumentError{Argument: "cfg.AppName", Reason: "must not be blank"}
	}
	if cfg.SenderID != "" && !isNumeric(cfg.SenderID) {
		return nil, &InvalidArgumentError{Argument: "cfg.SenderID", Reason: "must be a numeric sender id"}
	}
	if native == nil {
		return nil, &InvalidArgumentError{Argument: "native", Reason: "bridge must not be nil"}
	}
	if source == nil {
		return nil, &InvalidArgumentError{Argument: "source", Reason: "event source must not be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Messaging{
		cfg:      cfg,
		native:   native,
		registry: events.NewRegistry(),
		logger:   logger.With("component", "Messaging", "app", cfg.AppName),
	}

	// Native channel names are fixed by the platform counterpart.
	m.cancelNative = []func(){
		source.SubscribeEvent(bridge.EventMessageReceived, m.handleNativeMessage),
		source.SubscribeEvent(bridge.EventTokenRefreshed, m.handleNativeTokenRefresh),
	}

	if cfg.NotifyNativeOnInit {
		if err := native.Initialised(ctx); err != nil {
			m.Close()
			return nil, fmt.Errorf("native initialisation failed: %w", err)
		}
	}

	iosNative, _ := native.(bridge.IOSNative)
	m.ios = &IOSMessaging{
		native: iosNative,
		logger: logger.With("component", "IOSMessaging", "app", cfg.AppName),
	}

	return m, nil
}

// Close detaches the facade from the native event channels. Listeners
// registered on the public channels stop receiving events.
func (m *Messaging) Close() {
	for _, cancel := range m.cancelNative {
		cancel()
	}
	m.cancelNative = nil
}

// IOS returns the platform-specific sub-facade. Its operations fail with
// UnsupportedOperation when the bridge has no iOS surface.
func (m *Messaging) IOS() *IOSMessaging {
	return m.ios
}

// --- Token operations ---

// GetToken returns the registration token for the app/sender pair. Empty
// arguments fall back to the configured defaults; malformed arguments fail
// with InvalidArgument before any bridge delegation.
func (m *Messaging) GetToken(ctx context.Context, appName, senderID string) (string, error) {
	appName, senderID, err := m.resolveTokenArgs(appName, senderID)
	if err != nil {
		return "", err
	}
	token, err := m.native.GetToken(ctx, appName, senderID)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// DeleteToken revokes the registration token for the app/sender pair. Same
// argument contract as GetToken.
func (m *Messaging) DeleteToken(ctx context.Context, appName, senderID string) error {
	appName, senderID, err := m.resolveTokenArgs(appName, senderID)
	if err != nil {
		return err
	}
	if err := m.native.DeleteToken(ctx, appName, senderID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (m *Messaging) resolveTokenArgs(appName, senderID string) (string, string, error) {
	if appName == "" {
		appName = m.cfg.AppName
	} else if strings.TrimSpace(appName) == "" {
		return "", "", &InvalidArgumentError{Argument: "appName", Reason: "must not be blank"}
	}
	if senderID == "" {
		senderID = m.cfg.SenderID
	} else if !isNumeric(senderID) {
		return "", "", &InvalidArgumentError{Argument: "senderID", Reason: "must be a numeric sender id"}
	}
	return appName, senderID, nil
}

// --- Listener registration ---

// OnMessage registers a handler for inbound messages on the public onMessage
// channel. The handler is either a plain callback or an observer; the
// returned Unsubscribe removes exactly this registration.
func (m *Messaging) OnMessage(h MessageHandler) (Unsubscribe, error) {
	next, err := resolveMessageHandler(h)
	if err != nil {
		return nil, err
	}
	cancel := m.registry.Subscribe(ChannelMessage, func(payload any) {
		if msg, ok := payload.(*RemoteMessage); ok {
			next(msg)
		}
	})
	return Unsubscribe(cancel), nil
}

// OnTokenRefresh registers a handler for token-refresh events on the public
// onTokenRefresh channel. The payload is the raw token string.
func (m *Messaging) OnTokenRefresh(h TokenHandler) (Unsubscribe, error) {
	next, err := resolveTokenHandler(h)
	if err != nil {
		return nil, err
	}
	cancel := m.registry.Subscribe(ChannelTokenRefresh, func(payload any) {
		if token, ok := payload.(string); ok {
			next(token)
		}
	})
	return Unsubscribe(cancel), nil
}

// --- Permissions ---

func (m *Messaging) RequestPermission(ctx context.Context) (bool, error) {
	granted, err := m.native.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	return granted, nil
}

func (m *Messaging) HasPermission(ctx context.Context) (bool, error) {
	granted, err := m.native.HasPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("has permission: %w", err)
	}
	return granted, nil
}

// --- Sending ---

// SendMessage serializes the message and delegates to the bridge. The error
// surface is uniform: a wrong-typed message comes back as a TypeMismatch
// error, and a panic from serialization or the bridge comes back as a
// returned error, never a panic to the caller.
func (m *Messaging) SendMessage(ctx context.Context, msg *RemoteMessage) (err error) {
	if msg == nil {
		return &TypeMismatchError{Expected: "RemoteMessage", Received: "nil"}
	}
	if !msg.built {
		return &TypeMismatchError{Expected: "RemoteMessage", Received: "unbuilt RemoteMessage literal (use NewRemoteMessage)"}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send message: %v", r)
		}
	}()

	if err := m.native.Send(ctx, msg.ToNative()); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// --- Topics ---

func (m *Messaging) SubscribeToTopic(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return &InvalidArgumentError{Argument: "topic", Reason: "must not be blank"}
	}
	if err := m.native.SubscribeToTopic(ctx, topic); err != nil {
		return fmt.Errorf("subscribe to topic %q: %w", topic, err)
	}
	return nil
}

func (m *Messaging) UnsubscribeFromTopic(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return &InvalidArgumentError{Argument: "topic", Reason: "must not be blank"}
	}
	if err := m.native.UnsubscribeFromTopic(ctx, topic); err != nil {
		return fmt.Errorf("unsubscribe from topic %q: %w", topic, err)
	}
	return nil
}

// --- Web-parity operations ---

// SetBackgroundMessageHandler exists for API parity with the web sibling;
// background handling lives in the native layer on this platform.
func (m *Messaging) SetBackgroundMessageHandler(MessageHandler) error {
	return &UnsupportedOperationError{Module: "messaging", Method: "SetBackgroundMessageHandler"}
}

// UseServiceWorker exists for API parity with the web sibling.
func (m *Messaging) UseServiceWorker() error {
	return &UnsupportedOperationError{Module: "messaging", Method: "UseServiceWorker"}
}

// --- Native event plumbing ---

func (m *Messaging) handleNativeMessage(payload any) {
	raw, ok := payload.(map[string]any)
	if !ok {
		m.logger.Warn("Dropping malformed native message event", "payload_type", fmt.Sprintf("%T", payload))
		return
	}
	m.registry.Emit(ChannelMessage, remoteMessageFromNative(raw))
}

func (m *Messaging) handleNativeTokenRefresh(payload any) {
	token, ok := payload.(string)
	if !ok {
		m.logger.Warn("Dropping malformed native token event", "payload_type", fmt.Sprintf("%T", payload))
		return
	}
	m.registry.Emit(ChannelTokenRefresh, token)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
