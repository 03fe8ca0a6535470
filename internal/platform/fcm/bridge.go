// Package fcm implements the native bridge contract against Firebase Cloud
// Messaging.
package fcm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/tinywideclouds/go-push-messaging/messaging/config"
	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
// Note: *messaging.Client automatically satisfies this interface.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

// TokenSource issues and revokes registration tokens for an app instance.
// Token issuance is not part of the Admin SDK surface, so it is injected.
type TokenSource interface {
	Token(ctx context.Context, appName, senderID string) (string, error)
	Delete(ctx context.Context, appName, senderID string) error
}

// Bridge is the FCM-backed bridge.Native. Topic operations apply to the most
// recently issued registration token, matching the one-app-instance model.
type Bridge struct {
	client MessagingClient
	tokens TokenSource
	logger *slog.Logger

	mu      sync.Mutex
	current string
}

var _ bridge.Native = (*Bridge)(nil)

// NewBridge accepts the concrete client but stores it as the interface.
func NewBridge(client MessagingClient, tokens TokenSource, logger *slog.Logger) *Bridge {
	return &Bridge{
		client: client,
		tokens: tokens,
		logger: logger.With("component", "FCMBridge"),
	}
}

// NewBridgeFromConfig builds the Firebase app and messaging client from
// credentials. It fails fast on bad credentials.
func NewBridgeFromConfig(ctx context.Context, cfg config.FCMConfig, tokens TokenSource, logger *slog.Logger) (*Bridge, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create fcm client: %w", err)
	}
	return NewBridge(client, tokens, logger), nil
}

func (b *Bridge) GetToken(ctx context.Context, appName, senderID string) (string, error) {
	if b.tokens == nil {
		return "", fmt.Errorf("no token source configured for app %q", appName)
	}
	token, err := b.tokens.Token(ctx, appName, senderID)
	if err != nil {
		return "", fmt.Errorf("fcm token issuance failed: %w", err)
	}
	b.mu.Lock()
	b.current = token
	b.mu.Unlock()
	return token, nil
}

func (b *Bridge) DeleteToken(ctx context.Context, appName, senderID string) error {
	if b.tokens == nil {
		return fmt.Errorf("no token source configured for app %q", appName)
	}
	if err := b.tokens.Delete(ctx, appName, senderID); err != nil {
		return fmt.Errorf("fcm token revocation failed: %w", err)
	}
	b.mu.Lock()
	b.current = ""
	b.mu.Unlock()
	return nil
}

// RequestPermission reports granted: notification permission is granted at
// install time on this platform, no prompt exists.
func (b *Bridge) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

func (b *Bridge) HasPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Send maps the native message map to an FCM message. A "to" of the form
// "/topics/<name>" targets the topic; anything else is a registration token.
func (b *Bridge) Send(ctx context.Context, raw map[string]any) error {
	msg := &messaging.Message{
		Data:    dataField(raw),
		Android: &messaging.AndroidConfig{},
	}

	to, _ := raw["to"].(string)
	if topic, ok := strings.CutPrefix(to, "/topics/"); ok {
		msg.Topic = topic
	} else {
		msg.Token = to
	}

	if key, ok := raw["collapseKey"].(string); ok {
		msg.Android.CollapseKey = key
	}
	if seconds, ok := raw["ttl"].(int64); ok && seconds >= 0 {
		ttl := time.Duration(seconds) * time.Second
		msg.Android.TTL = &ttl
	}

	id, err := b.client.Send(ctx, msg)
	if err != nil {
		if messaging.IsInvalidArgument(err) {
			b.logger.Error("FCM rejected message as InvalidArgument", "err", err)
			return fmt.Errorf("fcm rejected message: %w", err)
		}
		return fmt.Errorf("fcm transport failed: %w", err)
	}

	b.logger.Info("FCM message sent", "fcm_message_id", id)
	return nil
}

func (b *Bridge) SubscribeToTopic(ctx context.Context, topic string) error {
	token, err := b.requireToken()
	if err != nil {
		return err
	}
	resp, err := b.client.SubscribeToTopic(ctx, []string{token}, topic)
	if err != nil {
		return fmt.Errorf("fcm topic subscribe failed: %w", err)
	}
	return topicResult("subscribe", topic, resp)
}

func (b *Bridge) UnsubscribeFromTopic(ctx context.Context, topic string) error {
	token, err := b.requireToken()
	if err != nil {
		return err
	}
	resp, err := b.client.UnsubscribeFromTopic(ctx, []string{token}, topic)
	if err != nil {
		return fmt.Errorf("fcm topic unsubscribe failed: %w", err)
	}
	return topicResult("unsubscribe", topic, resp)
}

func (b *Bridge) Initialised(ctx context.Context) error {
	b.logger.Debug("Facade initialised")
	return nil
}

func (b *Bridge) requireToken() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == "" {
		return "", fmt.Errorf("no registration token issued; call GetToken first")
	}
	return b.current, nil
}

func topicResult(op, topic string, resp *messaging.TopicManagementResponse) error {
	if resp.FailureCount > 0 {
		reason := "unknown"
		if len(resp.Errors) > 0 {
			reason = resp.Errors[0].Reason
		}
		return fmt.Errorf("fcm topic %s %q failed: %s", op, topic, reason)
	}
	return nil
}

func dataField(raw map[string]any) map[string]string {
	switch data := raw["data"].(type) {
	case map[string]string:
		return data
	case map[string]any:
		out := make(map[string]string, len(data))
		for k, v := range data {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}
