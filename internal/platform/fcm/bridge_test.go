package fcm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-push-messaging/internal/platform/fcm"
)

// MockClient satisfies the MessagingClient interface
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockClient) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.TopicManagementResponse), args.Error(1)
}

func (m *MockClient) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.TopicManagementResponse), args.Error(1)
}

type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) Token(ctx context.Context, appName, senderID string) (string, error) {
	args := m.Called(ctx, appName, senderID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenSource) Delete(ctx context.Context, appName, senderID string) error {
	return m.Called(ctx, appName, senderID).Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridge_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps token target, data, collapse key and TTL", func(t *testing.T) {
		mockClient := new(MockClient)
		b := fcm.NewBridge(mockClient, nil, newTestLogger())

		mockClient.On("Send", ctx, mock.MatchedBy(func(msg *messaging.Message) bool {
			return msg.Token == "device-token" &&
				msg.Topic == "" &&
				msg.Data["k"] == "v" &&
				msg.Android.CollapseKey == "ck" &&
				msg.Android.TTL != nil && *msg.Android.TTL == 90*time.Second
		})).Return("projects/p/messages/1", nil)

		err := b.Send(ctx, map[string]any{
			"to":          "device-token",
			"collapseKey": "ck",
			"ttl":         int64(90),
			"data":        map[string]string{"k": "v"},
		})

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Topic-form target maps to Topic", func(t *testing.T) {
		mockClient := new(MockClient)
		b := fcm.NewBridge(mockClient, nil, newTestLogger())

		mockClient.On("Send", ctx, mock.MatchedBy(func(msg *messaging.Message) bool {
			return msg.Topic == "news" && msg.Token == ""
		})).Return("projects/p/messages/2", nil)

		err := b.Send(ctx, map[string]any{"to": "/topics/news"})

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transport failure propagates", func(t *testing.T) {
		mockClient := new(MockClient)
		b := fcm.NewBridge(mockClient, nil, newTestLogger())
		mockClient.On("Send", ctx, mock.Anything).Return("", errors.New("network down"))

		err := b.Send(ctx, map[string]any{"to": "device-token"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "transport failed")
	})

	// Note: We rely on the Integration Test to verify the specific parsing of
	// IsInvalidArgument responses, as mocking the internal error types of the
	// Firebase SDK is brittle.
}

func TestBridge_Tokens(t *testing.T) {
	ctx := context.Background()

	t.Run("GetToken delegates to the token source", func(t *testing.T) {
		mockTokens := new(MockTokenSource)
		b := fcm.NewBridge(new(MockClient), mockTokens, newTestLogger())
		mockTokens.On("Token", ctx, "app", "123").Return("reg-token", nil)

		token, err := b.GetToken(ctx, "app", "123")

		require.NoError(t, err)
		assert.Equal(t, "reg-token", token)
		mockTokens.AssertExpectations(t)
	})

	t.Run("DeleteToken delegates and clears the current token", func(t *testing.T) {
		mockClient := new(MockClient)
		mockTokens := new(MockTokenSource)
		b := fcm.NewBridge(mockClient, mockTokens, newTestLogger())
		mockTokens.On("Token", ctx, "app", "123").Return("reg-token", nil)
		mockTokens.On("Delete", ctx, "app", "123").Return(nil)

		_, err := b.GetToken(ctx, "app", "123")
		require.NoError(t, err)
		require.NoError(t, b.DeleteToken(ctx, "app", "123"))

		// Topic operations now have no token to apply to.
		err = b.SubscribeToTopic(ctx, "news")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no registration token")
	})

	t.Run("Missing token source fails clearly", func(t *testing.T) {
		b := fcm.NewBridge(new(MockClient), nil, newTestLogger())

		_, err := b.GetToken(ctx, "app", "123")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no token source")
	})
}

func TestBridge_Topics(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fcm.Bridge, *MockClient) {
		t.Helper()
		mockClient := new(MockClient)
		mockTokens := new(MockTokenSource)
		b := fcm.NewBridge(mockClient, mockTokens, newTestLogger())
		mockTokens.On("Token", ctx, "app", "123").Return("reg-token", nil)
		_, err := b.GetToken(ctx, "app", "123")
		require.NoError(t, err)
		return b, mockClient
	}

	t.Run("Subscribe applies to the issued token", func(t *testing.T) {
		b, mockClient := setup(t)
		mockClient.On("SubscribeToTopic", ctx, []string{"reg-token"}, "news").
			Return(&messaging.TopicManagementResponse{SuccessCount: 1}, nil)

		require.NoError(t, b.SubscribeToTopic(ctx, "news"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Per-token failure surfaces the reason", func(t *testing.T) {
		b, mockClient := setup(t)
		mockClient.On("UnsubscribeFromTopic", ctx, []string{"reg-token"}, "news").
			Return(&messaging.TopicManagementResponse{
				FailureCount: 1,
				Errors:       []*messaging.ErrorInfo{{Index: 0, Reason: "INVALID_ARGUMENT"}},
			}, nil)

		err := b.UnsubscribeFromTopic(ctx, "news")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_ARGUMENT")
	})

	t.Run("Transport failure propagates", func(t *testing.T) {
		b, mockClient := setup(t)
		mockClient.On("SubscribeToTopic", ctx, mock.Anything, "news").Return(nil, errors.New("network down"))

		err := b.SubscribeToTopic(ctx, "news")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "topic subscribe failed")
	})
}

func TestBridge_Permissions(t *testing.T) {
	// Permission is granted at install time on this platform; no prompt, no
	// bridge call.
	ctx := context.Background()
	b := fcm.NewBridge(new(MockClient), nil, newTestLogger())

	granted, err := b.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	has, err := b.HasPermission(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}
