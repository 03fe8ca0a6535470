package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinywideclouds/go-push-messaging/pkg/bridge"
)

func TestEmitter(t *testing.T) {
	emitter := bridge.NewEmitter()

	var got []any
	cancel := emitter.SubscribeEvent(bridge.EventMessageReceived, func(payload any) {
		got = append(got, payload)
	})

	emitter.Emit(bridge.EventMessageReceived, map[string]any{"messageId": "m-1"})
	emitter.Emit(bridge.EventTokenRefreshed, "token")

	assert.Len(t, got, 1)

	cancel()
	emitter.Emit(bridge.EventMessageReceived, map[string]any{"messageId": "m-2"})
	assert.Len(t, got, 1)
}
