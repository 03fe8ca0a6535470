package messaging

import (
	"time"

	"github.com/google/uuid"
)

const defaultTTL = time.Hour

// RemoteMessage is an immutable upstream/downstream message value. Build one
// with NewRemoteMessage; inbound messages are constructed from the native
// payload map. Once built, fields are frozen — Data returns a copy.
type RemoteMessage struct {
	to          string
	messageID   string
	messageType string
	collapseKey string
	ttl         time.Duration
	data        map[string]string

	built bool
}

func (m *RemoteMessage) To() string          { return m.to }
func (m *RemoteMessage) MessageID() string   { return m.messageID }
func (m *RemoteMessage) MessageType() string { return m.messageType }
func (m *RemoteMessage) CollapseKey() string { return m.collapseKey }
func (m *RemoteMessage) TTL() time.Duration  { return m.ttl }

// Data returns a copy of the key/value payload.
func (m *RemoteMessage) Data() map[string]string {
	return copyData(m.data)
}

// ToNative serializes the message back to the native-compatible map shape.
// TTL travels as whole seconds, matching the native counterpart.
func (m *RemoteMessage) ToNative() map[string]any {
	return map[string]any{
		"to":          m.to,
		"messageId":   m.messageID,
		"messageType": m.messageType,
		"collapseKey": m.collapseKey,
		"ttl":         int64(m.ttl / time.Second),
		"data":        copyData(m.data),
	}
}

// RemoteMessageBuilder accumulates fields for a RemoteMessage. Zero or more
// setters, then Build; the builder is not reusable across Build calls in the
// sense that later mutations never reach an already-built message.
type RemoteMessageBuilder struct {
	msg RemoteMessage
}

// NewRemoteMessage starts a builder with the platform defaults: a one hour
// TTL and a generated message ID (assigned at Build if none is set).
func NewRemoteMessage() *RemoteMessageBuilder {
	return &RemoteMessageBuilder{
		msg: RemoteMessage{
			ttl:  defaultTTL,
			data: make(map[string]string),
		},
	}
}

func (b *RemoteMessageBuilder) SetTo(to string) *RemoteMessageBuilder {
	b.msg.to = to
	return b
}

func (b *RemoteMessageBuilder) SetMessageID(id string) *RemoteMessageBuilder {
	b.msg.messageID = id
	return b
}

func (b *RemoteMessageBuilder) SetMessageType(messageType string) *RemoteMessageBuilder {
	b.msg.messageType = messageType
	return b
}

func (b *RemoteMessageBuilder) SetCollapseKey(key string) *RemoteMessageBuilder {
	b.msg.collapseKey = key
	return b
}

func (b *RemoteMessageBuilder) SetTTL(ttl time.Duration) *RemoteMessageBuilder {
	b.msg.ttl = ttl
	return b
}

// SetData replaces the whole key/value payload.
func (b *RemoteMessageBuilder) SetData(data map[string]string) *RemoteMessageBuilder {
	b.msg.data = copyData(data)
	return b
}

// PutData sets a single key/value pair.
func (b *RemoteMessageBuilder) PutData(key, value string) *RemoteMessageBuilder {
	if b.msg.data == nil {
		b.msg.data = make(map[string]string)
	}
	b.msg.data[key] = value
	return b
}

// Build freezes the message. A missing message ID gets a generated UUID.
func (b *RemoteMessageBuilder) Build() *RemoteMessage {
	msg := b.msg
	if msg.messageID == "" {
		msg.messageID = uuid.NewString()
	}
	msg.data = copyData(b.msg.data)
	msg.built = true
	return &msg
}

// remoteMessageFromNative builds a frozen RemoteMessage from a native-origin
// payload map. Unknown keys are ignored; the data map is coerced and copied.
func remoteMessageFromNative(raw map[string]any) *RemoteMessage {
	msg := &RemoteMessage{
		to:          stringField(raw, "to"),
		messageID:   stringField(raw, "messageId"),
		messageType: stringField(raw, "messageType"),
		collapseKey: stringField(raw, "collapseKey"),
		ttl:         defaultTTL,
		data:        make(map[string]string),
		built:       true,
	}

	switch ttl := raw["ttl"].(type) {
	case int64:
		msg.ttl = time.Duration(ttl) * time.Second
	case int:
		msg.ttl = time.Duration(ttl) * time.Second
	case float64:
		// JSON numbers decode as float64.
		msg.ttl = time.Duration(ttl) * time.Second
	}

	switch data := raw["data"].(type) {
	case map[string]string:
		msg.data = copyData(data)
	case map[string]any:
		for k, v := range data {
			if s, ok := v.(string); ok {
				msg.data[k] = s
			}
		}
	}

	return msg
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func copyData(data map[string]string) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
