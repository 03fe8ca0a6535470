package messaging

import "fmt"

// Listener registration accepts either a plain callback or an observer value
// carrying a Next callback. Both shapes resolve to one callback at
// registration time; anything else is an invalid argument.

// MessageHandler is implemented by MessageHandlerFunc and MessageObserver.
type MessageHandler interface {
	messageHandler()
}

// MessageHandlerFunc is the plain-callback form of a message handler.
type MessageHandlerFunc func(*RemoteMessage)

func (MessageHandlerFunc) messageHandler() {}

// MessageObserver is the observer form of a message handler; only Next is
// consulted.
type MessageObserver struct {
	Next func(*RemoteMessage)
}

func (MessageObserver) messageHandler() {}

// TokenHandler is implemented by TokenHandlerFunc and TokenObserver.
type TokenHandler interface {
	tokenHandler()
}

// TokenHandlerFunc is the plain-callback form of a token-refresh handler.
type TokenHandlerFunc func(token string)

func (TokenHandlerFunc) tokenHandler() {}

// TokenObserver is the observer form of a token-refresh handler.
type TokenObserver struct {
	Next func(token string)
}

func (TokenObserver) tokenHandler() {}

func resolveMessageHandler(h MessageHandler) (func(*RemoteMessage), error) {
	switch v := h.(type) {
	case nil:
		return nil, &InvalidArgumentError{Argument: "handler", Reason: "must not be nil"}
	case MessageHandlerFunc:
		if v == nil {
			return nil, &InvalidArgumentError{Argument: "handler", Reason: "callback must not be nil"}
		}
		return v, nil
	case MessageObserver:
		if v.Next == nil {
			return nil, &InvalidArgumentError{Argument: "handler", Reason: "observer Next must not be nil"}
		}
		return v.Next, nil
	default:
		return nil, &InvalidArgumentError{
			Argument: "handler",
			Reason:   fmt.Sprintf("unsupported handler variant %T", h),
		}
	}
}

func resolveTokenHandler(h TokenHandler) (func(string), error) {
	switch v := h.(type) {
	case nil:
		return nil, &InvalidArgumentError{Argument: "handler", Reason: "must not be nil"}
	case TokenHandlerFunc:
		if v == nil {
			return nil, &InvalidArgumentError{Argument: "handler", Reason: "callback must not be nil"}
		}
		return v, nil
	case TokenObserver:
		if v.Next == nil {
			return nil, &InvalidArgumentError{Argument: "handler", Reason: "observer Next must not be nil"}
		}
		return v.Next, nil
	default:
		return nil, &InvalidArgumentError{
			Argument: "handler",
			Reason:   fmt.Sprintf("unsupported handler variant %T", h),
		}
	}
}
