// Package storage provides the durable key-value store behind chats and preferences.
package storage

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeySessions     = "sessions"
	KeyActiveChatID = "activeChatId"
	KeyTheme        = "theme"
	KeyAPIKey       = "apiKey"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store is a string key-value store. Get reports whether the key exists.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ChangeListener is called with the keys whose values were changed by another process.
type ChangeListener func(keys []string)

// Watchable is implemented by stores that can detect external modifications.
type Watchable interface {
	StartWatching(listener ChangeListener) error
	StopWatching()
}
