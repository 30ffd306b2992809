// Package settings holds the user preferences shared by the chat manager and the UI.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tougpt/pkg/config"
	"tougpt/pkg/storage"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when neither storage nor config picks one
const DefaultTheme = ThemeDark

// ParseTheme accepts "light" or "dark" in any case
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// LooksValidAPIKey applies the format check for Google-issued keys. It is
// advisory only; requests are sent with whatever key is configured.
func LooksValidAPIKey(key string) bool {
	return strings.HasPrefix(key, "AIza") && len(key) > 20
}

// Change describes which preferences changed
type Change struct {
	Theme  bool
	APIKey bool
}

// Preferences stores theme and API key in the durable store, falling back to
// config values when the store has none.
type Preferences struct {
	store    storage.Store
	fallback config.Config
	logger   *slog.Logger

	mu     sync.RWMutex
	theme  Theme
	apiKey string

	listenersMu sync.RWMutex
	listeners   []func(Change)
}

// New loads preferences from store. Storage errors are logged and the config
// fallback is used.
func New(ctx context.Context, store storage.Store, cfg config.Config) *Preferences {
	p := &Preferences{
		store:    store,
		fallback: cfg,
		logger:   slog.Default(),
	}
	p.theme, p.apiKey = p.read(ctx)
	return p
}

// WithLogger replaces the logger used for storage failures
func (p *Preferences) WithLogger(logger *slog.Logger) *Preferences {
	if logger != nil {
		p.logger = logger
	}
	return p
}

func (p *Preferences) read(ctx context.Context) (Theme, string) {
	theme := DefaultTheme
	if t, err := ParseTheme(p.fallback.Theme); err == nil {
		theme = t
	}
	apiKey := p.fallback.APIKey

	if p.store == nil {
		return theme, apiKey
	}

	if raw, found, err := p.store.Get(ctx, storage.KeyTheme); err != nil {
		p.logger.Warn("preferences_read_failed", "key", storage.KeyTheme, "error", err)
	} else if found {
		if t, err := ParseTheme(raw); err == nil {
			theme = t
		} else {
			p.logger.Warn("preferences_invalid_theme", "value", raw)
		}
	}

	if raw, found, err := p.store.Get(ctx, storage.KeyAPIKey); err != nil {
		p.logger.Warn("preferences_read_failed", "key", storage.KeyAPIKey, "error", err)
	} else if found && raw != "" {
		apiKey = raw
	}

	return theme, apiKey
}

func (p *Preferences) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *Preferences) APIKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.apiKey
}

// SetTheme persists theme and notifies listeners. The in-memory value changes
// even when the write fails.
func (p *Preferences) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	p.mu.Lock()
	changed := p.theme != theme
	p.theme = theme
	p.mu.Unlock()

	var err error
	if p.store != nil {
		if err = p.store.Set(ctx, storage.KeyTheme, string(theme)); err != nil {
			p.logger.Warn("preferences_persist_failed", "key", storage.KeyTheme, "error", err)
			err = fmt.Errorf("persist theme: %w", err)
		}
	}
	if changed {
		p.notify(Change{Theme: true})
	}
	return err
}

// ToggleTheme flips between light and dark and returns the new theme
func (p *Preferences) ToggleTheme(ctx context.Context) (Theme, error) {
	next := p.Theme().Toggle()
	return next, p.SetTheme(ctx, next)
}

// SetAPIKey persists key. An empty key removes the stored value and falls back
// to the configured one.
func (p *Preferences) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	effective := key
	if effective == "" {
		effective = p.fallback.APIKey
	}

	p.mu.Lock()
	changed := p.apiKey != effective
	p.apiKey = effective
	p.mu.Unlock()

	var err error
	if p.store != nil {
		if key == "" {
			err = p.store.Delete(ctx, storage.KeyAPIKey)
		} else {
			err = p.store.Set(ctx, storage.KeyAPIKey, key)
		}
		if err != nil {
			p.logger.Warn("preferences_persist_failed", "key", storage.KeyAPIKey, "error", err)
			err = fmt.Errorf("persist api key: %w", err)
		}
	}
	if changed {
		p.notify(Change{APIKey: true})
	}
	return err
}

// OnChange registers fn to be called after a preference changes.
// Listeners run on the goroutine that made the change.
func (p *Preferences) OnChange(fn func(Change)) {
	if fn == nil {
		return
	}
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Reload re-reads both values from storage and notifies listeners of any difference.
func (p *Preferences) Reload(ctx context.Context) {
	theme, apiKey := p.read(ctx)

	p.mu.Lock()
	change := Change{Theme: theme != p.theme, APIKey: apiKey != p.apiKey}
	p.theme = theme
	p.apiKey = apiKey
	p.mu.Unlock()

	if change.Theme || change.APIKey {
		p.logger.Info("preferences_reloaded", "theme_changed", change.Theme, "api_key_changed", change.APIKey)
		p.notify(change)
	}
}

// HandleStorageChange is a storage.ChangeListener that reloads when one of the
// preference keys was modified externally.
func (p *Preferences) HandleStorageChange(keys []string) {
	for _, k := range keys {
		if k == storage.KeyTheme || k == storage.KeyAPIKey {
			p.Reload(context.Background())
			return
		}
	}
}

func (p *Preferences) notify(change Change) {
	p.listenersMu.RLock()
	listeners := make([]func(Change), len(p.listeners))
	copy(listeners, p.listeners)
	p.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}
