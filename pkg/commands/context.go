package commands

import (
	"context"

	"tougpt/pkg/chat"
	"tougpt/pkg/settings"
)

// Context contains all the context needed for command execution
type Context struct {
	Ctx     context.Context
	Manager *chat.Manager
	Prefs   *settings.Preferences
	Args    []string
}

// NewContext creates a new command context
func NewContext(ctx context.Context, mgr *chat.Manager, prefs *settings.Preferences) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:     ctx,
		Manager: mgr,
		Prefs:   prefs,
	}
}

// Arg returns the i-th argument or ""
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
