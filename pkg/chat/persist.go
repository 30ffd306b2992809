package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"tougpt/pkg/storage"
)

// LoadSessions restores chats and the active chat from storage. Missing or
// unreadable data leaves a single fresh chat; nothing here is fatal.
func (m *Manager) LoadSessions(ctx context.Context) {
	chats, activeID := m.readSessions(ctx)

	m.mu.Lock()
	repaired := false
	if len(chats) == 0 {
		chats = []Chat{m.newChat()}
		repaired = true
	}
	m.chats = chats
	m.activeID = activeID
	if m.indexLocked(activeID) < 0 {
		m.activeID = m.chats[0].ID
		repaired = true
	}
	if repaired {
		m.persistLocked(ctx)
	}
	count, active := len(m.chats), m.activeID
	m.mu.Unlock()

	m.logger.Info("sessions_loaded", "chats", count, "active_chat_id", active)
	m.emit(Event{Kind: ChatsChanged}, Event{Kind: ActiveChanged, ChatID: active})
}

func (m *Manager) readSessions(ctx context.Context) ([]Chat, string) {
	if m.store == nil {
		return nil, ""
	}

	raw, found, err := m.store.Get(ctx, storage.KeySessions)
	if err != nil {
		m.logger.Warn("sessions_read_failed", "error", err)
		return nil, ""
	}
	var chats []Chat
	if found && raw != "" {
		if err := json.Unmarshal([]byte(raw), &chats); err != nil {
			m.logger.Warn("sessions_corrupt", "error", err)
			chats = nil
		}
	}
	chats = m.sanitize(chats)

	activeID, _, err := m.store.Get(ctx, storage.KeyActiveChatID)
	if err != nil {
		m.logger.Warn("sessions_read_failed", "key", storage.KeyActiveChatID, "error", err)
		activeID = ""
	}
	return chats, activeID
}

// sanitize drops entries without an ID or with a duplicate ID and fills in
// missing titles.
func (m *Manager) sanitize(in []Chat) []Chat {
	seen := make(map[string]bool, len(in))
	out := make([]Chat, 0, len(in))
	for _, c := range in {
		if c.ID == "" || seen[c.ID] {
			m.logger.Warn("sessions_entry_skipped", "chat_id", c.ID)
			continue
		}
		seen[c.ID] = true
		if c.Title == "" {
			c.Title = DefaultTitle
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		out = append(out, c)
	}
	return out
}

// persistLocked writes chats and the active chat ID. Failures are logged and
// recorded; memory stays authoritative.
func (m *Manager) persistLocked(ctx context.Context) {
	if m.store == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	err := m.writeSessions(ctx)
	m.lastPersistErr = err
	if err != nil {
		m.logger.Warn("sessions_persist_failed", "error", err)
	}
}

func (m *Manager) writeSessions(ctx context.Context) error {
	data, err := json.Marshal(m.chats)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := m.store.Set(ctx, storage.KeySessions, string(data)); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := m.store.Set(ctx, storage.KeyActiveChatID, m.activeID); err != nil {
		return fmt.Errorf("write active chat: %w", err)
	}
	return nil
}
