package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tougpt/pkg/api"
	"tougpt/pkg/settings"
	"tougpt/pkg/storage"
)

// DefaultTimeout bounds a single question, end to end.
const DefaultTimeout = 30 * time.Second

// Asker sends one question to the Q&A service. *api.Client implements it.
type Asker interface {
	Ask(ctx context.Context, req api.AskRequest) (api.AskResponse, error)
}

// Reply is the outcome of one SendMessage call.
type Reply struct {
	ChatID  string
	Message Message
	// ErrorText is the banner text, empty on success.
	ErrorText string
	// Err is the underlying request error, nil on success.
	Err error
	// Dropped is set when the originating chat was deleted before the reply arrived.
	Dropped bool
}

type Option func(*Manager)

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces uuid-based chat IDs
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

func WithListener(fn func(Event)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.listeners = append(m.listeners, fn)
		}
	}
}

// Manager holds the session state. All methods are safe for concurrent use.
type Manager struct {
	store   storage.Store
	prefs   *settings.Preferences
	asker   Asker
	timeout time.Duration
	logger  *slog.Logger
	newID   func() string

	listenersMu sync.RWMutex
	listeners   []func(Event)

	mu             sync.Mutex
	chats          []Chat
	activeID       string
	input          string
	loading        bool
	lastError      string
	lastPersistErr error
}

// NewManager creates a manager holding a single empty chat. Call LoadSessions
// to restore persisted state.
func NewManager(store storage.Store, prefs *settings.Preferences, asker Asker, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		prefs:   prefs,
		asker:   asker,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}

	fresh := m.newChat()
	m.chats = []Chat{fresh}
	m.activeID = fresh.ID
	return m
}

// AddListener registers fn for all future events
func (m *Manager) AddListener(fn func(Event)) {
	if fn == nil {
		return
	}
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.listenersMu.RLock()
	listeners := make([]func(Event), len(m.listeners))
	copy(listeners, m.listeners)
	m.listenersMu.RUnlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

func (m *Manager) newChat() Chat {
	return Chat{ID: m.newID(), Title: DefaultTitle, Messages: []Message{}}
}

// --- accessors ---

// Chats returns a copy of all chats, newest first.
func (m *Manager) Chats() []Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Chat, len(m.chats))
	for i, c := range m.chats {
		out[i] = c.clone()
	}
	return out
}

// ActiveChat returns a copy of the active chat.
func (m *Manager) ActiveChat() Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chats[m.activeIndexLocked()].clone()
}

func (m *Manager) ActiveChatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chats[m.activeIndexLocked()].ID
}

// Loading reports whether a request is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LastError is the banner text of the most recent failed request.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = ""
}

// LastPersistError is the error of the most recent failed write, or nil.
func (m *Manager) LastPersistError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPersistErr
}

func (m *Manager) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input
}

func (m *Manager) SetInput(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = text
}

// activeIndexLocked resolves activeID, falling back to the first chat.
func (m *Manager) activeIndexLocked() int {
	if i := m.indexLocked(m.activeID); i >= 0 {
		return i
	}
	m.activeID = m.chats[0].ID
	return 0
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.chats {
		if m.chats[i].ID == id {
			return i
		}
	}
	return -1
}

// --- mutations ---

// CreateChat prepends an empty chat and makes it active.
func (m *Manager) CreateChat() Chat {
	m.mu.Lock()
	c := m.newChat()
	m.chats = append([]Chat{c}, m.chats...)
	m.activeID = c.ID
	m.input = ""
	m.lastError = ""
	m.persistLocked(context.Background())
	m.mu.Unlock()

	m.logger.Info("chat_created", "chat_id", c.ID)
	m.emit(Event{Kind: ChatsChanged, ChatID: c.ID}, Event{Kind: ActiveChanged, ChatID: c.ID})
	return c.clone()
}

// SelectChat activates id. Unknown ids are ignored.
func (m *Manager) SelectChat(id string) bool {
	m.mu.Lock()
	if m.indexLocked(id) < 0 {
		m.mu.Unlock()
		return false
	}
	changed := m.activeID != id
	m.activeID = id
	if changed {
		m.persistLocked(context.Background())
	}
	m.mu.Unlock()

	if changed {
		m.emit(Event{Kind: ActiveChanged, ChatID: id})
	}
	return true
}

// DeleteChat removes id. When the active chat goes, the first remaining chat
// becomes active; when the last chat goes, a fresh one replaces it.
func (m *Manager) DeleteChat(id string) bool {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	wasActive := m.chats[idx].ID == m.chats[m.activeIndexLocked()].ID
	m.chats = append(m.chats[:idx:idx], m.chats[idx+1:]...)
	if len(m.chats) == 0 {
		m.chats = []Chat{m.newChat()}
		wasActive = true
	}
	if wasActive {
		m.activeID = m.chats[0].ID
	}
	activeID := m.activeID
	m.persistLocked(context.Background())
	m.mu.Unlock()

	m.logger.Info("chat_deleted", "chat_id", id)
	events := []Event{{Kind: ChatsChanged, ChatID: id}}
	if wasActive {
		events = append(events, Event{Kind: ActiveChanged, ChatID: activeID})
	}
	m.emit(events...)
	return true
}

// ClearActiveChat empties the active chat and resets its title once confirm
// agrees. An already empty chat is left alone without asking.
func (m *Manager) ClearActiveChat(confirm Confirmer) bool {
	m.mu.Lock()
	active := m.chats[m.activeIndexLocked()]
	m.mu.Unlock()

	if len(active.Messages) == 0 {
		return false
	}
	if confirm == nil || !confirm.Confirm(ClearChatPrompt) {
		return false
	}

	m.mu.Lock()
	idx := m.indexLocked(active.ID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.chats[idx].Messages = []Message{}
	m.chats[idx].Title = DefaultTitle
	m.persistLocked(context.Background())
	m.mu.Unlock()

	m.logger.Info("chat_cleared", "chat_id", active.ID)
	m.emit(Event{Kind: ChatsChanged, ChatID: active.ID})
	return true
}

// SendMessage appends text to the active chat as a user message and asks the
// service in the background. It returns false without side effects when text
// is blank or a request is already in flight. The returned channel yields
// exactly one Reply and is then closed.
func (m *Manager) SendMessage(ctx context.Context, text string) (<-chan Reply, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil, false
	}
	idx := m.activeIndexLocked()
	chatID := m.chats[idx].ID
	m.chats[idx].Messages = append(m.chats[idx].Messages, Message{Role: RoleUser, Content: text})
	m.input = ""
	m.loading = true
	m.lastError = ""
	m.persistLocked(ctx)
	m.mu.Unlock()

	apiKey := ""
	if m.prefs != nil {
		apiKey = m.prefs.APIKey()
	}

	m.logger.Info("chat_request_start", "chat_id", chatID, "question_len", len(text))
	m.emit(Event{Kind: ChatsChanged, ChatID: chatID}, Event{Kind: RequestStarted, ChatID: chatID})

	out := make(chan Reply, 1)
	go m.runRequest(ctx, chatID, text, apiKey, out)
	return out, true
}

func (m *Manager) runRequest(ctx context.Context, chatID, question, apiKey string, out chan<- Reply) {
	defer close(out)

	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		resp api.AskResponse
		err  error
	)
	if m.asker == nil {
		err = api.ErrNetwork
	} else {
		resp, err = m.asker.Ask(reqCtx, api.AskRequest{Question: question, APIKey: apiKey})
	}

	content, banner, deriveTitle := classifyOutcome(reqCtx, resp, err)
	reply := Reply{
		ChatID:    chatID,
		Message:   Message{Role: RoleAssistant, Content: content},
		ErrorText: banner,
		Err:       err,
	}

	m.mu.Lock()
	m.loading = false
	idx := m.indexLocked(chatID)
	if idx < 0 {
		reply.Dropped = true
	} else {
		m.chats[idx].Messages = append(m.chats[idx].Messages, reply.Message)
		if deriveTitle && m.chats[idx].HasDefaultTitle() {
			m.chats[idx].Title = TitleFor(question)
		}
		m.lastError = banner
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	duration := time.Since(start).Milliseconds()
	switch {
	case reply.Dropped:
		m.logger.Warn("chat_reply_dropped", "chat_id", chatID, "reason", "chat deleted")
	case err != nil:
		m.logger.Warn("chat_request_failed", "chat_id", chatID, "error", err, "duration_ms", duration)
	default:
		m.logger.Info("chat_request_done", "chat_id", chatID, "duration_ms", duration, "cached", resp.Cached)
	}

	events := []Event{{Kind: RequestFinished, ChatID: chatID}}
	if !reply.Dropped {
		events = append([]Event{{Kind: ChatsChanged, ChatID: chatID}}, events...)
	}
	m.emit(events...)

	out <- reply
}
