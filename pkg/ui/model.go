package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tougpt/pkg/chat"
	"tougpt/pkg/commands"
	"tougpt/pkg/settings"
	"tougpt/pkg/ui/components/chatlist"
	"tougpt/pkg/ui/components/confirm"
	"tougpt/pkg/ui/components/picker"
	"tougpt/pkg/ui/components/result"
	settingspanel "tougpt/pkg/ui/components/settings"
	"tougpt/pkg/ui/components/statusbar"
	"tougpt/pkg/ui/components/transcript"
	"tougpt/pkg/ui/components/utils"
	"tougpt/pkg/ui/components/welcome"
	"tougpt/pkg/ui/input"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	spinnerInterval = 100 * time.Millisecond
	clearAction     = "clear"
	themeField      = "theme"
)

type focusTarget int

const (
	focusInput focusTarget = iota
	focusList
)

// PreferencesChangedMsg is sent when preferences change outside the event
// loop, for example when another process rewrites the storage file.
type PreferencesChangedMsg struct {
	Change settings.Change
}

type replyMsg struct {
	reply chat.Reply
}

type spinnerTickMsg struct{}

// Options configures the model
type Options struct {
	// ServerURL is shown in the status bar
	ServerURL string
	// Examples are offered on an empty chat. Nil uses chat.ExampleQuestions.
	Examples []string
}

// Model represents the Bubble Tea application state
type Model struct {
	ctx        context.Context
	manager    *chat.Manager
	prefs      *settings.Preferences
	dispatcher *commands.Dispatcher
	examples   []string
	serverURL  string

	// UI Components
	st            styles.Styles
	layout        *LayoutManager
	chatList      *chatlist.ChatList
	transcript    *transcript.Transcript
	inputHandler  *input.InputHandler
	statusBar     *statusbar.StatusBarView
	dialog        *confirm.Dialog
	resultPanel   *result.ResultPanel
	settingsPanel *settingspanel.SettingsPanel
	optionPicker  *picker.OptionPickerPanel

	// UI state
	focus         focusTarget
	activeID      string
	pendingChatID string
	notice        string
	spinning      bool
	width         int
	height        int
	ready         bool
}

// NewModel creates a new Bubble Tea model driving manager
func NewModel(ctx context.Context, manager *chat.Manager, prefs *settings.Preferences, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	examples := opts.Examples
	if examples == nil {
		examples = chat.ExampleQuestions
	}

	theme := settings.DefaultTheme
	if prefs != nil {
		theme = prefs.Theme()
	}
	st := styles.New(theme)

	m := Model{
		ctx:           ctx,
		manager:       manager,
		prefs:         prefs,
		dispatcher:    commands.NewDispatcher(),
		examples:      examples,
		serverURL:     opts.ServerURL,
		st:            st,
		layout:        NewLayoutManager(),
		chatList:      chatlist.NewChatList(),
		transcript:    transcript.New(st),
		inputHandler:  input.NewInputHandler(),
		statusBar:     statusbar.NewStatusBarView(),
		dialog:        confirm.NewDialog(),
		resultPanel:   result.NewResultPanel(),
		settingsPanel: settingspanel.NewSettingsPanel(),
		optionPicker:  picker.NewOptionPickerPanel(),
	}
	m.statusBar.SetServer(opts.ServerURL)
	m.inputHandler.SetValue(manager.Input())
	m.sync()
	return m
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	if m.manager.Loading() {
		return tickSpinner()
	}
	return nil
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout.SetSize(msg.Width, msg.Height)
		m.inputHandler.SetSize(msg.Width, maxComposerLines)
		m.dialog.SetSize(msg.Width, msg.Height)
		m.resultPanel.SetSize(msg.Width, msg.Height)
		m.settingsPanel.SetSize(msg.Width, msg.Height)
		m.optionPicker.SetSize(msg.Width, msg.Height)
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case tea.PasteMsg:
		if m.settingsPanel.IsVisible() {
			m.settingsPanel.HandlePaste(msg.Content)
			return m, nil
		}
		if m.overlayVisible() || m.focus != focusInput {
			return m, nil
		}
		m.inputHandler.HandlePaste(msg.Content)
		m.manager.SetInput(m.inputHandler.Value())
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case input.SubmitMsg:
		return m.send(msg.Text)

	case input.CommandSubmittedMsg:
		m.manager.SetInput("")
		return m.runCommand(msg.Command)

	case input.QuitMsg:
		return m, tea.Quit

	case input.NewChatMsg, chatlist.NewChatMsg:
		m.manager.CreateChat()
		m.inputHandler.Reset()
		m.notice = ""
		m.setFocus(focusInput)
		m.sync()
		return m, nil

	case input.ClearChatMsg:
		m.requestClear()
		return m, nil

	case input.ToggleThemeMsg:
		if m.prefs != nil {
			if _, err := m.prefs.ToggleTheme(m.ctx); err != nil {
				m.notice = "Theme could not be saved"
			}
		}
		m.applyTheme()
		return m, nil

	case input.CopyCodeMsg:
		cmd := m.copyLastCode()
		return m, cmd

	case input.ExampleMsg:
		if msg.Index >= 0 && msg.Index < len(m.examples) {
			m.inputHandler.SetValue(m.examples[msg.Index])
			m.manager.SetInput(m.examples[msg.Index])
		}
		return m, nil

	case chatlist.SelectChatMsg:
		m.manager.SelectChat(msg.ID)
		m.inputHandler.SetValue(m.manager.Input())
		m.setFocus(focusInput)
		m.sync()
		return m, nil

	case chatlist.DeleteChatMsg:
		m.manager.DeleteChat(msg.ID)
		m.sync()
		return m, nil

	case confirm.ResultMsg:
		if msg.Accepted && msg.Action == clearAction {
			m.manager.ClearActiveChat(chat.ConfirmFunc(func(string) bool { return true }))
		}
		m.sync()
		return m, nil

	case result.ResultPanelCloseMsg, settingspanel.SettingsCloseMsg:
		return m, nil

	case picker.OpenOptionPickerMsg:
		m.optionPicker.Show(msg.Title, msg.FieldKey, msg.Options, msg.Current)
		return m, nil

	case picker.OptionPickerSelectMsg:
		if msg.FieldKey == themeField {
			m.settingsPanel.SetThemeValue(msg.Value)
		}
		return m, nil

	case settingspanel.SettingsSaveMsg:
		m.saveSettings(msg)
		return m, nil

	case replyMsg:
		if msg.reply.ChatID == m.pendingChatID {
			m.pendingChatID = ""
		}
		if msg.reply.Dropped {
			slog.Debug("ui_reply_dropped", "chat_id", msg.reply.ChatID)
		}
		m.sync()
		return m, nil

	case spinnerTickMsg:
		if !m.manager.Loading() {
			m.spinning = false
			m.statusBar.SetLoading(false)
			return m, nil
		}
		m.statusBar.Tick()
		return m, tickSpinner()

	case PreferencesChangedMsg:
		m.applyTheme()
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.notice = "Copy failed"
		} else {
			m.notice = "Copied code block"
		}
		m.sync()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.dialog.IsVisible() {
		return m, m.dialog.Update(msg)
	}
	if m.optionPicker.IsVisible() {
		return m, m.optionPicker.Update(msg)
	}
	if m.settingsPanel.IsVisible() {
		return m, m.settingsPanel.Update(msg)
	}
	if m.resultPanel.IsVisible() {
		return m, m.resultPanel.Update(msg)
	}

	keyStr := msg.String()
	switch keyStr {
	case "tab":
		if m.layout.Compute(1, false).ShowList && m.focus == focusInput {
			m.setFocus(focusList)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil

	case "esc":
		switch {
		case m.manager.LastError() != "":
			m.manager.DismissError()
		case m.notice != "":
			m.notice = ""
		case m.focus == focusList:
			m.setFocus(focusInput)
		}
		m.sync()
		return m, nil

	case "pgup", "pgdown":
		m.transcript.Scroll(keyStr)
		return m, nil

	case "up", "down":
		if m.focus == focusInput && m.inputHandler.Lines() == 1 {
			m.transcript.Scroll(keyStr)
			return m, nil
		}
	}

	handled, cmd := m.inputHandler.HandleKey(msg)
	if handled {
		if m.focus == focusInput {
			m.manager.SetInput(m.inputHandler.Value())
		}
		return m, cmd
	}

	if m.focus == focusList {
		return m, m.chatList.Update(msg)
	}
	return m, nil
}

func (m Model) send(text string) (tea.Model, tea.Cmd) {
	ch, ok := m.manager.SendMessage(m.ctx, text)
	if !ok {
		return m, nil
	}

	m.pendingChatID = m.manager.ActiveChatID()
	m.inputHandler.Reset()
	m.notice = ""
	m.transcript.ScrollToBottom()
	m.sync()

	cmds := []tea.Cmd{waitForReply(ch)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, tickSpinner())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	res := m.dispatcher.Dispatch(line, commands.NewContext(m.ctx, m.manager, m.prefs))
	if res.Error != nil {
		slog.Debug("ui_command_failed", "command", line, "error", res.Error)
	}

	switch {
	case res.Action == commands.ResultActionConfirmClear:
		m.requestClear()
	case res.Action == commands.ResultActionOpenSettings:
		m.notice = ""
		m.settingsPanel.Show(m.prefs.Theme(), m.prefs.APIKey(), m.serverURL)
	case strings.Contains(res.Content, "\n"):
		m.notice = ""
		m.resultPanel.Show(res.Title, res.Content, res.Error != nil)
	default:
		m.notice = res.Content
	}

	m.applyTheme()
	m.inputHandler.SetValue(m.manager.Input())
	m.sync()
	return m, nil
}

func (m *Model) requestClear() {
	if len(m.manager.ActiveChat().Messages) == 0 {
		return
	}
	m.dialog.Show(chat.ClearChatPrompt, clearAction)
}

func (m *Model) saveSettings(msg settingspanel.SettingsSaveMsg) {
	if m.prefs == nil {
		return
	}

	failed := false
	if msg.Theme != m.prefs.Theme() {
		if err := m.prefs.SetTheme(m.ctx, msg.Theme); err != nil {
			failed = true
		}
	}
	if msg.APIKey != m.prefs.APIKey() {
		if err := m.prefs.SetAPIKey(m.ctx, msg.APIKey); err != nil {
			failed = true
		}
	}

	if failed {
		m.notice = "Settings could not be saved"
	} else {
		m.notice = "Settings saved"
	}
	m.applyTheme()
}

func (m Model) overlayVisible() bool {
	return m.dialog.IsVisible() || m.resultPanel.IsVisible() ||
		m.settingsPanel.IsVisible() || m.optionPicker.IsVisible()
}

func (m *Model) setFocus(target focusTarget) {
	m.focus = target
	if target == focusList {
		m.inputHandler.Blur()
		m.chatList.Focus()
		return
	}
	m.chatList.Blur()
	m.inputHandler.Focus()
}

func (m *Model) applyTheme() {
	if m.prefs == nil {
		return
	}
	st := styles.New(m.prefs.Theme())
	if st.Theme != m.st.Theme {
		m.st = st
		m.transcript.SetStyles(st)
	}
	m.sync()
}

// sync copies manager state into the components.
func (m *Model) sync() {
	active := m.manager.ActiveChat()
	loading := m.manager.Loading()

	m.chatList.SetChats(m.manager.Chats(), active.ID)

	m.transcript.SetMessages(active.Messages, loading && m.pendingChatID == active.ID)
	if active.ID != m.activeID {
		m.activeID = active.ID
		m.transcript.ScrollToBottom()
	}

	m.inputHandler.SetBusy(loading)
	if len(active.Messages) == 0 {
		m.inputHandler.SetExampleCount(len(m.examples))
	} else {
		m.inputHandler.SetExampleCount(0)
	}

	m.statusBar.SetChatTitle(active.Title)
	m.statusBar.SetMessage(m.notice)
	m.statusBar.SetLoading(loading)
	m.statusBar.SetTheme(string(m.st.Theme))
	if m.prefs != nil {
		key := m.prefs.APIKey()
		m.statusBar.SetKeyWarning(key != "" && !settings.LooksValidAPIKey(key))
	}
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	var content string
	if !m.ready {
		content = "Initializing..."
	} else {
		content = m.render()
	}
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	banner := m.manager.LastError()
	l := m.layout.Compute(m.inputHandler.Lines(), banner != "")

	var sections []string
	if l.BodyHeight >= paneBorder+1 {
		sections = append(sections, m.renderBody(l))
	}
	if banner != "" {
		sections = append(sections, statusbar.RenderBanner(m.st, banner, m.width))
	}
	sections = append(sections, m.st.TextMuted.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.inputHandler.View())

	m.statusBar.SetWidth(m.width)
	sections = append(sections, m.statusBar.Render(m.st))

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	out = m.resultPanel.Overlay(m.st, out)
	out = m.settingsPanel.Overlay(m.st, out)
	out = m.optionPicker.Overlay(m.st, out)
	return m.dialog.Overlay(m.st, out)
}

func (m Model) renderBody(l Layout) string {
	tw, th := l.TranscriptSize()
	m.transcript.SetSize(tw, th)

	var main string
	if m.transcript.IsEmpty() {
		intro := welcome.View(m.st, m.examples, tw)
		placed := lipgloss.Place(tw, th, lipgloss.Center, lipgloss.Center, intro)
		main = strings.Join(utils.FitLines(strings.Split(placed, "\n"), tw, th), "\n")
	} else {
		main = m.transcript.View()
	}
	main = m.st.Pane.Render(main)

	if !l.ShowList {
		return main
	}
	m.chatList.SetSize(l.ListWidth, l.BodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.chatList.View(m.st), main)
}

func waitForReply(ch <-chan chat.Reply) tea.Cmd {
	return func() tea.Msg {
		reply, ok := <-ch
		if !ok {
			return nil
		}
		return replyMsg{reply: reply}
	}
}

func tickSpinner() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}
