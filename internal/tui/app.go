package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mosdac/internal/api"
	"mosdac/internal/auth"
	"mosdac/internal/chatsync"
	"mosdac/internal/downloads"
	"mosdac/internal/i18n"
	"mosdac/internal/session"
)

// PanelID 面板标识
// PanelID identifies a panel
type PanelID int

const (
	PanelChat PanelID = iota
	PanelDownloads
)

// Deps 组装仪表盘所需的核心组件；调度归界面，状态归核心。
// Deps wires the core components into the dashboard; the view owns
// scheduling, the core owns state.
type Deps struct {
	Sync      *chatsync.Synchronizer
	Tracker   *downloads.Tracker
	Sessions  *session.Manager
	Creds     *auth.Credentials
	BaseURL   string
	PollEvery time.Duration
}

// --- Tea Messages ---

// answerMsg 一次发送完成 / answerMsg reports a completed send
type answerMsg struct{ err error }

// historyMsg 对话历史刷新完成 / historyMsg reports a history refresh
type historyMsg struct{ err error }

// jobsMsg 任务列表刷新完成 / jobsMsg reports a job-list refresh
type jobsMsg struct{ err error }

// pollTickMsg 轮询定时器触发 / pollTickMsg fires the poll timer
type pollTickMsg struct{}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	deps Deps

	// 布局 / Layout
	width  int
	height int

	// 面板 / Panels
	activePanel PanelID
	chatView    viewport.Model
	jobsView    viewport.Model

	// 输入 / Input
	input textinput.Model

	// 下载表单 / Download form
	formOpen   bool
	formFocus  int
	formFields [3]textinput.Model

	// 状态 / State
	sending   bool
	loading   bool
	polling   bool
	lastError string

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建仪表盘应用 / NewApp creates the dashboard application
func NewApp(deps Deps) App {
	if deps.PollEvery <= 0 {
		deps.PollEvery = 5 * time.Second
	}

	in := textinput.New()
	in.Placeholder = i18n.T("input.placeholder")
	in.CharLimit = 4096
	in.Focus()

	var fields [3]textinput.Model
	labels := []string{
		i18n.T("downloads.form.dataset"),
		i18n.T("downloads.form.username"),
		i18n.T("downloads.form.password"),
	}
	for i := range fields {
		f := textinput.New()
		f.Placeholder = labels[i]
		f.CharLimit = 256
		fields[i] = f
	}
	fields[2].EchoMode = textinput.EchoPassword

	return App{
		deps:        deps,
		activePanel: PanelChat,
		input:       in,
		formFields:  fields,
		loading:     true,
		theme:       DarkTheme(),
		keys:        DefaultKeyMap(),
		locale:      i18n.Global(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadHistoryCmd(), a.loadJobsCmd())
}

// --- Commands ---

func (a App) sendCmd(text string) tea.Cmd {
	sync := a.deps.Sync
	return func() tea.Msg {
		_, err := sync.SendMessage(context.Background(), text)
		return answerMsg{err: err}
	}
}

func (a App) loadHistoryCmd() tea.Cmd {
	sync := a.deps.Sync
	return func() tea.Msg {
		return historyMsg{err: sync.LoadHistory(context.Background())}
	}
}

func (a App) loadJobsCmd() tea.Cmd {
	tracker := a.deps.Tracker
	return func() tea.Msg {
		return jobsMsg{err: tracker.LoadHistory(context.Background())}
	}
}

func (a App) startDownloadCmd(req downloads.Request) tea.Cmd {
	tracker := a.deps.Tracker
	return func() tea.Msg {
		tracker.StartDownload(context.Background(), req)
		return jobsMsg{}
	}
}

// pollCmd 安排下一次轮询；面板切走后 tick 不再续期，即视为停表。
// pollCmd schedules the next poll tick; switching away simply stops
// rescheduling, which is how the timer gets torn down.
func (a App) pollCmd() tea.Cmd {
	return tea.Tick(a.deps.PollEvery, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case answerMsg:
		a.sending = false
		if msg.err != nil && !errors.Is(msg.err, chatsync.ErrBusy) {
			a.lastError = api.UserMessage(msg.err)
		}
		a.refreshChat()
		return a, nil

	case historyMsg:
		a.loading = false
		if msg.err != nil {
			a.lastError = api.UserMessage(msg.err)
		}
		a.refreshChat()
		return a, nil

	case jobsMsg:
		a.refreshJobs()
		return a, nil

	case pollTickMsg:
		if a.activePanel != PanelDownloads {
			a.polling = false
			return a, nil
		}
		return a, tea.Batch(a.loadJobsCmd(), a.pollCmd())
	}

	return a.updateInputs(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.SwitchPanel):
		if a.formOpen {
			a.formFields[a.formFocus].Blur()
			a.formFocus = (a.formFocus + 1) % len(a.formFields)
			return a, a.formFields[a.formFocus].Focus()
		}
		return a.switchPanel()

	case key.Matches(msg, a.keys.Cancel):
		if a.formOpen {
			a.closeForm()
		}
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		if a.formOpen {
			return a.submitForm()
		}
		if a.activePanel == PanelChat {
			return a.submitChat()
		}
		return a, nil
	}

	if a.activePanel == PanelDownloads && !a.formOpen {
		switch {
		case key.Matches(msg, a.keys.NewDownload):
			a.openForm()
			return a, a.formFields[0].Focus()
		case key.Matches(msg, a.keys.Refresh):
			return a, a.loadJobsCmd()
		}
	}

	return a.updateInputs(msg)
}

// switchPanel 切换面板；进入下载页时启动轮询定时器。
// switchPanel toggles panels; entering the downloads panel starts the
// poll timer.
func (a App) switchPanel() (tea.Model, tea.Cmd) {
	if a.activePanel == PanelChat {
		a.activePanel = PanelDownloads
		a.input.Blur()
		cmds := []tea.Cmd{a.loadJobsCmd()}
		if !a.polling {
			a.polling = true
			cmds = append(cmds, a.pollCmd())
		}
		return a, tea.Batch(cmds...)
	}
	a.activePanel = PanelChat
	a.closeForm()
	return a, a.input.Focus()
}

// submitChat 发送当前输入；发送期间禁止重复提交（单飞规则）。
// submitChat sends the current input; duplicate submission is disabled
// while one send is outstanding (single-flight rule).
func (a App) submitChat() (tea.Model, tea.Cmd) {
	if a.sending {
		return a, nil
	}
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return a, nil
	}
	a.input.SetValue("")
	a.sending = true
	a.lastError = ""
	cmd := a.sendCmd(text)
	// 乐观展示：用户消息已由 Synchronizer 追加，立即刷新视图。
	// Optimistic echo: the synchronizer appends the user message up front.
	return a, tea.Batch(cmd, func() tea.Msg { return historyRefreshLocal{} })
}

// historyRefreshLocal 仅重绘本地缓存 / redraw from the local cache only
type historyRefreshLocal struct{}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	req := downloads.Request{
		DatasetID: a.formFields[0].Value(),
		Username:  a.formFields[1].Value(),
		Password:  a.formFields[2].Value(),
	}
	a.closeForm()
	return a, a.startDownloadCmd(req)
}

func (a *App) openForm() {
	a.formOpen = true
	a.formFocus = 0
	for i := range a.formFields {
		a.formFields[i].SetValue("")
		a.formFields[i].Blur()
	}
}

func (a *App) closeForm() {
	a.formOpen = false
	for i := range a.formFields {
		a.formFields[i].Blur()
	}
}

func (a App) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if _, ok := msg.(historyRefreshLocal); ok {
		a.refreshChat()
		return a, nil
	}

	if a.formOpen {
		a.formFields[a.formFocus], cmd = a.formFields[a.formFocus].Update(msg)
		return a, cmd
	}

	switch a.activePanel {
	case PanelChat:
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
	case PanelDownloads:
		a.jobsView, cmd = a.jobsView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	panelHeight := a.height - 5
	if panelHeight < 3 {
		panelHeight = 3
	}

	a.chatView = viewport.New(a.width, panelHeight)
	a.jobsView = viewport.New(a.width, panelHeight)
	a.input.Width = a.width - 4

	a.refreshChat()
	a.refreshJobs()
}

func (a *App) refreshChat() {
	if a.width == 0 {
		return
	}
	content := RenderTranscript(a.deps.Sync.Messages(), a.width-2, a.theme)
	if a.sending {
		content += a.theme.MutedStyle.Render(i18n.T("status.thinking")) + "\n"
	}
	a.chatView.SetContent(content)
	a.chatView.GotoBottom()
}

func (a *App) refreshJobs() {
	if a.width == 0 {
		return
	}
	jobs := a.deps.Tracker.Jobs()
	var b strings.Builder
	if msg := a.deps.Tracker.LastError(); msg != "" {
		b.WriteString(a.theme.ErrorStyle.Render(msg) + "\n\n")
	}
	if len(jobs) == 0 {
		b.WriteString(a.theme.MutedStyle.Render(i18n.T("downloads.empty")) + "\n")
	}
	for _, job := range jobs {
		b.WriteString(RenderJobLine(job, a.theme) + "\n")
	}
	a.jobsView.SetContent(b.String())
}

// --- View ---

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	tabs := a.renderTabs()
	var panel string
	var footer string

	switch a.activePanel {
	case PanelChat:
		panel = a.chatView.View()
		footer = a.theme.InputStyle.Width(a.width).Render(a.input.View())
	case PanelDownloads:
		panel = a.jobsView.View()
		if a.formOpen {
			footer = a.renderForm()
		} else {
			hint := strings.Join([]string{
				i18n.T("keys.new"),
				i18n.T("keys.refresh"),
				i18n.T("keys.tab"),
				i18n.T("keys.quit"),
			}, " · ")
			footer = a.theme.InputStyle.Width(a.width).Render(a.theme.MutedStyle.Render(" " + hint))
		}
	}

	statusBar := a.renderStatusBar()
	return lipgloss.JoinVertical(lipgloss.Left, tabs, panel, footer, statusBar)
}

func (a App) renderTabs() string {
	tabs := []struct {
		id   PanelID
		name string
	}{
		{PanelChat, a.locale.T("tab.chat")},
		{PanelDownloads, a.locale.T("tab.downloads")},
	}

	var parts []string
	for _, tab := range tabs {
		style := a.theme.InactiveTabStyle
		if tab.id == a.activePanel {
			style = a.theme.ActiveTabStyle
		}
		parts = append(parts, style.Render(tab.name))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderForm() string {
	var parts []string
	parts = append(parts, a.theme.TitleStyle.Render(" "+i18n.T("downloads.form.title")))
	for i := range a.formFields {
		parts = append(parts, "  "+a.formFields[i].View())
	}
	parts = append(parts, a.theme.MutedStyle.Render("  "+i18n.T("downloads.form.submit")))
	return a.theme.InputStyle.Width(a.width).Render(strings.Join(parts, "\n"))
}

func (a App) renderStatusBar() string {
	status := a.locale.T("status.ready")
	switch {
	case a.sending:
		status = a.locale.T("status.thinking")
	case a.loading:
		status = a.locale.T("status.loading")
	case !a.deps.Creds.HasToken():
		status = a.locale.T("status.offline")
	}

	sid, _ := a.deps.Sessions.CurrentID()
	if sid == "" {
		sid = "-"
	}

	left := " " + status
	if a.lastError != "" {
		left += " · " + a.lastError
	}
	right := sid + " · " + a.deps.BaseURL + " "

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return a.theme.StatusBarStyle.Width(a.width).Render(bar)
}

// Run 启动 Bubble Tea 仪表盘
// Run starts the Bubble Tea dashboard
func Run(deps Deps) error {
	app := NewApp(deps)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
