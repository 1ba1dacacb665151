// Package tui provides the interactive Bubble Tea dashboard for DuskWallet.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/app"
	"github.com/duskwallet/duskwallet/internal/cli"
	"github.com/duskwallet/duskwallet/internal/guard"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/pipeline"
	"github.com/duskwallet/duskwallet/internal/tui/components"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

// Protected locations, one per tab.
var tabPaths = []string{"/dashboard", "/transactions", "/analysis"}

const (
	tabDashboard = iota
	tabTransactions
	tabAnalysis
)

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenMain
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	requestTimeout = 30 * time.Second
	toastDuration  = 4 * time.Second
)

type guardMsg struct{ decision guard.Decision }

type dashboardMsg struct{ data *pipeline.DashboardData }

type transactionsMsg struct {
	txs []model.Transaction
	err error
}

type analysisMsg struct {
	view      analysis.View
	status    *model.AnalysisStatus
	err       error
	refreshed bool
}

type deletedMsg struct {
	id  string
	err error
}

type clearToastMsg struct{ seq int }

// App is the root Bubble Tea model.
type App struct {
	core  *app.App
	guard *guard.Guard

	screen    screen
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	login loginState

	dash        *pipeline.DashboardData
	dashLoading bool
	lastUpdate  time.Time

	txs       []model.Transaction
	txErr     error
	txLoading bool
	txState   transactionsState

	view            analysis.View
	status          *model.AnalysisStatus
	analysisErr     error
	analysisLoading bool
	refreshing      bool

	toast    *components.Toast
	toastSeq int
}

// NewApp returns the TUI model. requested is the location to open after
// the session is resolved, e.g. "/analysis".
func NewApp(core *app.App, requested string) App {
	theme.SetActive(core.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		core:    core,
		guard:   guard.New(requested),
		spinner: sp,
		txState: newTransactionsState(),
	}
	a.activeTab = tabForPath(requested)
	return a
}

func tabForPath(path string) int {
	for i, p := range tabPaths {
		if p == path {
			return i
		}
	}
	return tabDashboard
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		resolveCmd(a.guard, a.core),
	)
}

func resolveCmd(g *guard.Guard, core *app.App) tea.Cmd {
	return func() tea.Msg {
		return guardMsg{decision: g.Resolve(core.Session)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.login.form != nil {
			a.login.form = a.login.form.WithWidth(min(msg.Width, 60))
		}
		if ed := a.txState.editor; ed != nil {
			resized := *ed
			resized.form = ed.form.WithWidth(min(msg.Width, 60))
			a.txState.editor = &resized
		}
		return a, nil

	case guardMsg:
		return a.applyDecision(msg.decision)

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case clearToastMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case dashboardMsg:
		a.dashLoading = false
		a.dash = msg.data
		a.lastUpdate = time.Now()
		if msg.data.Failed() {
			return a.fetchFailed(msg.data.TransactionsErr)
		}
		return a, nil

	case transactionsMsg:
		a.txLoading = false
		a.txErr = msg.err
		if msg.err != nil {
			return a.fetchFailed(msg.err)
		}
		a.txs = msg.txs
		a.txState.clamp(len(a.filteredTransactions()))
		return a, nil

	case analysisMsg:
		return a.handleAnalysis(msg)

	case savedMsg:
		return a.handleSaved(msg)

	case deletedMsg:
		if msg.err != nil {
			return a.fetchFailed(msg.err)
		}
		toast := a.notify(components.ToastSuccess, "Deleted", "transaction "+msg.id)
		reload := a.reloadData()
		return a, tea.Batch(toast, reload)

	case tea.MouseMsg:
		if a.screen != screenMain || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case screenLogin:
			return a.updateLogin(msg)
		case screenMain:
			return a.updateMain(msg)
		}
		return a, nil
	}

	if a.screen == screenLogin && a.login.form != nil {
		return a.updateLogin(msg)
	}
	if a.screen == screenMain && a.txState.editor != nil {
		return a.updateEditor(msg)
	}
	if a.screen == screenMain && a.activeTab == tabTransactions && a.txState.searching {
		var cmd tea.Cmd
		a.txState.search, cmd = a.txState.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applyDecision moves to the screen the guard decided on.
func (a App) applyDecision(d guard.Decision) (tea.Model, tea.Cmd) {
	switch d.State {
	case guard.Loading:
		return a, resolveCmd(a.guard, a.core)
	case guard.Unauthenticated:
		a.screen = screenLogin
		a.resetData()
		a.login = newLoginState(a.login.email)
		if a.width > 0 {
			a.login.form = a.login.form.WithWidth(min(a.width, 60))
		}
		return a, a.login.form.Init()
	}
	a.screen = screenMain
	a.activeTab = tabForPath(a.guard.Requested())
	cmd := a.reloadData()
	return a, cmd
}

// requireLogin drops to the login form and returns here afterwards.
func (a App) requireLogin() (tea.Model, tea.Cmd) {
	a.guard = guard.New(tabPaths[a.activeTab])
	return a.applyDecision(a.guard.Resolve(a.core.Session))
}

func (a *App) resetData() {
	a.dash = nil
	a.txs = nil
	a.txErr = nil
	a.view = analysis.View{}
	a.status = nil
	a.analysisErr = nil
	a.txState = newTransactionsState()
	a.showHelp = false
}

// fetchFailed shows err as a toast, or the login form if the session was
// dropped by a 401.
func (a App) fetchFailed(err error) (tea.Model, tea.Cmd) {
	if !a.core.Session.IsAuthenticated() {
		m, cmd := a.requireLogin()
		next := m.(App)
		toastCmd := next.notify(components.ToastError, "Session expired", "please sign in again")
		return next, tea.Batch(cmd, toastCmd)
	}
	if err == nil {
		return a, nil
	}
	a.core.Log.WithError(err).WithField("status", api.Status(err)).Warn("request failed")
	cmd := a.notify(components.ToastError, "Error", api.Message(err, "could not reach the server"))
	return a, cmd
}

func (a *App) notify(kind components.ToastKind, title, text string) tea.Cmd {
	a.toastSeq++
	a.toast = &components.Toast{Kind: kind, Title: title, Text: text}
	seq := a.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (a App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.activeTab == tabTransactions && a.txState.capturing() {
		return a.updateTransactionsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "L":
		a.core.Session.Logout()
		m, cmd := a.requireLogin()
		next := m.(App)
		toast := next.notify(components.ToastInfo, "Signed out", "")
		return next, tea.Batch(cmd, toast)
	case "r":
		if a.activeTab == tabAnalysis {
			return a.refreshAnalysis()
		}
		cmd := a.reloadData()
		return a, cmd
	case "left":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}

	if a.activeTab == tabTransactions {
		if m, cmd, ok := a.updateTransactionsKeys(key); ok {
			return m, cmd
		}
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	a.showHelp = false
	return a, nil
}

// reloadData fetches everything the three tabs show.
func (a *App) reloadData() tea.Cmd {
	a.dashLoading = true
	a.txLoading = true
	a.analysisLoading = true
	return tea.Batch(
		loadDashboardCmd(a.core),
		loadTransactionsCmd(a.core),
		loadAnalysisCmd(a.core),
	)
}

func loadDashboardCmd(core *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return dashboardMsg{data: pipeline.LoadDashboard(ctx, core.Client)}
	}
}

func loadTransactionsCmd(core *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		txs, err := core.Client.ListTransactions(ctx)
		return transactionsMsg{txs: txs, err: err}
	}
}

func loadAnalysisCmd(core *app.App) tea.Cmd {
	return func() tea.Msg {
		user := core.Session.User()
		if user == nil {
			return analysisMsg{err: guard.ErrUnauthenticated}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := core.Viewer.Load(ctx, *user)
		return analysisMsg{view: view, status: core.Viewer.Status(ctx), err: err}
	}
}

func refreshAnalysisCmd(core *app.App) tea.Cmd {
	return func() tea.Msg {
		user := core.Session.User()
		if user == nil {
			return analysisMsg{err: guard.ErrUnauthenticated, refreshed: true}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := core.Viewer.Refresh(ctx, *user)
		return analysisMsg{view: view, status: core.Viewer.Status(ctx), err: err, refreshed: true}
	}
}

func deleteTransactionCmd(core *app.App, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return deletedMsg{id: id, err: core.Client.DeleteTransaction(ctx, id)}
	}
}

func (a App) handleAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	a.analysisLoading = false
	if msg.refreshed {
		a.refreshing = false
	}
	if msg.status != nil {
		a.status = msg.status
	}

	var limit *api.LimitError
	switch {
	case msg.err == nil:
		a.view = msg.view
		a.analysisErr = nil
		if !msg.refreshed {
			return a, nil
		}
		var cmd tea.Cmd
		if msg.view.Message != "" {
			cmd = a.notify(components.ToastInfo, "Analysis", msg.view.Message)
		} else {
			text := "updated"
			if q := quotaSummary(a.status); q != "" {
				text += " · " + q
			}
			cmd = a.notify(components.ToastSuccess, "Analysis", text)
		}
		return a, cmd
	case errors.As(msg.err, &limit):
		a.view = msg.view
		cmd := a.notify(components.ToastError, "Limit reached",
			fmt.Sprintf("next reset in %s", cli.FormatDays(limit.DaysUntilReset)))
		return a, cmd
	}
	a.analysisErr = msg.err
	return a.fetchFailed(msg.err)
}

func (a App) refreshAnalysis() (tea.Model, tea.Cmd) {
	if a.refreshing {
		return a, nil
	}
	if !analysis.CanRefresh(a.status) {
		cmd := a.notify(components.ToastError, "Limit reached",
			fmt.Sprintf("next reset in %s", cli.FormatDays(a.status.DaysUntilReset)))
		return a, cmd
	}
	a.refreshing = true
	return a, refreshAnalysisCmd(a.core)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	switch a.screen {
	case screenLoading:
		return a.viewLoading()
	case screenLogin:
		return a.viewLogin()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  duskwallet needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ DuskWallet") + subtitleStyle.Render(" · personal finance") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Restoring session...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d t a", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in the transactions list"},
		}},
		{"Transactions", [][2]string{
			{"/", "Search descriptions"},
			{"f c p", "Cycle type / category / payment filter"},
			{"x", "Clear filters"},
			{"n", "New transaction"},
			{"e", "Edit selected transaction"},
			{"D", "Delete selected transaction"},
		}},
		{"Actions", [][2]string{
			{"r", "Reload data, or generate a new analysis"},
			{"L", "Sign out"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	user := ""
	if u := a.core.Session.User(); u != nil {
		user = u.DisplayName()
	}
	age := ""
	if !a.lastUpdate.IsZero() {
		age = cli.FormatRelative(a.lastUpdate, time.Now())
	}
	statusBar := components.RenderStatusBar(w, user, age, a.toast)

	contentH := max(minContentHeight, a.height-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabAnalysis:
		content = a.renderAnalysisTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// loadingLine renders a spinner with a label inside a card body.
func (a App) loadingLine(label string) string {
	t := theme.Active
	return a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" "+label)
}

func mutedText(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// Run starts the program. A panic inside the UI is reported as an error
// after the terminal is restored.
func Run(core *app.App, requested string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			core.Log.WithField("panic", r).Error("tui crashed")
			err = fmt.Errorf("the dashboard hit an unexpected error and had to close: %v", r)
		}
	}()

	p := tea.NewProgram(NewApp(core, requested), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
