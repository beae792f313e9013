// Package tui provides the interactive Bubble Tea dashboard for moneymate.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tips"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// LedgerLoadedMsg is sent when the snapshot has been read from disk.
type LedgerLoadedMsg struct {
	LoadTime time.Duration
}

const (
	tabOverview = iota
	tabExpenses
	tabGoals
	tabBudget
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	seriesDays   = 30
	refreshEvery = 30 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	ledger     *ledger.Store
	cfg        config.Config
	threshold  float64
	saveConfig func(config.Config) error

	// Derived from the ledger after every change
	summary  model.LedgerSummary
	alerts   []alert.Alert
	statuses []model.BudgetStatus
	totals   []model.CategoryTotal
	series   []model.DailyTotal
	expenses []model.Expense
	goals    []model.SavingsGoal
	tip      string

	loaded   bool
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string

	expState    listState
	goalState   listState
	budgetState listState
	settings    settingsState

	// Modal huh form
	form     *huh.Form
	formKind formKind
	formVals *formValues
	pending  *model.Expense

	spinner spinner.Model
}

// NewApp creates the dashboard over l. The ledger is loaded by Init.
func NewApp(l *ledger.Store, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	threshold := cfg.Alerts.NearingThreshold
	if threshold <= 0 {
		threshold = alert.DefaultThreshold
	}

	return App{
		ledger:     l,
		cfg:        cfg,
		threshold:  threshold,
		saveConfig: config.Save,
		formVals:   &formValues{},
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadLedgerCmd(a.ledger),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a *App) recompute() {
	now := a.ledger.Now()
	a.summary = a.ledger.Summary(now)
	a.alerts = a.ledger.Alerts(a.threshold, now)
	a.statuses = a.ledger.BudgetStatuses(now)
	a.totals = a.ledger.CategoryTotals(now)
	a.series = a.ledger.DailySeries(seriesDays, now)
	a.expenses = a.ledger.Expenses()
	a.goals = a.ledger.Goals()
	a.tip = tips.SimpleTip(a.ledger, now)

	a.expState.clamp(len(a.expenses))
	a.goalState.clamp(len(a.goals))
	a.budgetState.clamp(len(a.statuses))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = ws.Width
		a.height = ws.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth()).WithHeight(ws.Height)
		}
		return a, nil
	}

	if a.form != nil {
		if _, ok := msg.(tickMsg); ok {
			return a, tickCmd()
		}
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case LedgerLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.recompute()
		if !a.ledger.Settings().HasSeenOnboarding {
			return a.openForm(formOnboarding, newOnboardingForm(a.formVals))
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		if a.loaded {
			a.recompute()
		}
		return a, tickCmd()

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	a.flash = ""

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	case "r":
		return a, loadLedgerCmd(a.ledger)
	case "a":
		return a.openAddForm()
	case "c":
		return a.openForm(formDailyCap, newDailyCapForm(a.formVals, a.summary.DailyMaxSpend))
	case "enter":
		return a.activate()
	case "D", "delete", "backspace":
		return a.openDeleteForm()
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabExpenses:
		a.expState.move(delta, len(a.expenses))
	case tabGoals:
		a.goalState.move(delta, len(a.goals))
	case tabBudget:
		a.budgetState.move(delta, len(a.statuses))
	case tabSettings:
		a.settings.cursor = clampIndex(a.settings.cursor+delta, settingsFieldCount)
	}
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabGoals:
		return a.openForm(formAddGoal, newGoalForm(a.formVals))
	case tabBudget:
		return a.openLimitForm()
	default:
		today := a.ledger.Now().In(a.ledger.Location()).Format(entry.DateLayout)
		return a.openForm(formAddExpense, newExpenseForm(a.formVals, today))
	}
}

func (a App) openLimitForm() (tea.Model, tea.Cmd) {
	category := model.CategoryFood
	current := 0.0
	if a.budgetState.cursor < len(a.statuses) {
		st := a.statuses[a.budgetState.cursor]
		category, current = st.Category, st.Limit
	}
	return a.openForm(formSetLimit, newLimitForm(a.formVals, category, current))
}

func (a App) activate() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabBudget:
		return a.openLimitForm()
	case tabSettings:
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) openDeleteForm() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabExpenses:
		if a.expState.cursor >= len(a.expenses) {
			return a, nil
		}
		e := a.expenses[a.expState.cursor]
		desc := fmt.Sprintf("%s · %s · %s", e.Title, cli.FormatMoney(e.Amount), cli.FormatDate(e.Date.In(a.ledger.Location())))
		return a.openForm(formDeleteExpense, newConfirmForm(a.formVals, "Delete this expense?", desc, "Delete"))
	case tabGoals:
		if a.goalState.cursor >= len(a.goals) {
			return a, nil
		}
		g := a.goals[a.goalState.cursor]
		desc := fmt.Sprintf("%s · %s of %s", g.Name, cli.FormatMoney(g.SavedAmount), cli.FormatMoney(g.TargetAmount))
		return a.openForm(formDeleteGoal, newConfirmForm(a.formVals, "Delete this goal?", desc, "Delete"))
	}
	return a, nil
}

func (a App) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = form
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth()).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) formWidth() int {
	w := a.width - 8
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.form = nil
		a.formKind = formNone
		return a.submitForm(kind)
	case huh.StateAborted:
		kind := a.formKind
		a.form = nil
		a.formKind = formNone
		a.pending = nil
		if kind == formOnboarding {
			a.ledger.MarkOnboardingSeen()
		}
		return a, nil
	}

	return a, cmd
}

// submitForm applies a completed form to the ledger.
func (a App) submitForm(kind formKind) (tea.Model, tea.Cmd) {
	v := a.formVals
	now := a.ledger.Now()
	loc := a.ledger.Location()

	switch kind {
	case formOnboarding:
		if capValue, err := entry.ParseAmount(v.DailyCap); err == nil {
			a.ledger.SetDailyMaxSpend(capValue)
		}
		a.ledger.MarkOnboardingSeen()
		if theme.Valid(v.Theme) && v.Theme != a.cfg.Appearance.Theme {
			theme.SetActive(v.Theme)
			a.cfg.Appearance.Theme = v.Theme
			if err := a.saveConfig(a.cfg); err != nil {
				a.flash = "Could not save theme: " + err.Error()
			}
		}

	case formAddExpense:
		e, err := v.Expense.Build(now, loc)
		if err != nil {
			a.flash = err.Error()
			break
		}
		prospective := alert.Prospective(a.ledger, e, now, a.threshold)
		if daily := alert.Filter(prospective, alert.ScopeDaily, ""); len(daily) > 0 {
			a.pending = &e
			a.recompute()
			return a.openForm(formConfirmOverDaily,
				newConfirmForm(v, "Daily limit", alert.Message(daily[0]), "Add anyway"))
		}
		a.commitExpense(e)

	case formConfirmOverDaily:
		if v.Confirm && a.pending != nil {
			a.commitExpense(*a.pending)
		}
		a.pending = nil

	case formAddGoal:
		g, err := v.Goal.Build(loc)
		if err != nil {
			a.flash = err.Error()
			break
		}
		a.ledger.UpsertGoal(g)
		a.flash = "Added goal " + g.Name

	case formSetLimit:
		category, amount, err := v.Limit.Build()
		if err != nil {
			a.flash = err.Error()
			break
		}
		limit := model.NewBudgetLimit(category, amount)
		if existing, ok := a.ledger.BudgetFor(category); ok {
			limit.ID = existing.ID
		}
		a.ledger.UpsertBudget(limit)
		a.flash = fmt.Sprintf("%s limit set to %s", category.Label(), cli.FormatMoney(amount))

	case formDailyCap:
		capValue := 0.0
		if strings.TrimSpace(v.DailyCap) != "" {
			parsed, err := entry.ParseAmount(v.DailyCap)
			if err != nil {
				a.flash = err.Error()
				break
			}
			capValue = parsed
		}
		a.ledger.SetDailyMaxSpend(capValue)
		if capValue > 0 {
			a.flash = "Daily cap set to " + cli.FormatMoney(capValue)
		} else {
			a.flash = "Daily cap removed"
		}

	case formDeleteExpense:
		if v.Confirm && a.ledger.DeleteExpenses([]int{a.expState.cursor}) > 0 {
			a.flash = "Expense deleted"
		}

	case formDeleteGoal:
		if v.Confirm && a.ledger.DeleteGoals([]int{a.goalState.cursor}) > 0 {
			a.flash = "Goal deleted"
		}
	}

	a.recompute()
	return a, nil
}

// commitExpense records e and reports the first category alert it leaves behind.
func (a *App) commitExpense(e model.Expense) {
	a.ledger.AddExpense(e)
	a.flash = fmt.Sprintf("Added %s (%s)", e.Title, cli.FormatMoney(e.Amount))

	for _, al := range alert.Filter(a.ledger.Alerts(a.threshold, a.ledger.Now()), alert.ScopeCategory, "") {
		if al.Category == e.Category {
			a.flash += " · " + alert.Message(al)
			break
		}
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  moneymate needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("$ moneymate"))
	b.WriteString(subtitleStyle.Render(" · Budget & Savings"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Reading ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(a.form.View()))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	section := func(title string, binds []binding) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section("Navigation", []binding{
		{"o e g b x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move selection"},
	})
	b.WriteString("\n")
	section("Actions", []binding{
		{"a", "Add expense / goal / limit"},
		{"c", "Set daily cap"},
		{"Enter", "Edit selected limit or setting"},
		{"D", "Delete selected expense or goal"},
		{"r", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header and status bar
	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.hints(), a.flash, a.statusInfo())

	// 2. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 3. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case tabGoals:
		content = a.renderGoalsTab(cw, contentH)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 4. Exactly contentH lines, each filled to the content width
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) hints() string {
	switch a.activeTab {
	case tabExpenses, tabGoals:
		return "[a]dd  [D]elete  [?]help  [q]uit"
	case tabBudget:
		return "[Enter] edit limit  [c] daily cap  [?]help  [q]uit"
	case tabSettings:
		return "[Enter] edit  [?]help  [q]uit"
	}
	return "[a]dd expense  [?]help  [q]uit"
}

func (a App) statusInfo() string {
	info := fmt.Sprintf("%s this month · %d expenses · loaded in %s",
		cli.FormatCompactMoney(a.summary.MonthSpend), a.summary.Expenses, a.loadTime.Round(time.Millisecond))
	if n := len(a.alerts); n > 0 {
		info = fmt.Sprintf("%d alert%s · %s", n, plural(n), info)
	}
	if a.summary.DailyMaxSpend > 0 {
		info = components.CompactBudgetBar("today", a.summary.TodaySpend, a.summary.DailyMaxSpend, 22) + "  " + info
	}
	return info
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadLedgerCmd reads the snapshot in the background.
func loadLedgerCmd(l *ledger.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		l.Load()
		return LedgerLoadedMsg{LoadTime: time.Since(start)}
	}
}

// listState is the selection of a scrollable list.
type listState struct {
	cursor int
}

func (s *listState) move(delta, n int) {
	s.cursor = clampIndex(s.cursor+delta, n)
}

func (s *listState) clamp(n int) {
	s.cursor = clampIndex(s.cursor, n)
}

// window returns the visible [start, end) rows of an n-row list that keep the
// cursor on screen.
func (s listState) window(n, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
	}
	return start, end
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

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

// fillLinesWithBackground pads every line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab under column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// one-column separator
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
