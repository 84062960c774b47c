// Package tui provides the interactive Bubble Tea dashboard for expdash.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/config"
	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/tui/components"
	"github.com/iterlife/expdash/internal/tui/theme"
)

// batchDoneMsg is sent when a group of loads finishes.
type batchDoneMsg struct {
	label  string
	report *dashboard.Report
}

// sourceDoneMsg is sent when a single-source load finishes.
type sourceDoneMsg struct {
	source dashboard.Source
	err    error
}

// exportDoneMsg is sent when an export download has been saved (or failed).
type exportDoneMsg struct {
	saved dashboard.SavedExport
	err   error
}

type tickMsg time.Time

const (
	tabOverview = iota
	tabCategories
	tabRecent
	tabTrend
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	flashDuration = 4 * time.Second
	tickInterval  = time.Second
)

// Options configures the App.
type Options struct {
	Config     config.Config
	Controller *dashboard.Controller
	Logger     *slog.Logger
	// SaveConfig defaults to config.Update.
	SaveConfig func(func(*config.Config)) error
}

// App is the root Bubble Tea model.
type App struct {
	ctrl   *dashboard.Controller
	snap   *dashboard.State
	cfg    config.Config
	log    *slog.Logger
	server string

	// Load state
	loaded   bool
	inFlight int
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time

	// saveConfig persists settings changed from the UI
	saveConfig func(func(*config.Config)) error

	// Notified errors shown in a modal until a key is pressed
	errs []string

	// Transient status bar message
	flash      string
	flashErr   bool
	flashUntil time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Filter, export and selector forms
	form     *huh.Form
	formKind formKind
	formVals *formValues

	spinner spinner.Model
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(opts.Config.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 5 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	saveConfig := opts.SaveConfig
	if saveConfig == nil {
		saveConfig = config.Update
	}

	return App{
		saveConfig:      saveConfig,
		inFlight:        1, // the initial load issued by Init
		ctrl:            opts.Controller,
		snap:            opts.Controller.Snapshot(),
		cfg:             opts.Config,
		log:             logger,
		server:          opts.Config.Server.BaseURL,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		formVals:        &formValues{},
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		loadAllCmd(a.ctrl, "initial load"),
		tickCmd(),
	)
}

func (a *App) startBatch() {
	a.inFlight++
}

func (a *App) endBatch() {
	if a.inFlight > 0 {
		a.inFlight--
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil || len(a.errs) > 0 {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case batchDoneMsg:
		a.endBatch()
		a.loaded = true
		a.loadTime = msg.report.Duration()
		a.lastRefresh = time.Now()
		a.snap = a.ctrl.Snapshot()
		a.errs = append(a.errs, msg.report.Notify()...)
		a.log.Debug("batch applied", "label", msg.label, "errors", len(msg.report.Errors))
		return a, nil

	case sourceDoneMsg:
		a.endBatch()
		a.snap = a.ctrl.Snapshot()
		if msg.err != nil && msg.source.Primary() {
			a.errs = append(a.errs, msg.err.Error())
		}
		return a, nil

	case exportDoneMsg:
		a.endBatch()
		if msg.err != nil {
			a.errs = append(a.errs, msg.err.Error())
			return a, nil
		}
		a.setFlash(fmt.Sprintf("Saved %s (%s)", msg.saved.Path, msg.saved.HumanSize()), false)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.inFlight > 0 {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		now := time.Time(msg)
		if a.flash != "" && now.After(a.flashUntil) {
			a.flash = ""
		}
		if a.loaded && a.autoRefresh && a.inFlight == 0 && now.Sub(a.lastRefresh) >= a.refreshInterval {
			a.startBatch()
			cmds = append(cmds, loadAllCmd(a.ctrl, "auto refresh"), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		a.ctrl.Close()
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" {
			a.form, a.formKind = nil, formNone
			return a, nil
		}
		return a.updateForm(msg)
	}

	// Any key dismisses the error modal
	if len(a.errs) > 0 {
		a.errs = nil
		return a, nil
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
		a.ctrl.Close()
		return a, tea.Quit

	case "1", "2", "3", "4":
		a.activeTab = components.TabIdxByKey(rune(key[0]))
		return a, nil
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if !a.loaded {
		return a, nil
	}

	switch key {
	case "r":
		a.startBatch()
		return a, tea.Batch(loadAllCmd(a.ctrl, "refresh"), a.spinner.Tick)

	case "m":
		a.startBatch()
		return a, tea.Batch(loadSourceCmd(a.ctrl.RefreshMonthly, dashboard.SourceMonthly), a.spinner.Tick)

	case "x":
		a.startBatch()
		return a, tea.Batch(resetCmd(a.ctrl), a.spinner.Tick)

	case "R":
		a.autoRefresh = !a.autoRefresh
		state := "off"
		if a.autoRefresh {
			state = "on"
		}
		on := a.autoRefresh
		if err := a.saveConfig(func(c *config.Config) { c.TUI.AutoRefresh = on }); err != nil {
			a.log.Warn("saving auto-refresh setting", "error", err)
			a.setFlash("Auto-refresh "+state+" (not saved: "+err.Error()+")", true)
			return a, nil
		}
		a.setFlash("Auto-refresh "+state, false)
		return a, nil

	case "y":
		return a.openForm(formYear, newYearForm(a.snap.YearSelect, a.formVals))
	case "g":
		return a.openForm(formCategory, newCategoryForm(a.snap.CategorySelect, a.formVals))
	case "f":
		return a.openForm(formDates, newDatesForm(a.snap.Filters, a.formVals))
	case "e":
		return a.openForm(formExport, newExportForm(a.formVals))
	}
	return a, nil
}

func (a App) openForm(kind formKind, f *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = f.WithWidth(a.formWidth()).WithTheme(huh.ThemeCharm())
	return a, a.form.Init()
}

func (a App) formWidth() int {
	w := a.width / 2
	if w < 40 {
		w = 40
	}
	if w > 70 {
		w = 70
	}
	return w
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateAborted:
		a.form, a.formKind = nil, formNone
		return a, nil
	case huh.StateCompleted:
		kind := a.formKind
		a.form, a.formKind = nil, formNone
		return a.submitForm(kind)
	}
	return a, cmd
}

// submitForm turns a completed form into controller calls.
func (a App) submitForm(kind formKind) (tea.Model, tea.Cmd) {
	v := a.formVals
	switch kind {
	case formYear:
		year, _ := strconv.Atoi(v.year)
		a.startBatch()
		return a, tea.Batch(loadSourceCmd(func(ctx context.Context) error {
			return a.ctrl.SetYear(ctx, year)
		}, dashboard.SourceMonthly), a.spinner.Tick)

	case formCategory:
		category := v.category
		a.activeTab = tabTrend
		a.startBatch()
		return a, tea.Batch(loadSourceCmd(func(ctx context.Context) error {
			return a.ctrl.SetCategory(ctx, category)
		}, dashboard.SourceTrend), a.spinner.Tick)

	case formDates:
		start, end := strings.TrimSpace(v.start), strings.TrimSpace(v.end)
		a.startBatch()
		return a, tea.Batch(dateRangeCmd(a.ctrl, start, end), a.spinner.Tick)

	case formExport:
		a.startBatch()
		return a, tea.Batch(exportCmd(a.ctrl, v.dataType, v.format, a.cfg.Export.Dir), a.spinner.Tick)
	}
	return a, nil
}

func (a *App) setFlash(s string, isErr bool) {
	a.flash = s
	a.flashErr = isErr
	a.flashUntil = time.Now().Add(flashDuration)
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

	if len(a.errs) > 0 {
		return a.viewErrors()
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
		"\n  Terminal too narrow (%d cols)\n\n  expdash needs at least %d columns.\n",
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

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ expdash"))
	b.WriteString(subtitleStyle.Render(" · Expense Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading statistics from " + a.server))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("enter confirm · esc cancel")

	card := cardStyle.Render(a.form.View() + "\n" + hint)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewErrors() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.SurfaceHover).
		Padding(1, 3).
		MaxWidth(a.width - 4)

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.SurfaceHover).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.SurfaceHover)

	maxW := a.width - 14
	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ Error"))
	b.WriteString("\n\n")
	for _, e := range a.errs {
		b.WriteString(textStyle.Render(truncStr(e, maxW)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to continue"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.BadgeInfo).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1 2 3 4", "Jump to tab"},
			{"← →", "Previous / Next tab"},
		}},
		{"Filters", []struct{ key, desc string }{
			{"y", "Choose year (monthly chart)"},
			{"g", "Choose category (trend)"},
			{"f", "Set date range"},
			{"x", "Reset all filters"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"e", "Export data"},
			{"r", "Refresh everything"},
			{"m", "Refresh monthly chart"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.name))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// filterSummary renders the active filters as a pill row under the tabs.
func (a App) filterSummary() string {
	t := theme.Active
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	f := a.snap.Filters
	year := dashboard.AllYears
	if f.Year > 0 {
		year = strconv.Itoa(f.Year)
	}
	category := dashboard.AllCategories
	if f.Category != "" {
		category = f.Category
	}
	dates := "any date"
	if f.Start != "" || f.End != "" {
		dates = orDots(f.Start) + " → " + orDots(f.End)
	}

	return pill.Render(" "+a.snap.CurrentDate+" │ ") +
		accent.Render(year) + pill.Render(" │ ") +
		accent.Render(category) + pill.Render(" │ ") +
		accent.Render(dates) + pill.Render(" ")
}

func orDots(s string) string {
	if s == "" {
		return "…"
	}
	return s
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	filterRowStyle := lipgloss.NewStyle().Background(t.Surface).Width(w)
	header := components.RenderTabBar(a.activeTab, w) + "\n" + filterRowStyle.Render(a.filterSummary())

	// 2. Status bar
	status := components.Status{
		Server:      a.server,
		Refreshing:  a.inFlight > 0,
		AutoRefresh: a.autoRefresh,
		Flash:       a.flash,
		FlashIsErr:  a.flashErr,
	}
	if !a.snap.LastLoaded.IsZero() {
		status.DataAge = fmt.Sprintf("loaded %s in %s", a.snap.LastLoaded.Format("15:04:05"), cli.FormatDuration(a.loadTime))
	}
	if a.inFlight > 0 {
		status.DataAge = a.spinner.View() + " " + status.DataAge
	}
	statusBar := components.RenderStatusBar(w, status)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw, contentH)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	case tabRecent:
		content = a.renderRecentTab(cw)
	case tabTrend:
		content = a.renderTrendTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadAllCmd(ctrl *dashboard.Controller, label string) tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg{label: label, report: ctrl.LoadAll(context.Background())}
	}
}

func resetCmd(ctrl *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg{label: "reset", report: ctrl.ResetFilters(context.Background())}
	}
}

func dateRangeCmd(ctrl *dashboard.Controller, start, end string) tea.Cmd {
	return func() tea.Msg {
		report, err := ctrl.SetDateRange(context.Background(), start, end)
		if err != nil {
			// Rejected before any request was made.
			return sourceDoneMsg{source: dashboard.SourceCategories, err: err}
		}
		return batchDoneMsg{label: "date range", report: report}
	}
}

func loadSourceCmd(load func(context.Context) error, src dashboard.Source) tea.Cmd {
	return func() tea.Msg {
		return sourceDoneMsg{source: src, err: load(context.Background())}
	}
}

func exportCmd(ctrl *dashboard.Controller, dataType, format, dir string) tea.Cmd {
	return func() tea.Msg {
		saved, err := ctrl.Export(context.Background(), dataType, format, dir)
		return exportDoneMsg{saved: saved, err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > limit-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
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

// fillLinesWithBackground pads each line to width w with background color.
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
