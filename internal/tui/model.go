// Package tui provides the Bubble Tea scavenger-hunt station.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/qrhunt/internal/catalog"
	"github.com/verte-zerg/qrhunt/internal/debounce"
	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
	"github.com/verte-zerg/qrhunt/internal/session"
	"github.com/verte-zerg/qrhunt/internal/stats"
	"github.com/verte-zerg/qrhunt/internal/store"
)

const (
	maxFeedLines  = 500
	inputHeight   = 6
	timerBoxWidth = 24
)

var (
	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	stoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	feedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	paneStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

type keyMap struct {
	Start key.Binding
	Stop  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start")),
		Stop:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop")),
		Clear: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// Deps are the collaborators of the hunt UI.
type Deps struct {
	Catalog *catalog.Catalog
	Matcher *matcher.Matcher
	Log     store.ResultLog
	Quiet   time.Duration
}

// Model implements the Bubble Tea hunt UI and the session display.
type Model struct {
	ctrl    *session.Controller
	catalog *catalog.Catalog

	input   textarea.Model
	history table.Model
	feed    viewport.Model
	help    help.Model
	keys    keyMap

	elapsed  float64
	messages []string
	latest   *model.ResultEntry
	err      error

	width  int
	height int
}

type inputBuffer struct {
	m *Model
}

func (b inputBuffer) Value() string {
	return b.m.input.Value()
}

func (b inputBuffer) Reset() {
	b.m.input.Reset()
}

// NewModel constructs the hunt UI and its session controller.
func NewModel(deps Deps) (*Model, error) {
	input := textarea.New()
	input.Placeholder = "Scan codes here…"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetHeight(inputHeight)
	input.Focus()

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#8C8C8C"))
	styles.Selected = lipgloss.NewStyle()
	history := table.New(
		table.WithColumns(historyColumns(40)),
		table.WithHeight(10),
		table.WithFocused(false),
		table.WithStyles(styles),
	)

	m := &Model{
		catalog: deps.Catalog,
		input:   input,
		history: history,
		feed:    viewport.New(40, 6),
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
	ctrl, err := session.New(session.Options{
		Scheduler: debounce.New(deps.Quiet),
		Matcher:   deps.Matcher,
		Log:       deps.Log,
		Display:   m,
		Buffer:    inputBuffer{m: m},
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// OnTick implements session.Display.
func (m *Model) OnTick(elapsed float64) {
	m.elapsed = elapsed
}

// OnResult implements session.Display.
func (m *Model) OnResult(entry model.ResultEntry) {
	m.latest = &entry
	m.refreshHistory()
}

// OnDiagnostic implements session.Display.
func (m *Model) OnDiagnostic(message string) {
	m.messages = append(m.messages, message)
	if len(m.messages) > maxFeedLines {
		m.messages = m.messages[len(m.messages)-maxFeedLines:]
	}
	m.refreshFeed()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m, m.ctrl.StartTimer()
		case key.Matches(msg, m.keys.Stop):
			m.ctrl.StopTimer()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.ctrl.ClearSession()
			m.latest = nil
			m.refreshHistory()
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.ctrl.NotifyChanged())
		}
		return m, cmd
	case debounce.FireMsg, session.TickMsg:
		cmd, err := m.ctrl.Update(msg)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Results"),
		m.history.View(),
		m.renderLatest(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		timerStyle.Width(timerBoxWidth).Render(formatElapsed(m.elapsed)),
		m.renderStatus(),
		m.input.View(),
		headerStyle.Render("Messages"),
		m.feed.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, paneStyle.Render(left), paneStyle.Render(right))
	footer := m.help.View(m.keys)
	if m.err != nil {
		footer = errorStyle.Render(m.err.Error())
	}
	return body + "\n" + footer
}

func (m *Model) renderStatus() string {
	var status string
	switch {
	case m.ctrl.Running():
		status = runningStyle.Render("● running")
	case m.elapsed > 0:
		status = stoppedStyle.Render("■ stopped")
	default:
		status = idleStyle.Render("○ ready")
	}
	if m.ctrl.Pending() {
		status += "  " + pendingStyle.Render("… reading scans")
	}
	return status
}

func (m *Model) renderLatest() string {
	if m.latest == nil {
		return ""
	}
	groups := stats.GroupHits(*m.latest, m.catalog)
	lines := []string{headerStyle.Render(fmt.Sprintf("Last: %.2fs  %s", m.latest.ElapsedSeconds, stats.FormatPoints(m.latest.TotalPoints)))}
	for _, g := range groups {
		style := positiveStyle
		if g.Points < 0 {
			style = negativeStyle
		}
		lines = append(lines, style.Render(stats.FormatGroup(g)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) refreshHistory() {
	m.history.SetRows(historyRows(m.ctrl.History()))
}

func (m *Model) refreshFeed() {
	width := m.feed.Width
	wrapped := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		wrapped = append(wrapped, wrapText(msg, width))
	}
	m.feed.SetContent(feedStyle.Render(strings.Join(wrapped, "\n")))
	m.feed.GotoBottom()
}

func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	leftWidth := m.width/2 - 4
	rightWidth := m.width - m.width/2 - 4
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < timerBoxWidth {
		rightWidth = timerBoxWidth
	}
	bodyHeight := m.height - 3
	m.history.SetColumns(historyColumns(leftWidth))
	m.history.SetWidth(leftWidth)
	m.history.SetHeight(max(bodyHeight-10, 3))
	m.input.SetWidth(rightWidth)
	m.feed.Width = rightWidth
	m.feed.Height = max(bodyHeight-inputHeight-8, 3)
	m.help.Width = m.width
	m.refreshFeed()
}

func historyColumns(width int) []table.Column {
	hits := width - 4 - 9 - 7 - 3
	if hits < 8 {
		hits = 8
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time", Width: 9},
		{Title: "Points", Width: 7},
		{Title: "Hits", Width: hits},
	}
}

// historyRows numbers entries so the oldest is 1; entries are most recent first.
func historyRows(entries []model.ResultEntry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, table.Row{
			strconv.Itoa(len(entries) - i),
			fmt.Sprintf("%.2fs", e.ElapsedSeconds),
			stats.FormatPoints(e.TotalPoints),
			strings.Join(e.HitNames, " "),
		})
	}
	return rows
}

func formatElapsed(seconds float64) string {
	return fmt.Sprintf("%5.2f", seconds)
}
