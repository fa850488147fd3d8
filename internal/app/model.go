package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/buckleypaul/flashmon/internal/flash"
	"github.com/buckleypaul/flashmon/internal/store"
	"github.com/buckleypaul/flashmon/internal/ui"
)

const logTail = 6

// tickMsg drives the elapsed-time and progress redraw. Throttled to the
// configured refresh rate; redrawing faster than a human can read is waste.
type tickMsg time.Time

type boardView struct {
	id  int
	log []string
}

// Model is the dashboard: one panel per registered board showing state,
// progress, elapsed time and a log tail. All flashing state lives in the
// orchestrator; the model only renders snapshots and events.
type Model struct {
	orch    *flash.Orchestrator
	st      *store.Store
	log     *zap.SugaredLogger
	baud    int
	refresh time.Duration

	boards []*boardView
	byID   map[int]*boardView
	bar    progress.Model
	width  int
	height int
	status string
}

// New builds the dashboard model around an orchestrator.
func New(orch *flash.Orchestrator, st *store.Store, log *zap.SugaredLogger, baud int, refresh time.Duration) Model {
	return Model{
		orch:    orch,
		st:      st,
		log:     log,
		baud:    baud,
		refresh: refresh,
		byID:    make(map[int]*boardView),
		bar:     progress.New(progress.WithDefaultGradient()),
		status:  "press a to add all attached boards",
	}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.panelWidth() - 6
		return m, nil

	case tickMsg:
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, GlobalKeys.Quit):
			m.orch.StopAll()
			return m, tea.Quit
		case key.Matches(msg, GlobalKeys.AddBoards):
			return m.addBoards(), nil
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event), nil
	}

	return m, nil
}

func (m Model) addBoards() Model {
	ids, err := m.orch.RegisterAll(m.baud)
	if err != nil {
		m.status = "port discovery failed: " + err.Error()
		return m
	}
	if len(ids) == 0 {
		m.status = "no serial ports found"
		return m
	}

	for _, id := range ids {
		v := &boardView{id: id}
		m.boards = append(m.boards, v)
		m.byID[id] = v
	}
	m.status = fmt.Sprintf("monitoring %d board(s)", len(m.boards))
	return m
}

func (m Model) handleEvent(ev flash.Event) Model {
	v := m.byID[ev.Board()]
	if v == nil {
		return m
	}

	switch ev := ev.(type) {
	case flash.FirstTransmission:
		v.append("[first transmission received]")

	case flash.LineReceived:
		v.append(ev.Text)

	case flash.DecodeError:
		v.append("[decode error: " + ev.Message + "]")

	case flash.PortError:
		v.append("[port error: " + ev.Message + "]")
		m.recordOutcome(ev.BoardID, store.OutcomeError, ev.Message)

	case flash.Flashed:
		v.append("[firmware flashing completed]")
		outcome := store.OutcomeFlashed
		if snap, ok := m.orch.Snapshot(ev.BoardID); ok && snap.State == flash.StateTimedOut {
			outcome = store.OutcomeTimedOut
		}
		m.recordOutcome(ev.BoardID, outcome, "")
	}
	return m
}

func (m Model) recordOutcome(id int, outcome, detail string) {
	snap, ok := m.orch.Snapshot(id)
	if !ok {
		return
	}
	record := store.SessionRecord{
		BoardID:   id,
		Port:      snap.Board.Port,
		BaudRate:  snap.Board.Baud,
		Outcome:   outcome,
		Detail:    detail,
		Timestamp: time.Now(),
		Duration:  snap.Elapsed.Round(time.Millisecond).String(),
	}
	if err := m.st.AddSession(record); err != nil {
		m.log.Errorw("recording session outcome", "board", id, "error", err)
	}
}

func (v *boardView) append(line string) {
	v.log = append(v.log, line)
	if len(v.log) > logTail {
		v.log = v.log[len(v.log)-logTail:]
	}
}

func (m Model) panelWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(ui.Title("flashmon — firmware flash monitor"))
	b.WriteString("\n")

	if len(m.boards) == 0 {
		b.WriteString(ui.DimStyle.Render("No boards yet. Attach them and press a."))
		b.WriteString("\n")
	}

	for _, v := range m.boards {
		snap, ok := m.orch.Snapshot(v.id)
		if !ok {
			continue
		}
		b.WriteString(m.renderBoard(v, snap))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderBoard(v *boardView, snap flash.Snapshot) string {
	title := fmt.Sprintf("Board %d (%s)", snap.Board.ID+1, snap.Board.Port)

	var lines []string
	lines = append(lines,
		stateBadge(snap.State)+"  "+ui.ElapsedStyle.Render(flash.FormatElapsed(snap.Elapsed)),
		m.bar.ViewAs(snap.Percent/100),
	)
	for _, l := range v.log {
		lines = append(lines, ui.LogStyle.Render(l))
	}

	return ui.Panel(title, strings.Join(lines, "\n"), m.panelWidth(), stateColor(snap.State))
}

func (m Model) renderStatusBar() string {
	parts := []string{
		ui.StatusKey("a", "add boards"),
		ui.StatusKey("q", "quit"),
	}
	line := strings.Join(parts, "  ")
	if m.status != "" {
		line += ui.StatusBarStyle.Render("  " + m.status)
	}
	return ui.StatusBarStyle.Width(m.width).Render(line)
}

func stateBadge(s flash.State) string {
	return ui.Badge(strings.ToUpper(s.String()), stateColor(s))
}

func stateColor(s flash.State) lipgloss.Color {
	switch s {
	case flash.StateFlashed, flash.StateTimedOut:
		return ui.Success
	case flash.StateErrored:
		return ui.Error
	case flash.StateActive:
		return ui.Primary
	case flash.StateTerminated:
		return ui.Subtle
	default:
		return ui.Surface
	}
}
