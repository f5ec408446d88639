// Package tui is the terminal front end: bubbletea delivers key presses and
// ticks to one Update loop, which drives a rules.Machine.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/tilesnake/autopilot"
	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/rules"
)

// attractRestartTicks is how long the game over screen stays up in
// autopilot mode.
const attractRestartTicks = 10

type TickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type Options struct {
	TickInterval time.Duration
	Autopilot    bool
}

type Model struct {
	machine  *rules.Machine
	interval time.Duration
	auto     bool
	styles   styles

	overTicks int
}

func New(machine *rules.Machine, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 300 * time.Millisecond
	}
	return Model{
		machine:  machine,
		interval: opts.TickInterval,
		auto:     opts.Autopilot,
		styles:   defaultStyles(),
	}
}

// Init arms the tick driver the first time a model starts on a machine.
func (m Model) Init() tea.Cmd {
	if m.machine.StartLoop() {
		return tickCmd(m.interval)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case isQuit(msg):
			return m, tea.Quit
		case isRestart(msg):
			m.machine.Restart()
			m.overTicks = 0
		default:
			if d, ok := KeyDirection(msg); ok {
				m.machine.Command(d)
			}
		}
		return m, nil

	case TickMsg:
		if m.auto {
			m.steer()
		}
		m.machine.Step()
		return m, tickCmd(m.interval)
	}
	return m, nil
}

// steer lets the autopilot play and restarts finished games after a pause.
func (m *Model) steer() {
	if m.machine.Phase() == game.GameOver {
		m.overTicks++
		if m.overTicks < attractRestartTicks {
			return
		}
		m.overTicks = 0
		m.machine.Restart()
	}
	st := m.machine.State()
	m.machine.Command(autopilot.Choose(st, m.machine.Grid()))
}

func (m Model) View() string {
	f := m.machine.Frame()

	var sb strings.Builder
	sb.WriteString(m.styles.title.Render("tilesnake"))
	if m.auto {
		sb.WriteString(m.styles.hint.Render("  [autopilot]"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.score.Render(fmt.Sprintf("Score: %d | High Score: %d", f.Score, f.High)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.board.Render(m.renderBoard(f)))
	sb.WriteString("\n")

	switch f.Phase {
	case game.Idle:
		sb.WriteString(m.styles.overlay.Render("Press any arrow key to start"))
	case game.GameOver:
		title := "Game Over!"
		if f.Cause == game.CauseBoardFull {
			title = "Board cleared!"
		}
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left,
			m.styles.overlay.Render(title),
			m.styles.overlay.Render(fmt.Sprintf("Final Score: %d", f.Score)),
		))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.hint.Render("arrows/wasd/hjkl move · r restart · q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderBoard(f game.Frame) string {
	n := f.Width
	cells := make([][]string, n)
	empty := m.styles.empty.Render("· ")
	for y := range cells {
		cells[y] = make([]string, n)
		for x := range cells[y] {
			cells[y][x] = empty
		}
	}
	in := func(p game.Point) bool {
		return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n
	}
	if f.Food != nil && in(*f.Food) {
		cells[f.Food.Y][f.Food.X] = m.styles.food.Render("● ")
	}
	for i := len(f.Body) - 1; i >= 0; i-- {
		p := f.Body[i]
		if !in(p) {
			continue
		}
		if i == 0 {
			cells[p.Y][p.X] = m.styles.head.Render("█ ")
		} else {
			cells[p.Y][p.X] = m.styles.body.Render("▓ ")
		}
	}

	rows := make([]string, n)
	for y := range cells {
		rows[y] = strings.Join(cells[y], "")
	}
	return strings.Join(rows, "\n")
}
