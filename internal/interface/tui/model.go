// Package tui renders the live timer view for stint watch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stintd/stint/internal/application/dto"
	"github.com/stintd/stint/internal/application/port/input"
	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/infrastructure/watcher"
)

type theme struct {
	title   lipgloss.Style
	focus   lipgloss.Style
	brk     lipgloss.Style
	waiting lipgloss.Style
	paused  lipgloss.Style
	idle    lipgloss.Style
	label   lipgloss.Style
	notice  lipgloss.Style
	danger  lipgloss.Style
	help    lipgloss.Style
}

func newTheme() theme {
	return theme{
		title:   lipgloss.NewStyle().Bold(true),
		focus:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		brk:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		waiting: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		idle:    lipgloss.NewStyle().Faint(true),
		label:   lipgloss.NewStyle().Italic(true),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:    lipgloss.NewStyle().Faint(true),
	}
}

type (
	tickMsg        time.Time
	storeChangeMsg struct{}
	busEventMsg    output.TimerEvent
	resultMsg      struct{ res *dto.OperationResult }
	errMsg         struct{ err error }
)

// Model is the watch view state
type Model struct {
	timer input.TimerUseCase
	store *watcher.StoreWatcher

	events   <-chan output.TimerEvent
	busToken string
	bus      output.EventBus

	status dto.StatusDTO
	notice string
	err    error

	bar    progress.Model
	theme  theme
	width  int
	height int
}

// NewModel builds the watch model. The bus subscription lives until the
// program exits and the container closes the bus.
func NewModel(timer input.TimerUseCase, bus output.EventBus, store *watcher.StoreWatcher) Model {
	events, token := bus.Subscribe(16)
	return Model{
		timer:    timer,
		store:    store,
		events:   events,
		busToken: token,
		bus:      bus,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		theme:    newTheme(),
		width:    60,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.pollCmd(),
		tickCmd(),
		watchStoreCmd(m.store),
		waitBusEventCmd(m.events),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.bus.Unsubscribe(m.busToken)
			return m, tea.Quit
		case "s":
			return m, m.startCmd()
		case "p":
			return m, m.opCmd(m.timer.Pause)
		case "r":
			return m, m.opCmd(m.timer.Resume)
		case "c":
			return m, m.opCmd(m.timer.Cancel)
		case "n", "enter":
			return m, m.opCmd(m.timer.Acknowledge)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.pollCmd(), tickCmd())

	case storeChangeMsg:
		return m, tea.Batch(m.pollCmd(), watchStoreCmd(m.store))

	case busEventMsg:
		if msg.Type != output.EventTick {
			m.notice = string(msg.Type)
		}
		return m, tea.Batch(m.pollCmd(), waitBusEventCmd(m.events))

	case resultMsg:
		m.status = msg.res.Status
		m.err = nil
		if !msg.res.Ok {
			m.notice = fmt.Sprintf("rejected: %s", msg.res.Reason)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.title.Render("stint"))
	b.WriteString("\n\n")

	b.WriteString(m.phaseLine())
	b.WriteString("\n")

	if m.status.Label != "" {
		b.WriteString(m.theme.label.Render(m.status.Label))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.status.Phase {
	case "IDLE":
		b.WriteString(m.theme.idle.Render(fmt.Sprintf(
			"press s to start a %s focus interval", formatClock(m.status.FocusSeconds))))
		b.WriteString("\n")
	case "WAITING_CONFIRM":
		b.WriteString(m.theme.waiting.Render("focus finished, press n to start the break"))
		b.WriteString("\n")
	default:
		b.WriteString(m.theme.title.Render(formatClock(m.status.RemainingSeconds)))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(m.progressPercent()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.theme.danger.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(m.theme.notice.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.help.Render("s start · n next · p pause · r resume · c cancel · q quit"))
	return b.String()
}

func (m Model) phaseLine() string {
	switch m.status.Phase {
	case "RUNNING_FOCUS":
		return m.theme.focus.Render("FOCUS")
	case "RUNNING_BREAK":
		return m.theme.brk.Render("BREAK")
	case "WAITING_CONFIRM":
		return m.theme.waiting.Render("FOCUS DONE")
	case "PAUSED_FOCUS":
		return m.theme.paused.Render("FOCUS (paused)")
	case "PAUSED_BREAK":
		return m.theme.paused.Render("BREAK (paused)")
	default:
		return m.theme.idle.Render("IDLE")
	}
}

// progressPercent reports how far the current phase has advanced
func (m Model) progressPercent() float64 {
	var total int64
	switch m.status.Phase {
	case "RUNNING_FOCUS", "PAUSED_FOCUS":
		total = m.status.FocusSeconds
	case "RUNNING_BREAK", "PAUSED_BREAK":
		total = m.status.BreakSeconds
	default:
		return 0
	}
	if total <= 0 {
		return 0
	}
	pct := 1 - float64(m.status.RemainingSeconds)/float64(total)
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func (m Model) pollCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.timer.Poll(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{res}
	}
}

// startCmd begins a cycle with the stored interval configuration
func (m Model) startCmd() tea.Cmd {
	req := dto.StartTimerRequest{
		FocusSeconds: m.status.FocusSeconds,
		BreakSeconds: m.status.BreakSeconds,
	}
	return func() tea.Msg {
		res, err := m.timer.Start(context.Background(), req)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{res}
	}
}

func (m Model) opCmd(op func(context.Context) (*dto.OperationResult, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := op(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{res}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchStoreCmd waits for a store change made by another process
func watchStoreCmd(w *watcher.StoreWatcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return storeChangeMsg{}
	}
}

// waitBusEventCmd waits for the next in-process timer event
func waitBusEventCmd(events <-chan output.TimerEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return busEventMsg(ev)
	}
}

// formatClock renders whole seconds as mm:ss, or h:mm:ss past an hour
func formatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
