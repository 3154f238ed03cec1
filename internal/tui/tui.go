// internal/tui/tui.go
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qmbtools/qmb-monitor/internal/poll"
	"github.com/qmbtools/qmb-monitor/internal/register"
)

// --- STYLES ---
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#575B7E")).
			Padding(0, 1)

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const writeTimeout = 2 * time.Second

type eventMsg poll.Event

type streamClosedMsg struct{}

type writeDoneMsg struct {
	name string
	err  error
}

// Model renders the live readings and drives configuration writes.
type Model struct {
	mon  *poll.Monitor
	regs []register.Descriptor

	status    string
	connected bool
	snap      poll.Snapshot

	table  viewport.Model
	input  textinput.Model
	notice string
	ready  bool
}

// New builds the UI model around a running monitor.
func New(mon *poll.Monitor, regs []register.Descriptor) Model {
	ti := textinput.New()
	ti.Placeholder = "<register> <value>"
	ti.Prompt = "write> "
	ti.CharLimit = 96
	ti.Focus()

	return Model{
		mon:    mon,
		regs:   regs,
		status: "waiting for device",
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.mon.Events()), textinput.Blink)
}

func waitForEvent(ch <-chan poll.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func writeCmd(mon *poll.Monitor, name, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return writeDoneMsg{name: name, err: mon.Write(ctx, name, text)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		height := msg.Height - 7 // title, status, input, notice, help, borders
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.table = viewport.New(msg.Width-2, height)
			m.ready = true
		} else {
			m.table.Width = msg.Width - 2
			m.table.Height = height
		}
		m.table.SetContent(m.renderTable())
		return m, nil

	case eventMsg:
		switch msg.Kind {
		case poll.EventStatus:
			m.status = msg.Status
			m.connected = msg.State == poll.StateConnected
		case poll.EventData:
			m.snap = msg.Snapshot
			if m.ready {
				m.table.SetContent(m.renderTable())
			}
		}
		return m, waitForEvent(m.mon.Events())

	case streamClosedMsg:
		return m, tea.Quit

	case writeDoneMsg:
		if msg.err != nil {
			m.notice = errStyle.Render(fmt.Sprintf("write %s: %v", msg.name, msg.err))
		} else {
			m.notice = fmt.Sprintf("write %s: ok", msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.commitWrite()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitWrite() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	if !m.connected {
		m.notice = errStyle.Render("not connected")
		return m, nil
	}

	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		m.notice = errStyle.Render("usage: <register> <value>")
		return m, nil
	}
	m.input.Reset()
	m.notice = fmt.Sprintf("writing %s...", parts[0])
	return m, writeCmd(m.mon, parts[0], strings.TrimSpace(parts[1]))
}

func (m Model) renderTable() string {
	width := 0
	for _, d := range m.regs {
		if len(d.Name) > width {
			width = len(d.Name)
		}
	}

	var b strings.Builder
	for _, d := range m.regs {
		val := "-"
		if v, ok := m.snap.Value(d.Name); ok {
			s := v.String()
			if v.IsError() {
				s = errStyle.Render(s)
			}
			val = s
		}
		fmt.Fprintf(&b, "%s  %s\n", nameStyle.Render(fmt.Sprintf("%-*s", width, d.Name)), val)
	}

	for _, ch := range []string{"CH1", "CH2"} {
		if usage, ok := CrystalUsage(m.snap, ch); ok {
			fmt.Fprintf(&b, "\n%s crystal wear: %5.1f%%", ch, usage)
		}
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	status := waitingStyle.Render(m.status)
	if m.connected {
		status = connectedStyle.Render(m.status)
	}

	return fmt.Sprintf(
		"%s\n%s\n%s\n%s\n%s\n%s",
		titleStyle.Render("QMB thickness monitor"),
		status,
		tableStyle.Render(m.table.View()),
		m.input.View(),
		m.notice,
		helpStyle.Render("enter: write   esc/ctrl+c: quit"),
	)
}
