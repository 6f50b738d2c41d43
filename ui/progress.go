package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unl-wdn/wdnbuild/executor"
)

const shownLogLines = 10

type tickMsg time.Time

// DoneMsg ends the progress view once the build returned.
type DoneMsg struct {
	Err error
}

type model struct {
	statusMgr executor.StatusManager
	spinner   spinner.Model
	done      bool
	err       error
}

// NewProgressModel returns a bubbletea model that polls statusMgr.
func NewProgressModel(statusMgr executor.StatusManager) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return &model{
		statusMgr: statusMgr,
		spinner:   s,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tickMsg:
		if !m.done {
			return m, tickCmd()
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	var sb strings.Builder
	sb.WriteString("WDN template build\n\n")

	for _, name := range m.statusMgr.Steps() {
		status, _ := m.statusMgr.Status(name)

		var duration time.Duration
		if !status.EndTime.IsZero() {
			duration = status.EndTime.Sub(status.StartTime)
		} else if !status.StartTime.IsZero() {
			duration = time.Since(status.StartTime)
		}

		prefix := "  "
		if status.Status == executor.StatusRunning && !m.done {
			prefix = m.spinner.View() + " "
		}

		sb.WriteString(fmt.Sprintf("%s%-12s | %-10s | %s\n",
			prefix,
			name,
			statusStyle(status.Status).Render(status.Status),
			duration.Round(time.Millisecond),
		))
	}

	lines := m.statusMgr.LogLines()
	if len(lines) > shownLogLines {
		lines = lines[len(lines)-shownLogLines:]
	}
	if len(lines) > 0 {
		sb.WriteString("\n")
		sb.WriteString(noticeStyle.Render(strings.Join(lines, "\n")))
		sb.WriteString("\n")
	}

	if m.done && m.err != nil {
		sb.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	if !m.done {
		sb.WriteString("\n\033[1mPress q to quit\033[0m")
	}
	return sb.String()
}

func statusStyle(status string) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	switch status {
	case executor.StatusCompleted:
		style = style.Foreground(lipgloss.Color("82"))
	case executor.StatusFailed:
		style = style.Foreground(lipgloss.Color("160"))
	case executor.StatusQueued:
		style = style.Foreground(lipgloss.Color("243"))
	}
	return style
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RunWithProgress runs build while the progress view is on screen and
// returns the build's error.
func RunWithProgress(statusMgr executor.StatusManager, build func() error) error {
	p := tea.NewProgram(NewProgressModel(statusMgr))

	result := make(chan error, 1)
	go func() {
		err := build()
		result <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running progress view: %w", err)
	}
	return <-result
}
