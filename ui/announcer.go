// Package ui renders build diagnostics: verbose notices and the optional
// live progress view.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unl-wdn/wdnbuild/executor"
)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
)

// Announcer prints notices when verbose output is enabled.
type Announcer struct {
	out     io.Writer
	verbose bool
}

func NewAnnouncer(out io.Writer, verbose bool) *Announcer {
	return &Announcer{out: out, verbose: verbose}
}

// Announce writes msgs, one per line. Lines tagged [NOTICE] or [ERROR] get
// their tag coloured.
func (a *Announcer) Announce(msgs ...string) {
	if !a.verbose {
		return
	}
	for _, msg := range msgs {
		fmt.Fprintln(a.out, style(msg))
	}
}

func style(msg string) string {
	switch {
	case strings.HasPrefix(msg, "[NOTICE]"):
		return noticeStyle.Render("[NOTICE]") + strings.TrimPrefix(msg, "[NOTICE]")
	case strings.HasPrefix(msg, "[ERROR]"):
		return errorStyle.Render("[ERROR]") + strings.TrimPrefix(msg, "[ERROR]")
	}
	return msg
}

// LogWriter feeds written lines into the log pane of the progress view.
func LogWriter(statusMgr executor.StatusManager) io.Writer {
	return &statusLogWriter{statusMgr: statusMgr}
}

type statusLogWriter struct {
	statusMgr executor.StatusManager
}

func (w *statusLogWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.statusMgr.AppendLog(line)
	}
	return len(p), nil
}
