package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/unifisync/unifisync/internal/engine"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// renderResult writes the result payload as YAML followed by a one-line
// summary. Styling applies only when stdout is a terminal.
func renderResult(w io.Writer, result *engine.Result) error {
	payload, err := yaml.Marshal(result.Payload())
	if err != nil {
		return fmt.Errorf("encode result payload: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	summary := summaryLine(result)
	if file, ok := w.(*os.File); !ok || !term.IsTerminal(int(file.Fd())) {
		summary = fmt.Sprintf("--- %s", plainSummary(result))
	}
	_, err = fmt.Fprintln(w, summary)
	return err
}

func summaryLine(result *engine.Result) string {
	switch {
	case result.Failed:
		return "--- " + failedStyle.Render("failed: "+result.Msg)
	case result.Changed:
		return "--- " + changedStyle.Render("changed")
	default:
		return "--- " + okStyle.Render("ok")
	}
}

func plainSummary(result *engine.Result) string {
	switch {
	case result.Failed:
		return "failed: " + result.Msg
	case result.Changed:
		return "changed"
	default:
		return "ok"
	}
}
