package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"portfolio-backend/internal/llm"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// pingReport is one provider's ping outcome.
type pingReport struct {
	Provider llm.Provider
	Attempts int
	Latency  time.Duration
	Reply    string
	Err      error
}

func renderPing(r pingReport) string {
	var b strings.Builder

	header := titleStyle.Render(r.Provider.Name) + dimStyle.Render(fmt.Sprintf(" %s · %s", r.Provider.Kind, r.Provider.Model))
	b.WriteString(header)
	b.WriteString("\n")

	meta := dimStyle.Render(fmt.Sprintf("attempts %d · %s", r.Attempts, r.Latency.Round(time.Millisecond)))
	if r.Err == nil {
		b.WriteString(okStyle.Render("OK") + "  " + meta + "\n")
		b.WriteString(boxStyle.Render(truncate(r.Reply, 400)))
		return b.String()
	}

	class := llm.Classify(r.Err)
	category := llm.UserCategory(r.Err)
	b.WriteString(failStyle.Render("FAIL") + "  " + meta + "\n")
	b.WriteString(fmt.Sprintf("class:    %s (%s)\n", class, class.Message()))
	b.WriteString(fmt.Sprintf("category: %s (%s)\n", category, category.Message()))
	b.WriteString(dimStyle.Render(truncate(r.Err.Error(), 400)))
	return b.String()
}

func renderProvider(p llm.Provider) string {
	key := failStyle.Render("no key")
	if p.APIKey != "" {
		key = okStyle.Render(fmt.Sprintf("key set (%d chars)", len(p.APIKey)))
	}
	endpoint := p.BaseURL
	if endpoint == "" {
		endpoint = "(sdk default)"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		titleStyle.Render(p.Name),
		dimStyle.Render(string(p.Kind)+" · "+p.Model),
		endpoint,
		key,
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
