package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return "", fmt.Errorf("markdown renderer unavailable: %w", err)
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TransitionTable renders the transition table of def as a markdown table,
// one row per state and one column per symbol.
func TransitionTable(def *domain.Definition) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Automaton with %d states\n\n", def.States))

	sb.WriteString("| state |")
	for _, sym := range def.Alphabet {
		sb.WriteString(fmt.Sprintf(" on `%c` |", rune(sym)))
	}
	sb.WriteString("\n|---|")
	for range def.Alphabet {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for s := 0; s < def.States; s++ {
		state := domain.State(s)
		label := fmt.Sprintf("%d", s)
		if state == def.Initial {
			label = "→ " + label
		}
		sb.WriteString(fmt.Sprintf("| %s |", label))
		for col := range def.Alphabet {
			to := def.Next(state, col)
			if to == domain.NoState {
				sb.WriteString(" - |")
				continue
			}
			sb.WriteString(fmt.Sprintf(" %d |", to))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
