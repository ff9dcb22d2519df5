package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/modfsm/pkg/domain"
)

// GraphOverlay marks the states a run went through.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
	HasCurrent    bool
}

// OverlayFromPath builds an overlay from a trace: every state is visited
// and the last one is current.
func OverlayFromPath(path []domain.State) *GraphOverlay {
	if len(path) == 0 {
		return nil
	}
	return &GraphOverlay{
		VisitedStates: path,
		CurrentState:  path[len(path)-1],
		HasCurrent:    true,
	}
}

// GenerateMermaid produces a Mermaid state diagram for an automaton.
// Styling:
// - Initial state: ((Circle))
// - Other states: (Rounded)
// - Edges leading to the same target are merged into one labelled arrow.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(def *domain.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for s := 0; s < def.States; s++ {
		state := domain.State(s)
		opener, closer := "(", ")"
		if state == def.Initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%d\"%s\n", stateID(state), opener, s, closer))
	}

	for s := 0; s < def.States; s++ {
		from := domain.State(s)
		// Group symbols by target so 0 -- "0,1" --> 0 is one arrow.
		var targets []domain.State
		labels := make(map[domain.State][]string)
		for col, sym := range def.Alphabet {
			to := def.Next(from, col)
			if to == domain.NoState {
				continue
			}
			if _, seen := labels[to]; !seen {
				targets = append(targets, to)
			}
			labels[to] = append(labels[to], string(rune(sym)))
		}
		for _, to := range targets {
			label := strings.ReplaceAll(strings.Join(labels[to], ","), "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", stateID(from), label, stateID(to)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.State]bool)
		for _, s := range overlay.VisitedStates {
			if visited[s] || !def.HasState(s) {
				continue
			}
			visited[s] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", stateID(s)))
		}

		if overlay.HasCurrent && def.HasState(overlay.CurrentState) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", stateID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func stateID(s domain.State) string {
	return fmt.Sprintf("r%d", s)
}
