package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the interactive greeting to w, coloured when the
// terminal supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	title := out.String(" modfsm ").Bold().Foreground(out.Color("#818cf8"))
	rule := out.String("binary remainders by finite automaton").Foreground(out.Color("#c084fc"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", title, rule)
	fmt.Fprintln(w)
}
