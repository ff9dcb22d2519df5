package main

import (
	"fmt"
	"os"

	"github.com/aretw0/modfsm/internal/presentation/graph"
	"github.com/aretw0/modfsm/internal/presentation/tui"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tableCmd = &cobra.Command{
	Use:   "table <modulus>",
	Short: "Print the transition table of the automaton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		a, err := constructFromArg(cmd, args[0])
		if err != nil {
			return err
		}

		md := tui.TransitionTable(a.Definition())
		if !raw && isTerminal(cmd) {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <modulus>",
	Short: "Print the automaton as a Mermaid diagram",
	Long:  `Prints a Mermaid flowchart of the automaton. With --input, the states visited while reading that binary string are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		a, err := constructFromArg(cmd, args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if input != "" {
			path, err := a.Trace(input)
			if err != nil {
				return err
			}
			states := make([]domain.State, len(path))
			for i, p := range path {
				states[i] = domain.State(p)
			}
			overlay = graph.OverlayFromPath(states)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(a.Definition(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(graphCmd)
	tableCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")
	graphCmd.Flags().String("input", "", "Highlight the path taken by this binary string")
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
