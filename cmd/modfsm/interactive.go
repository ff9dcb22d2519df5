package main

import (
	"os"

	"github.com/aretw0/modfsm/internal/cli"
	"github.com/aretw0/modfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for a modulus and a binary string",
	Long:  `Asks for a modulus greater than 1 and a binary string, re-prompting on invalid answers, then prints the remainder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, closeFn, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}

		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		code := cli.Interactive(cmd.Context(), eng, p, cmd.ErrOrStderr())
		_ = closeFn()
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
