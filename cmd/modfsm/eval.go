package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/modfsm/internal/cli"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <modulus> [binary]",
	Short: "Print the remainder of a binary number",
	Long: `Evaluates the binary number given as argument, or read from --file
("-" for stdin), modulo <modulus>. White space inside files is ignored.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("file", "f", "", "Read the binary digits from a file (- for stdin)")
	evalCmd.Flags().Bool("trace", false, "Print the remainder after every prefix")
	evalCmd.Flags().Bool("raw", false, "Print only the remainder")
}

func runEval(cmd *cobra.Command, args []string) error {
	modulus, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("modulus must be an integer, got %q", args[0])
	}
	file, _ := cmd.Flags().GetString("file")
	trace, _ := cmd.Flags().GetBool("trace")
	raw, _ := cmd.Flags().GetBool("raw")

	if (file == "") == (len(args) < 2) {
		return fmt.Errorf("give the binary number either as argument or with --file")
	}
	if file != "" && trace {
		return fmt.Errorf("--trace needs the binary number as argument")
	}

	eng, _, _, closeFn, err := newEngine(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if file != "" {
		var r io.Reader = cmd.InOrStdin()
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		rem, err := eng.ModulusOfReader(ctx, modulus, r)
		if err != nil {
			return err
		}
		if raw {
			fmt.Fprintln(out, rem)
			return nil
		}
		fmt.Fprintf(out, "The remainder of the binary number in '%s' modulo %d is: %d\n", file, modulus, rem)
		return nil
	}

	input := args[1]
	if trace {
		path, err := eng.Trace(ctx, modulus, input)
		if err != nil {
			return err
		}
		for i := 1; i < len(path); i++ {
			fmt.Fprintf(out, "%s%s -> %d\n", input[:i], strings.Repeat(" ", len(input)-i), path[i])
		}
	}

	rem, err := eng.ModulusOf(ctx, modulus, input)
	if err != nil {
		return err
	}
	if raw {
		fmt.Fprintln(out, rem)
		return nil
	}
	fmt.Fprintln(out, cli.FormatResult(input, modulus, rem))
	return nil
}
