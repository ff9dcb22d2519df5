package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/modfsm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of modfsm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modfsm version %s\n", strings.TrimSpace(modfsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
