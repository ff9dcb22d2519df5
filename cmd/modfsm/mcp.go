package main

import (
	mcpAdapter "github.com/aretw0/modfsm/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the remainder tools over the Model Context Protocol (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, closeFn, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		defer closeFn()
		return mcpAdapter.NewServer(eng).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
