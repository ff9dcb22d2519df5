package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/modfsm/pkg/modulo"
	"github.com/spf13/cobra"
)

// constructFromArg parses a modulus argument and builds its automaton.
func constructFromArg(cmd *cobra.Command, arg string) (*modulo.Automaton, error) {
	modulus, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("modulus must be an integer, got %q", arg)
	}
	eng, _, _, closeFn, err := newEngine(cmd, nil)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return eng.Construct(cmd.Context(), modulus)
}
