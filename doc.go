/*
Package modfsm computes the remainder of arbitrarily long binary numbers
with a deterministic finite automaton.

For a modulus N the automaton has one state per residue 0..N-1. Reading a
binary digit b in state r moves to (2r + b) mod N, so after the last digit
the current state is the remainder of the whole number. The input is never
converted to a machine integer, which makes the length of the input
irrelevant to correctness.

# Architecture

  - internal/runtime: the generic DFA run-loop over an explicit description.
  - pkg/modulo: builds the residue automaton and decodes terminal states.
  - pkg/ports, pkg/adapters: optional shared stores (memory, Redis) and
    transports (HTTP, MCP).
  - Engine (this package): caching facade with logging and lifecycle hooks.

# Errors

Every failure is either caller input (errors.Is(err, domain.ErrInvalidInput))
or a malformed automaton (errors.Is(err, domain.ErrConfiguration)). The
engine never retries and never returns a best-guess value.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/modfsm"
	)

	func main() {
		eng := modfsm.New()

		r, err := eng.ModulusOf(context.Background(), 3, "1101")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(r) // 1
	}
*/
package modfsm
