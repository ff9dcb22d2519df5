/*
Package domain contains the core data model of the modulo automaton.

It defines the plain data that describes a deterministic finite automaton
(states, alphabet, initial state and a dense transition table), the two error
kinds surfaced by the engine and the builder, and the lifecycle events used
for observability. This package is kept pure and free of I/O.

# Key Entities

  - State: a residue in [0, N). The label is the residue itself.
  - Symbol: one input character, drawn from an Alphabet.
  - Definition: the explicit automaton description consumed by the engine.
  - InputError / ConfigError: caller mistakes versus malformed automatons.
*/
package domain
