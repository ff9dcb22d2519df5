package modulo

import (
	"context"
	"io"

	"github.com/aretw0/modfsm/internal/runtime"
	"github.com/aretw0/modfsm/pkg/domain"
)

// Automaton is the residue automaton for one modulus.
// It is immutable once built and safe for concurrent use.
type Automaton struct {
	modulus int
	machine *runtime.Machine
}

// Build constructs the automaton for modulus. It either returns a complete
// automaton or an error, never a partial one.
func Build(modulus int) (*Automaton, error) {
	if err := ValidateModulus(modulus); err != nil {
		return nil, err
	}

	width := len(domain.BinaryAlphabet)
	table := make([]domain.State, modulus*width)
	for r := 0; r < modulus; r++ {
		for b := 0; b < width; b++ {
			table[r*width+b] = next(r, b, modulus)
		}
	}

	return newAutomaton(modulus, &domain.Definition{
		States:   modulus,
		Alphabet: append(domain.Alphabet(nil), domain.BinaryAlphabet...),
		Initial:  0,
		Table:    table,
	})
}

// FromDefinition rebuilds an automaton from a definition obtained outside
// this package, e.g. an external cache. The definition must match the
// construction rule exactly; anything else is a configuration error.
func FromDefinition(modulus int, def *domain.Definition) (*Automaton, error) {
	if err := ValidateModulus(modulus); err != nil {
		return nil, err
	}
	if err := verify(modulus, def); err != nil {
		return nil, err
	}
	return newAutomaton(modulus, def.Clone())
}

// MaxModulus is the largest modulus Build will allocate a table for
// (2*MaxModulus entries).
const MaxModulus = 1 << 28

// ValidateModulus rejects every modulus below 2 and every modulus whose
// table cannot be allocated.
func ValidateModulus(modulus int) error {
	if modulus <= 1 {
		return domain.InvalidInputf("modulus must be greater than 1")
	}
	if modulus > MaxModulus {
		return domain.InvalidInputf("modulus %d exceeds the maximum of %d", modulus, MaxModulus)
	}
	return nil
}

func newAutomaton(modulus int, def *domain.Definition) (*Automaton, error) {
	m, err := runtime.Compile(def)
	if err != nil {
		return nil, err
	}
	return &Automaton{modulus: modulus, machine: m}, nil
}

// next is the transition rule. 2r+b < 2N, so one conditional subtraction
// replaces the division.
func next(r, b, modulus int) domain.State {
	n := 2*r + b
	if n >= modulus {
		n -= modulus
	}
	return domain.State(n)
}

func verify(modulus int, def *domain.Definition) error {
	if def == nil {
		return domain.Configurationf("automaton definition is nil")
	}
	if def.States != modulus {
		return domain.Configurationf("automaton has %d states, want %d", def.States, modulus)
	}
	if def.Initial != 0 {
		return domain.Configurationf("invalid initial state %d", def.Initial)
	}
	if len(def.Alphabet) != len(domain.BinaryAlphabet) ||
		def.Alphabet[0] != domain.BinaryAlphabet[0] || def.Alphabet[1] != domain.BinaryAlphabet[1] {
		return domain.Configurationf("alphabet %s is not %s", def.Alphabet, domain.BinaryAlphabet)
	}
	width := len(domain.BinaryAlphabet)
	if len(def.Table) != modulus*width {
		return domain.Configurationf("transition table has %d entries, want %d", len(def.Table), modulus*width)
	}
	for r := 0; r < modulus; r++ {
		for b := 0; b < width; b++ {
			if got, want := def.Table[r*width+b], next(r, b, modulus); got != want {
				return domain.Configurationf("transition from state %d on symbol %s is %d, want %d",
					r, def.Alphabet[b], got, want)
			}
		}
	}
	return nil
}

// Modulus returns the modulus the automaton was built for.
func (a *Automaton) Modulus() int {
	return a.modulus
}

// Definition returns a copy of the automaton description.
func (a *Automaton) Definition() *domain.Definition {
	return a.machine.Definition().Clone()
}

// Remainder returns the value of the binary string input modulo the
// automaton's modulus. Leading zeros are allowed.
func (a *Automaton) Remainder(input string) (int, error) {
	state, err := a.machine.Run(input)
	if err != nil {
		return 0, err
	}
	return a.decode(state)
}

// RemainderReader is Remainder over a stream of digits. White space between
// digits is ignored.
func (a *Automaton) RemainderReader(ctx context.Context, r io.Reader) (int, error) {
	state, err := a.machine.RunReader(ctx, r)
	if err != nil {
		return 0, err
	}
	return a.decode(state)
}

// Trace returns the remainder of every prefix of input, starting with 0
// for the empty prefix.
func (a *Automaton) Trace(input string) ([]int, error) {
	path, err := a.machine.Trace(input)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(path))
	for i, s := range path {
		r, err := a.decode(s)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// decode maps a terminal state to its remainder. State labels are the
// residues, so this is a range check only.
func (a *Automaton) decode(s domain.State) (int, error) {
	if s < 0 || int(s) >= a.modulus {
		return 0, domain.Configurationf("remainder %d outside [0, %d)", s, a.modulus)
	}
	return int(s), nil
}

// Remainder is the free-function form of (*Automaton).Remainder.
func Remainder(a *Automaton, input string) (int, error) {
	return a.Remainder(input)
}

// ModulusOf builds the automaton for modulus and evaluates input on it.
func ModulusOf(modulus int, input string) (int, error) {
	a, err := Build(modulus)
	if err != nil {
		return 0, err
	}
	return a.Remainder(input)
}
