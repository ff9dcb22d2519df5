package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/aretw0/modfsm/pkg/domain"
)

// asciiLimit bounds the fast column lookup; other symbols go through a map.
const asciiLimit = 128

// readCheckEvery is how many symbols RunReader consumes between context checks.
const readCheckEvery = 1 << 16

// Machine is a compiled, read-only view of a Definition. It is safe for
// concurrent use; every run starts from the initial state.
type Machine struct {
	def    *domain.Definition
	ascii  [asciiLimit]int8
	others map[domain.Symbol]int
}

// Compile validates the parts of a Definition that do not depend on the
// input and prepares the symbol lookup.
// Transitions are not checked here: a missing entry is reported only if a
// walk reaches it.
func Compile(def *domain.Definition) (*Machine, error) {
	if def == nil {
		return nil, domain.Configurationf("automaton definition is nil")
	}
	if !def.HasState(def.Initial) {
		return nil, domain.Configurationf("invalid initial state %d", def.Initial)
	}

	m := &Machine{def: def}
	for i := range m.ascii {
		m.ascii[i] = -1
	}
	for col, sym := range def.Alphabet {
		if def.Alphabet.IndexOf(sym) != col {
			return nil, domain.Configurationf("duplicate symbol %s in alphabet", sym)
		}
		if sym >= 0 && sym < asciiLimit && col <= 127 {
			m.ascii[sym] = int8(col)
			continue
		}
		if m.others == nil {
			m.others = make(map[domain.Symbol]int)
		}
		m.others[sym] = col
	}
	return m, nil
}

// Run compiles def and feeds it input. It is the one-shot form of
// Compile followed by Machine.Run.
func Run(def *domain.Definition, input string) (domain.State, error) {
	m, err := Compile(def)
	if err != nil {
		return domain.NoState, err
	}
	return m.Run(input)
}

// Definition returns the description the machine was compiled from.
func (m *Machine) Definition() *domain.Definition {
	return m.def
}

// Run consumes input symbol by symbol and returns the terminal state.
func (m *Machine) Run(input string) (domain.State, error) {
	if input == "" {
		return domain.NoState, errEmptyInput()
	}
	state := m.def.Initial
	pos := 0
	for _, r := range input {
		next, err := m.step(state, domain.Symbol(r), pos)
		if err != nil {
			return domain.NoState, err
		}
		state = next
		pos++
	}
	return state, nil
}

// Trace is Run that also records the path: the initial state followed by
// the state reached after each symbol.
func (m *Machine) Trace(input string) ([]domain.State, error) {
	if input == "" {
		return nil, errEmptyInput()
	}
	path := make([]domain.State, 0, len(input)+1)
	path = append(path, m.def.Initial)
	state := m.def.Initial
	pos := 0
	for _, r := range input {
		next, err := m.step(state, domain.Symbol(r), pos)
		if err != nil {
			return nil, err
		}
		state = next
		path = append(path, state)
		pos++
	}
	return path, nil
}

// RunReader is Run over a stream, for inputs too large to hold in memory.
// Unicode white space is skipped so that wrapped digit files are accepted;
// positions in errors count symbols, not bytes.
func (m *Machine) RunReader(ctx context.Context, r io.Reader) (domain.State, error) {
	br := bufio.NewReader(r)
	state := m.def.Initial
	pos := 0
	for {
		if pos%readCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return domain.NoState, err
			}
		}
		ch, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.NoState, fmt.Errorf("failed to read input: %w", err)
		}
		if unicode.IsSpace(ch) {
			continue
		}
		next, err := m.step(state, domain.Symbol(ch), pos)
		if err != nil {
			return domain.NoState, err
		}
		state = next
		pos++
	}
	if pos == 0 {
		return domain.NoState, errEmptyInput()
	}
	return state, nil
}

func (m *Machine) column(sym domain.Symbol) int {
	if sym >= 0 && sym < asciiLimit {
		return int(m.ascii[sym])
	}
	if col, ok := m.others[sym]; ok {
		return col
	}
	return -1
}

func (m *Machine) step(state domain.State, sym domain.Symbol, pos int) (domain.State, error) {
	col := m.column(sym)
	if col < 0 {
		return domain.NoState, domain.InvalidInputf(
			"invalid symbol %s at position %d: allowed alphabet is %s", sym, pos, m.def.Alphabet)
	}
	next := m.def.Next(state, col)
	if next == domain.NoState {
		return domain.NoState, domain.Configurationf(
			"missing transition from state %d on symbol %s", state, sym)
	}
	return next, nil
}

func errEmptyInput() error {
	return domain.InvalidInputf("input must not be empty")
}
