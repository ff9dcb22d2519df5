package runtime_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/modfsm/internal/runtime"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parity is a hand-written two-state automaton over {'0','1'}.
func parity() *domain.Definition {
	return &domain.Definition{
		States:   2,
		Alphabet: domain.BinaryAlphabet,
		Initial:  0,
		Table: []domain.State{
			0, 1, // from 0
			0, 1, // from 1
		},
	}
}

func TestRun_TerminalState(t *testing.T) {
	tests := []struct {
		input string
		want  domain.State
	}{
		{"0", 0},
		{"1", 1},
		{"101", 1},
		{"100", 0},
		{"0001", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := runtime.Run(parity(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_EmptyInput(t *testing.T) {
	_, err := runtime.Run(parity(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "input must not be empty", err.Error())
}

func TestRun_InvalidInitialState(t *testing.T) {
	def := parity()
	def.Initial = 2

	_, err := runtime.Run(def, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, "invalid initial state 2", err.Error())

	def.Initial = -1
	_, err = runtime.Compile(def)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRun_SymbolOutsideAlphabet(t *testing.T) {
	_, err := runtime.Run(parity(), "10120")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'2'")
	assert.Contains(t, err.Error(), "position 3")
	assert.Contains(t, err.Error(), "['0' '1']")
}

func TestRun_NonASCIISymbol(t *testing.T) {
	def := &domain.Definition{
		States:   1,
		Alphabet: domain.Alphabet{'α'},
		Table:    []domain.State{0},
	}
	got, err := runtime.Run(def, "ααα")
	require.NoError(t, err)
	assert.Equal(t, domain.State(0), got)

	_, err = runtime.Run(def, "αβ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'β' at position 1")
}

func TestRun_MissingTransition(t *testing.T) {
	def := parity()
	def.Table[3] = domain.NoState // 1 --'1'--> ?

	// Never reaching the hole is fine.
	got, err := runtime.Run(def, "10")
	require.NoError(t, err)
	assert.Equal(t, domain.State(0), got)

	_, err = runtime.Run(def, "11")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, "missing transition from state 1 on symbol '1'", err.Error())
}

func TestRun_ShortTable(t *testing.T) {
	def := parity()
	def.Table = def.Table[:2]

	_, err := runtime.Run(def, "11")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCompile_Rejects(t *testing.T) {
	_, err := runtime.Compile(nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	def := parity()
	def.Alphabet = domain.Alphabet{'0', '0'}
	_, err = runtime.Compile(def)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "duplicate symbol")
}

func TestMachine_Restartable(t *testing.T) {
	m, err := runtime.Compile(parity())
	require.NoError(t, err)

	first, err := m.Run("1")
	require.NoError(t, err)
	second, err := m.Run("0")
	require.NoError(t, err)
	again, err := m.Run("1")
	require.NoError(t, err)

	assert.Equal(t, domain.State(1), first)
	assert.Equal(t, domain.State(0), second, "no state carried over from the previous run")
	assert.Equal(t, first, again)
}

func TestMachine_Trace(t *testing.T) {
	m, err := runtime.Compile(parity())
	require.NoError(t, err)

	path, err := m.Trace("1101")
	require.NoError(t, err)
	assert.Equal(t, []domain.State{0, 1, 1, 0, 1}, path)

	_, err = m.Trace("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMachine_RunReader(t *testing.T) {
	m, err := runtime.Compile(parity())
	require.NoError(t, err)
	ctx := context.Background()

	got, err := m.RunReader(ctx, strings.NewReader("10\n10 1\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.State(1), got)

	_, err = m.RunReader(ctx, strings.NewReader(" \n\t"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "input must not be empty", err.Error())

	_, err = m.RunReader(ctx, strings.NewReader("1\n2"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'2' at position 1")
}

func TestMachine_RunReaderCanceled(t *testing.T) {
	m, err := runtime.Compile(parity())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.RunReader(ctx, strings.NewReader("1010"))
	assert.ErrorIs(t, err, context.Canceled)
}
