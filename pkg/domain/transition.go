package domain

// Definition is the explicit description of a deterministic automaton.
// It carries no behaviour; the runtime walks it.
type Definition struct {
	// States is the size of the state set. Valid states are [0, States).
	States int `json:"states" yaml:"states"`

	// Alphabet lists the accepted symbols in column order.
	Alphabet Alphabet `json:"alphabet" yaml:"alphabet"`

	// Initial is the state before any symbol is consumed.
	Initial State `json:"initial" yaml:"initial"`

	// Table is the dense, row-major transition table:
	// Table[state*len(Alphabet)+column]. NoState marks a missing entry.
	Table []State `json:"table" yaml:"table"`
}

// HasState reports whether s belongs to the state set.
func (d *Definition) HasState(s State) bool {
	return s >= 0 && int(s) < d.States
}

// Next returns the target of (from, column), or NoState when the table has
// no entry for the pair.
func (d *Definition) Next(from State, column int) State {
	width := len(d.Alphabet)
	if !d.HasState(from) || column < 0 || column >= width {
		return NoState
	}
	idx := int(from)*width + column
	if idx >= len(d.Table) {
		return NoState
	}
	return d.Table[idx]
}

// Transition is a single (from, symbol) -> to edge, used when listing a
// table for presentation.
type Transition struct {
	From   State  `json:"from" yaml:"from"`
	Symbol Symbol `json:"symbol" yaml:"symbol"`
	To     State  `json:"to" yaml:"to"`
}

// Transitions expands the dense table into its edges, skipping missing
// entries. Rows are emitted in state order, columns in alphabet order.
func (d *Definition) Transitions() []Transition {
	out := make([]Transition, 0, len(d.Table))
	for s := 0; s < d.States; s++ {
		for col, sym := range d.Alphabet {
			to := d.Next(State(s), col)
			if to == NoState {
				continue
			}
			out = append(out, Transition{From: State(s), Symbol: sym, To: to})
		}
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate shared tables.
func (d *Definition) Clone() *Definition {
	cp := *d
	cp.Alphabet = append(Alphabet(nil), d.Alphabet...)
	cp.Table = append([]State(nil), d.Table...)
	return &cp
}
