package domain

import (
	"fmt"
	"unicode/utf8"
)

// State is a state of the automaton. For the modulo automaton it is the
// remainder of the prefix consumed so far.
type State int

// NoState marks an absent entry in a transition table.
const NoState State = -1

// Symbol is a single input character.
type Symbol rune

// String renders the symbol quoted, e.g. '1'.
func (s Symbol) String() string {
	return fmt.Sprintf("'%c'", rune(s))
}

// MarshalText encodes the symbol as its character so JSON and YAML stay
// readable.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(rune(s))), nil
}

// UnmarshalText decodes a single-character symbol.
func (s *Symbol) UnmarshalText(b []byte) error {
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError || n != len(b) {
		return fmt.Errorf("symbol must be exactly one character, got %q", b)
	}
	*s = Symbol(r)
	return nil
}

// Alphabet is an ordered set of symbols. The position of a symbol is its
// column in a transition table.
type Alphabet []Symbol

// BinaryAlphabet is the alphabet of base-2 digit strings. Column 0 is '0'
// and column 1 is '1', so the column equals the digit value.
var BinaryAlphabet = Alphabet{'0', '1'}

// IndexOf returns the column of s, or -1 if s is not in the alphabet.
func (a Alphabet) IndexOf(s Symbol) int {
	for i, sym := range a {
		if sym == s {
			return i
		}
	}
	return -1
}

func (a Alphabet) String() string {
	out := "["
	for i, s := range a {
		if i > 0 {
			out += " "
		}
		out += s.String()
	}
	return out + "]"
}
