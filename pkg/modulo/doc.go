/*
Package modulo builds the residue automaton for a modulus and reads
remainders off it.

For a modulus N the automaton has the states 0..N-1, one per residue, and
consumes base-2 digits most significant first:

	next(r, b) = (2r + b) mod N

After the last digit the current state is the remainder of the whole
number, so arbitrarily long inputs never need to fit in a machine integer.

	a, err := modulo.Build(3)
	if err != nil {
		return err
	}
	r, err := a.Remainder("1101") // 13 mod 3 = 1
*/
package modulo
