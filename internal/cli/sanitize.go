package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLineSize bounds a single interactive answer (1MB).
const DefaultMaxLineSize = 1 << 20

var (
	ErrLineTooLarge = errors.New("line exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("line contains invalid UTF-8 sequences")
)

// SanitizeLine rejects oversized or malformed lines and strips control
// characters (ANSI escapes, NUL, BEL) so they never reach the terminal
// or the logs.
func SanitizeLine(line string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	if len(line) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLarge, len(line), limit)
	}
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range line {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return line, nil
	}

	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
