package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the kind of every error caused by caller-supplied data
// (empty input, foreign symbol, modulus out of range).
var ErrInvalidInput = errors.New("invalid input")

// ErrConfiguration is the kind of every error caused by a malformed
// automaton. Seeing one means there is a defect in the builder or the store.
var ErrConfiguration = errors.New("configuration error")

// ErrAutomatonNotFound is returned by stores when no definition is cached
// for a modulus.
var ErrAutomatonNotFound = errors.New("automaton not found")

// InputError describes a violated precondition on caller input.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError describes a malformed automaton.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// InvalidInputf builds an *InputError.
func InvalidInputf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// Configurationf builds a *ConfigError.
func Configurationf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
