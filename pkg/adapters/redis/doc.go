// Package redis shares automaton definitions and build locks between
// modfsm instances through Redis.
package redis
