// Package memory provides an in-process ports.AutomatonStore, mainly for
// tests and single-instance deployments.
package memory
