// Package orchestrator wires the definitions source -> transformer ->
// renderer sequence behind a single Generate call for callers that prefer
// one entry point.
package orchestrator
