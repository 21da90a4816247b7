// Package faults defines the error taxonomy shared by the review queue, the
// continuity hooks, and the CLI.
//
// Components tag failures with one of the exported sentinels through Wrap so
// callers can classify them with errors.Is without parsing messages.
package faults
