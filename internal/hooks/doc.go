// Package hooks implements the lifecycle entry points the host runtime
// invokes around tool use, context compaction, and session boundaries.
//
// Every entry point returns a Decision carrying a block/allow verdict and a
// human-readable report for stdout. Internal failures are logged and never
// block; only a failed pre-tool-use validation and the compaction gate
// refuse the host's action.
package hooks
