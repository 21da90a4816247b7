// Package continuity restores an agent's working context from ledger and
// handoff documents.
//
// Ledgers are live per-session documents refreshed in place; handoffs are
// immutable snapshots written when a session ends. The Selector decides which
// of them to surface at session start, the compaction gate decides whether a
// recent handoff makes context compaction safe, and the parser extracts the
// bounded excerpts both need from semi-structured markdown.
package continuity
