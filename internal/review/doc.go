// Package review implements the human approval queue: a priority-ordered
// pending set, an append-only decision history, and running wait-time
// statistics.
//
// Every operation reloads the whole queue document, mutates it in memory, and
// rewrites it. Cross-process writers race with last-writer-wins semantics
// unless the engine is built with WithLocking, which serializes the
// read-modify-write cycle behind an advisory file lock.
package review
