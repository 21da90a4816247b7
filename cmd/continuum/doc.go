// Package main hosts the continuum CLI entrypoint and command graph.
//
// The Cobra command tree exposes the review queue (add, approve, reject,
// list, stats, clean), artifact search, environment checks, configuration
// scaffolding, and the hook subtree the host runtime invokes at lifecycle
// points. Configuration and logging are resolved once per invocation in
// commandContext and handed to the internal packages explicitly.
//
// Hook commands print their report on stdout and signal a block with exit
// status 1; every other hook outcome exits 0.
package main
