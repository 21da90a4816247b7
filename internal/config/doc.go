// Package config loads, normalizes, and validates continuum configuration.
//
// It supplies repository defaults, resolves every path against the project
// root (the directory the host runtime invokes hooks from), expands tilde
// shortcuts, and reads an optional TOML file. The Config value is loaded once
// per invocation and handed to each component constructor; nothing in the
// repository reads configuration behind the caller's back.
package config
