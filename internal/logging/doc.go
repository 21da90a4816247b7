// Package logging assembles structured slog loggers for continuum commands
// and hooks.
//
// It owns the console/JSON handlers and the file routing used by every
// invocation, and exposes helpers that keep warning and error records shaped
// consistently (event type, hint, impact). Hooks write only to the log file so
// standard output stays reserved for the report the host runtime displays.
package logging
