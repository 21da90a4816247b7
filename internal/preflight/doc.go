// Package preflight provides readiness checks for the directories and
// external tools the hooks depend on.
//
// "continuum doctor" runs RunAll and prints one line per check. Nothing in
// the hook path calls these checks; a hook that finds a directory missing
// creates it or degrades instead.
package preflight
