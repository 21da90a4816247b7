// Package validate runs external checkers against files before an edit is
// applied. A checker that is not installed is reported as skipped rather
// than failed so a missing toolchain never blocks work.
package validate
