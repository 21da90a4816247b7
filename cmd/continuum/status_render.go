package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type checkState int

const (
	checkPassed checkState = iota
	checkFailed
	checkNote
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const checkLabelWidth = 22

func renderCheckLine(label string, state checkState, detail string, colorize bool) string {
	line := fmt.Sprintf("  %-*s [%s]", checkLabelWidth, label+":", checkStateLabel(state))
	if detail != "" {
		line += " " + detail
	}
	if !colorize {
		return line
	}
	return checkStateColor(state) + line + ansiReset
}

func checkStateLabel(state checkState) string {
	switch state {
	case checkPassed:
		return "OK"
	case checkFailed:
		return "FAIL"
	default:
		return "NOTE"
	}
}

func checkStateColor(state checkState) string {
	switch state {
	case checkPassed:
		return ansiGreen
	case checkFailed:
		return ansiRed
	default:
		return ansiYellow
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
