package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"continuum/internal/faults"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errHookBlocked) && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return faults.ExitCode(err)
}
