package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"continuum/internal/faults"
	"continuum/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and optional tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg)
			fmt.Fprintf(out, "Project root: %s\n\n", cfg.Root)
			for _, result := range results {
				state := checkPassed
				if !result.Passed {
					state = checkFailed
				}
				fmt.Fprintln(out, renderCheckLine(result.Name, state, result.Detail, colorize))
			}
			if !cfg.PreToolUse.Enabled || !cfg.PreToolUse.TypeScriptValidation {
				fmt.Fprintln(out, renderCheckLine("TypeScript compiler", checkNote, "validation disabled", colorize))
			}

			failed := preflight.Failed(results)
			if len(failed) > 0 {
				return faults.Wrap(faults.ErrValidation, "doctor", "preflight", fmt.Sprintf("%d check(s) failed", len(failed)), nil)
			}
			fmt.Fprintln(out, "\nAll checks passed")
			return nil
		},
	}
}
