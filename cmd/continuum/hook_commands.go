package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"continuum/internal/hooks"
	"continuum/internal/logging"
)

// errHookBlocked signals an enforced block whose report is already on
// stdout. Only pre-compact enforces; other hooks exit 0 and carry their
// verdict in the report.
var errHookBlocked = errors.New("hook blocked the operation")

func newHookCommand(ctx *commandContext) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Lifecycle hooks invoked by the agent runtime",
		// Hooks load configuration themselves so a broken config allows the
		// operation instead of failing it.
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	hookCmd.AddCommand(
		newHookSubcommand(ctx, "pre-tool-use [tool] [file]", "Validate an edit before the tool runs", 2,
			func(cmd *cobra.Command, r *hooks.Runner, args []string) hooks.Decision {
				return r.PreToolUse(cmd.Context(), toolEvent(args))
			}),
		newHookSubcommand(ctx, "post-tool-use [tool] [file] [operation] [agent]", "Track a file change after the tool runs", 4,
			func(cmd *cobra.Command, r *hooks.Runner, args []string) hooks.Decision {
				return r.PostToolUse(cmd.Context(), toolEvent(args))
			}),
		newHookSubcommand(ctx, "pre-compact", "Gate context compaction on a recent handoff", 0,
			func(cmd *cobra.Command, r *hooks.Runner, _ []string) hooks.Decision {
				return r.PreCompact(cmd.Context())
			}),
		newHookSubcommand(ctx, "session-start", "Record the session and restore continuity", 0,
			func(cmd *cobra.Command, r *hooks.Runner, _ []string) hooks.Decision {
				return r.SessionStart(cmd.Context())
			}),
		newHookSubcommand(ctx, "session-end", "Prompt for a handoff and clean up", 0,
			func(cmd *cobra.Command, r *hooks.Runner, _ []string) hooks.Decision {
				return r.SessionEnd(cmd.Context())
			}),
	)
	return hookCmd
}

type hookFunc func(cmd *cobra.Command, r *hooks.Runner, args []string) hooks.Decision

func newHookSubcommand(ctx *commandContext, use, short string, maxArgs int, run hookFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(maxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				logging.WarnWithContext(ctx.ensureLogger(), "hook skipped; configuration unavailable", "hook_config_failed",
					logging.String(logging.FieldHook, cmd.Name()),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "run continuum config validate"),
					logging.String(logging.FieldImpact, "the operation proceeds unchecked"),
				)
				return nil
			}

			decision := run(cmd, hooks.New(cfg, ctx.ensureLogger()), args)
			if decision.Report != "" {
				fmt.Fprint(cmd.OutOrStdout(), decision.Report)
			}
			if decision.ExitCode() != 0 {
				return errHookBlocked
			}
			return nil
		},
	}
}

func toolEvent(args []string) hooks.ToolEvent {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	return hooks.ToolEvent{
		Tool:      arg(0),
		FilePath:  arg(1),
		Operation: arg(2),
		Agent:     arg(3),
	}
}
