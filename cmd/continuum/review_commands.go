package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"continuum/internal/faults"
	"continuum/internal/review"
)

func newReviewCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newAddCommand(ctx),
		newApproveCommand(ctx),
		newRejectCommand(ctx),
		newListCommand(ctx),
		newStatsCommand(ctx),
		newCleanCommand(ctx),
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		itemType   string
		priority   string
		confidence int
		planFile   string
		reasons    []string
		blocks     []string
		estimate   string
	)

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Queue a task for human review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			req := review.AddRequest{
				Task:                strings.Join(args, " "),
				Type:                itemType,
				Priority:            priority,
				PlanFile:            planFile,
				UncertaintyReasons:  reasons,
				BlockedTasks:        blocks,
				EstimatedReviewTime: estimate,
			}
			if cmd.Flags().Changed("confidence") {
				req.Confidence = &confidence
			}
			item, err := engine.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			pending, err := engine.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Task added to review queue")
			fmt.Fprintf(out, "  ID: %s\n", item.ID)
			fmt.Fprintf(out, "  Priority: %s\n", strings.ToUpper(string(item.Priority)))
			fmt.Fprintf(out, "  Type: %s\n", item.Type)
			fmt.Fprintf(out, "  Confidence: %d%%\n", item.ConfidenceScore)
			if item.PlanFile != "" {
				fmt.Fprintf(out, "  Plan: %s\n", item.PlanFile)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Current queue size: %d tasks\n", len(pending))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemType, "type", "", "Review category (default general)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: high, medium or low (default medium)")
	cmd.Flags().IntVar(&confidence, "confidence", 50, "Confidence score 0-100")
	cmd.Flags().StringVar(&planFile, "plan", "", "Plan document backing the task")
	cmd.Flags().StringSliceVar(&reasons, "reasons", nil, "Comma-separated uncertainty reasons")
	cmd.Flags().StringSliceVar(&blocks, "blocks", nil, "Comma-separated tasks blocked on this review")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimated review time (default \"15 min\")")
	return cmd
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id> [notes...]",
		Short: "Approve a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			entry, err := engine.Approve(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Task %s APPROVED\n", entry.ID)
			fmt.Fprintf(out, "  Task: %s\n", entry.Task)
			fmt.Fprintf(out, "  Wait time: %s\n", formatMinutes(entry.WaitTimeMinutes))
			if entry.Notes != "" {
				fmt.Fprintf(out, "  Notes: %s\n", entry.Notes)
			}
			if entry.PlanFile != "" {
				fmt.Fprintf(out, "  Plan: %s\n", entry.PlanFile)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Ready for team execution!")
			return nil
		},
	}
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id> [reason...]",
		Short: "Reject a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			entry, err := engine.Reject(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✗ Task %s REJECTED\n", entry.ID)
			fmt.Fprintf(out, "  Task: %s\n", entry.Task)
			fmt.Fprintf(out, "  Wait time: %s\n", formatMinutes(entry.WaitTimeMinutes))
			if entry.RejectionReason != "" {
				fmt.Fprintf(out, "  Reason: %s\n", entry.RejectionReason)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Task will not be executed.")
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show pending tasks in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			items, err := engine.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, items)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderQueue(items, engine.Now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			report, err := engine.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStats(report))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [days]",
		Short: "Delete decided tasks older than the retention window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			days := cfg.Queue.HistoryRetentionDays
			if len(args) == 1 {
				days, err = strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					return faults.Wrap(faults.ErrValidation, "cli", "clean", fmt.Sprintf("days must be an integer, got %q", args[0]), nil)
				}
			}
			engine, err := ctx.reviewEngine()
			if err != nil {
				return err
			}
			removed, err := engine.CleanHistory(cmd.Context(), days)
			if err != nil {
				return err
			}
			doc, _ := engine.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Cleaned %d old items from history\n", removed)
			fmt.Fprintf(out, "  History now contains: %d items\n", len(doc.History))
			return nil
		},
	}
}
