package hooks

import (
	"context"
	"log/slog"

	"continuum/internal/logging"
	"continuum/internal/session"
	"continuum/internal/store"
	"continuum/internal/validate"
)

// PreToolUse validates an edit before the host applies it. TypeScript
// sources are compiled when validation is on and the session budget is
// checked when enabled. Failures of the checks themselves allow the edit.
func (r *Runner) PreToolUse(ctx context.Context, event ToolEvent) Decision {
	logger := r.hookLogger("pre_tool_use")
	gate := r.cfg.PreToolUse
	if !gate.Enabled {
		return allow("hook disabled", "")
	}

	out := &report{}
	target := r.resolve(event.FilePath)

	if gate.TypeScriptValidation && target != "" && validate.IsTypeScriptFile(target) {
		checker := validate.NewTypeScript(r.cfg.Root, validate.WithBinary(gate.TypeScriptCommand))
		result, err := checker.Check(ctx, target)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "typescript validation could not run; allowing edit", "typescript_check_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run the compiler manually to inspect the failure"),
				logging.String(logging.FieldImpact, "edit proceeds without type checking"),
			)
		case result.Skipped:
			logger.Debug("typescript compiler not found; validation skipped",
				logging.String(logging.FieldEventType, "typescript_check_skipped"),
				logging.String("binary", checker.Binary()),
			)
		case result.Blocked():
			renderTypeScriptBlock(out, event.FilePath, checker.Binary(), result.Errors)
			d := block("TypeScript validation failed", out.String())
			r.logDecision(logger, "pre_tool_use", d)
			return d
		case len(result.Warnings) > 0:
			out.blank()
			out.line("⚠️  TypeScript errors exist in other files (not blocking):")
			for _, warning := range result.Warnings {
				out.line("  %s", warning)
			}
			out.blank()
		}
	}

	if gate.BudgetCheck {
		if d, blocked := r.checkBudget(logger, out); blocked {
			r.logDecision(logger, "pre_tool_use", d)
			return d
		}
	}

	d := allow("validations passed", out.String())
	r.logDecision(logger, "pre_tool_use", d)
	return d
}

func (r *Runner) checkBudget(logger *slog.Logger, out *report) (Decision, bool) {
	gate := r.cfg.PreToolUse
	state, result := session.NewTracker(r.cfg.Paths.SessionState, logger).Load()
	if result.Status != store.StatusLoaded {
		logger.Debug("session state unavailable; budget check skipped",
			logging.String(logging.FieldEventType, "budget_check_skipped"),
			logging.String("status", result.Status.String()),
		)
		return Decision{}, false
	}

	cost := 0.0
	if state.SessionCostDollars != nil {
		cost = *state.SessionCostDollars
	}
	if cost >= gate.BudgetLimit {
		out.blank()
		out.line("🚫 " + heavyRule)
		out.line("   OPERATION BLOCKED - Budget Exceeded")
		out.line(heavyRule)
		out.blank()
		out.line("Current Cost: $%.2f", cost)
		out.line("Budget Limit: $%.2f", gate.BudgetLimit)
		out.blank()
		out.line("Options:")
		out.line("  1. Raise pre_tool_use.budget_limit in the continuum config")
		out.line("  2. Disable the check (pre_tool_use.budget_check = false)")
		out.line("  3. End the session and start fresh")
		out.blank()
		return block("Budget limit exceeded", out.String()), true
	}

	remaining := gate.BudgetLimit - cost
	if remaining < gate.BudgetWarningDollars {
		percent := 0
		if gate.BudgetLimit > 0 {
			percent = int(remaining/gate.BudgetLimit*100 + 0.5)
		}
		out.blank()
		out.line("⚠️  BUDGET WARNING: $%.2f remaining (%d%% of budget)", remaining, percent)
		out.blank()
	}
	logger.Debug("budget check passed",
		logging.String(logging.FieldEventType, "budget_check_passed"),
		logging.Float64("cost", cost),
		logging.Float64("remaining", remaining),
	)
	return Decision{}, false
}

func renderTypeScriptBlock(out *report, file, binary string, errs []string) {
	out.blank()
	out.line("🚫 " + heavyRule)
	out.line("   EDIT BLOCKED - TypeScript Errors Detected")
	out.line(heavyRule)
	out.blank()
	out.line("File: %s", file)
	out.blank()
	out.line("Errors:")
	for _, e := range errs {
		out.line("  %s", e)
	}
	out.blank()
	out.line("Fix type errors before proceeding:")
	out.line("  %s --noEmit", binary)
	out.blank()
	out.line("Or disable TypeScript validation:")
	out.line("  Set pre_tool_use.typescript_validation = false")
	out.blank()
}
