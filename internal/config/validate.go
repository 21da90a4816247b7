package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateContinuity(); err != nil {
		return err
	}
	if err := c.validateWindows(); err != nil {
		return err
	}
	if err := c.validatePreToolUse(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateContinuity() error {
	if c.Continuity.LedgerPrefix == c.Continuity.HandoffPrefix {
		return errors.New("continuity.ledger_prefix and continuity.handoff_prefix must differ")
	}
	return nil
}

func (c *Config) validateWindows() error {
	return ensurePositiveMap(map[string]int{
		"continuity.ledger_max_age_hours":     c.Continuity.LedgerMaxAgeHours,
		"continuity.handoff_max_age_days":     c.Continuity.HandoffMaxAgeDays,
		"pre_compact.handoff_max_age_minutes": c.PreCompact.HandoffMaxAgeMinutes,
		"session_end.handoff_prompt_minutes":  c.SessionEnd.HandoffPromptMinutes,
		"session_end.ledger_max_age_days":     c.SessionEnd.LedgerMaxAgeDays,
		"queue.history_retention_days":        c.Queue.HistoryRetentionDays,
	})
}

func (c *Config) validatePreToolUse() error {
	if c.PreToolUse.BudgetLimit < 0 {
		return errors.New("pre_tool_use.budget_limit must not be negative")
	}
	if c.PreToolUse.BudgetWarningDollars < 0 {
		return errors.New("pre_tool_use.budget_warning_dollars must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
