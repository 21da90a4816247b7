package preflight

import "continuum/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to cfg. Tool checks only run
// when the feature that needs the tool is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Ledgers directory", cfg.Paths.LedgersDir),
		CheckDirectoryAccess("Handoffs directory", cfg.Paths.HandoffsDir),
	}

	if cfg.PreToolUse.Enabled && cfg.PreToolUse.TypeScriptValidation {
		results = append(results, CheckTools(cfg)...)
	}
	return results
}

// CheckTools reports whether optional validators resolve on PATH. A missing
// optional validator passes because the hooks skip it.
func CheckTools(cfg *config.Config) []Result {
	statuses := LookupTools(Tool{
		Name:     "TypeScript compiler",
		Command:  cfg.PreToolUse.TypeScriptCommand,
		Optional: true,
	})
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if !status.Available && status.Optional {
			result.Passed = true
			result.Detail += " (validation skipped)"
		}
		results = append(results, result)
	}
	return results
}
