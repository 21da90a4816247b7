package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the on-disk layout. Relative values resolve against Root.
type Paths struct {
	StateDir        string `toml:"state_dir"`
	LedgersDir      string `toml:"ledgers_dir"`
	HandoffsDir     string `toml:"handoffs_dir"`
	PlansDir        string `toml:"plans_dir"`
	QueueFile       string `toml:"queue_file"`
	SessionState    string `toml:"session_state"`
	CodebaseMap     string `toml:"codebase_map"`
	ArtifactIndexDB string `toml:"artifact_index_db"`
	LogDir          string `toml:"log_dir"`
}

// Continuity controls session-start restoration.
type Continuity struct {
	AutoLoadLedger    bool   `toml:"auto_load_ledger"`
	AutoLoadHandoff   bool   `toml:"auto_load_handoff"`
	ShowWelcome       bool   `toml:"show_welcome"`
	LedgerMaxAgeHours int    `toml:"ledger_max_age_hours"`
	HandoffMaxAgeDays int    `toml:"handoff_max_age_days"`
	LedgerPrefix      string `toml:"ledger_prefix"`
	HandoffPrefix     string `toml:"handoff_prefix"`
	DocumentExtension string `toml:"document_extension"`
}

// PreCompact controls the compaction gate.
type PreCompact struct {
	Enabled              bool `toml:"enabled"`
	BlockCompaction      bool `toml:"block_compaction"`
	RequireHandoff       bool `toml:"require_handoff"`
	HandoffMaxAgeMinutes int  `toml:"handoff_max_age_minutes"`
	AllowOverride        bool `toml:"allow_override"`
}

// SessionEnd controls end-of-session bookkeeping.
type SessionEnd struct {
	Enabled              bool `toml:"enabled"`
	PromptForHandoff     bool `toml:"prompt_for_handoff"`
	HandoffPromptMinutes int  `toml:"handoff_prompt_minutes"`
	CleanupOldLedgers    bool `toml:"cleanup_old_ledgers"`
	LedgerMaxAgeDays     int  `toml:"ledger_max_age_days"`
}

// PreToolUse controls validation run before destructive edits.
type PreToolUse struct {
	Enabled              bool    `toml:"enabled"`
	TypeScriptValidation bool    `toml:"typescript_validation"`
	TypeScriptCommand    string  `toml:"typescript_command"`
	BudgetCheck          bool    `toml:"budget_check"`
	BudgetLimit          float64 `toml:"budget_limit"`
	BudgetWarningDollars float64 `toml:"budget_warning_dollars"`
}

// PostToolUse controls bookkeeping after file writes.
type PostToolUse struct {
	Enabled           bool `toml:"enabled"`
	UpdateCodebaseMap bool `toml:"update_codebase_map"`
	IndexArtifacts    bool `toml:"index_artifacts"`
}

// Queue controls the review queue engine.
type Queue struct {
	HistoryRetentionDays int  `toml:"history_retention_days"`
	LockStore            bool `toml:"lock_store"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for continuum.
//
// Configuration sections by subsystem:
//   - Paths: state documents, continuity directories, index and logs
//   - Continuity: ledger/handoff auto-load and freshness windows
//   - PreCompact: compaction gate
//   - SessionEnd: handoff prompt, ledger cleanup
//   - PreToolUse: TypeScript validation and budget guard
//   - PostToolUse: codebase map and artifact indexing
//   - Queue: review queue retention and locking
//   - Logging: log format, level, and retention
type Config struct {
	Root        string      `toml:"-"`
	Paths       Paths       `toml:"paths"`
	Continuity  Continuity  `toml:"continuity"`
	PreCompact  PreCompact  `toml:"pre_compact"`
	SessionEnd  SessionEnd  `toml:"session_end"`
	PreToolUse  PreToolUse  `toml:"pre_tool_use"`
	PostToolUse PostToolUse `toml:"post_tool_use"`
	Queue       Queue       `toml:"queue"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/continuum/config.toml")
}

// Load locates, parses, and validates a configuration file for the project
// rooted at root. An empty root means the working directory. The returned
// config has every path field resolved to an absolute path.
func Load(root, path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedRoot, err := resolveRoot(root)
	if err != nil {
		return nil, "", false, err
	}
	cfg.Root = resolvedRoot

	resolvedPath, exists, err := resolveConfigPath(resolvedRoot, path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	return expandPath(root)
}

func resolveConfigPath(root, path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath := filepath.Join(root, defaultStateDir, "config.toml")
	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(userPath); err == nil && !info.IsDir() {
		return userPath, true, nil
	}

	return projectPath, false, nil
}

// EnsureDirectories creates the state and log directories. Continuity
// directories belong to the authoring workflow and are not created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerMaxAge is the freshness ceiling for ledger restoration.
func (c *Config) LedgerMaxAge() time.Duration {
	return time.Duration(c.Continuity.LedgerMaxAgeHours) * time.Hour
}

// HandoffMaxAge is the staleness ceiling applied to the newest handoff.
func (c *Config) HandoffMaxAge() time.Duration {
	return time.Duration(c.Continuity.HandoffMaxAgeDays) * 24 * time.Hour
}

// CompactionWindow is how recent a handoff must be for compaction to proceed.
func (c *Config) CompactionWindow() time.Duration {
	return time.Duration(c.PreCompact.HandoffMaxAgeMinutes) * time.Minute
}

// HandoffPromptWindow is how recent a handoff must be to skip the session-end prompt.
func (c *Config) HandoffPromptWindow() time.Duration {
	return time.Duration(c.SessionEnd.HandoffPromptMinutes) * time.Minute
}

// LedgerRetention is the age beyond which session end deletes ledgers.
func (c *Config) LedgerRetention() time.Duration {
	return time.Duration(c.SessionEnd.LedgerMaxAgeDays) * 24 * time.Hour
}

// DebugLogPath returns the log file continuum writes to.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.Paths.LogDir, "continuum.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolveUnder expands pathValue and anchors relative results at root.
func resolveUnder(root, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return expandPath(filepath.Join(root, pathValue))
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
