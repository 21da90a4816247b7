package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeContinuity()
	c.normalizePreToolUse()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.ledgers_dir", &c.Paths.LedgersDir, defaultLedgersDir},
		{"paths.handoffs_dir", &c.Paths.HandoffsDir, defaultHandoffsDir},
		{"paths.plans_dir", &c.Paths.PlansDir, defaultPlansDir},
		{"paths.queue_file", &c.Paths.QueueFile, defaultQueueFile},
		{"paths.session_state", &c.Paths.SessionState, defaultSessionStateFile},
		{"paths.codebase_map", &c.Paths.CodebaseMap, defaultCodebaseMapFile},
		{"paths.artifact_index_db", &c.Paths.ArtifactIndexDB, defaultArtifactIndexDB},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		resolved, err := resolveUnder(c.Root, *field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = resolved
	}
	return nil
}

func (c *Config) normalizeContinuity() {
	c.Continuity.LedgerPrefix = strings.TrimSpace(c.Continuity.LedgerPrefix)
	if c.Continuity.LedgerPrefix == "" {
		c.Continuity.LedgerPrefix = defaultLedgerPrefix
	}
	c.Continuity.HandoffPrefix = strings.TrimSpace(c.Continuity.HandoffPrefix)
	if c.Continuity.HandoffPrefix == "" {
		c.Continuity.HandoffPrefix = defaultHandoffPrefix
	}
	ext := strings.TrimSpace(c.Continuity.DocumentExtension)
	if ext == "" {
		ext = defaultDocumentExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Continuity.DocumentExtension = ext
}

func (c *Config) normalizePreToolUse() {
	c.PreToolUse.TypeScriptCommand = strings.TrimSpace(c.PreToolUse.TypeScriptCommand)
	if c.PreToolUse.TypeScriptCommand == "" {
		c.PreToolUse.TypeScriptCommand = defaultTypeScriptCommand
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
