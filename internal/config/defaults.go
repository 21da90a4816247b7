package config

const (
	defaultStateDir                = ".continuum"
	defaultLedgersDir              = "thoughts/ledgers"
	defaultHandoffsDir             = "thoughts/shared/handoffs"
	defaultPlansDir                = "thoughts/shared/plans"
	defaultQueueFile               = "thoughts/shared/review-queue.json"
	defaultSessionStateFile        = ".continuum/session-state.json"
	defaultCodebaseMapFile         = ".continuum/codebase-map.json"
	defaultArtifactIndexDB         = ".continuum/artifacts.db"
	defaultLogDir                  = ".continuum/logs"
	defaultLedgerPrefix            = "CONTINUITY_"
	defaultHandoffPrefix           = "handoff-"
	defaultDocumentExtension       = ".md"
	defaultLedgerMaxAgeHours       = 24
	defaultHandoffMaxAgeDays       = 7
	defaultCompactionWindowMinutes = 60
	defaultHandoffPromptMinutes    = 120
	defaultLedgerRetentionDays     = 7
	defaultTypeScriptCommand       = "tsc"
	defaultBudgetLimit             = 50.0
	defaultBudgetWarningDollars    = 5.0
	defaultHistoryRetentionDays    = 30
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogRetentionDays        = 14
)

// Default returns a Config populated with repository defaults. Paths are
// relative until Load resolves them against the project root.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:        defaultStateDir,
			LedgersDir:      defaultLedgersDir,
			HandoffsDir:     defaultHandoffsDir,
			PlansDir:        defaultPlansDir,
			QueueFile:       defaultQueueFile,
			SessionState:    defaultSessionStateFile,
			CodebaseMap:     defaultCodebaseMapFile,
			ArtifactIndexDB: defaultArtifactIndexDB,
			LogDir:          defaultLogDir,
		},
		Continuity: Continuity{
			AutoLoadLedger:    true,
			AutoLoadHandoff:   true,
			ShowWelcome:       true,
			LedgerMaxAgeHours: defaultLedgerMaxAgeHours,
			HandoffMaxAgeDays: defaultHandoffMaxAgeDays,
			LedgerPrefix:      defaultLedgerPrefix,
			HandoffPrefix:     defaultHandoffPrefix,
			DocumentExtension: defaultDocumentExtension,
		},
		PreCompact: PreCompact{
			Enabled:              true,
			BlockCompaction:      true,
			RequireHandoff:       true,
			HandoffMaxAgeMinutes: defaultCompactionWindowMinutes,
		},
		SessionEnd: SessionEnd{
			Enabled:              true,
			PromptForHandoff:     true,
			HandoffPromptMinutes: defaultHandoffPromptMinutes,
			CleanupOldLedgers:    true,
			LedgerMaxAgeDays:     defaultLedgerRetentionDays,
		},
		PreToolUse: PreToolUse{
			Enabled:              true,
			TypeScriptValidation: true,
			TypeScriptCommand:    defaultTypeScriptCommand,
			BudgetLimit:          defaultBudgetLimit,
			BudgetWarningDollars: defaultBudgetWarningDollars,
		},
		PostToolUse: PostToolUse{
			Enabled:           true,
			UpdateCodebaseMap: true,
			IndexArtifacts:    true,
		},
		Queue: Queue{
			HistoryRetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
