package hooks

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"continuum/internal/config"
	"continuum/internal/logging"
)

// Decision is the verdict and report of one hook invocation. Blocked asks
// the host not to proceed; Enforced additionally raises a non-zero exit.
// Only the compaction gate enforces; every other block is advisory and
// travels in the report.
type Decision struct {
	Blocked  bool
	Enforced bool
	Reason   string
	Report   string
}

// ExitCode maps the decision to the host's process signal.
func (d Decision) ExitCode() int {
	if d.Blocked && d.Enforced {
		return 1
	}
	return 0
}

func allow(reason, report string) Decision {
	return Decision{Reason: reason, Report: report}
}

func block(reason, report string) Decision {
	return Decision{Blocked: true, Reason: reason, Report: report}
}

func enforce(reason, report string) Decision {
	return Decision{Blocked: true, Enforced: true, Reason: reason, Report: report}
}

// ToolEvent describes the tool invocation a hook fires around.
type ToolEvent struct {
	Tool      string
	FilePath  string
	Operation string
	Agent     string
}

// Runner executes hooks against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock overrides the time source for every component the hooks build.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSessionIDGenerator overrides session identifier generation.
func WithSessionIDGenerator(newID func() string) Option {
	return func(r *Runner) {
		r.newID = newID
	}
}

// New returns a Runner for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "hooks"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolve anchors a hook-supplied path at the project root.
func (r *Runner) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.cfg.Root, path)
}

// relative renders path relative to the project root when it lies inside it.
func (r *Runner) relative(path string) string {
	if r.cfg.Root == "" {
		return path
	}
	rel, err := filepath.Rel(r.cfg.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Runner) hookLogger(hook string) *slog.Logger {
	return r.logger.With(logging.String(logging.FieldHook, hook))
}

func (r *Runner) logDecision(logger *slog.Logger, hook string, d Decision) {
	result := "allow"
	if d.Blocked {
		result = "block"
	}
	logger.Info("hook completed",
		logging.Args(append(logging.DecisionAttrs(hook, result, d.Reason),
			logging.String(logging.FieldEventType, "hook_completed"),
		)...)...,
	)
}
