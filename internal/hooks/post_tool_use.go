package hooks

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"continuum/internal/artifacts"
	"continuum/internal/codemap"
	"continuum/internal/logging"
)

// PostToolUse records a completed file operation in the codebase map and
// keeps the artifact index in step with handoff and plan documents. It
// never blocks.
func (r *Runner) PostToolUse(ctx context.Context, event ToolEvent) Decision {
	logger := r.hookLogger("post_tool_use")
	gate := r.cfg.PostToolUse
	if !gate.Enabled {
		return allow("hook disabled", "")
	}
	target := r.resolve(event.FilePath)
	if target == "" {
		return allow("no file path", "")
	}

	op, err := codemap.ParseOperation(event.Operation)
	if err != nil {
		logging.WarnWithContext(logger, "unknown file operation; treating as modified", "unknown_operation",
			logging.String("operation", event.Operation),
			logging.String(logging.FieldImpact, "codebase map records the file as modified"),
		)
		op = codemap.OperationModified
	}

	out := &report{}
	if gate.IndexArtifacts {
		r.indexArtifact(ctx, logger, out, target, op)
	}
	if gate.UpdateCodebaseMap {
		tracker := codemap.NewTracker(r.cfg.Paths.CodebaseMap, logger, codemap.WithClock(r.now))
		if _, err := tracker.Record(r.relative(target), op, event.Agent); err != nil {
			logging.WarnWithContext(logger, "codebase map update failed", "codemap_update_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
				logging.String(logging.FieldImpact, "file change is not tracked"),
			)
		} else {
			verb := "updated"
			switch op {
			case codemap.OperationCreated:
				verb = "tracked"
			case codemap.OperationDeleted:
				verb = "pruned"
			}
			out.line("✓ Codebase map %s: %s", verb, filepath.Base(target))
		}
	}

	d := allow("recorded", out.String())
	r.logDecision(logger, "post_tool_use", d)
	return d
}

func (r *Runner) indexArtifact(ctx context.Context, logger *slog.Logger, out *report, target string, op codemap.Operation) {
	kind, ok := artifacts.Classify(target, r.cfg.Paths.HandoffsDir, r.cfg.Paths.PlansDir)
	if !ok {
		return
	}

	var body []byte
	var info fs.FileInfo
	if op != codemap.OperationDeleted {
		var err error
		info, err = os.Stat(target)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err == nil {
			body, err = os.ReadFile(target)
		}
		if err != nil {
			logging.WarnWithContext(logger, "artifact unreadable; not indexed", "artifact_read_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
				logging.String(logging.FieldImpact, "artifact is missing from search results"),
			)
			return
		}
	}

	index, err := artifacts.Open(ctx, r.cfg.Paths.ArtifactIndexDB, artifacts.WithClock(r.now))
	if err != nil {
		logging.WarnWithContext(logger, "artifact index unavailable", "artifact_index_open_failed",
			logging.String(logging.FieldPath, r.cfg.Paths.ArtifactIndexDB),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the artifact index to rebuild it"),
			logging.String(logging.FieldImpact, "artifact is missing from search results"),
		)
		return
	}
	defer index.Close()

	key := r.relative(target)
	if op == codemap.OperationDeleted {
		if _, err := index.Delete(ctx, key); err != nil {
			logging.WarnWithContext(logger, "artifact removal failed", "artifact_delete_failed",
				logging.String(logging.FieldPath, key),
				logging.Error(err),
				logging.String(logging.FieldImpact, "search may return a deleted artifact"),
			)
		}
		return
	}

	artifact, err := index.Upsert(ctx, artifacts.Parse(key, kind, string(body), info.ModTime()))
	if err != nil {
		logging.WarnWithContext(logger, "artifact indexing failed", "artifact_index_failed",
			logging.String(logging.FieldPath, key),
			logging.Error(err),
			logging.String(logging.FieldImpact, "artifact is missing from search results"),
		)
		return
	}
	logger.Info("artifact indexed",
		logging.String(logging.FieldEventType, "artifact_indexed"),
		logging.String(logging.FieldPath, key),
		logging.String("kind", string(artifact.Kind)),
		logging.String("title", artifact.Title),
	)
	out.blank()
	out.line("✓ Artifact indexed: %s", filepath.Base(target))
	out.line(`  Search with: continuum search "keywords"`)
	out.blank()
}
