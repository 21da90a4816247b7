package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"continuum/internal/faults"
)

// DefaultSearchLimit caps search results when the caller passes zero.
const DefaultSearchLimit = 10

const artifactColumns = "path, kind, title, outcome, completion, summary, keywords, modified_at, indexed_at"

// Index is the SQLite-backed artifact index.
type Index struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option customizes an Index.
type Option func(*Index)

// WithClock overrides the indexed_at time source.
func WithClock(now func() time.Time) Option {
	return func(i *Index) {
		if now != nil {
			i.now = now
		}
	}
}

// Open creates or connects to the index database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrStorage, "artifacts", "open", "create index directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStorage, "artifacts", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, faults.Wrap(faults.ErrStorage, "artifacts", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	index := &Index{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(index)
	}
	if err := index.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, faults.Wrap(faults.ErrStorage, "artifacts", "open", "initialize schema", err)
	}
	return index, nil
}

// Close closes the underlying database connection.
func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	return i.db.Close()
}

// Path returns the database location.
func (i *Index) Path() string {
	return i.path
}

// Upsert inserts or replaces the artifact keyed by its path.
func (i *Index) Upsert(ctx context.Context, artifact Artifact) (Artifact, error) {
	if strings.TrimSpace(artifact.Path) == "" {
		return Artifact{}, faults.Wrap(faults.ErrValidation, "artifacts", "upsert", "artifact path is required", nil)
	}
	artifact.IndexedAt = i.now()
	const query = `INSERT INTO artifacts (` + artifactColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    kind = excluded.kind,
    title = excluded.title,
    outcome = excluded.outcome,
    completion = excluded.completion,
    summary = excluded.summary,
    keywords = excluded.keywords,
    modified_at = excluded.modified_at,
    indexed_at = excluded.indexed_at`
	err := retryOnBusy(ctx, func() error {
		_, execErr := i.db.ExecContext(ctx, query,
			artifact.Path,
			string(artifact.Kind),
			artifact.Title,
			artifact.Outcome,
			artifact.Completion,
			artifact.Summary,
			strings.Join(artifact.Keywords, ", "),
			artifact.ModifiedAt.UnixNano(),
			artifact.IndexedAt.UnixNano(),
		)
		return execErr
	})
	if err != nil {
		return Artifact{}, faults.Wrap(faults.ErrStorage, "artifacts", "upsert", artifact.Path, err)
	}
	return artifact, nil
}

// Delete removes the artifact at path and reports whether one existed.
func (i *Index) Delete(ctx context.Context, path string) (bool, error) {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := i.db.ExecContext(ctx, "DELETE FROM artifacts WHERE path = ?", path)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return false, faults.Wrap(faults.ErrStorage, "artifacts", "delete", path, err)
	}
	return affected > 0, nil
}

// Get returns the artifact at path.
func (i *Index) Get(ctx context.Context, path string) (Artifact, error) {
	row := i.db.QueryRowContext(ctx, "SELECT "+artifactColumns+" FROM artifacts WHERE path = ?", path)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, faults.Wrap(faults.ErrNotFound, "artifacts", "get", fmt.Sprintf("artifact %s not indexed", path), nil)
	}
	if err != nil {
		return Artifact{}, faults.Wrap(faults.ErrStorage, "artifacts", "get", path, err)
	}
	return artifact, nil
}

// Count returns the number of indexed artifacts.
func (i *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM artifacts").Scan(&count); err != nil {
		return 0, faults.Wrap(faults.ErrStorage, "artifacts", "count", "count artifacts", err)
	}
	return count, nil
}

// Search returns artifacts whose title, summary or keywords contain every
// term, newest first. Matching ignores ASCII case.
func (i *Index) Search(ctx context.Context, terms []string, limit int) ([]Artifact, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var (
		clauses []string
		args    []any
	)
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := "%" + escapeLike(term) + "%"
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\' OR keywords LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := "SELECT " + artifactColumns + " FROM artifacts"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY modified_at DESC, path ASC LIMIT ?"
	args = append(args, limit)

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrStorage, "artifacts", "search", "query artifacts", err)
	}
	defer rows.Close()

	results := []Artifact{}
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrStorage, "artifacts", "search", "scan artifact", err)
		}
		results = append(results, artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrStorage, "artifacts", "search", "iterate artifacts", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (Artifact, error) {
	var (
		artifact          Artifact
		kind, keywords    string
		modified, indexed int64
	)
	if err := row.Scan(
		&artifact.Path,
		&kind,
		&artifact.Title,
		&artifact.Outcome,
		&artifact.Completion,
		&artifact.Summary,
		&keywords,
		&modified,
		&indexed,
	); err != nil {
		return Artifact{}, err
	}
	artifact.Kind = Kind(kind)
	artifact.Keywords = splitKeywords(keywords)
	artifact.ModifiedAt = time.Unix(0, modified)
	artifact.IndexedAt = time.Unix(0, indexed)
	return artifact, nil
}

func splitKeywords(joined string) []string {
	out := []string{}
	for _, part := range strings.Split(joined, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
