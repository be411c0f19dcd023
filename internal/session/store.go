// Package session persists document revisions in SQLite so that
// `djtree reparse` can parse a file incrementally against the version seen
// by the previous run.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// ErrNotFound is returned when a document has no stored revision.
var ErrNotFound = errors.New("session: no revision stored")

// Revision is one stored version of a document.
type Revision struct {
	Path      string
	Number    int
	Content   []byte
	HasError  bool
	Stats     syntax.Stats
	CreatedAt time.Time
}

// Store is a SQLite-backed revision store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the session database under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "djtree", "session.db"), nil
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Latest returns the newest revision of path stored for lang. Revisions
// written by another language version are ignored, since their content may
// parse differently.
func (s *Store) Latest(ctx context.Context, path string, lang *syntax.Language) (Revision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.number, r.content, r.has_error, r.tokens_scanned, r.subtrees_reused, r.bytes_reused, r.created_at
		FROM revisions r
		JOIN documents d ON d.id = r.document_id
		WHERE d.path = ? AND d.language = ? AND d.language_version = ?
		ORDER BY r.number DESC
		LIMIT 1`, path, lang.Name, lang.Version)

	rev, err := scanRevision(row, path)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("load revision of %s: %w", path, err)
	}
	return rev, nil
}

// History returns every stored revision of path, oldest first.
func (s *Store) History(ctx context.Context, path string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.number, r.content, r.has_error, r.tokens_scanned, r.subtrees_reused, r.bytes_reused, r.created_at
		FROM revisions r
		JOIN documents d ON d.id = r.document_id
		WHERE d.path = ?
		ORDER BY r.number`, path)
	if err != nil {
		return nil, fmt.Errorf("query history of %s: %w", path, err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		rev, err := scanRevision(rows, path)
		if err != nil {
			return nil, fmt.Errorf("scan history of %s: %w", path, err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history of %s: %w", path, err)
	}
	return revs, nil
}

// Save stores content as the next revision of path for lang.
func (s *Store) Save(ctx context.Context, path string, lang *syntax.Language, tree *syntax.Tree) (Revision, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Revision{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// A document changes language version only by being re-registered; the
	// old revisions are dropped with it.
	var docID int64
	var docVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, language_version FROM documents WHERE path = ?`, path).Scan(&docID, &docVersion)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		docID, err = insertDocument(ctx, tx, path, lang)
	case err == nil && docVersion != lang.Version:
		if _, err = tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err == nil {
			docID, err = insertDocument(ctx, tx, path, lang)
		}
	}
	if err != nil {
		return Revision{}, fmt.Errorf("register document %s: %w", path, err)
	}

	var number int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM revisions WHERE document_id = ?`, docID).Scan(&number); err != nil {
		return Revision{}, fmt.Errorf("number revision of %s: %w", path, err)
	}

	stats := tree.Stats()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (document_id, number, content, has_error, tokens_scanned, subtrees_reused, bytes_reused)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		docID, number, tree.Text(), tree.HasError(), stats.TokensScanned, stats.SubtreesReused, stats.BytesReused)
	if err != nil {
		return Revision{}, fmt.Errorf("insert revision of %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return Revision{}, fmt.Errorf("commit revision of %s: %w", path, err)
	}

	return Revision{
		Path:      path,
		Number:    number,
		Content:   tree.Text(),
		HasError:  tree.HasError(),
		Stats:     syntax.Stats{TokensScanned: stats.TokensScanned, SubtreesReused: stats.SubtreesReused, BytesReused: stats.BytesReused},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Forget deletes path and all its revisions. It reports whether anything
// was stored.
func (s *Store) Forget(ctx context.Context, path string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("forget %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("forget %s: %w", path, err)
	}
	return n > 0, nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, path string, lang *syntax.Language) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (path, language, language_version) VALUES (?, ?, ?)`,
		path, lang.Name, lang.Version)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner, path string) (Revision, error) {
	rev := Revision{Path: path}
	var created int64
	err := row.Scan(&rev.Number, &rev.Content, &rev.HasError,
		&rev.Stats.TokensScanned, &rev.Stats.SubtreesReused, &rev.Stats.BytesReused, &created)
	rev.CreatedAt = time.Unix(created, 0).UTC()
	return rev, err
}
