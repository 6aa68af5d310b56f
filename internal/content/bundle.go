package content

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const (
	BundleSchemaVersion = 1

	kindChallenge   = "challenge"
	kindExplanation = "explanation"
	timeLayout      = "2006-01-02T15:04:05Z07:00"
)

// SQLiteBundle is a single-file, read-only content source. Records are
// stored as YAML bodies in catalog order.
type SQLiteBundle struct {
	db *sql.DB
}

// OpenBundle opens an existing bundle. It never creates a file.
func OpenBundle(path string) (*SQLiteBundle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBundle{db: db}, nil
}

func (b *SQLiteBundle) Load(ctx context.Context) (*Library, error) {
	version, err := b.meta(ctx, "schema_version")
	if err != nil {
		return nil, err
	}
	if v, _ := strconv.Atoi(version); v == 0 || v > BundleSchemaVersion {
		return nil, fmt.Errorf("unsupported bundle schema_version %q (max supported %d)", version, BundleSchemaVersion)
	}

	var challenges []Challenge
	if err := b.readEntries(ctx, kindChallenge, func(body []byte) error {
		var c Challenge
		if err := yaml.Unmarshal(body, &c); err != nil {
			return err
		}
		challenges = append(challenges, c)
		return nil
	}); err != nil {
		return nil, err
	}
	var explanations []Explanation
	if err := b.readEntries(ctx, kindExplanation, func(body []byte) error {
		var e Explanation
		if err := yaml.Unmarshal(body, &e); err != nil {
			return err
		}
		explanations = append(explanations, e)
		return nil
	}); err != nil {
		return nil, err
	}

	lib, err := NewLibrary(challenges, explanations)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}
	if stored, err := b.meta(ctx, "fingerprint"); err == nil && stored != "" {
		if stored != strconv.FormatUint(lib.Fingerprint, 10) {
			return nil, fmt.Errorf("bundle fingerprint mismatch: stored %s computed %d", stored, lib.Fingerprint)
		}
	}
	return lib, nil
}

func (b *SQLiteBundle) meta(ctx context.Context, key string) (string, error) {
	var value string
	row := b.db.QueryRowContext(ctx, `SELECT value FROM bundle_meta WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("read bundle meta %s: %w", key, err)
	}
	return value, nil
}

func (b *SQLiteBundle) readEntries(ctx context.Context, kind string, fn func(body []byte) error) error {
	rows, err := b.db.QueryContext(ctx, `SELECT id, body FROM entries WHERE kind = ? ORDER BY position`, kind)
	if err != nil {
		return fmt.Errorf("read %s entries: %w", kind, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return err
		}
		if err := fn([]byte(body)); err != nil {
			return fmt.Errorf("decode %s %d: %w", kind, id, err)
		}
	}
	return rows.Err()
}

func (b *SQLiteBundle) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// WriteBundle replaces path with a bundle holding lib.
func WriteBundle(ctx context.Context, path string, lib *Library, now time.Time) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	stmts := []string{
		`CREATE TABLE bundle_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE entries (
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY(kind, position),
			UNIQUE(kind, id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create bundle schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	meta := map[string]string{
		"schema_version": strconv.Itoa(BundleSchemaVersion),
		"fingerprint":    strconv.FormatUint(lib.Fingerprint, 10),
		"created_ts":     now.UTC().Format(timeLayout),
	}
	for k, v := range meta {
		if _, err = tx.ExecContext(ctx, `INSERT INTO bundle_meta(key, value) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}
	for i, c := range lib.Challenges.All() {
		if err = insertEntry(ctx, tx, kindChallenge, i, c.ID, c); err != nil {
			return err
		}
	}
	for i, e := range lib.Explanations.All() {
		if err = insertEntry(ctx, tx, kindExplanation, i, e.ID, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertEntry(ctx context.Context, tx *sql.Tx, kind string, position, id int, v any) error {
	body, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", kind, id, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO entries(kind, position, id, body) VALUES(?, ?, ?, ?)`, kind, position, id, string(body)); err != nil {
		return fmt.Errorf("insert %s %d: %w", kind, id, err)
	}
	return nil
}
