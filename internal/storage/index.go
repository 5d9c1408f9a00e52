/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen/internal/domain"
	applog "docgen/internal/log"
	"docgen/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema. Bump it and add a
	// migration step for breaking changes.
	schemaVersion = 2
)

// IndexPath returns the index database file for the given root directory.
func IndexPath(root string) string {
	return filepath.Join(root, WorkDirName, IndexFileName)
}

// InitOrOpenIndex ensures <root>/.docgen/index.sqlite exists, opens it in WAL
// mode and brings the schema up to date. Callers close the returned DB.
func InitOrOpenIndex(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("index root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, WorkDirName), 0o755); err != nil {
		l.Error("create work dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create %s dir: %w", WorkDirName, err)
	}

	path := IndexPath(root)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep schema; migrations move it forward
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_sections_level ON sections(level);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		if next == 2 {
			// best-effort
			_, _ = db.ExecContext(ctx, `INSERT INTO fts_sections(fts_sections) VALUES('optimize')`)
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates the set/section tables and the FTS index.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sets (
			set_id     TEXT PRIMARY KEY,
			path       TEXT NOT NULL UNIQUE,
			title      TEXT,
			indexed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			section_id INTEGER PRIMARY KEY,
			set_id     TEXT    NOT NULL,
			position   INTEGER NOT NULL,
			header     TEXT,
			headline   TEXT,
			level      INTEGER NOT NULL,
			kind       TEXT    NOT NULL,
			body       TEXT,
			FOREIGN KEY(set_id) REFERENCES sets(set_id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_set_pos ON sections(set_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_level ON sections(level);`,

		// External-content FTS5 index fed from sections via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_sections USING fts5(
			header,
			headline,
			body,
			content='sections',
			content_rowid='section_id',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS sections_ai AFTER INSERT ON sections BEGIN
			INSERT INTO fts_sections(rowid, header, headline, body) VALUES (new.section_id, new.header, new.headline, new.body);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS sections_ad AFTER DELETE ON sections BEGIN
			INSERT INTO fts_sections(fts_sections, rowid, header, headline, body) VALUES ('delete', old.section_id, old.header, old.headline, old.body);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS sections_au AFTER UPDATE ON sections BEGIN
			INSERT INTO fts_sections(fts_sections, rowid, header, headline, body) VALUES ('delete', old.section_id, old.header, old.headline, old.body);
			INSERT INTO fts_sections(rowid, header, headline, body) VALUES (new.section_id, new.header, new.headline, new.body);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// IndexSet replaces the indexed sections of the set stored at setPath with
// the sections of doc. The set keeps its id across re-indexing; new sets get
// a fresh UUID. The index lives next to the set file.
func IndexSet(ctx context.Context, setPath string, doc domain.Document) (string, error) {
	abs, err := filepath.Abs(setPath)
	if err != nil {
		return "", fmt.Errorf("resolve set path: %w", err)
	}
	db, err := InitOrOpenIndex(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	defer db.Close()
	return indexSetDB(ctx, db, abs, doc)
}

func indexSetDB(ctx context.Context, db *sql.DB, absPath string, doc domain.Document) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	var setID string
	err = tx.QueryRowContext(ctx, `SELECT set_id FROM sets WHERE path=?`, absPath).Scan(&setID)
	now := time.Now().UTC().Format(time.RFC3339)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		setID = uuid.NewString()
		if _, err := tx.ExecContext(ctx, `INSERT INTO sets(set_id, path, title, indexed_at) VALUES(?,?,?,?)`, setID, absPath, doc.Title, now); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("insert set: %w", err)
		}
	case err != nil:
		_ = tx.Rollback()
		return "", fmt.Errorf("lookup set: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE sets SET title=?, indexed_at=? WHERE set_id=?`, doc.Title, now, setID); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("update set: %w", err)
		}
	}
	// explicit delete so the FTS triggers see every removed row
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE set_id=?`, setID); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("clear sections: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO sections(set_id, position, header, headline, level, kind, body) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for i, s := range doc.Sections {
		if _, err := ins.ExecContext(ctx, setID, i, s.Header, s.HeadingText, int(s.Level), s.Kind.String(), s.Body); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("insert section: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return setID, nil
}

// RemoveSet drops a set and its sections from the index. Unknown paths are a no-op.
func RemoveSet(ctx context.Context, setPath string) error {
	abs, err := filepath.Abs(setPath)
	if err != nil {
		return fmt.Errorf("resolve set path: %w", err)
	}
	db, err := InitOrOpenIndex(filepath.Dir(abs))
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE set_id IN (SELECT set_id FROM sets WHERE path=?)`, abs); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete sections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sets WHERE path=?`, abs); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete set: %w", err)
	}
	return tx.Commit()
}

// SetLoader reads a set file into a document. It lets the index be rebuilt
// without this package depending on the set file codec.
type SetLoader func(path string) (domain.Document, error)

// RebuildIndex drops the derived tables and re-indexes every *.docgenset file
// directly under root. Files that fail to load are logged and skipped.
func RebuildIndex(ctx context.Context, root string, load SetLoader) (int, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_rebuild").With(slog.String("root", root))
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TRIGGER IF EXISTS sections_ai;",
		"DROP TRIGGER IF EXISTS sections_ad;",
		"DROP TRIGGER IF EXISTS sections_au;",
		"DROP TABLE IF EXISTS fts_sections;",
		"DROP TABLE IF EXISTS sections;",
		"DROP TABLE IF EXISTS sets;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return 0, err
	}
	if load == nil {
		return 0, nil
	}
	matches, err := filepath.Glob(filepath.Join(root, "*"+domain.SetExtension))
	if err != nil {
		return 0, fmt.Errorf("list sets: %w", err)
	}
	n := 0
	for _, p := range matches {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		doc, err := load(abs)
		if err != nil {
			l.Warn("skip unreadable set", slog.String("path", abs), slog.Any("err", err))
			continue
		}
		if _, err := indexSetDB(ctx, db, abs, doc); err != nil {
			return n, err
		}
		n++
	}
	l.Info("index rebuilt", slog.Int("sets", n))
	return n, nil
}

// DetectAndRebuildIndex checks the index for corruption or missing schema and
// rebuilds it when needed. A damaged file is backed up first. It reports
// whether a rebuild happened.
func DetectAndRebuildIndex(ctx context.Context, root string, load SetLoader) (bool, error) {
	path := IndexPath(root)
	db, err := InitOrOpenIndex(root)
	if err != nil {
		backupIndexFile(path)
		removeIndexFiles(path)
		if _, rbErr := RebuildIndex(ctx, root, load); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM sections LIMIT 1;`); err != nil {
			needs = true
		}
	}
	_ = db.Close()
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	removeIndexFiles(path)
	if _, err := RebuildIndex(ctx, root, load); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the index file into a timestamped backup in .docgen/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), BackupsDirName)
	stamp := time.Now().Format(backupStamp)
	_ = copyFile(indexPath, filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp)))
}

func removeIndexFiles(indexPath string) {
	for _, p := range []string{indexPath, indexPath + "-wal", indexPath + "-shm"} {
		_ = os.Remove(p)
	}
}
