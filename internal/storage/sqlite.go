// Package storage persists Memory, Tag, and MemoryLink records to SQLite,
// with a read-through LRU cache in front of the memory table and an FTS5
// index backing content search.
//
// The prepared-statement-per-operation shape, JSON-serialized flexible
// columns, and cache-first read path are grounded on the teacher's
// internal/storage/sqlite.go; the schema itself is new, for the memory/tag/
// link model rather than the teacher's thought/branch model.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
	"unified-thinking/pkg/cache"
)

// SQLiteStore is the C8 persistence layer. It owns the database connection,
// a small set of prepared statements, and a read-through cache of recently
// accessed memories keyed by ID.
type SQLiteStore struct {
	db    *sql.DB
	cache *cache.LRU[string, types.Memory]

	insertMemory *sql.Stmt
	updateMemory *sql.Stmt
	getMemory    *sql.Stmt
	deleteMemory *sql.Stmt
}

// Open creates (or opens) a SQLite-backed store at dsn, applies the schema
// if not already present, and prepares the store's statements.
func Open(ctx context.Context, dsn string, cacheSize int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("open sqlite database", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: single-writer, matches the teacher's own connection policy

	// SQLite leaves foreign-key enforcement off by default; the ON DELETE
	// CASCADE clauses below only take effect with it switched on.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, apperr.NewExternalUnavailable("enable sqlite foreign keys", err)
	}

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if cacheSize > 0 {
		s.cache = cache.New[string, types.Memory](&cache.Config{MaxEntries: cacheSize, TTL: 10 * time.Minute})
	}
	if err := s.prepare(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) prepare(ctx context.Context) error {
	var err error
	s.insertMemory, err = s.db.PrepareContext(ctx, `
		INSERT INTO memories (id, user_id, session_id, content, primary_sector, created_at, last_accessed, access_count, salience, strength, decay_rate, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperr.NewExternalUnavailable("prepare insertMemory", err)
	}
	s.updateMemory, err = s.db.PrepareContext(ctx, `
		UPDATE memories SET content = ?, primary_sector = ?, last_accessed = ?, access_count = ?, salience = ?, strength = ?, decay_rate = ?, metadata = ?
		WHERE id = ? AND user_id = ?`)
	if err != nil {
		return apperr.NewExternalUnavailable("prepare updateMemory", err)
	}
	s.getMemory, err = s.db.PrepareContext(ctx, `
		SELECT id, user_id, session_id, content, primary_sector, created_at, last_accessed, access_count, salience, strength, decay_rate, metadata
		FROM memories WHERE id = ? AND user_id = ?`)
	if err != nil {
		return apperr.NewExternalUnavailable("prepare getMemory", err)
	}
	s.deleteMemory, err = s.db.PrepareContext(ctx, `DELETE FROM memories WHERE id = ? AND user_id = ?`)
	if err != nil {
		return apperr.NewExternalUnavailable("prepare deleteMemory", err)
	}
	return nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT,
			content TEXT NOT NULL,
			primary_sector TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			last_accessed TIMESTAMP NOT NULL,
			access_count INTEGER NOT NULL DEFAULT 0,
			salience REAL NOT NULL,
			strength REAL NOT NULL,
			decay_rate REAL NOT NULL,
			metadata TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(content, content='memories', content_rowid='rowid')`,
		`CREATE TRIGGER IF NOT EXISTS memories_ai AFTER INSERT ON memories BEGIN
			INSERT INTO memories_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER IF NOT EXISTS memories_ad AFTER DELETE ON memories BEGIN
			INSERT INTO memories_fts(memories_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER IF NOT EXISTS memories_au AFTER UPDATE ON memories BEGIN
			INSERT INTO memories_fts(memories_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
			INSERT INTO memories_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			color TEXT,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(user_id, path)
		)`,
		`CREATE TABLE IF NOT EXISTS memory_tags (
			memory_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (memory_id, tag_id),
			FOREIGN KEY (memory_id) REFERENCES memories(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS memory_links (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			link_type TEXT NOT NULL,
			weight REAL NOT NULL,
			created_at TIMESTAMP NOT NULL,
			traversal_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (source_id, target_id, link_type),
			FOREIGN KEY (source_id) REFERENCES memories(id) ON DELETE CASCADE,
			FOREIGN KEY (target_id) REFERENCES memories(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperr.NewExternalUnavailable(fmt.Sprintf("apply schema statement: %s", stmt), err)
		}
	}
	return nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying *sql.DB for transactional callers in the
// memory service layer, which needs a single *sql.Tx spanning multiple
// statements (add_tags/remove_tags/delete_tag).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// InsertMemory persists a new memory row and invalidates nothing (it's a
// fresh ID, so there is nothing stale to evict).
func (s *SQLiteStore) InsertMemory(ctx context.Context, m types.Memory) error {
	metadata, err := json.Marshal(m.Metadata)
	if err != nil {
		return apperr.NewInternalInvariant("marshal memory metadata: " + err.Error())
	}
	_, err = s.insertMemory.ExecContext(ctx, m.ID, m.UserID, m.SessionID, m.Content, string(m.PrimarySector),
		m.CreatedAt, m.LastAccessed, m.AccessCount, m.Salience, m.Strength, m.DecayRate, string(metadata))
	if err != nil {
		if isUniqueConstraintErr(err) {
			return apperr.NewConflictingWrite("memory with this id already exists")
		}
		return apperr.NewExternalUnavailable("insert memory", err)
	}
	return nil
}

// GetMemory fetches a memory by (id, userID), consulting the cache first.
func (s *SQLiteStore) GetMemory(ctx context.Context, id, userID string) (types.Memory, error) {
	cacheKey := userID + ":" + id
	if s.cache != nil {
		if m, ok := s.cache.Get(cacheKey); ok {
			return m, nil
		}
	}

	row := s.getMemory.QueryRowContext(ctx, id, userID)
	m, err := scanMemory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Memory{}, apperr.NewNotFound("memory not found")
		}
		return types.Memory{}, apperr.NewExternalUnavailable("get memory", err)
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, m)
	}
	return m, nil
}

// UpdateMemory updates the mutable fields of an existing, owned memory and
// invalidates its cache entry.
func (s *SQLiteStore) UpdateMemory(ctx context.Context, m types.Memory) error {
	metadata, err := json.Marshal(m.Metadata)
	if err != nil {
		return apperr.NewInternalInvariant("marshal memory metadata: " + err.Error())
	}
	res, err := s.updateMemory.ExecContext(ctx, m.Content, string(m.PrimarySector), m.LastAccessed, m.AccessCount,
		m.Salience, m.Strength, m.DecayRate, string(metadata), m.ID, m.UserID)
	if err != nil {
		return apperr.NewExternalUnavailable("update memory", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewExternalUnavailable("update memory rows affected", err)
	}
	if n == 0 {
		return apperr.NewNotFound("memory not found")
	}
	if s.cache != nil {
		s.cache.Delete(m.UserID + ":" + m.ID)
	}
	return nil
}

// DeleteMemory removes an owned memory (cascading to its tag associations
// and links via foreign keys) and invalidates its cache entry.
func (s *SQLiteStore) DeleteMemory(ctx context.Context, id, userID string) error {
	res, err := s.deleteMemory.ExecContext(ctx, id, userID)
	if err != nil {
		return apperr.NewExternalUnavailable("delete memory", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewExternalUnavailable("delete memory rows affected", err)
	}
	if n == 0 {
		return apperr.NewNotFound("memory not found")
	}
	if s.cache != nil {
		s.cache.Delete(userID + ":" + id)
	}
	return nil
}

// SearchContent runs an FTS5 match against a user's memories, returning
// matches ordered by relevance (bm25).
func (s *SQLiteStore) SearchContent(ctx context.Context, userID, query string, limit int) ([]types.Memory, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.NewValidation("search query cannot be empty")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.user_id, m.session_id, m.content, m.primary_sector, m.created_at, m.last_accessed, m.access_count, m.salience, m.strength, m.decay_rate, m.metadata
		FROM memories m
		JOIN memories_fts fts ON fts.rowid = m.rowid
		WHERE memories_fts MATCH ? AND m.user_id = ?
		ORDER BY bm25(memories_fts)
		LIMIT ?`, query, userID, limit)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("search content", err)
	}
	defer rows.Close()

	var out []types.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, apperr.NewExternalUnavailable("scan search result", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row rowScanner) (types.Memory, error) {
	var m types.Memory
	var sector, metadata string
	var sessionID sql.NullString
	if err := row.Scan(&m.ID, &m.UserID, &sessionID, &m.Content, &sector, &m.CreatedAt, &m.LastAccessed,
		&m.AccessCount, &m.Salience, &m.Strength, &m.DecayRate, &metadata); err != nil {
		return types.Memory{}, err
	}
	m.SessionID = sessionID.String
	m.PrimarySector = types.MemorySector(sector)
	if err := json.Unmarshal([]byte(metadata), &m.Metadata); err != nil {
		return types.Memory{}, fmt.Errorf("unmarshal memory metadata: %w", err)
	}
	return m, nil
}

func isUniqueConstraintErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
