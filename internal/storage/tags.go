package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
)

// InsertTag creates a new tag row within tx (the memory service always
// wraps tag mutations in a transaction alongside the association writes
// that accompany them).
func InsertTag(ctx context.Context, tx *sql.Tx, tag types.Tag) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tags (id, user_id, name, path, color, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		tag.ID, tag.UserID, tag.Name, tag.Path, tag.Color, tag.CreatedAt)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return apperr.NewConflictingWrite("tag path already exists for this user")
		}
		return apperr.NewExternalUnavailable("insert tag", err)
	}
	return nil
}

// GetOrCreateTag looks up a tag by (userID, path); if absent, it inserts a
// fresh row using the supplied tag (whose ID/CreatedAt the caller must
// already have populated).
func GetOrCreateTag(ctx context.Context, tx *sql.Tx, candidate types.Tag) (types.Tag, error) {
	existing, err := GetTagByPath(ctx, tx, candidate.UserID, candidate.Path)
	if err == nil {
		return existing, nil
	}
	if !apperr.Is(err, apperr.CodeNotFound) {
		return types.Tag{}, err
	}
	if err := InsertTag(ctx, tx, candidate); err != nil {
		return types.Tag{}, err
	}
	return candidate, nil
}

// GetTagByPath fetches a tag by its normalized path.
func GetTagByPath(ctx context.Context, tx *sql.Tx, userID, path string) (types.Tag, error) {
	row := tx.QueryRowContext(ctx, `SELECT id, user_id, name, path, color, created_at FROM tags WHERE user_id = ? AND path = ?`, userID, path)
	return scanTag(row)
}

// DeleteTag removes a tag and its associations (FK cascade) within tx.
func DeleteTag(ctx context.Context, tx *sql.Tx, tagID, userID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)
	if err != nil {
		return apperr.NewExternalUnavailable("delete tag", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewExternalUnavailable("delete tag rows affected", err)
	}
	if n == 0 {
		return apperr.NewNotFound("tag not found")
	}
	return nil
}

// AssociateTag links a memory to a tag within tx, after checking ownership
// of both rows.
func AssociateTag(ctx context.Context, tx *sql.Tx, memoryID, tagID, userID string) error {
	if err := checkMemoryOwnership(ctx, tx, memoryID, userID); err != nil {
		return err
	}
	if err := checkTagOwnership(ctx, tx, tagID, userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO memory_tags (memory_id, tag_id) VALUES (?, ?)`, memoryID, tagID)
	if err != nil {
		return apperr.NewExternalUnavailable("associate tag", err)
	}
	return nil
}

// DissociateTag removes one memory-tag association within tx.
func DissociateTag(ctx context.Context, tx *sql.Tx, memoryID, tagID, userID string) error {
	if err := checkMemoryOwnership(ctx, tx, memoryID, userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM memory_tags WHERE memory_id = ? AND tag_id = ?`, memoryID, tagID)
	if err != nil {
		return apperr.NewExternalUnavailable("dissociate tag", err)
	}
	return nil
}

// SearchMode selects how multiple tag paths combine in FindMemoriesByTags.
type SearchMode int

const (
	SearchModeAND SearchMode = iota
	SearchModeOR
	SearchModePrefix
)

// FindMemoriesByTags returns memory IDs matching the given tag paths under
// the given combination mode. Prefix mode matches any tag whose path has
// one of the given paths as a prefix (so "project/" matches
// "project/x/y").
func FindMemoriesByTags(ctx context.Context, db *sql.DB, userID string, paths []string, mode SearchMode) ([]string, error) {
	if len(paths) == 0 {
		return nil, apperr.NewValidation("at least one tag path is required")
	}

	switch mode {
	case SearchModeOR, SearchModePrefix:
		return findByTagsOR(ctx, db, userID, paths, mode == SearchModePrefix)
	default:
		return findByTagsAND(ctx, db, userID, paths)
	}
}

func findByTagsOR(ctx context.Context, db *sql.DB, userID string, paths []string, prefix bool) ([]string, error) {
	seen := map[string]bool{}
	var result []string
	for _, p := range paths {
		var rows *sql.Rows
		var err error
		if prefix {
			rows, err = db.QueryContext(ctx, `
				SELECT DISTINCT mt.memory_id FROM memory_tags mt
				JOIN tags t ON t.id = mt.tag_id
				WHERE t.user_id = ? AND (t.path = ? OR t.path LIKE ?)`, userID, p, p+"/%")
		} else {
			rows, err = db.QueryContext(ctx, `
				SELECT DISTINCT mt.memory_id FROM memory_tags mt
				JOIN tags t ON t.id = mt.tag_id
				WHERE t.user_id = ? AND t.path = ?`, userID, p)
		}
		if err != nil {
			return nil, apperr.NewExternalUnavailable("find memories by tag (or)", err)
		}
		if err := collectIDs(rows, seen, &result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func findByTagsAND(ctx context.Context, db *sql.DB, userID string, paths []string) ([]string, error) {
	placeholders := strings.TrimRight(strings.Repeat("?,", len(paths)), ",")
	args := make([]interface{}, 0, len(paths)+2)
	args = append(args, userID)
	for _, p := range paths {
		args = append(args, p)
	}
	args = append(args, len(paths))

	query := fmt.Sprintf(`
		SELECT mt.memory_id FROM memory_tags mt
		JOIN tags t ON t.id = mt.tag_id
		WHERE t.user_id = ? AND t.path IN (%s)
		GROUP BY mt.memory_id
		HAVING COUNT(DISTINCT t.path) = ?`, placeholders)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("find memories by tag (and)", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.NewExternalUnavailable("scan memory id", err)
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

func collectIDs(rows *sql.Rows, seen map[string]bool, out *[]string) error {
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return apperr.NewExternalUnavailable("scan memory id", err)
		}
		if !seen[id] {
			seen[id] = true
			*out = append(*out, id)
		}
	}
	return rows.Err()
}

func checkMemoryOwnership(ctx context.Context, tx *sql.Tx, memoryID, userID string) error {
	var count int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE id = ? AND user_id = ?`, memoryID, userID).Scan(&count)
	if err != nil {
		return apperr.NewExternalUnavailable("check memory ownership", err)
	}
	if count == 0 {
		return apperr.NewNotFound("memory not found")
	}
	return nil
}

func checkTagOwnership(ctx context.Context, tx *sql.Tx, tagID, userID string) error {
	var count int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE id = ? AND user_id = ?`, tagID, userID).Scan(&count)
	if err != nil {
		return apperr.NewExternalUnavailable("check tag ownership", err)
	}
	if count == 0 {
		return apperr.NewNotFound("tag not found")
	}
	return nil
}

func scanTag(row rowScanner) (types.Tag, error) {
	var t types.Tag
	var color sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Path, &color, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return types.Tag{}, apperr.NewNotFound("tag not found")
		}
		return types.Tag{}, apperr.NewExternalUnavailable("scan tag", err)
	}
	t.Color = color.String
	return t, nil
}
