package storage

import (
	"context"
	"database/sql"

	"github.com/dominikbraun/graph"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
)

// LinkStore is the interface both the default SQLite-backed link storage
// and the optional Neo4j-backed one satisfy, selected by
// storage.link_backend in configuration.
type LinkStore interface {
	CreateLink(ctx context.Context, link types.MemoryLink) error
	DeleteLink(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error
	LinksFrom(ctx context.Context, memoryID string) ([]types.MemoryLink, error)
	AllLinks(ctx context.Context, userID string) ([]types.MemoryLink, error)
	IncrementTraversal(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error
}

// SQLiteLinkStore stores MemoryLink edges as rows; any traversal graph is
// built on demand per query via BuildTraversalGraph and dropped afterward —
// no persistent in-process graph is kept between requests.
type SQLiteLinkStore struct {
	db *sql.DB
}

// NewSQLiteLinkStore wraps db as a LinkStore.
func NewSQLiteLinkStore(db *sql.DB) *SQLiteLinkStore {
	return &SQLiteLinkStore{db: db}
}

func (s *SQLiteLinkStore) CreateLink(ctx context.Context, link types.MemoryLink) error {
	if link.SourceID == link.TargetID {
		return apperr.NewValidation("a memory link cannot be a self-loop")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_links (source_id, target_id, link_type, weight, created_at, traversal_count)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT(source_id, target_id, link_type) DO UPDATE SET weight = excluded.weight`,
		link.SourceID, link.TargetID, string(link.LinkType), link.Weight, link.CreatedAt)
	if err != nil {
		return apperr.NewExternalUnavailable("create memory link", err)
	}
	return nil
}

func (s *SQLiteLinkStore) DeleteLink(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memory_links WHERE source_id = ? AND target_id = ? AND link_type = ?`,
		sourceID, targetID, string(linkType))
	if err != nil {
		return apperr.NewExternalUnavailable("delete memory link", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewExternalUnavailable("delete memory link rows affected", err)
	}
	if n == 0 {
		return apperr.NewNotFound("memory link not found")
	}
	return nil
}

func (s *SQLiteLinkStore) LinksFrom(ctx context.Context, memoryID string) ([]types.MemoryLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id, link_type, weight, created_at, traversal_count
		FROM memory_links WHERE source_id = ?`, memoryID)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("query links from memory", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

func (s *SQLiteLinkStore) AllLinks(ctx context.Context, userID string) ([]types.MemoryLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.source_id, l.target_id, l.link_type, l.weight, l.created_at, l.traversal_count
		FROM memory_links l
		JOIN memories m ON m.id = l.source_id
		WHERE m.user_id = ?`, userID)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("query all links for user", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

func (s *SQLiteLinkStore) IncrementTraversal(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE memory_links SET traversal_count = traversal_count + 1
		WHERE source_id = ? AND target_id = ? AND link_type = ?`, sourceID, targetID, string(linkType))
	if err != nil {
		return apperr.NewExternalUnavailable("increment link traversal count", err)
	}
	return nil
}

func scanLinks(rows *sql.Rows) ([]types.MemoryLink, error) {
	var out []types.MemoryLink
	for rows.Next() {
		var l types.MemoryLink
		var linkType string
		if err := rows.Scan(&l.SourceID, &l.TargetID, &linkType, &l.Weight, &l.CreatedAt, &l.TraversalCount); err != nil {
			return nil, apperr.NewExternalUnavailable("scan memory link", err)
		}
		l.LinkType = types.LinkType(linkType)
		out = append(out, l)
	}
	return out, rows.Err()
}

// BuildTraversalGraph constructs an in-process directed graph from a set of
// links, for one query's traversal (shortest path, reachability) only. The
// graph is never cached or reused across queries — each traversal request
// rebuilds it from the current link rows.
func BuildTraversalGraph(links []types.MemoryLink) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Weighted())
	for _, l := range links {
		_ = g.AddVertex(l.SourceID)
		_ = g.AddVertex(l.TargetID)
		if err := g.AddEdge(l.SourceID, l.TargetID, graph.EdgeWeight(int(l.Weight*1000))); err != nil && err != graph.ErrEdgeAlreadyExists {
			return nil, apperr.NewInternalInvariant("build traversal graph: " + err.Error())
		}
	}
	return g, nil
}

// ShortestPath finds the lowest-weight path between two memories over the
// given link set, building and discarding the graph for this call alone.
func ShortestPath(links []types.MemoryLink, from, to string) ([]string, error) {
	g, err := BuildTraversalGraph(links)
	if err != nil {
		return nil, err
	}
	path, err := graph.ShortestPath(g, from, to)
	if err != nil {
		return nil, apperr.NewNotFound("no path between the given memories")
	}
	return path, nil
}
