package storage

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
)

// Neo4jLinkStore is the alternate MemoryLink backend, selected via
// storage.link_backend: "neo4j". Memories themselves always live in
// SQLite; only the link graph is projected into Neo4j, as
// (:Memory {id})-[:LINK {type, weight}]->(:Memory {id}) relationships.
//
// Grounded on the teacher's Neo4j client wrapper: connection-pooled driver,
// VerifyConnectivity at construction, session-scoped read/write helpers.
type Neo4jLinkStore struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// Neo4jLinkStoreConfig configures a Neo4jLinkStore.
type Neo4jLinkStoreConfig struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// NewNeo4jLinkStore opens a pooled driver connection and verifies
// connectivity before returning.
func NewNeo4jLinkStore(ctx context.Context, cfg Neo4jLinkStoreConfig) (*Neo4jLinkStore, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			c.MaxConnectionPoolSize = 50
			c.ConnectionAcquisitionTimeout = cfg.Timeout
			c.SocketConnectTimeout = cfg.Timeout
		},
	)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("create neo4j driver", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperr.NewExternalUnavailable("verify neo4j connectivity", err)
	}

	return &Neo4jLinkStore{driver: driver, database: cfg.Database, timeout: cfg.Timeout}, nil
}

// Close releases the driver's connection pool.
func (n *Neo4jLinkStore) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

func (n *Neo4jLinkStore) CreateLink(ctx context.Context, link types.MemoryLink) error {
	if link.SourceID == link.TargetID {
		return apperr.NewValidation("a memory link cannot be a self-loop")
	}
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, runErr := session.Run(ctx, `
		MERGE (s:Memory {id: $source})
		MERGE (t:Memory {id: $target})
		MERGE (s)-[l:LINK {type: $type}]->(t)
		SET l.weight = $weight, l.created_at = $createdAt, l.traversal_count = coalesce(l.traversal_count, 0)`,
		map[string]interface{}{
			"source": link.SourceID, "target": link.TargetID, "type": string(link.LinkType),
			"weight": link.Weight, "createdAt": link.CreatedAt.Format(time.RFC3339),
		})
	if runErr != nil {
		return apperr.NewExternalUnavailable("create neo4j link", runErr)
	}
	return nil
}

func (n *Neo4jLinkStore) DeleteLink(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:Memory {id: $source})-[l:LINK {type: $type}]->(t:Memory {id: $target})
		DELETE l
		RETURN count(l) AS deleted`,
		map[string]interface{}{"source": sourceID, "target": targetID, "type": string(linkType)})
	if err != nil {
		return apperr.NewExternalUnavailable("delete neo4j link", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return apperr.NewExternalUnavailable("read neo4j delete result", err)
	}
	if deleted, _ := record.Get("deleted"); deleted == int64(0) {
		return apperr.NewNotFound("memory link not found")
	}
	return nil
}

func (n *Neo4jLinkStore) LinksFrom(ctx context.Context, memoryID string) ([]types.MemoryLink, error) {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:Memory {id: $source})-[l:LINK]->(t:Memory)
		RETURN t.id AS target, l.type AS type, l.weight AS weight, l.created_at AS createdAt, l.traversal_count AS count`,
		map[string]interface{}{"source": memoryID})
	if err != nil {
		return nil, apperr.NewExternalUnavailable("query neo4j links from memory", err)
	}
	return collectNeo4jLinks(ctx, result, memoryID)
}

func (n *Neo4jLinkStore) AllLinks(ctx context.Context, userID string) ([]types.MemoryLink, error) {
	// Neo4j stores only the link graph, not ownership; callers are expected
	// to filter by a SQLite-confirmed memory ID set where ownership matters.
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:Memory)-[l:LINK]->(t:Memory)
		RETURN s.id AS source, t.id AS target, l.type AS type, l.weight AS weight, l.created_at AS createdAt, l.traversal_count AS count`,
		nil)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("query all neo4j links", err)
	}
	return collectNeo4jLinksWithSource(ctx, result)
}

func (n *Neo4jLinkStore) IncrementTraversal(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MATCH (s:Memory {id: $source})-[l:LINK {type: $type}]->(t:Memory {id: $target})
		SET l.traversal_count = coalesce(l.traversal_count, 0) + 1`,
		map[string]interface{}{"source": sourceID, "target": targetID, "type": string(linkType)})
	if err != nil {
		return apperr.NewExternalUnavailable("increment neo4j traversal count", err)
	}
	return nil
}

func collectNeo4jLinks(ctx context.Context, result neo4j.ResultWithContext, sourceID string) ([]types.MemoryLink, error) {
	var out []types.MemoryLink
	for result.Next(ctx) {
		rec := result.Record()
		l := types.MemoryLink{SourceID: sourceID}
		if v, ok := rec.Get("target"); ok {
			l.TargetID, _ = v.(string)
		}
		if v, ok := rec.Get("type"); ok {
			s, _ := v.(string)
			l.LinkType = types.LinkType(s)
		}
		if v, ok := rec.Get("weight"); ok {
			l.Weight, _ = v.(float64)
		}
		if v, ok := rec.Get("count"); ok {
			n, _ := v.(int64)
			l.TraversalCount = int(n)
		}
		out = append(out, l)
	}
	if err := result.Err(); err != nil {
		return nil, apperr.NewExternalUnavailable("iterate neo4j links", err)
	}
	return out, nil
}

func collectNeo4jLinksWithSource(ctx context.Context, result neo4j.ResultWithContext) ([]types.MemoryLink, error) {
	var out []types.MemoryLink
	for result.Next(ctx) {
		rec := result.Record()
		var l types.MemoryLink
		if v, ok := rec.Get("source"); ok {
			l.SourceID, _ = v.(string)
		}
		if v, ok := rec.Get("target"); ok {
			l.TargetID, _ = v.(string)
		}
		if v, ok := rec.Get("type"); ok {
			s, _ := v.(string)
			l.LinkType = types.LinkType(s)
		}
		if v, ok := rec.Get("weight"); ok {
			l.Weight, _ = v.(float64)
		}
		if v, ok := rec.Get("count"); ok {
			n, _ := v.(int64)
			l.TraversalCount = int(n)
		}
		out = append(out, l)
	}
	if err := result.Err(); err != nil {
		return nil, apperr.NewExternalUnavailable("iterate neo4j links", err)
	}
	return out, nil
}
