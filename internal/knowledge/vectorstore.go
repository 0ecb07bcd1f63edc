// Package knowledge indexes memory content by semantic similarity, one
// chromem-go collection per memory sector.
package knowledge

import (
	"context"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/types"
)

// VectorStore wraps a chromem-go database, one collection per MemorySector.
type VectorStore struct {
	db       *chromem.DB
	embedder embeddings.Embedder
}

// Config configures a VectorStore.
type Config struct {
	PersistPath string // empty means in-memory only
	Embedder    embeddings.Embedder
}

// NewVectorStore opens (or creates) the chromem-go database described by cfg.
func NewVectorStore(cfg Config) (*VectorStore, error) {
	var db *chromem.DB
	var err error
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, false)
		if err != nil {
			return nil, apperr.NewExternalUnavailable("open persistent vector store", err)
		}
	} else {
		db = chromem.NewDB()
	}
	return &VectorStore{db: db, embedder: cfg.Embedder}, nil
}

func collectionName(sector types.MemorySector) string {
	return "memory_" + string(sector)
}

func (vs *VectorStore) collection(name string) (*chromem.Collection, error) {
	c := vs.db.GetCollection(name, nil)
	if c != nil {
		return c, nil
	}
	c, err := vs.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("create vector collection "+name, err)
	}
	return c, nil
}

// Index embeds and stores memory m under its primary sector's collection.
func (vs *VectorStore) Index(ctx context.Context, m types.Memory) error {
	coll, err := vs.collection(collectionName(m.PrimarySector))
	if err != nil {
		return err
	}
	vec, err := vs.embedder.Embed(ctx, m.Content)
	if err != nil {
		return apperr.NewExternalUnavailable("embed memory content", err)
	}
	meta := map[string]string{
		"user_id":  m.UserID,
		"sector":   string(m.PrimarySector),
		"salience": strconv.FormatFloat(m.Salience, 'f', -1, 64),
	}
	if err := coll.AddDocument(ctx, chromem.Document{ID: m.ID, Content: m.Content, Metadata: meta, Embedding: vec}); err != nil {
		return apperr.NewExternalUnavailable("index memory", err)
	}
	return nil
}

// Remove deletes a memory's document from its sector's collection.
func (vs *VectorStore) Remove(ctx context.Context, sector types.MemorySector, memoryID string) error {
	coll := vs.db.GetCollection(collectionName(sector), nil)
	if coll == nil {
		return nil
	}
	if err := coll.Delete(ctx, nil, nil, memoryID); err != nil {
		return apperr.NewExternalUnavailable("remove indexed memory", err)
	}
	return nil
}

// SimilarityHit is one ranked result of a similarity search.
type SimilarityHit struct {
	MemoryID   string
	Similarity float32
	UserID     string
}

// SearchSector returns the top-K memories by cosine similarity to query
// within sector, scoped to userID.
func (vs *VectorStore) SearchSector(ctx context.Context, sector types.MemorySector, userID, query string, limit int) ([]SimilarityHit, error) {
	if limit <= 0 {
		limit = 10
	}
	coll := vs.db.GetCollection(collectionName(sector), nil)
	if coll == nil {
		return nil, nil
	}
	vec, err := vs.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("embed search query", err)
	}

	n := coll.Count()
	if n == 0 {
		return nil, nil
	}
	fetch := limit * 3
	if fetch > n {
		fetch = n
	}
	results, err := coll.QueryEmbedding(ctx, vec, fetch, map[string]string{"user_id": userID}, nil)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("similarity search", err)
	}

	hits := make([]SimilarityHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SimilarityHit{MemoryID: r.ID, Similarity: r.Similarity, UserID: r.Metadata["user_id"]})
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// SearchAllSectors runs SearchSector over every sector and merges results,
// ranked by similarity descending.
func (vs *VectorStore) SearchAllSectors(ctx context.Context, userID, query string, limit int) ([]SimilarityHit, error) {
	var all []SimilarityHit
	for _, sector := range types.AllSectors() {
		hits, err := vs.SearchSector(ctx, sector, userID, query, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, hits...)
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].Similarity > all[j-1].Similarity; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	if len(all) > limit && limit > 0 {
		all = all[:limit]
	}
	return all, nil
}
