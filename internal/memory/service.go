// Package memory is the C8 service layer: it orchestrates transactional tag
// CRUD, link maintenance, and content/tag search over the internal/storage
// persistence layer, the way the teacher's repository-backed service package
// orchestrates its own domain workflows on top of a Repository interface.
package memory

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/storage"
	"unified-thinking/internal/types"
)

// Service is the C8 orchestration layer over a SQLiteStore, a LinkStore, and
// an optional vector index.
type Service struct {
	store   *storage.SQLiteStore
	links   storage.LinkStore
	vectors *knowledge.VectorStore // nil when embeddings are disabled
}

// NewService wires a persistence store, a link backend, and an optional
// vector index (pass nil to disable semantic indexing) into a Service.
func NewService(store *storage.SQLiteStore, links storage.LinkStore, vectors *knowledge.VectorStore) *Service {
	return &Service{store: store, links: links, vectors: vectors}
}

// EmbeddingsEnabled reports whether this Service indexes memories into a
// vector store.
func (s *Service) EmbeddingsEnabled() bool {
	return s.vectors != nil
}

// Remember creates a new memory owned by userID, deriving keywords from its
// content and indexing it for semantic search when a vector store is
// configured.
func (s *Service) Remember(ctx context.Context, userID, sessionID, content string, sector types.MemorySector) (types.Memory, error) {
	b := types.NewMemory().OwnedBy(userID).Content(content).InSession(sessionID)
	if sector != "" {
		b = b.Sector(sector)
	}
	b = b.WithKeywords(ExtractKeywords(content)...)
	if err := b.Validate(); err != nil {
		return types.Memory{}, apperr.NewValidation(err.Error())
	}

	m := *b.Build()
	m.ID = uuid.New().String()

	if err := s.store.InsertMemory(ctx, m); err != nil {
		return types.Memory{}, err
	}

	if s.vectors != nil {
		if err := s.vectors.Index(ctx, m); err != nil {
			// Indexing is a non-critical enhancement; the memory itself is
			// already durably stored, so we log and continue rather than
			// fail the whole remember operation.
			log.Printf("memory: failed to index memory %s for semantic search: %v", m.ID, err)
		}
	}
	return m, nil
}

// Recall fetches a memory by ID, bumping its access statistics.
func (s *Service) Recall(ctx context.Context, userID, id string) (types.Memory, error) {
	m, err := s.store.GetMemory(ctx, id, userID)
	if err != nil {
		return types.Memory{}, err
	}
	m.AccessCount++
	m.LastAccessed = time.Now()
	if err := s.store.UpdateMemory(ctx, m); err != nil {
		return types.Memory{}, err
	}
	return m, nil
}

// Search runs a content search (FTS5-backed) over userID's memories, merged
// with a semantic similarity pass when a vector store is configured.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]types.Memory, error) {
	textHits, err := s.store.SearchContent(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	if s.vectors == nil {
		return textHits, nil
	}

	seen := make(map[string]bool, len(textHits))
	for _, m := range textHits {
		seen[m.ID] = true
	}

	semanticHits, err := s.vectors.SearchAllSectors(ctx, userID, query, limit)
	if err != nil {
		// Semantic search degrades gracefully to text-only results.
		log.Printf("memory: semantic search failed, falling back to text search: %v", err)
		return textHits, nil
	}
	for _, hit := range semanticHits {
		if seen[hit.MemoryID] {
			continue
		}
		m, err := s.store.GetMemory(ctx, hit.MemoryID, userID)
		if err != nil {
			continue
		}
		seen[m.ID] = true
		textHits = append(textHits, m)
	}
	if limit > 0 && len(textHits) > limit {
		textHits = textHits[:limit]
	}
	return textHits, nil
}

// UpdateMemory replaces a memory's content, re-deriving its keywords and
// re-indexing it for semantic search.
func (s *Service) UpdateMemory(ctx context.Context, userID, id, content string) (types.Memory, error) {
	m, err := s.store.GetMemory(ctx, id, userID)
	if err != nil {
		return types.Memory{}, err
	}
	if content == "" {
		return types.Memory{}, apperr.NewValidation("memory content cannot be empty")
	}
	m.Content = content
	m.Metadata.Keywords = ExtractKeywords(content)
	m.LastAccessed = time.Now()

	if err := s.store.UpdateMemory(ctx, m); err != nil {
		return types.Memory{}, err
	}
	if s.vectors != nil {
		if err := s.vectors.Index(ctx, m); err != nil {
			log.Printf("memory: failed to re-index memory %s: %v", m.ID, err)
		}
	}
	return m, nil
}

// Forget deletes a memory (cascading tag associations and SQLite-backed
// links via foreign keys) and removes it from the vector index.
func (s *Service) Forget(ctx context.Context, userID, id string) error {
	m, err := s.store.GetMemory(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMemory(ctx, id, userID); err != nil {
		return err
	}
	if s.vectors != nil {
		if err := s.vectors.Remove(ctx, m.PrimarySector, id); err != nil {
			log.Printf("memory: failed to remove memory %s from vector index: %v", id, err)
		}
	}
	return nil
}

// AddTags normalizes and attaches one or more tag paths to a memory, inside
// a single transaction: each path is resolved to an existing tag or a newly
// created one, then associated with the memory.
func (s *Service) AddTags(ctx context.Context, userID, memoryID string, paths []string) ([]types.Tag, error) {
	if len(paths) == 0 {
		return nil, apperr.NewValidation("at least one tag path is required")
	}

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.NewExternalUnavailable("begin add_tags transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var tags []types.Tag
	for _, raw := range paths {
		norm := NormalizePath(raw)
		if norm == "" {
			return nil, apperr.NewValidation("tag path cannot be empty")
		}
		candidate := types.Tag{ID: uuid.New().String(), UserID: userID, Name: LeafName(norm), Path: norm, CreatedAt: time.Now()}
		tag, err := storage.GetOrCreateTag(ctx, tx, candidate)
		if err != nil {
			return nil, err
		}
		if err := storage.AssociateTag(ctx, tx, memoryID, tag.ID, userID); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.NewExternalUnavailable("commit add_tags transaction", err)
	}
	return tags, nil
}

// RemoveTags dissociates one or more tag paths from a memory within a single
// transaction. Paths that do not resolve to an existing tag are skipped.
func (s *Service) RemoveTags(ctx context.Context, userID, memoryID string, paths []string) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewExternalUnavailable("begin remove_tags transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, raw := range paths {
		norm := NormalizePath(raw)
		tag, err := storage.GetTagByPath(ctx, tx, userID, norm)
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				continue
			}
			return err
		}
		if err := storage.DissociateTag(ctx, tx, memoryID, tag.ID, userID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.NewExternalUnavailable("commit remove_tags transaction", err)
	}
	return nil
}

// DeleteTag removes a tag (and, via foreign-key cascade, all of its memory
// associations) within its own transaction.
func (s *Service) DeleteTag(ctx context.Context, userID, path string) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewExternalUnavailable("begin delete_tag transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	norm := NormalizePath(path)
	tag, err := storage.GetTagByPath(ctx, tx, userID, norm)
	if err != nil {
		return err
	}
	if err := storage.DeleteTag(ctx, tx, tag.ID, userID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewExternalUnavailable("commit delete_tag transaction", err)
	}
	return nil
}

// FindByTags resolves matching tag paths to memory IDs and loads the
// matching memories in full.
func (s *Service) FindByTags(ctx context.Context, userID string, paths []string, mode storage.SearchMode) ([]types.Memory, error) {
	ids, err := storage.FindMemoriesByTags(ctx, s.store.DB(), userID, paths, mode)
	if err != nil {
		return nil, err
	}
	out := make([]types.Memory, 0, len(ids))
	for _, id := range ids {
		m, err := s.store.GetMemory(ctx, id, userID)
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Link creates a directed link between two owned memories.
func (s *Service) Link(ctx context.Context, userID string, link types.MemoryLink) error {
	if _, err := s.store.GetMemory(ctx, link.SourceID, userID); err != nil {
		return err
	}
	if _, err := s.store.GetMemory(ctx, link.TargetID, userID); err != nil {
		return err
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	return s.links.CreateLink(ctx, link)
}

// Unlink removes a directed link between two memories.
func (s *Service) Unlink(ctx context.Context, sourceID, targetID string, linkType types.LinkType) error {
	return s.links.DeleteLink(ctx, sourceID, targetID, linkType)
}

// TraversePath finds the lowest-weight chain of links connecting two
// memories, among all of userID's links.
func (s *Service) TraversePath(ctx context.Context, userID, fromID, toID string) ([]string, error) {
	all, err := s.links.AllLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return storage.ShortestPath(all, fromID, toID)
}
