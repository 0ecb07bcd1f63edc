package memory

import (
	"context"
	"testing"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/storage"
	"unified-thinking/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.Open(context.Background(), ":memory:", 64)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	links := storage.NewSQLiteLinkStore(store.DB())
	vs, err := knowledge.NewVectorStore(knowledge.Config{Embedder: embeddings.NewMockEmbedder(16)})
	if err != nil {
		t.Fatalf("knowledge.NewVectorStore: %v", err)
	}
	return NewService(store, links, vs)
}

func TestRememberAndRecall(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Remember(ctx, "u1", "s1", "the outage started after a deploy", types.SectorEpisodic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected generated ID")
	}
	if len(m.Metadata.Keywords) == 0 {
		t.Error("expected derived keywords")
	}

	got, err := svc.Recall(ctx, "u1", m.ID)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if got.AccessCount != 1 {
		t.Errorf("expected access count 1 after first recall, got %d", got.AccessCount)
	}

	again, err := svc.Recall(ctx, "u1", m.ID)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if again.AccessCount != 2 {
		t.Errorf("expected access count 2 after second recall, got %d", again.AccessCount)
	}
}

func TestRememberRejectsEmptyContent(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Remember(context.Background(), "u1", "", "", "")
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchFindsTextMatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Remember(ctx, "u1", "", "the payment gateway timed out under load", types.SectorEpisodic); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if _, err := svc.Remember(ctx, "u1", "", "grocery list for the weekend", types.SectorSemantic); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	hits, err := svc.Search(ctx, "u1", "payment gateway", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one text match")
	}
}

func TestUpdateMemoryReplacesContentAndKeywords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Remember(ctx, "u1", "", "original content about databases", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	updated, err := svc.UpdateMemory(ctx, "u1", m.ID, "revised content about caching layers")
	if err != nil {
		t.Fatalf("UpdateMemory: %v", err)
	}
	if updated.Content != "revised content about caching layers" {
		t.Errorf("expected updated content, got %q", updated.Content)
	}
}

func TestForgetRemovesMemory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Remember(ctx, "u1", "", "a memory to forget", types.SectorEpisodic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if err := svc.Forget(ctx, "u1", m.ID); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, err := svc.Recall(ctx, "u1", m.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected not-found after Forget, got %v", err)
	}
}

func TestAddTagsAndFindByTagsAND(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Remember(ctx, "u1", "", "a tagged memory", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if _, err := svc.AddTags(ctx, "u1", m.ID, []string{"Project/Alpha", "status/open"}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}

	found, err := svc.FindByTags(ctx, "u1", []string{"project/alpha", "status/open"}, storage.SearchModeAND)
	if err != nil {
		t.Fatalf("FindByTags: %v", err)
	}
	if len(found) != 1 || found[0].ID != m.ID {
		t.Fatalf("expected to find the tagged memory, got %+v", found)
	}
}

func TestRemoveTagsDissociates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Remember(ctx, "u1", "", "a memory with a removable tag", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if _, err := svc.AddTags(ctx, "u1", m.ID, []string{"temp/tag"}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}
	if err := svc.RemoveTags(ctx, "u1", m.ID, []string{"temp/tag"}); err != nil {
		t.Fatalf("RemoveTags: %v", err)
	}
	found, err := svc.FindByTags(ctx, "u1", []string{"temp/tag"}, storage.SearchModeOR)
	if err != nil {
		t.Fatalf("FindByTags: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no memories tagged temp/tag after removal, got %d", len(found))
	}
}

func TestLinkAndTraversePath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Remember(ctx, "u1", "", "memory A", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	b, err := svc.Remember(ctx, "u1", "", "memory B", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	c, err := svc.Remember(ctx, "u1", "", "memory C", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}

	if err := svc.Link(ctx, "u1", types.MemoryLink{SourceID: a.ID, TargetID: b.ID, LinkType: types.LinkSemantic, Weight: 0.8}); err != nil {
		t.Fatalf("Link a-b: %v", err)
	}
	if err := svc.Link(ctx, "u1", types.MemoryLink{SourceID: b.ID, TargetID: c.ID, LinkType: types.LinkSemantic, Weight: 0.5}); err != nil {
		t.Fatalf("Link b-c: %v", err)
	}

	path, err := svc.TraversePath(ctx, "u1", a.ID, c.ID)
	if err != nil {
		t.Fatalf("TraversePath: %v", err)
	}
	if len(path) != 3 || path[0] != a.ID || path[2] != c.ID {
		t.Fatalf("expected path [a b c], got %v", path)
	}
}

func TestLinkRejectsSelfLoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Remember(ctx, "u1", "", "self-loop memory", types.SectorSemantic)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	err = svc.Link(ctx, "u1", types.MemoryLink{SourceID: a.ID, TargetID: a.ID, LinkType: types.LinkSemantic, Weight: 1})
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for self-loop, got %v", err)
	}
}
