package server

import (
	"context"
	"testing"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/bias"
	"unified-thinking/internal/confidence"
	"unified-thinking/internal/coordinator"
	"unified-thinking/internal/embeddings"
	"unified-thinking/internal/evidence"
	"unified-thinking/internal/insight"
	"unified-thinking/internal/knowledge"
	"unified-thinking/internal/memory"
	"unified-thinking/internal/patterns"
	"unified-thinking/internal/storage"
	"unified-thinking/internal/types"
)

// setupTestServer builds a fully wired Server over an in-memory SQLite store
// and a mock embedder, with an empty pattern registry (no catalogue files
// are needed for the evidence/confidence/bias tool tests).
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, ":memory:", 64)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	links := storage.NewSQLiteLinkStore(store.DB())
	vs, err := knowledge.NewVectorStore(knowledge.Config{Embedder: embeddings.NewMockEmbedder(16)})
	if err != nil {
		t.Fatalf("knowledge.NewVectorStore: %v", err)
	}
	memSvc := memory.NewService(store, links, vs)

	registry := patterns.NewRegistry()
	matcher := patterns.NewMatcher(registry, 0.3)

	return New(
		memSvc,
		evidence.NewExtractor(),
		bias.NewDetector(),
		confidence.NewAssessor(confidence.Identity()),
		registry,
		matcher,
		insight.NewGenerator(0.5, 2),
		coordinator.NewCoordinator(),
	)
}

func TestHandleRememberAndRecall(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, rememberResp, err := s.handleRemember(ctx, nil, RememberRequest{
		UserID:  "u1",
		Content: "the deploy pipeline failed after the config change",
	})
	if err != nil {
		t.Fatalf("handleRemember: %v", err)
	}
	if rememberResp.Memory.ID == "" {
		t.Fatal("expected a generated memory ID")
	}

	_, recallResp, err := s.handleRecall(ctx, nil, RecallRequest{UserID: "u1", MemoryID: rememberResp.Memory.ID})
	if err != nil {
		t.Fatalf("handleRecall: %v", err)
	}
	if recallResp.Memory.AccessCount != 1 {
		t.Errorf("expected access count 1, got %d", recallResp.Memory.AccessCount)
	}
}

func TestHandleRememberRejectsEmptyUser(t *testing.T) {
	s := setupTestServer(t)
	_, _, err := s.handleRemember(context.Background(), nil, RememberRequest{Content: "no user id"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestHandleForgetThenRecallNotFound(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, rememberResp, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "ephemeral note"})
	if err != nil {
		t.Fatalf("handleRemember: %v", err)
	}
	if _, _, err := s.handleForget(ctx, nil, ForgetRequest{UserID: "u1", MemoryID: rememberResp.Memory.ID}); err != nil {
		t.Fatalf("handleForget: %v", err)
	}
	if _, _, err := s.handleRecall(ctx, nil, RecallRequest{UserID: "u1", MemoryID: rememberResp.Memory.ID}); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected not-found after forget, got %v", err)
	}
}

func TestHandleAddTagsAndFindByTags(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, rememberResp, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "a tagged memory"})
	if err != nil {
		t.Fatalf("handleRemember: %v", err)
	}
	if _, _, err := s.handleAddTags(ctx, nil, AddTagsRequest{UserID: "u1", MemoryID: rememberResp.Memory.ID, TagPaths: []string{"Project/Alpha"}}); err != nil {
		t.Fatalf("handleAddTags: %v", err)
	}
	_, findResp, err := s.handleFindByTags(ctx, nil, FindByTagsRequest{UserID: "u1", TagPaths: []string{"project/alpha"}})
	if err != nil {
		t.Fatalf("handleFindByTags: %v", err)
	}
	if findResp.Count != 1 {
		t.Fatalf("expected 1 match, got %d", findResp.Count)
	}
}

func TestHandleLinkAndTraversePath(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, a, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "memory A"})
	if err != nil {
		t.Fatalf("handleRemember a: %v", err)
	}
	_, b, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "memory B"})
	if err != nil {
		t.Fatalf("handleRemember b: %v", err)
	}
	if _, _, err := s.handleLink(ctx, nil, LinkRequest{UserID: "u1", SourceID: a.Memory.ID, TargetID: b.Memory.ID}); err != nil {
		t.Fatalf("handleLink: %v", err)
	}
	_, pathResp, err := s.handleTraversePath(ctx, nil, TraversePathRequest{UserID: "u1", FromID: a.Memory.ID, ToID: b.Memory.ID})
	if err != nil {
		t.Fatalf("handleTraversePath: %v", err)
	}
	if !pathResp.Found || len(pathResp.Path) != 2 {
		t.Fatalf("expected a 2-node path, got %+v", pathResp)
	}
}

func TestHandleTraversePathNoConnection(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, a, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "isolated A"})
	if err != nil {
		t.Fatalf("handleRemember a: %v", err)
	}
	_, b, err := s.handleRemember(ctx, nil, RememberRequest{UserID: "u1", Content: "isolated B"})
	if err != nil {
		t.Fatalf("handleRemember b: %v", err)
	}
	_, pathResp, err := s.handleTraversePath(ctx, nil, TraversePathRequest{UserID: "u1", FromID: a.Memory.ID, ToID: b.Memory.ID})
	if err != nil {
		t.Fatalf("handleTraversePath: %v", err)
	}
	if pathResp.Found {
		t.Fatal("expected no path to be found")
	}
}

func TestHandleAnalyze(t *testing.T) {
	s := setupTestServer(t)
	_, resp, err := s.handleAnalyze(context.Background(), nil, AnalyzeRequest{
		Content: "The data shows a 40% increase in error rate. For example, timeouts doubled after the deploy.",
	})
	if err != nil {
		t.Fatalf("handleAnalyze: %v", err)
	}
	if resp.Quality <= 0 {
		t.Error("expected positive evidence quality")
	}
	if len(resp.Evidence) == 0 {
		t.Error("expected extracted evidence")
	}
}

func TestHandleAssessConfidence(t *testing.T) {
	s := setupTestServer(t)
	_, resp, err := s.handleAssessConfidence(context.Background(), nil, AssessConfidenceRequest{
		Evidence: []types.Evidence{
			{Content: "data shows improvement", Type: types.EvidenceTypeData, Reliability: 0.8, Relevance: 0.8},
		},
		Description: "will the new caching layer improve checkout latency",
		Goals:       []string{"reduce latency"},
	})
	if err != nil {
		t.Fatalf("handleAssessConfidence: %v", err)
	}
	if resp.Percentage == "" {
		t.Error("expected a rendered percentage string")
	}
}

func TestHandleDetectBiasRejectsEmptySteps(t *testing.T) {
	s := setupTestServer(t)
	_, _, err := s.handleDetectBias(context.Background(), nil, DetectBiasRequest{})
	if err == nil {
		t.Fatal("expected a validation error for empty reasoning steps")
	}
}

func TestHandleEvaluate(t *testing.T) {
	s := setupTestServer(t)
	_, resp, err := s.handleEvaluate(context.Background(), nil, EvaluateRequest{
		Content: "Research shows that caching reduces latency significantly.",
	})
	if err != nil {
		t.Fatalf("handleEvaluate: %v", err)
	}
	if len(resp.Evidence) == 0 {
		t.Error("expected extracted evidence")
	}
}

func TestHandleThink(t *testing.T) {
	s := setupTestServer(t)
	_, resp, err := s.handleThink(context.Background(), nil, ThinkRequest{
		Content: "Why did the deployment pipeline start failing intermittently?",
		Mode:    "analytical",
	})
	if err != nil {
		t.Fatalf("handleThink: %v", err)
	}
	if resp.ModeUsed != "analytical" {
		t.Errorf("expected mode_used analytical, got %s", resp.ModeUsed)
	}
	if len(resp.Reasoning) == 0 {
		t.Error("expected a non-empty reasoning transcript")
	}
}

func TestHandleThinkRejectsInvalidMode(t *testing.T) {
	s := setupTestServer(t)
	_, _, err := s.handleThink(context.Background(), nil, ThinkRequest{Content: "x", Mode: "bogus"})
	if err == nil {
		t.Fatal("expected a validation error for an invalid mode")
	}
}

func TestHandleThinkParallel(t *testing.T) {
	s := setupTestServer(t)
	_, resp, err := s.handleThinkParallel(context.Background(), nil, ThinkParallelRequest{
		Description: "Should we migrate the payments service to a new queue?",
		Complexity:  0.6,
	})
	if err != nil {
		t.Fatalf("handleThinkParallel: %v", err)
	}
	if _, ok := resp.Streams[string(types.StreamSynthetic)]; !ok {
		t.Error("expected a Synthetic stream result")
	}
}
