// Package server wires the reasoning engine's components onto MCP tools:
// memory/tagging CRUD and search, single-pass evidence/bias/confidence
// analysis, and parallel multi-stream reasoning.
//
// The one-struct-per-tool request/response shape and the mcp.AddTool
// registration idiom are grounded on the teacher's internal/server/server.go;
// each handler validates its input, delegates to the owning component, and
// wraps the result with toJSONContent.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/bias"
	"unified-thinking/internal/confidence"
	"unified-thinking/internal/coordinator"
	"unified-thinking/internal/evidence"
	"unified-thinking/internal/format"
	"unified-thinking/internal/insight"
	"unified-thinking/internal/memory"
	"unified-thinking/internal/patterns"
	"unified-thinking/internal/storage"
	"unified-thinking/internal/streams"
	"unified-thinking/internal/types"
)

// Server bundles every component the tool surface dispatches to.
type Server struct {
	memory      *memory.Service
	extractor   *evidence.Extractor
	detector    *bias.Detector
	assessor    *confidence.Assessor
	registry    *patterns.Registry
	matcher     *patterns.Matcher
	generator   *insight.Generator
	coordinator *coordinator.Coordinator
}

// New wires the reasoning engine's components into a Server.
func New(
	memSvc *memory.Service,
	extractor *evidence.Extractor,
	detector *bias.Detector,
	assessor *confidence.Assessor,
	registry *patterns.Registry,
	matcher *patterns.Matcher,
	generator *insight.Generator,
	coord *coordinator.Coordinator,
) *Server {
	return &Server{
		memory:      memSvc,
		extractor:   extractor,
		detector:    detector,
		assessor:    assessor,
		registry:    registry,
		matcher:     matcher,
		generator:   generator,
		coordinator: coord,
	}
}

// RegisterTools registers every tool this server exposes on mcpServer.
func (s *Server) RegisterTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "remember",
		Description: "Store a new memory for a user, optionally scoped to a session and memory sector (episodic, semantic, procedural, emotional, reflective).",
	}, s.handleRemember)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "recall",
		Description: "Fetch a memory by ID, incrementing its access statistics.",
	}, s.handleRecall)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "search",
		Description: "Search a user's memories by content, combining full-text and (when enabled) semantic similarity search.",
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "update_memory",
		Description: "Replace a memory's content, re-deriving its keywords and semantic index entry.",
	}, s.handleUpdateMemory)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "forget",
		Description: "Delete a memory, cascading its tag associations and links.",
	}, s.handleForget)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "add_tags",
		Description: "Attach one or more hierarchical tag paths (e.g. 'project/alpha') to a memory, creating tags that don't yet exist.",
	}, s.handleAddTags)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "remove_tags",
		Description: "Dissociate one or more tag paths from a memory.",
	}, s.handleRemoveTags)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "delete_tag",
		Description: "Delete a tag outright, removing it from every memory it's attached to.",
	}, s.handleDeleteTag)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "find_by_tags",
		Description: "Find memories matching a set of tag paths under AND, OR, or prefix combination.",
	}, s.handleFindByTags)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "link",
		Description: "Create a directed, typed link between two memories (semantic, temporal, causal, or analogical).",
	}, s.handleLink)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "unlink",
		Description: "Remove a directed link between two memories.",
	}, s.handleUnlink)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "traverse_path",
		Description: "Find the lowest-weight chain of links connecting two memories.",
	}, s.handleTraversePath)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "think",
		Description: "Run a single reasoning stream (analytical, creative, critical, or synthetic) over content and return its linear reasoning transcript.",
	}, s.handleThink)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "analyze",
		Description: "Extract evidence from text, match it against the pattern catalogue, and generate insights from the matches.",
	}, s.handleAnalyze)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "assess_confidence",
		Description: "Compute a multi-dimensional confidence assessment from evidence and a reasoning transcript.",
	}, s.handleAssessConfidence)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "detect_bias",
		Description: "Scan a reasoning transcript for confirmation, anchoring, availability, and overconfidence biases.",
	}, s.handleDetectBias)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "breakdown",
		Description: "Render a confidence assessment's per-dimension factor breakdown as human-readable lines.",
	}, s.handleBreakdown)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "evaluate",
		Description: "Run evidence extraction, confidence assessment, and bias detection together over one piece of content.",
	}, s.handleEvaluate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "think_parallel",
		Description: "Run the four reasoning streams (Analytical, Creative, Critical, Synthetic) in checkpointed parallel over a problem.",
	}, s.handleThinkParallel)
}

func (s *Server) handleRemember(ctx context.Context, req *mcp.CallToolRequest, input RememberRequest) (*mcp.CallToolResult, *RememberResponse, error) {
	if err := ValidateRememberRequest(&input); err != nil {
		return nil, nil, err
	}
	m, err := s.memory.Remember(ctx, input.UserID, input.SessionID, input.Content, types.MemorySector(input.Sector))
	if err != nil {
		return nil, nil, err
	}
	embeddingsGenerated := 0
	if s.memory.EmbeddingsEnabled() {
		embeddingsGenerated = 1
	}
	resp := &RememberResponse{
		Memory:              m,
		MemoryID:            m.ID,
		EmbeddingsGenerated: embeddingsGenerated,
		Salience:            m.Salience,
		Strength:            m.Strength,
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleRecall(ctx context.Context, req *mcp.CallToolRequest, input RecallRequest) (*mcp.CallToolResult, *RecallResponse, error) {
	if err := ValidateRecallRequest(&input); err != nil {
		return nil, nil, err
	}
	m, err := s.memory.Recall(ctx, input.UserID, input.MemoryID)
	if err != nil {
		return nil, nil, err
	}
	resp := &RecallResponse{Memory: m, Memories: []types.Memory{m}, Total: 1}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchRequest) (*mcp.CallToolResult, *SearchResponse, error) {
	if err := ValidateSearchRequest(&input); err != nil {
		return nil, nil, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	hits, err := s.memory.Search(ctx, input.UserID, input.Query, limit)
	if err != nil {
		return nil, nil, err
	}
	resp := &SearchResponse{Memories: hits, Total: len(hits)}
	if len(hits) == limit {
		next := input.Offset + limit
		resp.NextOffset = &next
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleUpdateMemory(ctx context.Context, req *mcp.CallToolRequest, input UpdateMemoryRequest) (*mcp.CallToolResult, *UpdateMemoryResponse, error) {
	if err := ValidateUpdateMemoryRequest(&input); err != nil {
		return nil, nil, err
	}
	m, err := s.memory.UpdateMemory(ctx, input.UserID, input.MemoryID, input.Content)
	if err != nil {
		return nil, nil, err
	}
	resp := &UpdateMemoryResponse{Memory: m}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleForget(ctx context.Context, req *mcp.CallToolRequest, input ForgetRequest) (*mcp.CallToolResult, *ForgetResponse, error) {
	if err := ValidateForgetRequest(&input); err != nil {
		return nil, nil, err
	}
	if err := s.memory.Forget(ctx, input.UserID, input.MemoryID); err != nil {
		return nil, nil, err
	}
	resp := &ForgetResponse{Forgotten: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleAddTags(ctx context.Context, req *mcp.CallToolRequest, input AddTagsRequest) (*mcp.CallToolResult, *AddTagsResponse, error) {
	if err := ValidateAddTagsRequest(&input); err != nil {
		return nil, nil, err
	}
	tags, err := s.memory.AddTags(ctx, input.UserID, input.MemoryID, input.TagPaths)
	if err != nil {
		return nil, nil, err
	}
	resp := &AddTagsResponse{Tags: tags}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleRemoveTags(ctx context.Context, req *mcp.CallToolRequest, input RemoveTagsRequest) (*mcp.CallToolResult, *RemoveTagsResponse, error) {
	if err := ValidateRemoveTagsRequest(&input); err != nil {
		return nil, nil, err
	}
	if err := s.memory.RemoveTags(ctx, input.UserID, input.MemoryID, input.TagPaths); err != nil {
		return nil, nil, err
	}
	resp := &RemoveTagsResponse{Removed: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, req *mcp.CallToolRequest, input DeleteTagRequest) (*mcp.CallToolResult, *DeleteTagResponse, error) {
	if err := ValidateDeleteTagRequest(&input); err != nil {
		return nil, nil, err
	}
	if err := s.memory.DeleteTag(ctx, input.UserID, input.TagPath); err != nil {
		return nil, nil, err
	}
	resp := &DeleteTagResponse{Deleted: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleFindByTags(ctx context.Context, req *mcp.CallToolRequest, input FindByTagsRequest) (*mcp.CallToolResult, *FindByTagsResponse, error) {
	if err := ValidateFindByTagsRequest(&input); err != nil {
		return nil, nil, err
	}
	mode := searchModeFromString(input.Mode)
	found, err := s.memory.FindByTags(ctx, input.UserID, input.TagPaths, mode)
	if err != nil {
		return nil, nil, err
	}
	resp := &FindByTagsResponse{Memories: found, Count: len(found)}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func searchModeFromString(mode string) storage.SearchMode {
	switch mode {
	case "or":
		return storage.SearchModeOR
	case "prefix":
		return storage.SearchModePrefix
	default:
		return storage.SearchModeAND
	}
}

func (s *Server) handleLink(ctx context.Context, req *mcp.CallToolRequest, input LinkRequest) (*mcp.CallToolResult, *LinkResponse, error) {
	if err := ValidateLinkRequest(&input); err != nil {
		return nil, nil, err
	}
	linkType := types.LinkType(input.LinkType)
	if linkType == "" {
		linkType = types.LinkSemantic
	}
	weight := input.Weight
	if weight == 0 {
		weight = 1.0
	}
	link := types.MemoryLink{
		SourceID: input.SourceID,
		TargetID: input.TargetID,
		LinkType: linkType,
		Weight:   weight,
	}
	if err := s.memory.Link(ctx, input.UserID, link); err != nil {
		return nil, nil, err
	}
	resp := &LinkResponse{Linked: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleUnlink(ctx context.Context, req *mcp.CallToolRequest, input UnlinkRequest) (*mcp.CallToolResult, *UnlinkResponse, error) {
	if err := ValidateUnlinkRequest(&input); err != nil {
		return nil, nil, err
	}
	linkType := types.LinkType(input.LinkType)
	if linkType == "" {
		linkType = types.LinkSemantic
	}
	if err := s.memory.Unlink(ctx, input.SourceID, input.TargetID, linkType); err != nil {
		return nil, nil, err
	}
	resp := &UnlinkResponse{Unlinked: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleTraversePath(ctx context.Context, req *mcp.CallToolRequest, input TraversePathRequest) (*mcp.CallToolResult, *TraversePathResponse, error) {
	if err := ValidateTraversePathRequest(&input); err != nil {
		return nil, nil, err
	}
	path, err := s.memory.TraversePath(ctx, input.UserID, input.FromID, input.ToID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			resp := &TraversePathResponse{Found: false}
			return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
		}
		return nil, nil, err
	}
	resp := &TraversePathResponse{Path: path, Found: true}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func newStream(mode string) streams.Stream {
	switch mode {
	case "creative":
		return streams.NewCreative("think-creative")
	case "critical":
		return streams.NewCritical("think-critical")
	case "synthetic":
		return streams.NewSynthetic("think-synthetic")
	default:
		return streams.NewAnalytical("think-analytical")
	}
}

func (s *Server) handleThink(ctx context.Context, req *mcp.CallToolRequest, input ThinkRequest) (*mcp.CallToolResult, *ThinkResponse, error) {
	if err := ValidateThinkRequest(&input); err != nil {
		return nil, nil, err
	}
	mode := input.Mode
	if mode == "" {
		mode = "analytical"
	}

	stream := newStream(mode)
	stream.Init(types.Problem{Description: input.Content})
	usedFallback := false
	if err := stream.Process(ctx); err != nil {
		usedFallback = true
	}
	result := stream.Result()

	reasoning := make([]string, 0, len(result.ReasoningSteps))
	thoughts := make([]ThinkThought, 0, len(result.ReasoningSteps))
	for _, step := range result.ReasoningSteps {
		reasoning = append(reasoning, step.Content)
		thoughts = append(thoughts, ThinkThought{Content: step.Content})
	}

	conclusion := ""
	if len(result.Conclusions) > 0 {
		conclusion = result.Conclusions[len(result.Conclusions)-1]
	}

	resp := &ThinkResponse{
		Reasoning:    reasoning,
		Conclusion:   conclusion,
		ModeUsed:     mode,
		Thoughts:     thoughts,
		UsedFallback: usedFallback,
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeRequest) (*mcp.CallToolResult, *AnalyzeResponse, error) {
	if err := ValidateAnalyzeRequest(&input); err != nil {
		return nil, nil, err
	}
	result := s.extractor.Extract(input.Content)
	matches := s.matcher.MatchAll(input.Content)
	keyTerms := patterns.ExtractKeyTerms(input.Content)

	summaries := make([]PatternSummary, 0, len(matches))
	for _, mt := range matches {
		summaries = append(summaries, PatternSummary{
			PatternID: mt.Pattern.ID,
			Name:      mt.Pattern.Name,
			Domain:    mt.Pattern.Domain,
			Score:     mt.Score,
			Severity:  string(mt.Pattern.Severity),
		})
	}

	insights := s.generator.Generate(matches, keyTerms)
	resp := &AnalyzeResponse{
		Evidence:          result.Evidence,
		Quality:           result.Quality,
		Patterns:          summaries,
		Insights:          insights.Insights,
		InsightConfidence: insights.Confidence,
		UsedFallback:      insights.UsedFallback,
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleAssessConfidence(ctx context.Context, req *mcp.CallToolRequest, input AssessConfidenceRequest) (*mcp.CallToolResult, *AssessConfidenceResponse, error) {
	assessment := s.assessor.Assess(confidence.Input{
		Evidence:        input.Evidence,
		Description:     input.Description,
		ContextText:     input.ContextText,
		Goals:           input.Goals,
		Constraints:     input.Constraints,
		Framework:       input.Framework,
		ComplexityLabel: input.ComplexityLabel,
	})

	percentage, err := format.FormatConfidencePercentage(assessment.Overall)
	if err != nil {
		return nil, nil, apperr.NewInternalInvariant(err.Error())
	}
	interpretation, err := format.FormatInterpretation(assessment.Overall)
	if err != nil {
		return nil, nil, apperr.NewInternalInvariant(err.Error())
	}
	actions, err := format.FormatActionRecommendations(assessment)
	if err != nil {
		return nil, nil, apperr.NewInternalInvariant(err.Error())
	}

	resp := &AssessConfidenceResponse{
		Assessment:     assessment,
		Percentage:     percentage,
		Interpretation: interpretation,
		Uncertainty:    format.FormatUncertaintyExplanation(assessment.UncertaintyType),
		Actions:        actions,
		Breakdown:      format.FactorBreakdown(assessment),
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleDetectBias(ctx context.Context, req *mcp.CallToolRequest, input DetectBiasRequest) (*mcp.CallToolResult, *DetectBiasResponse, error) {
	if len(input.ReasoningSteps) == 0 {
		return nil, nil, &ValidationError{"reasoning_steps", "must not be empty"}
	}
	resp := &DetectBiasResponse{Biases: s.detector.Detect(input.ReasoningSteps, input.Evidence)}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleBreakdown(ctx context.Context, req *mcp.CallToolRequest, input BreakdownRequest) (*mcp.CallToolResult, *BreakdownResponse, error) {
	resp := &BreakdownResponse{Factors: format.FactorBreakdown(input.Assessment)}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleEvaluate(ctx context.Context, req *mcp.CallToolRequest, input EvaluateRequest) (*mcp.CallToolResult, *EvaluateResponse, error) {
	if err := validateNonEmptyText("content", input.Content, MaxContentLength); err != nil {
		return nil, nil, err
	}
	extraction := s.extractor.Extract(input.Content)
	assessment := s.assessor.Assess(confidence.Input{
		Evidence:        extraction.Evidence,
		Description:     input.Content,
		ContextText:     input.ContextText,
		Goals:           input.Goals,
		Constraints:     input.Constraints,
		Framework:       input.Framework,
		ComplexityLabel: input.ComplexityLabel,
	})
	biases := s.detector.Detect(input.ReasoningSteps, extraction.Evidence)

	resp := &EvaluateResponse{
		Evidence:   extraction.Evidence,
		Assessment: assessment,
		Biases:     biases,
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func (s *Server) handleThinkParallel(ctx context.Context, req *mcp.CallToolRequest, input ThinkParallelRequest) (*mcp.CallToolResult, *ThinkParallelResponse, error) {
	if err := ValidateThinkParallelRequest(&input); err != nil {
		return nil, nil, err
	}

	problem := types.Problem{
		Description:     input.Description,
		Domain:          input.Domain,
		Complexity:      input.Complexity,
		Uncertainty:     input.Uncertainty,
		TimeSensitivity: input.TimeSensitivity,
		Constraints:     input.Constraints,
		Stakeholders:    input.Stakeholders,
		Goals:           input.Goals,
	}

	enabled := enabledStreams(input.Streams)
	results, err := s.coordinator.Run(ctx, problem, enabled)
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]types.StreamResult, len(results.ByType))
	list := make([]types.StreamResult, 0, len(results.ByType))
	var synthesis string
	for st, res := range results.ByType {
		byName[string(st)] = res
		list = append(list, res)
		if st == types.StreamSynthetic && len(res.Conclusions) > 0 {
			synthesis = res.Conclusions[len(res.Conclusions)-1]
		}
	}
	resp := &ThinkParallelResponse{
		StreamResults:      list,
		Streams:            byName,
		Synthesis:          synthesis,
		Diversity:          results.Diversity,
		OverheadPercentage: results.OverheadPercentage,
		Status:             string(results.Status),
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

func enabledStreams(names []string) map[types.StreamType]bool {
	if len(names) == 0 {
		return map[types.StreamType]bool{
			types.StreamAnalytical: true,
			types.StreamCreative:   true,
			types.StreamCritical:   true,
			types.StreamSynthetic:  true,
		}
	}
	out := make(map[types.StreamType]bool, len(names))
	for _, n := range names {
		out[types.StreamType(n)] = true
	}
	out[types.StreamSynthetic] = true
	return out
}
