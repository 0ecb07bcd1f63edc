package server

import (
	"unified-thinking/internal/format"
	"unified-thinking/internal/types"
)

// EmptyRequest is used by tools that take no input.
type EmptyRequest struct{}

// --- Memory & tagging (C8) ---

type RememberRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content"`
	Sector    string `json:"sector,omitempty"`
}

// RememberResponse carries the wire-mandated remember fields alongside the
// full stored Memory, which already surfaces id/salience/strength under
// those names — MemoryID/Salience/Strength here are a flattened, directly
// addressable mirror of the same values.
type RememberResponse struct {
	Memory              types.Memory `json:"memory"`
	MemoryID            string       `json:"memory_id"`
	EmbeddingsGenerated int          `json:"embeddings_generated"`
	Salience            float64      `json:"salience"`
	Strength            float64      `json:"strength"`
}

type RecallRequest struct {
	UserID   string `json:"user_id"`
	MemoryID string `json:"memory_id"`
}

// RecallResponse wraps the recalled Memory in the same memories/total shape
// that search uses, since recall is a single-result fetch by id rather than
// a query — the list is always length 0 or 1.
type RecallResponse struct {
	Memory   types.Memory   `json:"memory"`
	Memories []types.Memory `json:"memories"`
	Total    int            `json:"total"`
}

type SearchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type SearchResponse struct {
	Memories   []types.Memory `json:"memories"`
	Total      int            `json:"total"`
	NextOffset *int           `json:"next_offset,omitempty"`
}

type UpdateMemoryRequest struct {
	UserID   string `json:"user_id"`
	MemoryID string `json:"memory_id"`
	Content  string `json:"content"`
}

type UpdateMemoryResponse struct {
	Memory types.Memory `json:"memory"`
}

type ForgetRequest struct {
	UserID   string `json:"user_id"`
	MemoryID string `json:"memory_id"`
}

type ForgetResponse struct {
	Forgotten bool `json:"forgotten"`
}

type AddTagsRequest struct {
	UserID   string   `json:"user_id"`
	MemoryID string   `json:"memory_id"`
	TagPaths []string `json:"tag_paths"`
}

type AddTagsResponse struct {
	Tags []types.Tag `json:"tags"`
}

type RemoveTagsRequest struct {
	UserID   string   `json:"user_id"`
	MemoryID string   `json:"memory_id"`
	TagPaths []string `json:"tag_paths"`
}

type RemoveTagsResponse struct {
	Removed bool `json:"removed"`
}

type DeleteTagRequest struct {
	UserID  string `json:"user_id"`
	TagPath string `json:"tag_path"`
}

type DeleteTagResponse struct {
	Deleted bool `json:"deleted"`
}

type FindByTagsRequest struct {
	UserID   string   `json:"user_id"`
	TagPaths []string `json:"tag_paths"`
	Mode     string   `json:"mode,omitempty"` // "and" (default) | "or" | "prefix"
}

type FindByTagsResponse struct {
	Memories []types.Memory `json:"memories"`
	Count    int            `json:"count"`
}

type LinkRequest struct {
	UserID   string  `json:"user_id"`
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	LinkType string  `json:"link_type,omitempty"` // default "semantic"
	Weight   float64 `json:"weight,omitempty"`
}

type LinkResponse struct {
	Linked bool `json:"linked"`
}

type UnlinkRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	LinkType string `json:"link_type,omitempty"`
}

type UnlinkResponse struct {
	Unlinked bool `json:"unlinked"`
}

type TraversePathRequest struct {
	UserID string `json:"user_id"`
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

type TraversePathResponse struct {
	Path  []string `json:"path"`
	Found bool     `json:"found"`
}

// --- Reasoning (C1-C7, C9) ---

type AnalyzeRequest struct {
	Content string `json:"content"`
}

// AnalyzeResponse bundles every single-pass analysis component: extracted
// evidence, matched patterns, and the insights generated from those
// matches.
type AnalyzeResponse struct {
	Evidence         []types.Evidence `json:"evidence"`
	Quality          float64          `json:"evidence_quality"`
	Patterns         []PatternSummary `json:"patterns"`
	Insights         []string         `json:"insights"`
	InsightConfidence float64         `json:"insight_confidence"`
	UsedFallback     bool             `json:"used_fallback,omitempty"`
}

// PatternSummary is the tool-facing projection of a patterns.Match.
type PatternSummary struct {
	PatternID string  `json:"pattern_id"`
	Name      string  `json:"name"`
	Domain    string  `json:"domain,omitempty"`
	Score     float64 `json:"score"`
	Severity  string  `json:"severity"`
}

// AssessConfidenceRequest carries the ReasoningContext (problem + aggregated
// evidence, goals, constraints, chosen framework) that §4.3 assesses.
type AssessConfidenceRequest struct {
	Evidence        []types.Evidence `json:"evidence"`
	Description     string           `json:"description,omitempty"`
	ContextText     string           `json:"context,omitempty"`
	Goals           []string         `json:"goals,omitempty"`
	Constraints     []string         `json:"constraints,omitempty"`
	Framework       string           `json:"framework,omitempty"`
	ComplexityLabel string           `json:"complexity_label,omitempty"`
}

type AssessConfidenceResponse struct {
	Assessment     types.ConfidenceAssessment `json:"assessment"`
	Percentage     string                     `json:"percentage"`
	Interpretation string                     `json:"interpretation"`
	Uncertainty    string                     `json:"uncertainty_explanation"`
	Actions        []format.RecommendedAction `json:"recommended_actions"`
	Breakdown      []string                   `json:"factor_breakdown"`
}

type DetectBiasRequest struct {
	ReasoningSteps []types.ReasoningStep `json:"reasoning_steps"`
	Evidence       []types.Evidence      `json:"evidence,omitempty"`
}

type DetectBiasResponse struct {
	Biases []types.BiasDetection `json:"biases"`
}

type BreakdownRequest struct {
	Assessment types.ConfidenceAssessment `json:"assessment"`
}

type BreakdownResponse struct {
	Factors []string `json:"factors"`
}

type EvaluateRequest struct {
	Content         string                `json:"content"`
	ReasoningSteps  []types.ReasoningStep `json:"reasoning_steps,omitempty"`
	ContextText     string                `json:"context,omitempty"`
	Goals           []string              `json:"goals,omitempty"`
	Constraints     []string              `json:"constraints,omitempty"`
	Framework       string                `json:"framework,omitempty"`
	ComplexityLabel string                `json:"complexity_label,omitempty"`
}

// EvaluateResponse runs evidence extraction and confidence assessment
// together over a single piece of content.
type EvaluateResponse struct {
	Evidence   []types.Evidence           `json:"evidence"`
	Assessment types.ConfidenceAssessment `json:"assessment"`
	Biases     []types.BiasDetection      `json:"biases"`
}

// ThinkRequest runs a single reasoning stream (mode) over content and
// returns its linear reasoning transcript.
type ThinkRequest struct {
	Content string `json:"content"`
	Mode    string `json:"mode,omitempty"` // "analytical" (default) | "creative" | "critical" | "synthetic"
}

type ThinkThought struct {
	Content string `json:"content"`
}

type ThinkResponse struct {
	Reasoning    []string       `json:"reasoning"`
	Conclusion   string         `json:"conclusion"`
	ModeUsed     string         `json:"mode_used"`
	Thoughts     []ThinkThought `json:"thoughts"`
	UsedFallback bool           `json:"used_fallback,omitempty"`
}

type ThinkParallelRequest struct {
	Description     string   `json:"description"`
	Domain          string   `json:"domain,omitempty"`
	Complexity      float64  `json:"complexity,omitempty"`
	Uncertainty     float64  `json:"uncertainty,omitempty"`
	TimeSensitivity float64  `json:"time_sensitivity,omitempty"`
	Constraints     []string `json:"constraints,omitempty"`
	Stakeholders    []string `json:"stakeholders,omitempty"`
	Goals           []string `json:"goals,omitempty"`
	Streams         []string `json:"streams,omitempty"` // defaults to all four
}

type ThinkParallelResponse struct {
	StreamResults      []types.StreamResult           `json:"stream_results"`
	Streams            map[string]types.StreamResult `json:"streams"`
	Synthesis          string                         `json:"synthesis"`
	Diversity          float64                        `json:"diversity"`
	OverheadPercentage float64                         `json:"overhead_percentage"`
	Status             string                         `json:"status"` // "Ok" | "Degraded" | "Cancelled"
}
