package server

import (
	"fmt"
	"unicode/utf8"
)

// Input validation limits, mirrored after the tool server's own
// resource-exhaustion guards.
const (
	// MaxContentLength bounds remembered/analyzed text to 100KB.
	MaxContentLength = 100000

	// MaxQueryLength bounds search queries to 1KB.
	MaxQueryLength = 1000

	// MaxTagPaths bounds how many tag paths a single request may carry.
	MaxTagPaths = 50

	// MaxTagPathLength bounds a single tag path's length.
	MaxTagPathLength = 500
)

// ValidationError reports a single invalid request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validateNonEmptyText(field, value string, max int) error {
	if len(value) == 0 {
		return &ValidationError{field, "must not be empty"}
	}
	if len(value) > max {
		return &ValidationError{field, fmt.Sprintf("exceeds maximum length of %d bytes", max)}
	}
	if !utf8.ValidString(value) {
		return &ValidationError{field, "must be valid UTF-8"}
	}
	return nil
}

// ValidateRememberRequest checks a RememberRequest.
func ValidateRememberRequest(req *RememberRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("content", req.Content, MaxContentLength)
}

// ValidateRecallRequest checks a RecallRequest.
func ValidateRecallRequest(req *RecallRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("memory_id", req.MemoryID, MaxTagPathLength)
}

// ValidateSearchRequest checks a SearchRequest.
func ValidateSearchRequest(req *SearchRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("query", req.Query, MaxQueryLength)
}

// ValidateUpdateMemoryRequest checks an UpdateMemoryRequest.
func ValidateUpdateMemoryRequest(req *UpdateMemoryRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("memory_id", req.MemoryID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("content", req.Content, MaxContentLength)
}

// ValidateForgetRequest checks a ForgetRequest.
func ValidateForgetRequest(req *ForgetRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("memory_id", req.MemoryID, MaxTagPathLength)
}

func validateTagPaths(paths []string) error {
	if len(paths) == 0 {
		return &ValidationError{"tag_paths", "must include at least one path"}
	}
	if len(paths) > MaxTagPaths {
		return &ValidationError{"tag_paths", fmt.Sprintf("exceeds maximum of %d paths", MaxTagPaths)}
	}
	for _, p := range paths {
		if err := validateNonEmptyText("tag_paths[]", p, MaxTagPathLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAddTagsRequest checks an AddTagsRequest.
func ValidateAddTagsRequest(req *AddTagsRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("memory_id", req.MemoryID, MaxTagPathLength); err != nil {
		return err
	}
	return validateTagPaths(req.TagPaths)
}

// ValidateRemoveTagsRequest checks a RemoveTagsRequest.
func ValidateRemoveTagsRequest(req *RemoveTagsRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("memory_id", req.MemoryID, MaxTagPathLength); err != nil {
		return err
	}
	return validateTagPaths(req.TagPaths)
}

// ValidateDeleteTagRequest checks a DeleteTagRequest.
func ValidateDeleteTagRequest(req *DeleteTagRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("tag_path", req.TagPath, MaxTagPathLength)
}

// ValidateFindByTagsRequest checks a FindByTagsRequest.
func ValidateFindByTagsRequest(req *FindByTagsRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateTagPaths(req.TagPaths); err != nil {
		return err
	}
	switch req.Mode {
	case "", "and", "or", "prefix":
		return nil
	default:
		return &ValidationError{"mode", fmt.Sprintf("invalid mode: %s (must be 'and', 'or', or 'prefix')", req.Mode)}
	}
}

// ValidateLinkRequest checks a LinkRequest.
func ValidateLinkRequest(req *LinkRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("source_id", req.SourceID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("target_id", req.TargetID, MaxTagPathLength); err != nil {
		return err
	}
	if req.SourceID == req.TargetID {
		return &ValidationError{"target_id", "must differ from source_id"}
	}
	switch req.LinkType {
	case "", "semantic", "temporal", "causal", "analogical":
		return nil
	default:
		return &ValidationError{"link_type", fmt.Sprintf("invalid link_type: %s", req.LinkType)}
	}
}

// ValidateUnlinkRequest checks an UnlinkRequest.
func ValidateUnlinkRequest(req *UnlinkRequest) error {
	if err := validateNonEmptyText("source_id", req.SourceID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("target_id", req.TargetID, MaxTagPathLength)
}

// ValidateTraversePathRequest checks a TraversePathRequest.
func ValidateTraversePathRequest(req *TraversePathRequest) error {
	if err := validateNonEmptyText("user_id", req.UserID, MaxTagPathLength); err != nil {
		return err
	}
	if err := validateNonEmptyText("from_id", req.FromID, MaxTagPathLength); err != nil {
		return err
	}
	return validateNonEmptyText("to_id", req.ToID, MaxTagPathLength)
}

// ValidateThinkRequest checks a ThinkRequest.
func ValidateThinkRequest(req *ThinkRequest) error {
	if err := validateNonEmptyText("content", req.Content, MaxContentLength); err != nil {
		return err
	}
	switch req.Mode {
	case "", "analytical", "creative", "critical", "synthetic":
		return nil
	default:
		return &ValidationError{"mode", fmt.Sprintf("invalid mode: %s (must be 'analytical', 'creative', 'critical', or 'synthetic')", req.Mode)}
	}
}

// ValidateAnalyzeRequest checks an AnalyzeRequest.
func ValidateAnalyzeRequest(req *AnalyzeRequest) error {
	return validateNonEmptyText("content", req.Content, MaxContentLength)
}

// ValidateThinkParallelRequest checks a ThinkParallelRequest.
func ValidateThinkParallelRequest(req *ThinkParallelRequest) error {
	return validateNonEmptyText("description", req.Description, MaxContentLength)
}
