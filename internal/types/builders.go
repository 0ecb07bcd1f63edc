package types

import (
	"fmt"
	"time"
)

// MemoryBuilder provides a fluent API for Memory construction with
// sensible defaults, mirroring the teacher's thought-builder idiom.
type MemoryBuilder struct {
	memory *Memory
}

// NewMemory creates a new MemoryBuilder with sensible defaults.
func NewMemory() *MemoryBuilder {
	now := time.Now()
	return &MemoryBuilder{
		memory: &Memory{
			PrimarySector: SectorSemantic,
			CreatedAt:     now,
			LastAccessed:  now,
			Salience:      0.5,
			Strength:      1.0,
			DecayRate:     0.01,
			Metadata: MemoryMetadata{
				Keywords: []string{},
				Tags:     []string{},
			},
		},
	}
}

func (b *MemoryBuilder) Content(content string) *MemoryBuilder {
	b.memory.Content = content
	return b
}

func (b *MemoryBuilder) OwnedBy(userID string) *MemoryBuilder {
	b.memory.UserID = userID
	return b
}

func (b *MemoryBuilder) InSession(sessionID string) *MemoryBuilder {
	b.memory.SessionID = sessionID
	return b
}

func (b *MemoryBuilder) Sector(sector MemorySector) *MemoryBuilder {
	b.memory.PrimarySector = sector
	return b
}

func (b *MemoryBuilder) Salience(salience float64) *MemoryBuilder {
	if salience > 0 {
		b.memory.Salience = salience
	}
	return b
}

func (b *MemoryBuilder) WithKeywords(keywords ...string) *MemoryBuilder {
	b.memory.Metadata.Keywords = append(b.memory.Metadata.Keywords, keywords...)
	return b
}

func (b *MemoryBuilder) WithTags(tags ...string) *MemoryBuilder {
	b.memory.Metadata.Tags = append(b.memory.Metadata.Tags, tags...)
	return b
}

func (b *MemoryBuilder) Atomic() *MemoryBuilder {
	b.memory.Metadata.IsAtomic = true
	return b
}

func (b *MemoryBuilder) ChildOf(parentID string) *MemoryBuilder {
	b.memory.Metadata.ParentID = parentID
	return b
}

// Build returns the constructed memory.
func (b *MemoryBuilder) Build() *Memory {
	return b.memory
}

// Validate ensures the memory meets minimum requirements before persistence.
func (b *MemoryBuilder) Validate() error {
	if b.memory.Content == "" {
		return fmt.Errorf("memory content cannot be empty")
	}
	if b.memory.UserID == "" {
		return fmt.Errorf("memory must have an owning user")
	}
	if b.memory.Salience < 0 || b.memory.Salience > 1 {
		return fmt.Errorf("salience must be between 0 and 1")
	}
	return nil
}

// StreamResultBuilder provides a fluent API for StreamResult construction.
type StreamResultBuilder struct {
	result *StreamResult
}

// NewStreamResult creates a new StreamResultBuilder with sensible defaults.
func NewStreamResult(streamType StreamType) *StreamResultBuilder {
	return &StreamResultBuilder{
		result: &StreamResult{
			StreamType:     streamType,
			Status:         StreamPending,
			ReasoningSteps: []ReasoningStep{},
			Conclusions:    []string{},
			Insights:       []string{},
			Evidence:       []Evidence{},
			Assumptions:    []string{},
		},
	}
}

func (b *StreamResultBuilder) ID(id string) *StreamResultBuilder {
	b.result.StreamID = id
	return b
}

func (b *StreamResultBuilder) Confidence(confidence float64) *StreamResultBuilder {
	b.result.Confidence = confidence
	return b
}

func (b *StreamResultBuilder) AddStep(step ReasoningStep) *StreamResultBuilder {
	b.result.ReasoningSteps = append(b.result.ReasoningSteps, step)
	return b
}

func (b *StreamResultBuilder) AddConclusion(conclusion string) *StreamResultBuilder {
	b.result.Conclusions = append(b.result.Conclusions, conclusion)
	return b
}

func (b *StreamResultBuilder) AddInsight(insight string) *StreamResultBuilder {
	b.result.Insights = append(b.result.Insights, insight)
	return b
}

func (b *StreamResultBuilder) Completed() *StreamResultBuilder {
	b.result.Status = StreamCompleted
	return b
}

func (b *StreamResultBuilder) Failed(reason string) *StreamResultBuilder {
	b.result.Status = StreamFailed
	b.result.Error = reason
	return b
}

// Build returns the constructed stream result.
func (b *StreamResultBuilder) Build() *StreamResult {
	return b.result
}
