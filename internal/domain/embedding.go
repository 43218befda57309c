package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Tagger reports the model tag of an embedder. Every index snapshot
// records the tag of the embedder that produced it; the query resolver
// refuses to compare vectors across differing tags.
type Tagger interface {
	ModelTag() string
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ModelTag builds the canonical model tag: provider/model/dimensions.
func ModelTag(provider, model string, dimensions int) string {
	return fmt.Sprintf("%s/%s/%d", provider, model, dimensions)
}

// InstructionEmbedder is a decorator that prepends instruction text before embedding.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}

// ModelTag delegates to the inner embedder's tag; the instruction prefix
// does not change the embedding space.
func (e *InstructionEmbedder) ModelTag() string {
	if t, ok := e.inner.(Tagger); ok {
		return t.ModelTag()
	}
	return ""
}
