// ABOUTME: Embedding gateway wrapping the OpenAI embeddings API
// ABOUTME: Locks the vector dimension per session and validates every response
package embed

import (
	"context"
	"errors"
	"math"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Gateway produces fixed-length semantic vectors for text. Implementations
// must return vectors of identical dimensionality for the lifetime of the
// gateway.
type Gateway interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedMany embeds texts one by one; no batching is guaranteed.
	EmbedMany(ctx context.Context, texts []string) ([][]float64, error)
}

// embeddingsAPI is the slice of the OpenAI client the gateway needs.
// *openai.Client satisfies it.
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIGateway generates embeddings via the OpenAI embeddings endpoint. The
// first successful call establishes the session dimension; every later vector
// must match it. Failures are surfaced immediately, never retried: the caller
// decides whether to retry a chunk or abort the batch.
type OpenAIGateway struct {
	client embeddingsAPI
	model  openai.EmbeddingModel

	mu  sync.Mutex
	dim int // 0 until the first successful call
}

// NewOpenAIGateway creates a gateway using the given API client and embedding
// model name (e.g. "text-embedding-3-small").
func NewOpenAIGateway(client *openai.Client, model string) *OpenAIGateway {
	return newGateway(client, model)
}

func newGateway(client embeddingsAPI, model string) *OpenAIGateway {
	return &OpenAIGateway{
		client: client,
		model:  openai.EmbeddingModel(model),
	}
}

// Dimension returns the locked session dimension, or 0 before the first
// successful call.
func (g *OpenAIGateway) Dimension() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dim
}

// Embed returns the embedding vector for text.
func (g *OpenAIGateway) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, &ServiceError{Err: errors.New("empty text")}
	}

	resp, err := g.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: g.model,
	})
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &ServiceError{Err: errors.New("no embeddings returned")}
	}

	raw := resp.Data[0].Embedding
	vector := make([]float64, len(raw))
	for i, v := range raw {
		vector[i] = float64(v)
	}

	if err := g.validate(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// EmbedMany embeds texts in order with one service round trip per text.
func (g *OpenAIGateway) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vector, err := g.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// validate enforces all-finite entries and the locked session dimension.
func (g *OpenAIGateway) validate(vector []float64) error {
	if len(vector) == 0 {
		return &ServiceError{Err: errors.New("empty vector returned")}
	}
	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ServiceError{Err: errors.New("non-finite entry in vector")}
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dim == 0 {
		g.dim = len(vector)
		return nil
	}
	if len(vector) != g.dim {
		return &DimensionMismatchError{Want: g.dim, Got: len(vector)}
	}
	return nil
}
