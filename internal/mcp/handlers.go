// ABOUTME: MCP tool handler implementations for the talksearch server
// ABOUTME: Serves corpus loading and similarity queries over a shared corpus handle
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/search"
	"github.com/harper/talksearch/internal/storage/sqlite"
)

// Handlers contains the handler functions for the talksearch MCP tools
type Handlers struct {
	handle *corpus.Handle
	engine *search.Engine
}

// queryHit is the wire shape of one ranked chunk.
type queryHit struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Number int     `json:"number"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
}

// LoadCorpus handles the load_corpus tool
func (h *Handlers) LoadCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}

	c, err := sqlite.NewStore(path).Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading corpus: %v", err)), nil
	}

	h.handle.Replace(c)

	responseJSON, err := json.Marshal(map[string]interface{}{
		"path":      path,
		"chunks":    c.Len(),
		"dimension": c.Dimension(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// QueryCorpus handles the query_corpus tool
func (h *Handlers) QueryCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	topK := request.GetInt("top_k", 5)

	c := h.handle.Get()
	if c == nil {
		return mcp.NewToolResultError("no corpus loaded; call load_corpus first"), nil
	}

	results, err := h.engine.Query(ctx, question, c, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	hits := make([]queryHit, len(results))
	for i, r := range results {
		hits[i] = queryHit{
			Rank:   i + 1,
			Score:  r.Score,
			Title:  r.Chunk.Title,
			Number: r.Chunk.Number,
			Start:  r.Chunk.Start,
			End:    r.Chunk.End,
			Text:   r.Chunk.Text,
		}
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"question": question,
		"hits":     hits,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// CorpusInfo handles the corpus_info tool
func (h *Handlers) CorpusInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := h.handle.Get()
	if c == nil {
		return mcp.NewToolResultError("no corpus loaded; call load_corpus first"), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"chunks":    c.Len(),
		"dimension": c.Dimension(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
