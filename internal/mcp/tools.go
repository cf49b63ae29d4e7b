// ABOUTME: MCP tool definitions and registration for the talksearch server
// ABOUTME: Exposes corpus loading and similarity queries to LLM agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/search"
)

// RegisterTools registers the talksearch tools with the server. The handle is
// the session's corpus slot: load_corpus publishes into it atomically, so a
// query running concurrently with a reload sees either the old or the new
// corpus, never a partial one.
func RegisterTools(server *mcpserver.MCPServer, handle *corpus.Handle, engine *search.Engine) *Handlers {
	handlers := &Handlers{
		handle: handle,
		engine: engine,
	}

	server.AddTool(mcp.Tool{
		Name:        "load_corpus",
		Description: "Load a persisted talk corpus artifact and make it the corpus for subsequent queries.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the corpus artifact file",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.LoadCorpus)

	server.AddTool(mcp.Tool{
		Name:        "query_corpus",
		Description: "Rank the loaded corpus against a free-text question by cosine similarity and return the top matches with their timestamps.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Free-text question to search for",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.QueryCorpus)

	server.AddTool(mcp.Tool{
		Name:        "corpus_info",
		Description: "Report the size and embedding dimension of the loaded corpus.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CorpusInfo)

	return handlers
}
