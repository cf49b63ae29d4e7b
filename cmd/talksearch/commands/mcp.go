// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to query talk corpora via stdio
package commands

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/harper/talksearch/internal/config"
	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/embed"
	mcptools "github.com/harper/talksearch/internal/mcp"
	"github.com/harper/talksearch/internal/search"
	"github.com/harper/talksearch/internal/storage/sqlite"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var mcpCorpusPath string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs talksearch as an MCP (Model Context Protocol) server, exposing
corpus loading and similarity queries via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server with the default corpus preloaded
  talksearch mcp

  # Serve a specific corpus artifact
  talksearch mcp --corpus /data/talks/corpus.db`,
	}

	cmd.Flags().StringVar(&mcpCorpusPath, "corpus", "", "Corpus artifact to preload (default: data dir)")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - queries will fail until it is configured")
	}

	gateway := embed.NewOpenAIGateway(openai.NewClient(cfg.OpenAIKey), cfg.EmbeddingModel)
	engine := search.NewEngine(gateway)
	handle := corpus.NewHandle()

	// Preload the default corpus when the artifact already exists; agents
	// can still switch corpora with the load_corpus tool.
	path := mcpCorpusPath
	if path == "" {
		path = cfg.CorpusPath()
	}
	if _, err := os.Stat(path); err == nil {
		c, err := sqlite.NewStore(path).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("preloading corpus: %w", err)
		}
		handle.Replace(c)
		if !quiet {
			log.Printf("Preloaded corpus %s (%d chunks)", path, c.Len())
		}
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"talksearch",
		versionInfo.Version,
	)

	mcptools.RegisterTools(server, handle, engine)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("talksearch MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
