// ABOUTME: Build command embedding transcript files into a persisted corpus
// ABOUTME: Embeds every chunk, saves the artifact, and leaves nothing on failure
package commands

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/harper/talksearch/internal/chunker"
	"github.com/harper/talksearch/internal/config"
	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/embed"
	"github.com/harper/talksearch/internal/models"
	"github.com/harper/talksearch/internal/storage/postgres"
	"github.com/harper/talksearch/internal/storage/sqlite"
)

var buildCorpusPath string

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [transcript-file...]",
		Short: "Embed transcript files and persist the corpus",
		Long: `Build the searchable corpus from chunk transcript files.

Every chunk of every transcript is embedded through the embedding
service and the result is persisted as a single corpus artifact. With
no arguments, all transcript files in the data directory are used.

A failed build reports the offending chunk and leaves any previous
artifact untouched.

Examples:
  talksearch build
  talksearch build transcripts/10_modern-connections.json
  talksearch build --corpus /tmp/corpus.db transcripts/*.json`,
		RunE: runBuild,
	}

	cmd.Flags().StringVar(&buildCorpusPath, "corpus", "", "Corpus artifact path (default: data dir)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for embedding")
	}

	files := args
	if len(files) == 0 {
		files, err = filepath.Glob(filepath.Join(cfg.TranscriptDir(), "*.json"))
		if err != nil {
			return fmt.Errorf("listing transcript files: %w", err)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no transcript files found; run 'talksearch ingest' first")
	}

	transcripts := make([]*models.Transcript, 0, len(files))
	for _, file := range files {
		t, err := chunker.ReadFile(file)
		if err != nil {
			return err
		}
		transcripts = append(transcripts, t)
	}

	gateway := embed.NewOpenAIGateway(openai.NewClient(cfg.OpenAIKey), cfg.EmbeddingModel)

	ctx := cmd.Context()
	if verbose {
		log.Printf("Embedding %d transcript(s)", len(transcripts))
	}
	c, err := corpus.Build(ctx, transcripts, gateway)
	if err != nil {
		return err
	}

	if err := saveCorpus(ctx, cfg, c); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Corpus built: %d chunks from %d source(s), dimension %d\n",
			c.Len(), len(transcripts), c.Dimension())
	}
	return nil
}

// saveCorpus persists the corpus to the configured backend. The SQLite store
// publishes the new artifact atomically, so a failed save leaves any previous
// artifact in place.
func saveCorpus(ctx context.Context, cfg *config.Config, c *corpus.Corpus) error {
	if cfg.CorpusBackend == config.BackendPostgres {
		store, err := postgres.Connect(ctx, cfg.PostgresURL, c.Dimension())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()
		return store.Save(ctx, c)
	}

	path := buildCorpusPath
	if path == "" {
		path = cfg.CorpusPath()
	}
	return sqlite.NewStore(path).Save(ctx, c)
}
