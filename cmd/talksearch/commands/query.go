// ABOUTME: Query command ranking corpus chunks against a free-text question
// ABOUTME: Supports persisted corpora and ephemeral single-transcript sessions
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/harper/talksearch/internal/chunker"
	"github.com/harper/talksearch/internal/config"
	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/embed"
	"github.com/harper/talksearch/internal/models"
	"github.com/harper/talksearch/internal/search"
	"github.com/harper/talksearch/internal/storage/postgres"
	"github.com/harper/talksearch/internal/storage/sqlite"
)

var (
	queryCorpusPath string
	queryTranscript string
	queryTopK       int
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Rank corpus chunks against a question",
		Long: `Answer a free-text question by ranking all corpus chunks by cosine
similarity against the question's embedding.

By default the persisted corpus is loaded and scored in full. With
--transcript, an ephemeral corpus is built fresh from one transcript
file instead: same query semantics, embeddings recomputed every run.

Examples:
  talksearch query "what did the speaker say about belonging?"
  talksearch query --top-k 10 "renewable energy"
  talksearch query --transcript transcripts/10_modern-connections.json "belonging"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&queryCorpusPath, "corpus", "", "Corpus artifact path (default: data dir)")
	cmd.Flags().StringVar(&queryTranscript, "transcript", "", "Build an ephemeral corpus from this transcript file")
	cmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "Number of chunks to return")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(queryTopK, "top-k"); err != nil {
		return err
	}

	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for query embedding")
	}

	question := args[0]
	ctx := cmd.Context()

	gateway := embed.NewOpenAIGateway(openai.NewClient(cfg.OpenAIKey), cfg.EmbeddingModel)
	engine := search.NewEngine(gateway)

	c, err := loadQueryCorpus(ctx, cfg, gateway)
	if err != nil {
		return err
	}

	results, err := engine.Query(ctx, question, c, queryTopK)
	if err != nil {
		return fmt.Errorf("querying corpus: %w", err)
	}

	return printResults(cmd, question, results)
}

// loadQueryCorpus resolves the corpus for this invocation: ephemeral from one
// transcript file, or the persisted artifact from the configured backend.
func loadQueryCorpus(ctx context.Context, cfg *config.Config, gateway embed.Gateway) (*corpus.Corpus, error) {
	if queryTranscript != "" {
		t, err := chunker.ReadFile(queryTranscript)
		if err != nil {
			return nil, err
		}
		return corpus.Build(ctx, []*models.Transcript{t}, gateway)
	}

	var store corpus.Store
	if cfg.CorpusBackend == config.BackendPostgres {
		pg, err := postgres.Connect(ctx, cfg.PostgresURL, cfg.VectorDimension)
		if err != nil {
			return nil, err
		}
		defer func() { _ = pg.Close(ctx) }()
		store = pg
	} else {
		path := queryCorpusPath
		if path == "" {
			path = cfg.CorpusPath()
		}
		store = sqlite.NewStore(path)
	}
	return store.Load(ctx)
}

// printResults renders the ranked chunks as a table or JSON.
func printResults(cmd *cobra.Command, question string, results []search.Result) error {
	if outputFormat == "json" {
		hits := make([]map[string]interface{}, len(results))
		for i, r := range results {
			hits[i] = map[string]interface{}{
				"rank":   i + 1,
				"score":  r.Score,
				"title":  r.Chunk.Title,
				"number": r.Chunk.Number,
				"start":  r.Chunk.Start,
				"end":    r.Chunk.End,
				"text":   r.Chunk.Text,
			}
		}
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"question": question,
			"hits":     hits,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tTITLE\t#\tSPAN\tTEXT\n")
	fmt.Fprintf(w, "----\t-----\t-----\t-\t----\t----\n")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%d\t%s-%s\t%s\n",
			i+1,
			r.Score,
			truncate(r.Chunk.Title, 30),
			r.Chunk.Number,
			formatTimestamp(r.Chunk.Start),
			formatTimestamp(r.Chunk.End),
			truncate(r.Chunk.Text, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d result(s)\n", len(results))
	}
	return nil
}
