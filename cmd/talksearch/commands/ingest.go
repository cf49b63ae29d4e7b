// ABOUTME: Ingest command turning media files into chunk transcript files
// ABOUTME: Transcodes video to audio, transcribes, and writes one JSON per source
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/harper/talksearch/internal/chunker"
	"github.com/harper/talksearch/internal/config"
	"github.com/harper/talksearch/internal/media"
	"github.com/harper/talksearch/internal/stt"
)

var (
	ingestLanguage string
	ingestTask     string
	ingestOutDir   string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <media-file>...",
		Short: "Transcribe media files into chunk transcript files",
		Long: `Transcribe one or more talk recordings into chunk transcript files.

Video inputs are transcoded to audio with ffmpeg first. Each source
produces one JSON file with its timestamped chunks and full transcript,
ready for 'talksearch build'.

Examples:
  talksearch ingest talks/10_modern-connections.mp3
  talksearch ingest --language hi --task translate talks/*.mp3`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestLanguage, "language", "", "Spoken language hint (ISO-639-1)")
	cmd.Flags().StringVar(&ingestTask, "task", "", "STT task mode: transcribe or translate")
	cmd.Flags().StringVar(&ingestOutDir, "out", "", "Output directory for transcript files (default: data dir)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ingestLanguage != "" {
		cfg.Language = ingestLanguage
	}
	if ingestTask != "" {
		cfg.Task = ingestTask
	}
	task, err := stt.ParseTask(cfg.Task)
	if err != nil {
		return err
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for transcription")
	}

	outDir := ingestOutDir
	if outDir == "" {
		outDir = cfg.TranscriptDir()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	client := openai.NewClient(cfg.OpenAIKey)
	whisper := stt.NewWhisper(client, stt.Config{
		Model:      cfg.STTModel,
		Language:   cfg.Language,
		Task:       task,
		MaxRetries: cfg.STTMaxRetries,
		RetryDelay: cfg.STTRetryDelay,
	})
	transcoder := media.NewFFmpeg()

	for _, file := range args {
		if err := ingestOne(cmd, cfg, transcoder, whisper, file, outDir); err != nil {
			return err
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d source(s) into %s\n", len(args), outDir)
	}
	return nil
}

// ingestOne processes a single media file into a transcript file.
func ingestOne(cmd *cobra.Command, cfg *config.Config, transcoder *media.FFmpeg, whisper *stt.Whisper, file, outDir string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	audioPath := file
	if !media.IsAudio(file) {
		workDir := filepath.Join(cfg.DataDir, "tmp", uuid.New().String())
		if err := os.MkdirAll(workDir, 0755); err != nil {
			return fmt.Errorf("creating work directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(workDir) }()

		audioPath = filepath.Join(workDir, "audio.wav")
		if verbose {
			log.Printf("Extracting audio from %s", file)
		}
		if err := transcoder.ExtractAudio(ctx, file, audioPath); err != nil {
			return err
		}
	}

	if verbose {
		log.Printf("Transcribing %s", audioPath)
	}
	segments, fullText, err := whisper.Transcribe(ctx, audioPath)
	if err != nil {
		return err
	}

	transcript, err := chunker.Build(filepath.Base(file), segments, fullText)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outDir, transcript.SourceID+".json")
	if err := chunker.WriteFile(outPath, transcript); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks -> %s\n", chunker.DeriveTitle(file), len(transcript.Chunks), outPath)
	}
	return nil
}
