// ABOUTME: ffmpeg wrapper extracting mono 16kHz WAV audio from video files
// ABOUTME: The media transcoder is an external collaborator behind this narrow interface
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// TranscodeError reports a failed transcode, including the tail of ffmpeg's
// stderr for context.
type TranscodeError struct {
	Input  string
	Err    error
	Detail string
}

func (e *TranscodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("transcoding %s: %v: %s", e.Input, e.Err, e.Detail)
	}
	return fmt.Sprintf("transcoding %s: %v", e.Input, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// audioExtensions are inputs that skip transcoding entirely.
var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// IsAudio reports whether path already names an audio file.
func IsAudio(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// FFmpeg invokes the ffmpeg binary to extract audio tracks.
type FFmpeg struct {
	bin string
}

// NewFFmpeg returns a transcoder using the ffmpeg binary on PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{bin: "ffmpeg"}
}

// ExtractAudio writes the audio track of videoPath to audioPath as mono
// 16 kHz WAV, the input format whisper expects. The command is bound to ctx
// so callers can abort a long transcode.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	cmd := exec.CommandContext(ctx, f.bin, extractAudioArgs(videoPath, audioPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &TranscodeError{Input: videoPath, Err: err, Detail: stderrTail(stderr.String())}
	}
	return nil
}

// extractAudioArgs builds the ffmpeg argument list for audio extraction.
func extractAudioArgs(in, out string) []string {
	return []string{"-y", "-i", in, "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", out}
}

// stderrTail keeps the last few lines of ffmpeg output, where the actual
// error message lives.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
