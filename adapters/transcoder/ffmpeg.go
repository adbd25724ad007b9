package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/repositories"
)

const probeTimeout = 3 * time.Second

// FFmpeg runs the external ffmpeg binary to normalize arbitrary
// audio/video input to mono 16 kHz WAV for the recognition service.
type FFmpeg struct {
	binary string
	logger *zap.Logger
}

var _ repositories.Transcoder = (*FFmpeg)(nil)

// Discover probes an ordered candidate list for a working ffmpeg
// binary and caches the first hit for the process lifetime. envBinary,
// when non-empty, is probed first. A nil-binary FFmpeg is still
// returned when nothing works; ToWAV then fails with
// domain.ErrTranscoderNotConfigured.
func Discover(envBinary string, logger *zap.Logger) *FFmpeg {
	candidates := []string{envBinary, "./ffmpeg", "/usr/bin/ffmpeg", "/usr/local/bin/ffmpeg", "ffmpeg"}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		err := exec.CommandContext(ctx, candidate, "-version").Run()
		cancel()
		if err != nil {
			continue
		}
		logger.Info("Transcoder binary found", zap.String("binary", candidate))
		return &FFmpeg{binary: candidate, logger: logger}
	}

	logger.Warn("No transcoder binary found, speech-to-text is disabled",
		zap.Strings("candidates", candidates))
	return &FFmpeg{logger: logger}
}

// Ready reports whether a binary was discovered.
func (f *FFmpeg) Ready() bool {
	return f.binary != ""
}

// ToWAV converts input bytes to mono 16 kHz WAV. sourceExt carries the
// original extension (".ogg", ".mp4", ...) so ffmpeg can pick the
// demuxer. Both temp files are removed before returning.
func (f *FFmpeg) ToWAV(ctx context.Context, input []byte, sourceExt string) ([]byte, error) {
	if !f.Ready() {
		return nil, domain.ErrTranscoderNotConfigured
	}
	if !strings.HasPrefix(sourceExt, ".") {
		sourceExt = "." + sourceExt
	}

	suffix := uuid.New().String()
	inPath := filepath.Join(os.TempDir(), "swara_in_"+suffix+sourceExt)
	outPath := filepath.Join(os.TempDir(), "swara_out_"+suffix+".wav")
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write transcode input: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.binary,
		"-y",
		"-i", inPath,
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		f.logger.Error("Transcode failed",
			zap.String("binary", f.binary),
			zap.String("sourceExt", sourceExt),
			zap.ByteString("output", output),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscodeFailure, err)
	}

	wav, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcode output: %w", err)
	}

	f.logger.Debug("Transcode completed",
		zap.Int("inputBytes", len(input)),
		zap.Int("outputBytes", len(wav)))

	return wav, nil
}
