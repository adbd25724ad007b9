package transcoder

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/wicaksana/swara/domain"
)

func TestDiscoverNothingFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	f := Discover("/nonexistent/ffmpeg", zaptest.NewLogger(t))
	if f == nil {
		t.Fatal("Expected a transcoder value even when discovery fails")
	}
	if f.Ready() {
		t.Error("Expected Ready to be false without a binary")
	}
}

func TestToWAVWithoutBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	f := Discover("", zaptest.NewLogger(t))

	_, err := f.ToWAV(context.Background(), []byte("ogg"), ".ogg")
	if !errors.Is(err, domain.ErrTranscoderNotConfigured) {
		t.Errorf("Expected ErrTranscoderNotConfigured, got %v", err)
	}
}

func TestDiscoverPrefersConfiguredBinary(t *testing.T) {
	// "true" exits 0 for any arguments, standing in for ffmpeg.
	f := Discover("/bin/true", zaptest.NewLogger(t))
	if !f.Ready() {
		t.Skip("No /bin/true available")
	}
	if f.binary != "/bin/true" {
		t.Errorf("Expected the configured binary to win, got %s", f.binary)
	}
}

func TestToWAVWrapsFailure(t *testing.T) {
	// "false" always exits 1, so the transcode reports a failure.
	f := &FFmpeg{binary: "/bin/false", logger: zaptest.NewLogger(t)}

	_, err := f.ToWAV(context.Background(), []byte("ogg"), "ogg")
	if !errors.Is(err, domain.ErrTranscodeFailure) {
		t.Errorf("Expected ErrTranscodeFailure, got %v", err)
	}
}
