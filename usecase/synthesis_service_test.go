package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/wicaksana/swara/adapters"
	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
)

type fakeSynthesizer struct {
	audio []byte
	err   error
	delay time.Duration

	lastVoiceID string
	lastPitch   string
	lastRate    string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voiceID, pitch, rate string) ([]byte, error) {
	f.lastVoiceID = voiceID
	f.lastPitch = pitch
	f.lastRate = rate
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.audio, f.err
}

func newSynthesisFixture(t *testing.T, synth *fakeSynthesizer) (*SynthesisService, *adapters.MemoryPreferenceRepository, *fakeGateway, string) {
	t.Helper()
	prefs := adapters.NewMemoryPreferenceRepository()
	gateway := newFakeGateway()
	dir := t.TempDir()
	svc := NewSynthesisService(prefs, entities.NewVoiceCatalog(), synth, gateway,
		10*time.Millisecond, 1000, dir, zaptest.NewLogger(t))
	return svc, prefs, gateway, dir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no leftover artifacts, found %d", len(entries))
	}
}

func TestSpeakDeliversAudio(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte("mp3-bytes")}
	svc, prefs, gateway, dir := newSynthesisFixture(t, synth)
	ctx := context.Background()

	_ = prefs.SetPitch(ctx, 1, 25)
	_ = prefs.SetRate(ctx, 1, -50)

	if err := svc.Speak(ctx, 1, 100, repositories.ChatPrivate, 9, "hello world"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	if synth.lastPitch != "+25Hz" {
		t.Errorf("Expected pitch delta +25Hz, got %s", synth.lastPitch)
	}
	if synth.lastRate != "-50%" {
		t.Errorf("Expected rate delta -50%%, got %s", synth.lastRate)
	}
	if synth.lastVoiceID != entities.DefaultVoiceID {
		t.Errorf("Expected default voice, got %s", synth.lastVoiceID)
	}

	if len(gateway.audio) != 1 {
		t.Fatalf("Expected one audio delivery, got %d", len(gateway.audio))
	}
	sent := gateway.audio[0]
	if sent.replyTo != 9 {
		t.Errorf("Expected reply to message 9, got %d", sent.replyTo)
	}
	if !strings.Contains(sent.caption, "pitch +25") || !strings.Contains(sent.caption, "rate -50") {
		t.Errorf("Expected caption with deltas, got %q", sent.caption)
	}

	pref, _ := prefs.Get(ctx, 1)
	if pref.ConversionCount != 1 {
		t.Errorf("Expected conversion recorded, got %d", pref.ConversionCount)
	}

	requireEmptyDir(t, dir)
}

func TestSpeakSynthesizerFailure(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("upstream down")}
	svc, prefs, gateway, dir := newSynthesisFixture(t, synth)
	ctx := context.Background()

	err := svc.Speak(ctx, 1, 100, repositories.ChatPrivate, 0, "hello")
	if err == nil {
		t.Fatal("Expected an error from a failed synthesis")
	}

	messages := gateway.sentMessages()
	if len(messages) != 1 || !strings.Contains(messages[0].text, "❌") {
		t.Errorf("Expected one failure notice, got %v", messages)
	}
	if len(gateway.audio) != 0 {
		t.Error("Expected no audio delivery on failure")
	}

	pref, _ := prefs.Get(ctx, 1)
	if pref.ConversionCount != 0 {
		t.Errorf("Expected no conversion recorded, got %d", pref.ConversionCount)
	}

	requireEmptyDir(t, dir)
}

func TestSpeakEmptyResultTreatedAsFailure(t *testing.T) {
	synth := &fakeSynthesizer{audio: nil}
	svc, prefs, gateway, dir := newSynthesisFixture(t, synth)
	ctx := context.Background()

	err := svc.Speak(ctx, 1, 100, repositories.ChatPrivate, 0, "hello")
	if !errors.Is(err, domain.ErrEmptySynthesisResult) {
		t.Fatalf("Expected ErrEmptySynthesisResult, got %v", err)
	}
	if len(gateway.audio) != 0 {
		t.Error("Expected no audio for a zero-byte result")
	}
	pref, _ := prefs.Get(ctx, 1)
	if pref.ConversionCount != 0 {
		t.Errorf("Expected no conversion recorded, got %d", pref.ConversionCount)
	}
	requireEmptyDir(t, dir)
}

func TestSpeakGroupFailureStaysSilent(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("upstream down")}
	svc, _, gateway, _ := newSynthesisFixture(t, synth)

	err := svc.Speak(context.Background(), 1, 100, repositories.ChatGroup, 0, "hello")
	if err == nil {
		t.Fatal("Expected an error from a failed synthesis")
	}
	if len(gateway.sentMessages()) != 0 {
		t.Error("Expected no user-visible notice in a group chat")
	}
}

func TestSpeakRejectsOverlongText(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte("x")}
	svc, _, gateway, _ := newSynthesisFixture(t, synth)

	long := strings.Repeat("a", 1001)
	err := svc.Speak(context.Background(), 1, 100, repositories.ChatPrivate, 0, long)
	if !errors.Is(err, domain.ErrTextTooLong) {
		t.Fatalf("Expected ErrTextTooLong, got %v", err)
	}
	messages := gateway.sentMessages()
	if len(messages) != 1 || !strings.Contains(messages[0].text, "too long") {
		t.Errorf("Expected a too-long notice, got %v", messages)
	}
	if gateway.actionCount() != 0 {
		t.Error("Expected no liveness signal before the length check")
	}
}

func TestSpeakIgnoresBlankText(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte("x")}
	svc, _, gateway, _ := newSynthesisFixture(t, synth)

	if err := svc.Speak(context.Background(), 1, 100, repositories.ChatPrivate, 0, "   "); err != nil {
		t.Fatalf("Expected blank text to be a no-op, got %v", err)
	}
	if len(gateway.sentMessages()) != 0 || len(gateway.audio) != 0 {
		t.Error("Expected no traffic for blank text")
	}
}

func TestSpeakLivenessLoopStops(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("upstream down"), delay: 35 * time.Millisecond}
	svc, _, gateway, _ := newSynthesisFixture(t, synth)

	_ = svc.Speak(context.Background(), 1, 100, repositories.ChatPrivate, 0, "hello")

	// The loop signalled at least once while synthesis blocked, and
	// produces nothing more after Speak returned.
	during := gateway.actionCount()
	if during == 0 {
		t.Fatal("Expected at least one liveness signal during synthesis")
	}
	time.Sleep(40 * time.Millisecond)
	if after := gateway.actionCount(); after != during {
		t.Errorf("Expected liveness loop stopped, count moved %d -> %d", during, after)
	}
}
