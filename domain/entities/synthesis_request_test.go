package entities

import "testing"

func TestSynthesisRequestDeltas(t *testing.T) {
	req := NewSynthesisRequest(100, 1, "hello", DefaultVoiceID, 25, -50)

	if req.PitchDelta() != "+25Hz" {
		t.Errorf("Expected +25Hz, got %s", req.PitchDelta())
	}
	if req.RateDelta() != "-50%" {
		t.Errorf("Expected -50%%, got %s", req.RateDelta())
	}

	// Neutral values keep the explicit sign.
	req = NewSynthesisRequest(100, 1, "hello", DefaultVoiceID, 0, 0)
	if req.PitchDelta() != "+0Hz" || req.RateDelta() != "+0%" {
		t.Errorf("Expected +0Hz/+0%%, got %s/%s", req.PitchDelta(), req.RateDelta())
	}
}

func TestSynthesisRequestCorrelation(t *testing.T) {
	a := NewSynthesisRequest(100, 1, "hello", DefaultVoiceID, 0, 0)
	b := NewSynthesisRequest(100, 1, "hello", DefaultVoiceID, 0, 0)

	if a.Correlation == "" {
		t.Fatal("Expected a correlation id")
	}
	if a.Correlation == b.Correlation {
		t.Error("Expected distinct correlation ids per request")
	}
}
