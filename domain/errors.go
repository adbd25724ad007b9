package domain

import "errors"

// Failure taxonomy for the speech pipelines. Adapters return these
// sentinels (wrapped with detail) so the services can match them with
// errors.Is and decide what, if anything, the user sees.
var (
	// ErrNoSpeechDetected means recognition ran but produced no
	// confident transcript. Distinct from a service failure.
	ErrNoSpeechDetected = errors.New("no speech detected")

	// ErrEmptySynthesisResult means synthesis returned zero bytes.
	// Treated like an upstream failure for user messaging.
	ErrEmptySynthesisResult = errors.New("synthesis returned no audio")

	// ErrTranscodeFailure means the external transcoder exited
	// non-zero.
	ErrTranscodeFailure = errors.New("audio conversion failed")

	// ErrTranscoderNotConfigured means no transcoder binary was found
	// at startup.
	ErrTranscoderNotConfigured = errors.New("transcoder binary not configured")

	// ErrNotEntitled means the user failed the required-channel
	// membership check.
	ErrNotEntitled = errors.New("user is not a member of the required channel")

	// ErrTextTooLong means free text exceeded the synthesis length
	// policy.
	ErrTextTooLong = errors.New("text exceeds maximum synthesis length")
)
