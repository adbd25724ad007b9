package tts

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/repositories"
)

const (
	defaultEdgeEndpoint = "wss://speech.platform.bing.com/consumer/speech/synthesize/" +
		"readaloud/edge/v1"
	defaultEdgeToken     = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	defaultOutputFormat  = "audio-24khz-48kbitrate-mono-mp3"
	defaultDialTimeout   = 15 * time.Second
	defaultSynthTimeout  = 60 * time.Second
	edgeOrigin           = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	edgeUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	binaryHeaderSizeLen  = 2
)

// EdgeConfig holds configuration for the Edge read-aloud synthesizer.
// All fields are optional; the defaults target the public endpoint.
type EdgeConfig struct {
	Endpoint     string        // Optional: websocket endpoint
	TrustedToken string        // Optional: client token query parameter
	OutputFormat string        // Optional: audio output format
	DialTimeout  time.Duration // Optional: websocket dial timeout
}

// EdgeSynthesizer implements SpeechSynthesizer against the Edge
// read-aloud websocket protocol.
type EdgeSynthesizer struct {
	endpoint     string
	trustedToken string
	outputFormat string
	dialTimeout  time.Duration
	logger       *zap.Logger
}

// Ensure EdgeSynthesizer implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*EdgeSynthesizer)(nil)

// NewEdgeSynthesizer creates a new Edge read-aloud synthesizer.
func NewEdgeSynthesizer(config EdgeConfig, logger *zap.Logger) *EdgeSynthesizer {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEdgeEndpoint
	}
	token := config.TrustedToken
	if token == "" {
		token = defaultEdgeToken
	}
	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
	}
	dialTimeout := config.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}

	return &EdgeSynthesizer{
		endpoint:     endpoint,
		trustedToken: token,
		outputFormat: outputFormat,
		dialTimeout:  dialTimeout,
		logger:       logger,
	}
}

// NewEdgeConfigFromEnv creates an EdgeConfig from environment
// variables, leaving defaults for anything unset.
func NewEdgeConfigFromEnv() EdgeConfig {
	return EdgeConfig{
		Endpoint:     os.Getenv("EDGE_TTS_ENDPOINT"),
		TrustedToken: os.Getenv("EDGE_TTS_TRUSTED_TOKEN"),
		OutputFormat: os.Getenv("EDGE_TTS_OUTPUT_FORMAT"),
	}
}

// Synthesize converts text to audio. Pitch and rate are signed-delta
// strings ("+0Hz", "-25%") applied as SSML prosody. The call blocks
// until the service signals the end of the audio turn.
func (e *EdgeSynthesizer) Synthesize(ctx context.Context, text, voiceID, pitch, rate string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if voiceID == "" {
		return nil, fmt.Errorf("voice id cannot be empty")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSynthTimeout)
		defer cancel()
	}

	dialer := websocket.Dialer{HandshakeTimeout: e.dialTimeout}
	header := http.Header{}
	header.Set("Origin", edgeOrigin)
	header.Set("User-Agent", edgeUserAgent)

	url := fmt.Sprintf("%s?TrustedClientToken=%s", e.endpoint, e.trustedToken)
	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial synthesis endpoint: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	requestID := strings.ReplaceAll(uuid.New().String(), "-", "")

	speechConfig := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		time.Now().Format(time.RFC1123), e.outputFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfig)); err != nil {
		return nil, fmt.Errorf("failed to send speech config: %w", err)
	}

	ssml := buildSSML(text, voiceID, pitch, rate)
	ssmlMessage := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n%s",
		requestID, time.Now().Format(time.RFC1123), ssml)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMessage)); err != nil {
		return nil, fmt.Errorf("failed to send ssml: %w", err)
	}

	e.logger.Debug("Synthesis request sent",
		zap.String("voiceID", voiceID),
		zap.String("pitch", pitch),
		zap.String("rate", rate),
		zap.Int("textLen", len(text)))

	var audio []byte
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("synthesis cancelled: %w", ctx.Err())
		default:
		}

		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read synthesis frame: %w", err)
		}

		switch messageType {
		case websocket.TextMessage:
			if strings.Contains(string(payload), "Path:turn.end") {
				e.logger.Debug("Synthesis turn ended", zap.Int("audioBytes", len(audio)))
				return audio, nil
			}
		case websocket.BinaryMessage:
			chunk, err := extractAudioChunk(payload)
			if err != nil {
				return nil, err
			}
			audio = append(audio, chunk...)
		}
	}
}

// extractAudioChunk strips the length-prefixed header from a binary
// frame. The first two bytes are the big-endian header length; audio
// bytes follow the header.
func extractAudioChunk(payload []byte) ([]byte, error) {
	if len(payload) < binaryHeaderSizeLen {
		return nil, fmt.Errorf("binary frame too short: %d bytes", len(payload))
	}
	headerLen := int(binary.BigEndian.Uint16(payload[:binaryHeaderSizeLen]))
	offset := binaryHeaderSizeLen + headerLen
	if offset > len(payload) {
		return nil, fmt.Errorf("binary frame header overruns payload")
	}
	return payload[offset:], nil
}

// buildSSML renders the prosody-wrapped synthesis document. The voice
// locale doubles as the document language.
func buildSSML(text, voiceID, pitch, rate string) string {
	lang := "en-US"
	if parts := strings.SplitN(voiceID, "-", 3); len(parts) == 3 {
		lang = parts[0] + "-" + parts[1]
	}
	return fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'>`+
			`<voice name='%s'><prosody pitch='%s' rate='%s' volume='+0%%'>%s</prosody></voice></speak>`,
		lang, voiceID, pitch, rate, escapeText(text))
}

// escapeText escapes the XML special characters in user text.
func escapeText(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)
