package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/wicaksana/swara/adapters"
	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
	"github.com/wicaksana/swara/internal/auth"
	"github.com/wicaksana/swara/internal/bot"
	"github.com/wicaksana/swara/internal/session"
	"github.com/wicaksana/swara/usecase"
)

// nullGateway satisfies the gateway interface with no-ops, recording
// only the webhook registrations.
type nullGateway struct {
	mu       sync.Mutex
	webhooks []string
	sent     int
}

var _ repositories.Gateway = (*nullGateway)(nil)

func (g *nullGateway) SendMessage(ctx context.Context, chatID int64, text string, keyboard repositories.InlineKeyboard) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent++
	return g.sent, nil
}

func (g *nullGateway) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard repositories.InlineKeyboard) error {
	return nil
}

func (g *nullGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (g *nullGateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func (g *nullGateway) SendAudio(ctx context.Context, chatID int64, path, caption string, replyTo int) error {
	return nil
}

func (g *nullGateway) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return nil
}

func (g *nullGateway) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	return nil, "", context.Canceled
}

func (g *nullGateway) SetWebhook(ctx context.Context, url string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.webhooks = append(g.webhooks, url)
	return nil
}

type openEntitlement struct{}

func (openEntitlement) IsEntitled(ctx context.Context, userID int64) (bool, error) {
	return true, nil
}

type silentSynthesizer struct{}

func (silentSynthesizer) Synthesize(ctx context.Context, text, voiceID, pitch, rate string) ([]byte, error) {
	return []byte("mp3"), nil
}

type silentRecognizer struct{}

func (silentRecognizer) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	return "", nil
}

type silentTranscoder struct{}

func (silentTranscoder) Ready() bool { return false }

func (silentTranscoder) ToWAV(ctx context.Context, input []byte, sourceExt string) ([]byte, error) {
	return nil, context.Canceled
}

func newTestServer(t *testing.T, secret, jwtSecret, webhookURL string) (*echo.Echo, *nullGateway, *adapters.MemoryPreferenceRepository) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gateway := &nullGateway{}
	prefs := adapters.NewMemoryPreferenceRepository()
	sessions := session.NewTracker()
	catalog := entities.NewVoiceCatalog()

	menu := usecase.NewMenuService(prefs, catalog, sessions, gateway, logger)
	synthesis := usecase.NewSynthesisService(prefs, catalog, silentSynthesizer{}, gateway,
		10*time.Millisecond, 1000, t.TempDir(), logger)
	transcription := usecase.NewTranscriptionService(prefs, silentRecognizer{}, silentTranscoder{}, gateway,
		10*time.Millisecond, logger)
	dispatcher := bot.NewDispatcher(menu, synthesis, transcription, sessions,
		openEntitlement{}, gateway, "", logger)

	e := echo.New()
	InitRoutes(e, Deps{
		Dispatcher:    dispatcher,
		Gateway:       gateway,
		Prefs:         prefs,
		Auth:          auth.NewService(jwtSecret),
		WebhookURL:    webhookURL,
		WebhookSecret: secret,
		Logger:        logger,
	})
	return e, gateway, prefs
}

func TestRootAndHealth(t *testing.T) {
	e, _, _ := newTestServer(t, "", "", "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
		t.Errorf("Expected liveness text, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", rec.Code)
	}
}

func TestWebhookAcceptsUpdate(t *testing.T) {
	e, _, _ := newTestServer(t, "", "", "")

	body := `{"update_id":1,"message":{"message_id":10,"from":{"id":1},"chat":{"id":100,"type":"private"},"text":"/help"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /webhook, got %d", rec.Code)
	}
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	e, _, _ := newTestServer(t, "hunter2", "", "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(secretTokenHeader, "wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 with a wrong secret, got %d", rec.Code)
	}

	// The right secret passes.
	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(secretTokenHeader, "hunter2")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with the right secret, got %d", rec.Code)
	}
}

func TestSetWebhook(t *testing.T) {
	e, gateway, _ := newTestServer(t, "", "", "https://bot.example.com")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set_webhook", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /set_webhook, got %d", rec.Code)
	}
	if len(gateway.webhooks) != 1 || gateway.webhooks[0] != "https://bot.example.com/webhook" {
		t.Errorf("Expected webhook registered with /webhook suffix, got %v", gateway.webhooks)
	}
}

func TestSetWebhookWithoutURL(t *testing.T) {
	e, _, _ := newTestServer(t, "", "", "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set_webhook", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 without WEBHOOK_URL, got %d", rec.Code)
	}
}

func TestStatsRequiresToken(t *testing.T) {
	e, _, prefs := newTestServer(t, "", "stats-secret", "")
	_ = prefs.RecordConversion(context.Background(), 1)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", rec.Code)
	}

	token, err := auth.NewService("stats-secret").GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with a valid token, got %d", rec.Code)
	}
	var stats repositories.PreferenceStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Users != 1 || stats.Conversions != 1 {
		t.Errorf("Expected 1/1 stats, got %+v", stats)
	}
}

func TestStatsDisabledWithoutSecret(t *testing.T) {
	e, _, _ := newTestServer(t, "", "", "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when the admin API is disabled, got %d", rec.Code)
	}
}
