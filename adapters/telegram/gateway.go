package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	requestTimeout    = 30 * time.Second
	// uploadTimeout covers multipart audio uploads, which can be
	// slower than JSON calls.
	uploadTimeout = 90 * time.Second
)

// Config holds configuration for the Bot API gateway.
// Required fields:
// - Token: the bot token issued by the platform
// Optional fields with defaults:
// - APIBaseURL: the Bot API base URL (default: "https://api.telegram.org")
type Config struct {
	Token      string
	APIBaseURL string
}

// Gateway implements the messaging gateway against the Telegram Bot
// API over HTTP.
type Gateway struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Ensure Gateway implements the gateway interface
var _ repositories.Gateway = (*Gateway)(nil)

// NewGateway creates a new Bot API gateway.
func NewGateway(config Config, logger *zap.Logger) (*Gateway, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	baseURL := config.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
		logger.Info("Using default Bot API base URL", zap.String("baseURL", baseURL))
	}

	return &Gateway{
		token:   config.Token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}, nil
}

// call posts a JSON payload to a Bot API method and decodes the result
// into out when out is non-nil.
func (g *Gateway) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", g.baseURL, g.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s returned error %d: %s", method, envelope.ErrorCode, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// SendMessage sends a Markdown-formatted text message.
func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string, keyboard repositories.InlineKeyboard) (int, error) {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = map[string]interface{}{"inline_keyboard": keyboard}
	}

	var sent sentMessage
	if err := g.call(ctx, "sendMessage", payload, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessageText replaces the text (and keyboard) of a sent message.
func (g *Gateway) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard repositories.InlineKeyboard) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = map[string]interface{}{"inline_keyboard": keyboard}
	}
	return g.call(ctx, "editMessageText", payload, nil)
}

// DeleteMessage removes a message from a chat.
func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	}
	return g.call(ctx, "deleteMessage", payload, nil)
}

// AnswerCallback acknowledges a button press, optionally with a toast.
func (g *Gateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	payload := map[string]interface{}{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
	}
	return g.call(ctx, "answerCallbackQuery", payload, nil)
}

// SendChatAction shows a transient "still working" indicator.
func (g *Gateway) SendChatAction(ctx context.Context, chatID int64, action string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"action":  action,
	}
	return g.call(ctx, "sendChatAction", payload, nil)
}

// SendAudio uploads the file at path as a voice message.
func (g *Gateway) SendAudio(ctx context.Context, chatID int64, path, caption string, replyTo int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio artifact: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if replyTo != 0 {
		if err := writer.WriteField("reply_to_message_id", fmt.Sprintf("%d", replyTo)); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy audio into form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendAudio", g.baseURL, g.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create sendAudio request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: uploadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sendAudio request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode sendAudio response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("sendAudio returned error %d: %s", envelope.ErrorCode, envelope.Description)
	}
	return nil
}

// DownloadFile resolves a file id and fetches its content.
func (g *Gateway) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	var info fileInfo
	if err := g.call(ctx, "getFile", map[string]interface{}{"file_id": fileID}, &info); err != nil {
		return nil, "", err
	}
	if info.FilePath == "" {
		return nil, "", fmt.Errorf("getFile returned no file path for %s", fileID)
	}

	url := fmt.Sprintf("%s/file/bot%s/%s", g.baseURL, g.token, info.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file body: %w", err)
	}

	g.logger.Debug("Downloaded file",
		zap.String("fileID", fileID),
		zap.String("path", info.FilePath),
		zap.Int("bytes", len(data)))

	return data, info.FilePath, nil
}

// SetWebhook registers the webhook URL with the platform.
func (g *Gateway) SetWebhook(ctx context.Context, url string) error {
	if err := g.call(ctx, "setWebhook", map[string]interface{}{"url": url}, nil); err != nil {
		return err
	}
	g.logger.Info("Webhook registered", zap.String("url", url))
	return nil
}

// memberStatus reports chat membership for the entitlement check.
func (g *Gateway) memberStatus(ctx context.Context, chat string, userID int64) (string, error) {
	var member chatMember
	payload := map[string]interface{}{
		"chat_id": chat,
		"user_id": userID,
	}
	if err := g.call(ctx, "getChatMember", payload, &member); err != nil {
		return "", err
	}
	return member.Status, nil
}
