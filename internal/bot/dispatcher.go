package bot

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/adapters/telegram"
	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/repositories"
	"github.com/wicaksana/swara/internal/session"
	"github.com/wicaksana/swara/usecase"
)

// updateTimeout bounds one update end to end, including a blocking
// synthesis or recognition call.
const updateTimeout = 2 * time.Minute

// Dispatcher classifies inbound updates and routes them to the menu
// flow, the synthesis orchestrator or the transcription pipeline.
// Updates for different users run concurrently; updates for the same
// user are serialized so the session mode is never interpreted by two
// events at once.
type Dispatcher struct {
	menu        *usecase.MenuService
	synthesis   *usecase.SynthesisService
	transcriber *usecase.TranscriptionService
	sessions    *session.Tracker
	entitlement repositories.EntitlementChecker
	gateway     repositories.Gateway
	channel     string
	logger      *zap.Logger

	userLocks sync.Map // user id -> *sync.Mutex
}

// NewDispatcher creates a new update dispatcher. channel is the
// required-membership handle shown in the join prompt, empty when the
// entitlement gate is off.
func NewDispatcher(
	menu *usecase.MenuService,
	synthesis *usecase.SynthesisService,
	transcriber *usecase.TranscriptionService,
	sessions *session.Tracker,
	entitlement repositories.EntitlementChecker,
	gateway repositories.Gateway,
	channel string,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		menu:        menu,
		synthesis:   synthesis,
		transcriber: transcriber,
		sessions:    sessions,
		entitlement: entitlement,
		gateway:     gateway,
		channel:     channel,
		logger:      logger,
	}
}

// Dispatch handles one update to completion. It is safe to call from
// concurrent goroutines, one per webhook delivery.
func (d *Dispatcher) Dispatch(update telegram.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		d.withUserLock(update.CallbackQuery.From.ID, func() {
			d.handleCallback(ctx, update.CallbackQuery)
		})
	case update.Message != nil && update.Message.From != nil:
		d.withUserLock(update.Message.From.ID, func() {
			d.handleMessage(ctx, update.Message)
		})
	}
}

// withUserLock serializes handling per user id.
func (d *Dispatcher) withUserLock(userID int64, fn func()) {
	lock, _ := d.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	fn()
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *telegram.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	kind := repositories.ChatKind(msg.Chat.Type)

	if !d.ensureEntitled(ctx, userID, chatID, kind) {
		return
	}

	if fileID, ext, ok := mediaAttachment(msg); ok {
		if err := d.transcriber.Transcribe(ctx, userID, chatID, kind, msg.MessageID, fileID, ext); err != nil {
			d.logger.Warn("Transcription pipeline failed", zap.Int64("userID", userID), zap.Error(err))
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		d.handleCommand(ctx, userID, chatID, text)
		return
	}

	if d.sessions.Get(userID) != session.ModeNone {
		if err := d.menu.HandleNumericInput(ctx, userID, chatID, text); err != nil {
			d.logger.Warn("Numeric input handling failed", zap.Int64("userID", userID), zap.Error(err))
		}
		return
	}

	if err := d.synthesis.Speak(ctx, userID, chatID, kind, msg.MessageID, text); err != nil {
		d.logger.Warn("Synthesis pipeline failed", zap.Int64("userID", userID), zap.Error(err))
	}
}

// handleCommand interprets a slash command. Commands always take
// precedence over an outstanding numeric prompt, so the mode is
// cleared before the command runs.
func (d *Dispatcher) handleCommand(ctx context.Context, userID, chatID int64, text string) {
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	d.sessions.Clear(userID)

	var err error
	switch command {
	case "/start", "/help":
		err = d.menu.Start(ctx, userID, chatID)
	case "/voice":
		err = d.menu.ShowVoiceMenu(ctx, chatID)
	case "/pitch":
		err = d.menu.PromptPitch(ctx, userID, chatID)
	case "/rate":
		err = d.menu.PromptRate(ctx, userID, chatID)
	case "/language":
		err = d.menu.ShowLanguageMenu(ctx, chatID)
	default:
		_, err = d.gateway.SendMessage(ctx, chatID,
			"Unknown command. Use /help to see what I can do.", nil)
	}
	if err != nil {
		d.logger.Warn("Command handling failed",
			zap.String("command", command),
			zap.Int64("userID", userID),
			zap.Error(err))
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	userID := cb.From.ID
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	kind := repositories.ChatKind(cb.Message.Chat.Type)

	if !d.ensureEntitled(ctx, userID, chatID, kind) {
		if err := d.gateway.AnswerCallback(ctx, cb.ID, "Join the channel first"); err != nil {
			d.logger.Debug("Failed to answer callback", zap.Error(err))
		}
		return
	}

	var err error
	data := cb.Data
	switch {
	case strings.HasPrefix(data, usecase.CallbackVoiceLanguage):
		family := strings.TrimPrefix(data, usecase.CallbackVoiceLanguage)
		err = d.menu.HandleLanguagePick(ctx, chatID, messageID, cb.ID, family)

	case strings.HasPrefix(data, usecase.CallbackVoicePage):
		family, page, ok := splitPageData(strings.TrimPrefix(data, usecase.CallbackVoicePage))
		if !ok {
			return
		}
		err = d.menu.HandleVoicePage(ctx, chatID, messageID, cb.ID, family, page)

	case strings.HasPrefix(data, usecase.CallbackVoicePick):
		voiceID := strings.TrimPrefix(data, usecase.CallbackVoicePick)
		err = d.menu.HandleVoicePick(ctx, userID, chatID, messageID, cb.ID, voiceID)

	case strings.HasPrefix(data, usecase.CallbackPitchPreset):
		value, convErr := strconv.Atoi(strings.TrimPrefix(data, usecase.CallbackPitchPreset))
		if convErr != nil {
			return
		}
		err = d.menu.HandlePitchPreset(ctx, userID, chatID, messageID, cb.ID, value)

	case strings.HasPrefix(data, usecase.CallbackRatePreset):
		value, convErr := strconv.Atoi(strings.TrimPrefix(data, usecase.CallbackRatePreset))
		if convErr != nil {
			return
		}
		err = d.menu.HandleRatePreset(ctx, userID, chatID, messageID, cb.ID, value)

	case strings.HasPrefix(data, usecase.CallbackSTTLanguage):
		code := strings.TrimPrefix(data, usecase.CallbackSTTLanguage)
		err = d.menu.HandleSTTLanguagePick(ctx, userID, chatID, messageID, cb.ID, code)

	default:
		d.logger.Debug("Unknown callback data", zap.String("data", data))
		return
	}

	if err != nil {
		d.logger.Warn("Callback handling failed",
			zap.String("data", data),
			zap.Int64("userID", userID),
			zap.Error(err))
	}
}

// ensureEntitled gates private chats behind channel membership. The
// interaction is short-circuited with a join prompt before any session
// or preference mutation. Group chats bypass the gate.
func (d *Dispatcher) ensureEntitled(ctx context.Context, userID, chatID int64, kind repositories.ChatKind) bool {
	if !kind.IsPrivate() {
		return true
	}

	entitled, err := d.entitlement.IsEntitled(ctx, userID)
	if err != nil {
		d.logger.Warn("Entitlement check failed", zap.Int64("userID", userID), zap.Error(err))
	}
	if entitled {
		return true
	}

	d.logger.Info("Update blocked",
		zap.Int64("userID", userID),
		zap.Error(domain.ErrNotEntitled))

	var keyboard repositories.InlineKeyboard
	if d.channel != "" {
		keyboard = repositories.InlineKeyboard{{{
			Text: "Join " + d.channel,
			URL:  "https://t.me/" + strings.TrimPrefix(d.channel, "@"),
		}}}
	}
	if _, err := d.gateway.SendMessage(ctx, chatID,
		"🔒 Please join "+d.channel+" to use this bot.", keyboard); err != nil {
		d.logger.Warn("Failed to send join prompt", zap.Int64("chatID", chatID), zap.Error(err))
	}
	return false
}

// mediaAttachment extracts the downloadable media of a message along
// with an extension hint for the transcoder.
func mediaAttachment(msg *telegram.Message) (fileID, ext string, ok bool) {
	switch {
	case msg.Voice != nil:
		// Voice notes are Opus in an Ogg container.
		return msg.Voice.FileID, ".ogg", true
	case msg.Audio != nil:
		ext := filepath.Ext(msg.Audio.FileName)
		if ext == "" {
			ext = ".mp3"
		}
		return msg.Audio.FileID, ext, true
	case msg.Video != nil:
		ext := filepath.Ext(msg.Video.FileName)
		if ext == "" {
			ext = ".mp4"
		}
		return msg.Video.FileID, ext, true
	}
	return "", "", false
}

// splitPageData parses "family_page" navigation callback data.
func splitPageData(data string) (string, int, bool) {
	idx := strings.LastIndex(data, "_")
	if idx <= 0 {
		return "", 0, false
	}
	page, err := strconv.Atoi(data[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return data[:idx], page, true
}
