package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
	"github.com/wicaksana/swara/internal/session"
)

// Callback data prefixes the menu flow emits and interprets.
const (
	CallbackVoiceLanguage = "vlang_"
	CallbackVoicePage     = "vpage_"
	CallbackVoicePick     = "voice_"
	CallbackPitchPreset   = "pitchset_"
	CallbackRatePreset    = "rateset_"
	CallbackSTTLanguage   = "lang_"

	// multilingualGroup is the pseudo language family of the voice
	// menu's multilingual entry.
	multilingualGroup = "multi"

	// voicesPerPage bounds one page of the voice list.
	voicesPerPage = 10
)

var presetDeltas = []int{50, 0, -50}

// MenuService drives the multi-step selection dialogue: language →
// voice for synthesis, pitch/rate numeric prompts, and the
// transcription language menu. It owns the session input modes.
type MenuService struct {
	prefs    repositories.PreferenceRepository
	catalog  *entities.VoiceCatalog
	sessions *session.Tracker
	gateway  repositories.Gateway
	logger   *zap.Logger
}

// NewMenuService creates a new menu flow service.
func NewMenuService(
	prefs repositories.PreferenceRepository,
	catalog *entities.VoiceCatalog,
	sessions *session.Tracker,
	gateway repositories.Gateway,
	logger *zap.Logger,
) *MenuService {
	return &MenuService{
		prefs:    prefs,
		catalog:  catalog,
		sessions: sessions,
		gateway:  gateway,
		logger:   logger,
	}
}

// Start sends the welcome text and resets the user's input mode.
func (s *MenuService) Start(ctx context.Context, userID, chatID int64) error {
	s.sessions.Clear(userID)
	text := "🗣 *Swara*\n\n" +
		"Send me text and I will read it aloud with your chosen voice.\n" +
		"Send me a voice, audio or video message and I will transcribe it.\n\n" +
		"/voice — choose a voice\n" +
		"/pitch — adjust voice pitch\n" +
		"/rate — adjust speaking rate\n" +
		"/language — set transcription language\n" +
		"/help — show this message"
	_, err := s.gateway.SendMessage(ctx, chatID, text, nil)
	return err
}

// ShowVoiceMenu renders the top-level "multilingual or a language"
// menu.
func (s *MenuService) ShowVoiceMenu(ctx context.Context, chatID int64) error {
	_, err := s.gateway.SendMessage(ctx, chatID,
		"🎙 *Choose a voice language:*", s.languageKeyboard())
	return err
}

// HandleLanguagePick renders the voice list for a picked family by
// editing the menu message in place.
func (s *MenuService) HandleLanguagePick(ctx context.Context, chatID int64, messageID int, callbackID, family string) error {
	if family == "back" {
		if err := s.gateway.EditMessageText(ctx, chatID, messageID,
			"🎙 *Choose a voice language:*", s.languageKeyboard()); err != nil {
			return err
		}
		return s.gateway.AnswerCallback(ctx, callbackID, "")
	}

	title, keyboard, ok := s.voicePage(family, 0)
	if !ok {
		return s.gateway.AnswerCallback(ctx, callbackID, "Unknown language")
	}
	if err := s.gateway.EditMessageText(ctx, chatID, messageID, title, keyboard); err != nil {
		return err
	}
	return s.gateway.AnswerCallback(ctx, callbackID, "")
}

// HandleVoicePage flips the voice list to another page.
func (s *MenuService) HandleVoicePage(ctx context.Context, chatID int64, messageID int, callbackID, family string, page int) error {
	title, keyboard, ok := s.voicePage(family, page)
	if !ok {
		return s.gateway.AnswerCallback(ctx, callbackID, "Unknown language")
	}
	if err := s.gateway.EditMessageText(ctx, chatID, messageID, title, keyboard); err != nil {
		return err
	}
	return s.gateway.AnswerCallback(ctx, callbackID, "")
}

// HandleVoicePick persists a selected voice, clears the input mode,
// acknowledges the press and removes the menu message. Menu removal is
// best-effort.
func (s *MenuService) HandleVoicePick(ctx context.Context, userID, chatID int64, messageID int, callbackID, voiceID string) error {
	voice, ok := s.catalog.Lookup(voiceID)
	if !ok {
		return s.gateway.AnswerCallback(ctx, callbackID, "Unknown voice")
	}

	if err := s.prefs.SetVoice(ctx, userID, voice.ID); err != nil {
		return fmt.Errorf("failed to persist voice: %w", err)
	}
	s.sessions.Clear(userID)

	if err := s.gateway.AnswerCallback(ctx, callbackID, "Voice set to "+voice.DisplayName); err != nil {
		s.logger.Warn("Failed to answer callback", zap.Error(err))
	}
	if err := s.gateway.DeleteMessage(ctx, chatID, messageID); err != nil {
		s.logger.Warn("Failed to remove voice menu", zap.Int64("chatID", chatID), zap.Error(err))
	}

	s.logger.Info("Voice selected",
		zap.Int64("userID", userID),
		zap.String("voiceID", voice.ID))
	return nil
}

// PromptPitch enters the awaiting-pitch mode and renders the preset
// shortcut keyboard. Free-form numeric text is accepted as well.
func (s *MenuService) PromptPitch(ctx context.Context, userID, chatID int64) error {
	s.sessions.Set(userID, session.ModeAwaitingPitch)
	_, err := s.gateway.SendMessage(ctx, chatID,
		fmt.Sprintf("🎚 *Send a pitch value between %d and %d*, or pick a preset:", entities.DeltaMin, entities.DeltaMax),
		presetKeyboard(CallbackPitchPreset))
	return err
}

// PromptRate enters the awaiting-rate mode and renders the preset
// shortcut keyboard.
func (s *MenuService) PromptRate(ctx context.Context, userID, chatID int64) error {
	s.sessions.Set(userID, session.ModeAwaitingRate)
	_, err := s.gateway.SendMessage(ctx, chatID,
		fmt.Sprintf("⏩ *Send a rate value between %d and %d*, or pick a preset:", entities.DeltaMin, entities.DeltaMax),
		presetKeyboard(CallbackRatePreset))
	return err
}

// HandleNumericInput interprets free text while a pitch/rate prompt is
// outstanding. Invalid input re-prompts and leaves the mode unchanged;
// a valid value is persisted and the mode cleared.
func (s *MenuService) HandleNumericInput(ctx context.Context, userID, chatID int64, text string) error {
	mode := s.sessions.Get(userID)
	if mode == session.ModeNone {
		return nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || entities.ValidateDelta(value) != nil {
		_, sendErr := s.gateway.SendMessage(ctx, chatID,
			fmt.Sprintf("❌ That is not a number between %d and %d. Try again:", entities.DeltaMin, entities.DeltaMax), nil)
		return sendErr
	}

	return s.applyDelta(ctx, userID, chatID, mode, value)
}

// HandlePitchPreset applies a preset pitch button press.
func (s *MenuService) HandlePitchPreset(ctx context.Context, userID, chatID int64, messageID int, callbackID string, value int) error {
	return s.applyPreset(ctx, userID, chatID, messageID, callbackID, session.ModeAwaitingPitch, value)
}

// HandleRatePreset applies a preset rate button press.
func (s *MenuService) HandleRatePreset(ctx context.Context, userID, chatID int64, messageID int, callbackID string, value int) error {
	return s.applyPreset(ctx, userID, chatID, messageID, callbackID, session.ModeAwaitingRate, value)
}

// ShowLanguageMenu renders the transcription language menu.
func (s *MenuService) ShowLanguageMenu(ctx context.Context, chatID int64) error {
	var keyboard repositories.InlineKeyboard
	var row []repositories.InlineButton
	for _, lang := range entities.Languages {
		row = append(row, repositories.InlineButton{
			Text:         lang.Name,
			CallbackData: CallbackSTTLanguage + lang.Code,
		})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	_, err := s.gateway.SendMessage(ctx, chatID,
		"🌐 *Select your preferred language for transcription:*", keyboard)
	return err
}

// HandleSTTLanguagePick persists the transcription language and edits
// the menu message into a confirmation.
func (s *MenuService) HandleSTTLanguagePick(ctx context.Context, userID, chatID int64, messageID int, callbackID, code string) error {
	lang := entities.LanguageByCode(code)
	if err := s.prefs.SetLanguage(ctx, userID, lang.Code); err != nil {
		return fmt.Errorf("failed to persist language: %w", err)
	}

	if err := s.gateway.AnswerCallback(ctx, callbackID, "Language set to "+lang.Name); err != nil {
		s.logger.Warn("Failed to answer callback", zap.Error(err))
	}
	if err := s.gateway.EditMessageText(ctx, chatID, messageID,
		"✅ Transcription language set to: *"+lang.Name+"*", nil); err != nil {
		s.logger.Warn("Failed to edit language menu", zap.Error(err))
	}
	return nil
}

func (s *MenuService) applyPreset(ctx context.Context, userID, chatID int64, messageID int, callbackID string, mode session.InputMode, value int) error {
	if entities.ValidateDelta(value) != nil {
		return s.gateway.AnswerCallback(ctx, callbackID, "Value out of range")
	}
	if err := s.applyDelta(ctx, userID, chatID, mode, value); err != nil {
		return err
	}
	if err := s.gateway.AnswerCallback(ctx, callbackID, ""); err != nil {
		s.logger.Warn("Failed to answer callback", zap.Error(err))
	}
	if err := s.gateway.DeleteMessage(ctx, chatID, messageID); err != nil {
		s.logger.Warn("Failed to remove preset menu", zap.Int64("chatID", chatID), zap.Error(err))
	}
	return nil
}

func (s *MenuService) applyDelta(ctx context.Context, userID, chatID int64, mode session.InputMode, value int) error {
	var name string
	var err error
	switch mode {
	case session.ModeAwaitingPitch:
		name = "Pitch"
		err = s.prefs.SetPitch(ctx, userID, value)
	case session.ModeAwaitingRate:
		name = "Rate"
		err = s.prefs.SetRate(ctx, userID, value)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", strings.ToLower(name), err)
	}

	s.sessions.Clear(userID)
	_, sendErr := s.gateway.SendMessage(ctx, chatID,
		fmt.Sprintf("✅ %s set to *%+d*", name, value), nil)
	return sendErr
}

func (s *MenuService) languageKeyboard() repositories.InlineKeyboard {
	keyboard := repositories.InlineKeyboard{
		{{Text: "🌍 Multilingual", CallbackData: CallbackVoiceLanguage + multilingualGroup}},
	}
	var row []repositories.InlineButton
	for _, lang := range s.catalog.Languages() {
		row = append(row, repositories.InlineButton{
			Text:         lang,
			CallbackData: CallbackVoiceLanguage + lang,
		})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	return keyboard
}

// voicePage builds one page of the voice list for a family, with
// navigation buttons when more pages exist.
func (s *MenuService) voicePage(family string, page int) (string, repositories.InlineKeyboard, bool) {
	var voices []entities.Voice
	var title string
	if family == multilingualGroup {
		voices = s.catalog.Multilingual()
		title = "🌍 *Multilingual voices:*"
	} else {
		voices = s.catalog.VoicesFor(family)
		title = "🎙 *" + family + " voices:*"
	}
	if len(voices) == 0 {
		return "", nil, false
	}

	pages := (len(voices) + voicesPerPage - 1) / voicesPerPage
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	start := page * voicesPerPage
	end := start + voicesPerPage
	if end > len(voices) {
		end = len(voices)
	}

	var keyboard repositories.InlineKeyboard
	var row []repositories.InlineButton
	for _, v := range voices[start:end] {
		row = append(row, repositories.InlineButton{
			Text:         v.DisplayName,
			CallbackData: CallbackVoicePick + v.ID,
		})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	var nav []repositories.InlineButton
	if page > 0 {
		nav = append(nav, repositories.InlineButton{
			Text:         "«",
			CallbackData: fmt.Sprintf("%s%s_%d", CallbackVoicePage, family, page-1),
		})
	}
	nav = append(nav, repositories.InlineButton{
		Text:         "↩ Languages",
		CallbackData: CallbackVoiceLanguage + "back",
	})
	if page < pages-1 {
		nav = append(nav, repositories.InlineButton{
			Text:         "»",
			CallbackData: fmt.Sprintf("%s%s_%d", CallbackVoicePage, family, page+1),
		})
	}
	keyboard = append(keyboard, nav)

	return title, keyboard, true
}

// presetKeyboard renders the +50/0/-50 shortcut buttons with the given
// callback prefix.
func presetKeyboard(prefix string) repositories.InlineKeyboard {
	var row []repositories.InlineButton
	for _, v := range presetDeltas {
		row = append(row, repositories.InlineButton{
			Text:         fmt.Sprintf("%+d", v),
			CallbackData: fmt.Sprintf("%s%d", prefix, v),
		})
	}
	return repositories.InlineKeyboard{row}
}
