package usecase

import (
	"context"
	"sync"

	"github.com/wicaksana/swara/domain/repositories"
)

// fakeGateway records every outbound call for assertions. Chat actions
// arrive from the liveness goroutine, so access is locked.
type fakeGateway struct {
	mu sync.Mutex

	messages    []sentText
	edits       []sentText
	deleted     []int
	callbacks   []string
	audio       []sentAudio
	chatActions []string
	downloads   map[string][]byte

	sendErr  error
	audioErr error
	nextID   int
}

type sentText struct {
	chatID   int64
	text     string
	keyboard repositories.InlineKeyboard
}

type sentAudio struct {
	chatID  int64
	path    string
	caption string
	replyTo int
}

var _ repositories.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{downloads: make(map[string][]byte)}
}

func (f *fakeGateway) SendMessage(ctx context.Context, chatID int64, text string, keyboard repositories.InlineKeyboard) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.messages = append(f.messages, sentText{chatID: chatID, text: text, keyboard: keyboard})
	return f.nextID, nil
}

func (f *fakeGateway) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard repositories.InlineKeyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentText{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func (f *fakeGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeGateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, text)
	return nil
}

func (f *fakeGateway) SendAudio(ctx context.Context, chatID int64, path, caption string, replyTo int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.audioErr != nil {
		return f.audioErr
	}
	f.audio = append(f.audio, sentAudio{chatID: chatID, path: path, caption: caption, replyTo: replyTo})
	return nil
}

func (f *fakeGateway) SendChatAction(ctx context.Context, chatID int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatActions = append(f.chatActions, action)
	return nil
}

func (f *fakeGateway) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.downloads[fileID]
	if !ok {
		return nil, "", context.Canceled
	}
	return data, "voice/" + fileID + ".oga", nil
}

func (f *fakeGateway) SetWebhook(ctx context.Context, url string) error {
	return nil
}

func (f *fakeGateway) sentMessages() []sentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentText, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeGateway) actionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chatActions)
}
