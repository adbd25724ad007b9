package repositories

import "context"

// ChatKind distinguishes private conversations from group-like chats.
// Error messaging stays silent outside private chats.
type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
)

// IsPrivate reports whether user-visible error notices are allowed.
func (k ChatKind) IsPrivate() bool {
	return k == ChatPrivate
}

// InlineButton is one button of an inline keyboard. Exactly one of
// CallbackData or URL should be set.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboard is rows of inline buttons attached to a message.
type InlineKeyboard [][]InlineButton

// Gateway abstracts the messaging platform. Edit and delete operations
// are best-effort for callers: a failure is logged, never fatal to the
// flow that issued it.
type Gateway interface {
	// SendMessage sends text and returns the new message id.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard InlineKeyboard) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard InlineKeyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// AnswerCallback acknowledges a button press, optionally with a
	// toast.
	AnswerCallback(ctx context.Context, callbackID, text string) error
	// SendAudio uploads the file at path as a voice reply.
	SendAudio(ctx context.Context, chatID int64, path, caption string, replyTo int) error
	// SendChatAction shows a "still working" indicator for a few
	// seconds.
	SendChatAction(ctx context.Context, chatID int64, action string) error
	// DownloadFile fetches a platform file by id, returning its bytes
	// and the remote path (useful for its extension).
	DownloadFile(ctx context.Context, fileID string) ([]byte, string, error)
	SetWebhook(ctx context.Context, url string) error
}

// EntitlementChecker gates private-chat use behind channel membership.
type EntitlementChecker interface {
	IsEntitled(ctx context.Context, userID int64) (bool, error)
}
