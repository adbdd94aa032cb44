// Package bot contains the Telegram transport and the request router that
// admits questions against the daily quota before relaying them to the
// completion backend.
package bot

// Message is a normalized inbound Telegram update, reduced to what the
// router needs. Transport-specific detail stays in telegram.go.
type Message struct {
	UserID    int64
	ChatID    int64
	MessageID int
	// Command is the bot command without the leading slash ("start",
	// "premium", "unlock"), empty for plain messages.
	Command string
	// Args is the text after the command, for command messages.
	Args string
	// Text is the message body, for plain text messages.
	Text string
	// PhotoID is the file ID of the highest-resolution attached photo,
	// empty when the message carries no photo.
	PhotoID string
}

// Sender abstracts the outbound side of the transport so the router can be
// tested with a double.
type Sender interface {
	// Reply sends text in chatID as a reply to messageID.
	Reply(chatID int64, messageID int, text string) error
	// ReplyMarkdown is Reply with Markdown formatting enabled.
	ReplyMarkdown(chatID int64, messageID int, text string) error
	// Send delivers a direct message to a user outside any reply context.
	Send(userID int64, text string) error
}

// PhotoFetcher downloads the binary content of an attached photo.
type PhotoFetcher interface {
	FetchPhoto(fileID string) ([]byte, error)
}
