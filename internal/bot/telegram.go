package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPhotoBytes caps photo downloads; Telegram photos are well under this.
const maxPhotoBytes = 20 << 20

// Bot is the Telegram transport. It long-polls for updates, normalizes them
// into Messages and hands each one to the router on its own goroutine. It
// also implements Sender and PhotoFetcher for the router.
type Bot struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *slog.Logger
	wg         sync.WaitGroup
}

var (
	_ Sender       = (*Bot)(nil)
	_ PhotoFetcher = (*Bot)(nil)
)

// NewBot authenticates against the Bot API and returns the transport.
func NewBot(token string, debugMode bool, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debugMode
	return &Bot{
		api:        api,
		httpClient: http.DefaultClient,
		logger:     logger.With("component", "telegram"),
	}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run consumes updates until ctx is cancelled, dispatching each message to
// the handler on its own goroutine. Panics in a handler are recovered and
// logged so one bad update cannot stop the loop.
func (b *Bot) Run(ctx context.Context, handler *Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Polling for updates", "bot", b.Username())
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("Update loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return
			}
			msg, ok := normalize(update)
			if !ok {
				continue
			}
			b.wg.Add(1)
			go func(m Message) {
				defer b.wg.Done()
				defer func() {
					if recovered := recover(); recovered != nil {
						b.logger.Error("Panic recovered in handler",
							"error", recovered,
							"user_id", m.UserID,
							"stack", string(debug.Stack()),
						)
					}
				}()
				handler.HandleMessage(ctx, m)
			}(msg)
		}
	}
}

// normalize reduces a raw update to the Message shape the router consumes.
// Updates without a usable message (edits, channel posts, stickers) are dropped.
func normalize(update tgbotapi.Update) (Message, bool) {
	raw := update.Message
	if raw == nil || raw.From == nil {
		return Message{}, false
	}

	m := Message{
		UserID:    raw.From.ID,
		ChatID:    raw.Chat.ID,
		MessageID: raw.MessageID,
	}

	switch {
	case raw.IsCommand():
		m.Command = raw.Command()
		m.Args = raw.CommandArguments()
	case len(raw.Photo) > 0:
		// Telegram orders photo sizes ascending; the last is the largest.
		m.PhotoID = raw.Photo[len(raw.Photo)-1].FileID
	case raw.Text != "":
		m.Text = raw.Text
	default:
		return Message{}, false
	}
	return m, true
}

func (b *Bot) Reply(chatID int64, messageID int, text string) error {
	return b.send(chatID, messageID, text, "")
}

func (b *Bot) ReplyMarkdown(chatID int64, messageID int, text string) error {
	return b.send(chatID, messageID, text, tgbotapi.ModeMarkdown)
}

func (b *Bot) Send(userID int64, text string) error {
	return b.send(userID, 0, text, "")
}

func (b *Bot) send(chatID int64, replyTo int, text, parseMode string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	if parseMode != "" {
		msg.ParseMode = parseMode
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", chatID, err)
	}
	return nil
}

// FetchPhoto downloads the binary content of a photo by file ID.
func (b *Bot) FetchPhoto(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve telegram file %s: %w", fileID, err)
	}

	resp, err := b.httpClient.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download telegram file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download telegram file %s: status %d", fileID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram file %s: %w", fileID, err)
	}
	return data, nil
}
