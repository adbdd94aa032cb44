package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func makeUpdate(msg *tgbotapi.Message) tgbotapi.Update {
	return tgbotapi.Update{Message: msg}
}

func baseMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: 42},
		Chat:      &tgbotapi.Chat{ID: 4242},
	}
}

func TestNormalize_Text(t *testing.T) {
	raw := baseMessage()
	raw.Text = "Maths: Solve x² − 5x + 6 = 0"

	m, ok := normalize(makeUpdate(raw))
	assert.True(t, ok)
	assert.Equal(t, int64(42), m.UserID)
	assert.Equal(t, int64(4242), m.ChatID)
	assert.Equal(t, 7, m.MessageID)
	assert.Equal(t, "Maths: Solve x² − 5x + 6 = 0", m.Text)
	assert.Empty(t, m.Command)
	assert.Empty(t, m.PhotoID)
}

func TestNormalize_Command(t *testing.T) {
	raw := baseMessage()
	raw.Text = "/unlock 77"
	raw.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 7}}

	m, ok := normalize(makeUpdate(raw))
	assert.True(t, ok)
	assert.Equal(t, "unlock", m.Command)
	assert.Equal(t, "77", m.Args)
	assert.Empty(t, m.Text)
}

func TestNormalize_Photo(t *testing.T) {
	raw := baseMessage()
	raw.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "medium", Width: 320},
		{FileID: "large", Width: 800},
	}

	m, ok := normalize(makeUpdate(raw))
	assert.True(t, ok)
	// The highest-resolution size is the last one.
	assert.Equal(t, "large", m.PhotoID)
}

func TestNormalize_Dropped(t *testing.T) {
	// No message at all.
	_, ok := normalize(tgbotapi.Update{})
	assert.False(t, ok)

	// Message without a sender.
	_, ok = normalize(makeUpdate(&tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}))
	assert.False(t, ok)

	// Message with no text or photo (e.g. a sticker).
	_, ok = normalize(makeUpdate(baseMessage()))
	assert.False(t, ok)
}
