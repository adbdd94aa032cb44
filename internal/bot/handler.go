package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AaravSuri1/StudyBuddy/internal/completion"
	"github.com/AaravSuri1/StudyBuddy/internal/config"
	"github.com/AaravSuri1/StudyBuddy/internal/db"
	"github.com/AaravSuri1/StudyBuddy/internal/quota"
)

// Handler routes inbound messages: commands are dispatched directly, text and
// photo questions go through the quota gate and on to the completion backend.
// All failures are converted to plain-text replies here so a bad update can
// never take down the polling loop.
type Handler struct {
	store     db.Service
	policy    quota.Policy
	completer completion.Completer
	sender    Sender
	fetcher   PhotoFetcher
	logger    *slog.Logger

	adminID   int64
	model     string
	maxTokens int
	timeout   time.Duration
	mediaDir  string

	// now is injectable so tests can control the calendar day.
	now func() time.Time
}

// NewHandler wires a router from its collaborators.
func NewHandler(store db.Service, policy quota.Policy, completer completion.Completer, sender Sender, fetcher PhotoFetcher, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		policy:    policy,
		completer: completer,
		sender:    sender,
		fetcher:   fetcher,
		logger:    logger.With("component", "bot"),
		adminID:   cfg.Telegram.AdminID,
		model:     cfg.Completion.Model,
		maxTokens: cfg.Completion.MaxTokens,
		timeout:   cfg.Completion.RequestTimeout(),
		mediaDir:  cfg.Media.Dir,
		now:       time.Now,
	}
}

func (h *Handler) today() string {
	return h.now().Format("2006-01-02")
}

// HandleMessage dispatches one inbound message to completion.
func (h *Handler) HandleMessage(ctx context.Context, m Message) {
	switch {
	case m.Command == "start":
		h.handleStart(m)
	case m.Command == "premium":
		h.handlePremium(m)
	case m.Command == "unlock":
		h.handleUnlock(m)
	case m.Command != "":
		// Unknown commands are ignored, like any other non-question noise.
	case m.PhotoID != "":
		h.handlePhotoQuestion(ctx, m)
	case m.Text != "":
		h.handleTextQuestion(ctx, m)
	}
}

func (h *Handler) handleStart(m Message) {
	if err := h.sender.ReplyMarkdown(m.ChatID, m.MessageID, welcomeText); err != nil {
		h.logger.Error("Failed to send welcome message", "user_id", m.UserID, "error", err)
	}
}

func (h *Handler) handlePremium(m Message) {
	if err := h.sender.ReplyMarkdown(m.ChatID, m.MessageID, premiumText); err != nil {
		h.logger.Error("Failed to send premium info", "user_id", m.UserID, "error", err)
	}
}

// handleUnlock grants a user unlimited access for the current day. Non-admin
// senders get no reply at all; a malformed argument gets a usage reply and
// changes no state.
func (h *Handler) handleUnlock(m Message) {
	if h.adminID == 0 || m.UserID != h.adminID {
		h.logger.Warn("Ignoring /unlock from non-admin", "user_id", m.UserID)
		return
	}

	target, err := strconv.ParseInt(strings.TrimSpace(m.Args), 10, 64)
	if err != nil || target <= 0 {
		h.reply(m, unlockUsageText)
		return
	}

	day := h.today()
	// Create the record if the target has not messaged the bot today, so the
	// premium flag always has a row to land on.
	if _, _, err := h.store.GetOrCreateUsage(target, day); err != nil {
		h.logger.Error("Failed to prepare usage record for unlock", "target", target, "day", day, "error", err)
		h.reply(m, genericFailureText)
		return
	}
	if err := h.store.SetPremium(target, day); err != nil {
		h.logger.Error("Failed to set premium", "target", target, "day", day, "error", err)
		h.reply(m, genericFailureText)
		return
	}

	h.logger.Info("Premium unlocked", "target", target, "day", day)
	if err := h.sender.Send(target, unlockedNoticeText); err != nil {
		h.logger.Error("Failed to notify unlocked user", "target", target, "error", err)
	}
	h.reply(m, unlockConfirmText)
}

func (h *Handler) handleTextQuestion(ctx context.Context, m Message) {
	h.answerQuestion(ctx, m, quotaExceededText, func() ([]completion.Part, error) {
		return []completion.Part{{Text: fmt.Sprintf(textQuestionPrompt, m.Text)}}, nil
	})
}

func (h *Handler) handlePhotoQuestion(ctx context.Context, m Message) {
	h.answerQuestion(ctx, m, quotaExceededPhotoText, func() ([]completion.Part, error) {
		data, err := h.fetcher.FetchPhoto(m.PhotoID)
		if err != nil {
			return nil, fmt.Errorf("failed to download photo: %w", err)
		}
		h.savePhoto(m, data)
		return []completion.Part{{Text: photoQuestionPrompt, ImageData: data, ImageMIME: "image/jpeg"}}, nil
	})
}

// answerQuestion is the billable request flow: read-or-create the usage
// record, check entitlement, charge, then call the completion backend. The
// charge is not rolled back when the downstream call fails.
func (h *Handler) answerQuestion(ctx context.Context, m Message, quotaNotice string, buildParts func() ([]completion.Part, error)) {
	day := h.today()

	count, premium, err := h.store.GetOrCreateUsage(m.UserID, day)
	if err != nil {
		h.logger.Error("Failed to read usage record", "user_id", m.UserID, "day", day, "error", err)
		h.reply(m, genericFailureText)
		return
	}

	if !h.policy.Allowed(count, premium) {
		h.logger.Info("Quota exceeded", "user_id", m.UserID, "day", day, "count", count)
		h.reply(m, quotaNotice)
		return
	}

	if err := h.store.IncrementUsage(m.UserID, day); err != nil {
		h.logger.Error("Failed to increment usage", "user_id", m.UserID, "day", day, "error", err)
		h.reply(m, genericFailureText)
		return
	}

	parts, err := buildParts()
	if err != nil {
		h.logger.Error("Failed to build question content", "user_id", m.UserID, "error", err)
		h.reply(m, completionFailedText)
		return
	}

	cctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	answer, err := h.completer.Complete(cctx, completion.Request{
		Model:     h.model,
		Parts:     parts,
		MaxTokens: h.maxTokens,
	})
	if err != nil {
		h.logger.Error("Completion call failed", "user_id", m.UserID, "error", err)
		h.reply(m, completionFailedText)
		return
	}

	h.reply(m, answer)
}

// savePhoto keeps a copy of the question image on disk. Failures are logged
// and do not interrupt the request.
func (h *Handler) savePhoto(m Message, data []byte) {
	if h.mediaDir == "" {
		return
	}
	if err := os.MkdirAll(h.mediaDir, 0o755); err != nil {
		h.logger.Warn("Failed to create media dir", "dir", h.mediaDir, "error", err)
		return
	}
	name := fmt.Sprintf("question_%d_%d.jpg", m.UserID, m.MessageID)
	if err := os.WriteFile(filepath.Join(h.mediaDir, name), data, 0o644); err != nil {
		h.logger.Warn("Failed to save photo", "file", name, "error", err)
	}
}

func (h *Handler) reply(m Message, text string) {
	if err := h.sender.Reply(m.ChatID, m.MessageID, text); err != nil {
		h.logger.Error("Failed to send reply", "chat_id", m.ChatID, "error", err)
	}
}
