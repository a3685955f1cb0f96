// Package telegram connects the dialogue to a Telegram bot, by long polling or webhook.
package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ai-notes-bot/internal/channel"
	"ai-notes-bot/internal/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	ConversationPrefix = "telegram:"
	SecretHeader       = "X-Telegram-Bot-Api-Secret-Token"

	// maxMessageRunes is Telegram's limit for one text message.
	maxMessageRunes = 4096
	pollTimeout     = 60
)

var ErrInvalidSecret = errors.New("telegram: invalid webhook secret")

type Channel struct {
	bot        *tgbotapi.BotAPI
	dispatcher *channel.Dispatcher
	secret     string
	logger     logger.ILogger
	traffic    logger.ILogger
}

// New logs in with token. traffic receives every raw update and may be a nop logger.
func New(token, webhookSecret string, debug bool, dispatcher *channel.Dispatcher, log, traffic logger.ILogger) (*Channel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	bot.Debug = debug

	log.Info("Telegram", "Authorized", map[string]interface{}{"username": bot.Self.UserName})

	return &Channel{
		bot:        bot,
		dispatcher: dispatcher,
		secret:     webhookSecret,
		logger:     log,
		traffic:    traffic,
	}, nil
}

// Send delivers text to a "telegram:<chat id>" conversation, split to fit Telegram's limit.
func (c *Channel) Send(ctx context.Context, conversationID, text string) error {
	chatID, err := ChatID(conversationID)
	if err != nil {
		return err
	}

	for _, part := range SplitMessage(text, maxMessageRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return fmt.Errorf("send to chat %d: %w", chatID, err)
		}
	}
	return nil
}

// RunPolling receives updates until ctx is done, then waits for running turns.
func (c *Channel) RunPolling(ctx context.Context) error {
	// getUpdates is refused while a webhook is registered
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		c.logger.Warn("Telegram", "Failed to delete webhook before polling", map[string]interface{}{"error": err.Error()})
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := c.bot.GetUpdatesChan(u)

	c.logger.Info("Telegram", "Long polling started", nil)
	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			c.dispatcher.Wait()
			c.logger.Info("Telegram", "Long polling stopped", nil)
			return nil
		case update, ok := <-updates:
			if !ok {
				c.dispatcher.Wait()
				return nil
			}
			c.handleUpdate(ctx, update)
		}
	}
}

// SetWebhook registers url with Telegram, with the secret token when one is configured.
func (c *Channel) SetWebhook(url string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", c.secret)

	if _, err := c.bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	c.logger.Info("Telegram", "Webhook registered", map[string]interface{}{"url": url})
	return nil
}

// HandleWebhook accepts one update body. The turn runs in the background so
// Telegram gets its 200 right away.
func (c *Channel) HandleWebhook(ctx context.Context, secretHeader string, body []byte) error {
	if c.secret != "" && subtle.ConstantTimeCompare([]byte(c.secret), []byte(secretHeader)) != 1 {
		return ErrInvalidSecret
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	c.handleUpdate(ctx, update)
	return nil
}

func (c *Channel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	c.traffic.Info("Telegram", "Update received", map[string]interface{}{"update": update})

	msg, ok := ParseUpdate(update)
	if !ok {
		return
	}
	c.dispatcher.Go(context.WithoutCancel(ctx), c, msg)
}

// ParseUpdate extracts the message text, or the caption of a media message.
// Updates without any text are ignored.
func ParseUpdate(update tgbotapi.Update) (channel.InboundMessage, bool) {
	m := update.Message
	if m == nil {
		m = update.EditedMessage
	}
	if m == nil || m.Chat == nil {
		return channel.InboundMessage{}, false
	}

	text := m.Text
	if text == "" {
		text = m.Caption
	}
	if strings.TrimSpace(text) == "" {
		return channel.InboundMessage{}, false
	}

	return channel.InboundMessage{
		ConversationID: ConversationPrefix + strconv.FormatInt(m.Chat.ID, 10),
		Text:           text,
	}, true
}

func ChatID(conversationID string) (int64, error) {
	raw, ok := strings.CutPrefix(conversationID, ConversationPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram conversation: %q", conversationID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat ID: %w", err)
	}
	return id, nil
}

// SplitMessage cuts text into pieces of at most limit runes, preferring line breaks.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
