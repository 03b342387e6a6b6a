package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tierbot/internal/application"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Announcer posts tier changes to a Telegram chat.
type Announcer struct {
	bot    sender
	chatID int64
}

func NewAnnouncer(token string, chatID int64, logger application.Logger) (*Announcer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot authorized on account %s", bot.Self.UserName)
	return &Announcer{bot: bot, chatID: chatID}, nil
}

func (a *Announcer) AnnounceTier(ctx context.Context, change application.TierChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(a.chatID, announcementText(change))
	msg.DisableWebPagePreview = true
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram announcement: %w", err)
	}
	return nil
}

func announcementText(c application.TierChange) string {
	who := c.Nickname
	if who == "" {
		who = "Discord " + c.DiscordID
	}

	if !c.NewTier.Ranked() {
		return fmt.Sprintf("📢 С игрока %s снят тир %s", who, c.OldTier)
	}
	if c.OldTier.Ranked() && c.OldTier != c.NewTier {
		return fmt.Sprintf("🏆 Игрок %s получил тир %s (был %s)", who, c.NewTier, c.OldTier)
	}
	return fmt.Sprintf("🏆 Игрок %s получил тир %s", who, c.NewTier)
}

var _ application.Announcer = (*Announcer)(nil)
