package discord

import (
	"fmt"
	"time"

	"tierbot/internal/models"
)

func tierEmoji(t models.Tier) string {
	switch t {
	case models.TierT1:
		return "🏆"
	case models.TierT2:
		return "🥈"
	case models.TierT3:
		return "🥉"
	case models.TierT4:
		return "🎖️"
	case models.TierT5:
		return "🏅"
	default:
		return "❓"
	}
}

func tierColor(t models.Tier) int {
	switch t {
	case models.TierT1:
		return colorT1
	case models.TierT2:
		return colorT2
	case models.TierT3:
		return colorT3
	case models.TierT4:
		return colorT4
	case models.TierT5:
		return colorT5
	default:
		return colorInfo
	}
}

func tierDescription(t models.Tier) string {
	switch t {
	case models.TierT1:
		return "Высший тир"
	case models.TierT2:
		return "Второй тир"
	case models.TierT3:
		return "Третий тир"
	case models.TierT4:
		return "Четвертый тир"
	case models.TierT5:
		return "Пятый тир"
	default:
		return ""
	}
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func userMention(id string) string {
	return "<@" + id + ">"
}

func roleMention(id string) string {
	return "<@&" + id + ">"
}

func relativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// truncateField keeps an embed field value within Discord's limit.
func truncateField(s string) string {
	r := []rune(s)
	if len(r) <= maxEmbedFieldLength {
		return s
	}
	return string(r[:maxEmbedFieldLength-1]) + "…"
}
