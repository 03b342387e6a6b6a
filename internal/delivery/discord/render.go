package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"tierbot/internal/application"
	"tierbot/internal/models"
)

func applicationButtonMessage() *discordgo.MessageSend {
	var sb strings.Builder
	sb.WriteString("Нажмите кнопку ниже, чтобы подать заявку на получение тира.\n\n**Доступные тиры:**\n")
	for _, t := range models.RankedTiers {
		sb.WriteString(fmt.Sprintf("%s **%s** - %s\n", tierEmoji(t), t, tierDescription(t)))
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎯 Система тиров",
			Description: sb.String(),
			Color:       colorInfo,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Заполните все поля в форме для подачи заявки"},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Подать заявку на тир",
					Style:    discordgo.PrimaryButton,
					CustomID: customIDApply,
					Emoji:    &discordgo.ComponentEmoji{Name: "📋"},
				},
			}},
		},
	}
}

func applicationEmbed(app *models.Application) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📋 Заявка на тир %s", app.DesiredTier),
		Color: tierColor(app.DesiredTier),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Пользователь", Value: userMention(app.ApplicantID), Inline: true},
			{Name: "🎮 ID в игре", Value: app.GameID, Inline: true},
			{Name: "🏷️ Ник в игре", Value: app.Nickname, Inline: true},
			{Name: "🏰 Клан", Value: valueOrDefault(app.Clan, "Не указан"), Inline: true},
			{Name: "📄 Пейдж", Value: truncateField(valueOrDefault(app.ProfileLink, "Не указан")), Inline: false},
			{Name: "🎯 Желаемый тир", Value: fmt.Sprintf("%s %s", tierEmoji(app.DesiredTier), app.DesiredTier), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ID заявки: %d", app.ID)},
		Timestamp: app.CreatedAt.Format(time.RFC3339),
	}
}

func decisionButtons() []discordgo.MessageComponent {
	tiers := make([]discordgo.MessageComponent, 0, len(models.RankedTiers))
	for _, t := range models.RankedTiers {
		style := discordgo.SecondaryButton
		if t == models.TierT1 {
			style = discordgo.SuccessButton
		}
		tiers = append(tiers, discordgo.Button{
			Label:    string(t),
			Style:    style,
			CustomID: assignCustomID(t),
			Emoji:    &discordgo.ComponentEmoji{Name: tierEmoji(t)},
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: tiers},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Отклонить",
				Style:    discordgo.DangerButton,
				CustomID: customIDReject,
				Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
			},
		}},
	}
}

// closedApplicationEmbed is the panel after a decision, with the buttons removed.
func closedApplicationEmbed(app *models.Application, d models.Decision) *discordgo.MessageEmbed {
	embed := applicationEmbed(app)

	outcome := "Отклонена"
	if d.Approve {
		embed.Title = fmt.Sprintf("✅ Заявка одобрена - Тир %s", d.Tier)
		embed.Color = tierColor(d.Tier)
		outcome = string(d.Tier)
	} else {
		embed.Title = "❌ Заявка отклонена"
		embed.Color = colorError
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "👨‍💼 Обработано",
		Value: fmt.Sprintf("%s - %s", userMention(app.ProcessedBy), outcome),
	})
	return embed
}

func decisionDM(d models.Decision) string {
	if d.Approve {
		return fmt.Sprintf("🎉 Ваша заявка на тир одобрена! Вам присвоен тир **%s** %s\n\n"+
			"Теперь вы можете подать новую заявку для изменения тира, если потребуется.", d.Tier, tierEmoji(d.Tier))
	}
	return "❌ Ваша заявка на тир была отклонена.\n\nВы можете подать новую заявку с исправленными данными."
}

func tierRemovedDM(actorID string) string {
	return fmt.Sprintf("📢 Ваш тир был снят администратором %s.", userMention(actorID))
}

func entryName(e application.TierEntry) string {
	return valueOrDefault(e.Nickname, userMention(e.DiscordID))
}

func tierListEmbed(board *application.TierBoard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Тиры игроков",
		Description: "Список игроков по тирам",
		Color:       colorT1,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Автоматически обновляется при выдаче тиров • Всего игроков: %d", board.Total),
		},
		Timestamp: board.GeneratedAt.Format(time.RFC3339),
	}

	for _, g := range board.Groups {
		value := "Пусто"
		if len(g.Entries) > 0 {
			lines := make([]string, 0, len(g.Entries)+1)
			for _, e := range g.Entries {
				lines = append(lines, "• "+entryName(e))
			}
			if n := g.Overflow(); n > 0 {
				lines = append(lines, fmt.Sprintf("... и еще %d", n))
			}
			value = truncateField(strings.Join(lines, "\n"))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s", tierEmoji(g.Tier), g.Tier),
			Value:  value,
			Inline: true,
		})
	}
	return embed
}

func topEmbed(board *application.TierBoard, limit int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Топ игроков по тирам",
		Description: "Рейтинг игроков по тирам (T1 - высший)",
		Color:       colorT1,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Показано %d игроков из %d запрошенных", board.Total, limit),
		},
	}
	if board.Total == 0 {
		embed.Description = "Пока нет игроков с тирами"
		return embed
	}

	for _, g := range board.Groups {
		if g.Total == 0 {
			continue
		}
		lines := make([]string, 0, len(g.Entries)+1)
		for i, e := range g.Entries {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, entryName(e)))
		}
		if n := g.Overflow(); n > 0 {
			lines = append(lines, fmt.Sprintf("... и еще %d", n))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s (%d игроков)", tierEmoji(g.Tier), g.Tier, g.Total),
			Value: truncateField(strings.Join(lines, "\n")),
		})
	}
	return embed
}

func myTierEmbed(p *models.Player) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎯 Ваш тир",
		Description: fmt.Sprintf("Ваш текущий тир: **%s** %s", p.Tier, tierEmoji(p.Tier)),
		Color:       tierColor(p.Tier),
	}
	if p.TierAssignedAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📅 Присвоен",
			Value: relativeTime(*p.TierAssignedAt),
		})
	}
	return embed
}

func playerInfoEmbed(userID string, p *models.Player) *discordgo.MessageEmbed {
	tier := "Не присвоен"
	if p.Tier.Ranked() {
		tier = fmt.Sprintf("%s %s", tierEmoji(p.Tier), p.Tier)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "👤 Информация об игроке",
		Description: userMention(userID),
		Color:       tierColor(p.Tier),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎯 Тир", Value: tier, Inline: true},
			{Name: "🎮 Ник в игре", Value: valueOrDefault(p.Nickname, "Не указан"), Inline: true},
			{Name: "🆔 ID в игре", Value: valueOrDefault(p.GameID, "Не указан"), Inline: true},
			{Name: "🏰 Клан", Value: valueOrDefault(p.Clan, "Не указан"), Inline: true},
		},
	}
	if p.TierAssignedAt != nil && p.Tier.Ranked() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📅 Тир присвоен",
			Value: relativeTime(*p.TierAssignedAt),
		})
	}
	return embed
}

func rolesEmbed(title string, cfg *models.GuildConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Роли для использования бота:", Value: roleList(cfg.AllowedRoles, "Все пользователи")},
			{Name: "Роли для выдачи тиров:", Value: roleList(cfg.AdminRoles, "Только администраторы")},
		},
	}
}

func roleList(ids []string, empty string) string {
	if len(ids) == 0 {
		return empty
	}
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = roleMention(id)
	}
	return truncateField(strings.Join(mentions, ", "))
}

func applicationModal() *discordgo.InteractionResponseData {
	field := func(id, label, placeholder string, required bool, max int) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    id,
				Label:       label,
				Style:       discordgo.TextInputShort,
				Placeholder: placeholder,
				Required:    required,
				MaxLength:   max,
			},
		}}
	}

	return &discordgo.InteractionResponseData{
		CustomID: customIDApplyModal,
		Title:    "Заявка на тир",
		Components: []discordgo.MessageComponent{
			field(modalFieldGameID, "ID в игре", "Введите ваш ID в игре", true, 100),
			field(modalFieldNickname, "Ник в игре", "Введите ваш ник в игре", true, 100),
			field(modalFieldClan, "Текущий клан", "Введите название вашего клана", false, 100),
			field(modalFieldProfile, "Пейдж", "Введите информацию о пейдже", false, 200),
			field(modalFieldTier, "Желаемый тир (T1-T5)", "T1, T2, T3, T4 или T5", true, maxTierInputLength),
		},
	}
}

// formFromModal collects the text inputs of a submitted application modal.
func formFromModal(data discordgo.ModalSubmitInteractionData) models.ApplicationForm {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}

	return models.ApplicationForm{
		GameID:      values[modalFieldGameID],
		Nickname:    values[modalFieldNickname],
		Clan:        values[modalFieldClan],
		ProfileLink: values[modalFieldProfile],
		DesiredTier: values[modalFieldTier],
	}
}
