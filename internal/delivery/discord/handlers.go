package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"tierbot/internal/application"
	"tierbot/internal/models"
)

func (b *Bot) handleTierButton(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	channelID := channelOption(i, "channel")

	err := b.services.Lifecycle.PublishApplicationButton(ctx, actorFromInteraction(i), channelID)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondMessage(s, i, fmt.Sprintf("✅ Кнопка подачи заявки размещена в <#%s>", channelID), true)
}

func (b *Bot) handleSetApplicationsChannel(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	channelID := channelOption(i, "channel")

	if err := b.services.Guild.SetApplicationsChannel(ctx, actorFromInteraction(i), channelID); err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondMessage(s, i, fmt.Sprintf("✅ Канал для заявок установлен: <#%s>", channelID), true)
}

func (b *Bot) handleSetupTierList(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	channelID := channelOption(i, "channel")

	if err := b.services.Leaderboard.Publish(ctx, actorFromInteraction(i), channelID); err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondMessage(s, i, fmt.Sprintf("✅ Список тиров размещен в <#%s>", channelID), true)
}

func (b *Bot) handleSetupRoles(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	var update application.RoleUpdate
	for _, opt := range i.ApplicationCommandData().Options {
		v := opt.StringValue()
		switch opt.Name {
		case "allowed_roles":
			update.Allowed = &v
		case "admin_roles":
			update.Admin = &v
		}
	}

	roles, err := s.GuildRoles(i.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		b.respondError(s, i, fmt.Errorf("failed to list guild roles: %w", err))
		return
	}
	known := make([]string, 0, len(roles))
	for _, r := range roles {
		known = append(known, r.ID)
	}

	cfg, err := b.services.Guild.SetupRoles(ctx, actorFromInteraction(i), update, known)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEmbed(s, i, rolesEmbed("🛡️ Настройка ролей", cfg), true)
}

func (b *Bot) handleRolesInfo(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	cfg, err := b.services.Guild.RolesInfo(ctx, actorFromInteraction(i))
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEmbed(s, i, rolesEmbed("🛡️ Настройки ролей", cfg), true)
}

func (b *Bot) handleMyTier(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	p, err := b.services.Players.MyTier(ctx, actorFromInteraction(i))
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEmbed(s, i, myTierEmbed(p), true)
}

func (b *Bot) handlePlayerInfo(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	userID := userOption(i, "user")

	p, err := b.services.Players.PlayerInfo(ctx, userID)
	if errors.Is(err, application.ErrPlayerNotFound) {
		b.respondMessage(s, i, fmt.Sprintf("❌ Информация об игроке %s не найдена.", userMention(userID)), true)
		return
	}
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEmbed(s, i, playerInfoEmbed(userID, p), false)
}

func (b *Bot) handleTierTop(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	limit := defaultTopLimit
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	board, err := b.services.Leaderboard.Top(ctx, limit)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEmbed(s, i, topEmbed(board, limit), false)
}

func (b *Bot) handleRemoveTier(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	userID := userOption(i, "user")

	_, err := b.services.Lifecycle.RemoveTier(ctx, actorFromInteraction(i), userID)
	if errors.Is(err, application.ErrNoTierAssigned) {
		b.respondMessage(s, i, fmt.Sprintf("❌ У пользователя %s нет присвоенного тира.", userMention(userID)), true)
		return
	}
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondMessage(s, i, fmt.Sprintf("✅ Тир снят с пользователя %s", userMention(userID)), false)
}

func (b *Bot) handleTierExport(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	if !b.deferReply(s, i, true) {
		return
	}

	data, err := b.services.Export.Workbook(ctx)
	if err != nil {
		b.logger.Error("export failed: %v", err)
		b.editReplyText(s, i, errorMessage(err))
		return
	}

	msg := "✅ Экспорт тиров готов!"
	b.editReply(s, i, &discordgo.WebhookEdit{
		Content: &msg,
		Files: []*discordgo.File{
			{Name: exportFileName, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Reader: bytes.NewReader(data)},
		},
	})
}

func (b *Bot) handleTierSyncSheet(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	if !b.deferReply(s, i, true) {
		return
	}

	url, err := b.services.Sheets.Sync(ctx)
	if err != nil {
		b.logError(i, err)
		b.editReplyText(s, i, errorMessage(err))
		return
	}
	b.editReplyText(s, i, fmt.Sprintf("✅ Таблица успешно обновлена!\nСсылка: %s", url))
}

func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	customID := i.MessageComponentData().CustomID
	action, ok := parseButton(customID)
	if !ok || i.Message == nil {
		b.logger.Warn("unhandled component %s", customID)
		return
	}

	c, registered := b.router.Lookup(i.Message.ID)
	if !registered {
		b.respondMessage(s, i, "❌ Эта кнопка больше не активна.", true)
		return
	}

	if action.apply {
		b.openApplicationForm(ctx, s, i, c)
		return
	}

	applicationID, decision, ok := decisionFor(c, action)
	if !ok {
		b.respondMessage(s, i, "❌ Заявка не найдена!", true)
		return
	}

	err := s.InteractionRespond(i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate})
	if err != nil {
		b.logger.Error("failed to acknowledge decision on application %d: %v", applicationID, err)
		return
	}

	if _, err := b.services.Lifecycle.Decide(ctx, actorFromInteraction(i), applicationID, decision); err != nil {
		if errors.Is(err, models.ErrPermissionDenied) {
			b.followupText(s, i, "❌ У вас нет прав для выдачи тиров!")
			return
		}
		b.followupError(s, i, err)
	}
}

func (b *Bot) openApplicationForm(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction, c models.Component) {
	if _, ok := c.(models.ApplicationButton); !ok {
		b.respondMessage(s, i, "❌ Эта кнопка больше не активна.", true)
		return
	}

	if err := b.services.Lifecycle.OpenForm(ctx, actorFromInteraction(i)); err != nil {
		b.respondMessage(s, i, submitErrorMessage(err), true)
		b.logError(i, err)
		return
	}

	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: applicationModal(),
	})
	if err != nil {
		b.logger.Error("failed to open application form: %v", err)
	}
}

func (b *Bot) handleModal(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	data := i.ModalSubmitData()
	if data.CustomID != customIDApplyModal {
		b.logger.Warn("unhandled modal %s", data.CustomID)
		return
	}
	if !b.deferReply(s, i, true) {
		return
	}

	app, err := b.services.Lifecycle.Submit(ctx, actorFromInteraction(i), formFromModal(data))
	if err != nil {
		b.logError(i, err)
		b.editReplyText(s, i, submitErrorMessage(err))
		return
	}
	b.editReplyText(s, i, fmt.Sprintf("✅ Ваша заявка на тир %s успешно отправлена! Ожидайте рассмотрения.", app.DesiredTier))
}

func (b *Bot) followupText(s *discordgo.Session, i *discordgo.Interaction, msg string) {
	_, err := s.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		b.logger.Error("failed to send followup for interaction %s: %v", i.ID, err)
	}
}

// submitErrorMessage words errors from the application form flow.
func submitErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		return "❌ У вас нет прав для подачи заявки!"
	case errors.Is(err, application.ErrChannelMissing):
		return "❌ Канал для заявок не найден! Обратитесь к администратору."
	default:
		return errorMessage(err)
	}
}

// channelOption returns the channel passed as name, or the channel the
// command was used in.
func channelOption(i *discordgo.Interaction, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionChannel {
			return opt.ChannelValue(nil).ID
		}
	}
	return i.ChannelID
}

func userOption(i *discordgo.Interaction, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(nil).ID
		}
	}
	return ""
}
