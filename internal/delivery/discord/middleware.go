package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"tierbot/internal/application"
	"tierbot/internal/models"
)

type interactionHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction)

func (b *Bot) respondMessage(s *discordgo.Session, i *discordgo.Interaction, msg string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	})
	if err != nil {
		b.logger.Error("failed to respond to interaction %s: %v", i.ID, err)
	}
}

func (b *Bot) respondEmbed(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
	if err != nil {
		b.logger.Error("failed to respond to interaction %s: %v", i.ID, err)
	}
}

func (b *Bot) respondError(s *discordgo.Session, i *discordgo.Interaction, err error) {
	b.logError(i, err)
	b.respondMessage(s, i, errorMessage(err), true)
}

// deferReply acknowledges the interaction. The answer is sent later with editReply.
func (b *Bot) deferReply(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool) bool {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Error("failed to defer interaction %s: %v", i.ID, err)
		return false
	}
	return true
}

func (b *Bot) editReply(s *discordgo.Session, i *discordgo.Interaction, edit *discordgo.WebhookEdit) {
	if _, err := s.InteractionResponseEdit(i, edit); err != nil {
		b.logger.Error("failed to edit response of interaction %s: %v", i.ID, err)
	}
}

func (b *Bot) editReplyText(s *discordgo.Session, i *discordgo.Interaction, msg string) {
	b.editReply(s, i, &discordgo.WebhookEdit{Content: &msg})
}

// followupError reports a failure after the interaction was already acknowledged.
func (b *Bot) followupError(s *discordgo.Session, i *discordgo.Interaction, err error) {
	b.logError(i, err)
	_, ferr := s.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: errorMessage(err),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if ferr != nil {
		b.logger.Error("failed to send followup for interaction %s: %v", i.ID, ferr)
	}
}

func (b *Bot) logError(i *discordgo.Interaction, err error) {
	if isUserError(err) {
		b.logger.Debug("interaction %s rejected: %v", i.ID, err)
		return
	}
	b.logger.Error("interaction %s failed: %v", i.ID, err)
}

// ensureAdmin runs handler only for members of the admin permission class.
func (b *Bot) ensureAdmin(handler interactionHandler) interactionHandler {
	return func(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
		if err := b.services.Permissions.Authorize(ctx, actorFromInteraction(i), application.ClassAdmin); err != nil {
			b.respondError(s, i, err)
			return
		}
		handler(ctx, s, i)
	}
}

// actorFromInteraction describes the member behind i. Outside a guild the
// actor has no roles and no permissions.
func actorFromInteraction(i *discordgo.Interaction) models.Actor {
	if i.Member == nil {
		a := models.Actor{GuildID: i.GuildID}
		if i.User != nil {
			a.UserID = i.User.ID
		}
		return a
	}

	a := models.Actor{
		GuildID:       i.GuildID,
		Roles:         i.Member.Roles,
		Administrator: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		ManageRoles:   i.Member.Permissions&discordgo.PermissionManageRoles != 0,
	}
	if i.Member.User != nil {
		a.UserID = i.Member.User.ID
	}
	return a
}

func isUserError(err error) bool {
	for _, class := range []error{
		models.ErrValidation,
		models.ErrPermissionDenied,
		models.ErrNotFound,
		models.ErrConflict,
		models.ErrConfigurationMissing,
	} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}

// errorMessage is the reply shown to the member for err.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidTier):
		return "❌ Неверный тир! Доступные тиры: T1, T2, T3, T4, T5"
	case errors.Is(err, application.ErrInvalidForm):
		return "❌ Проверьте форму: ID и ник обязательны, длина полей ограничена."
	case errors.Is(err, application.ErrInvalidLimit):
		return "❌ Лимит должен быть от 1 до 100!"
	case errors.Is(err, application.ErrUnknownRole):
		return "❌ Указанная роль не найдена на сервере!"
	case errors.Is(err, models.ErrValidation):
		return "❌ Неверный формат! Укажите роли через пробел или none."
	case errors.Is(err, models.ErrPermissionDenied):
		return "❌ У вас нет прав для использования этой команды!"
	case errors.Is(err, application.ErrApplicationNotFound):
		return "❌ Заявка не найдена!"
	case errors.Is(err, application.ErrNoTierAssigned):
		return "❌ У вас пока нет присвоенного тира. Подайте заявку!"
	case errors.Is(err, application.ErrChannelMissing):
		return "❌ Канал не найден! Обратитесь к администратору."
	case errors.Is(err, application.ErrAlreadyProcessed):
		return "❌ Эта заявка уже была обработана!"
	case errors.Is(err, application.ErrDuplicatePending):
		return "❌ У вас уже есть активная заявка! Дождитесь рассмотрения."
	case errors.Is(err, application.ErrChannelNotConfigured):
		return "❌ Канал для заявок не настроен! Обратитесь к администратору."
	case errors.Is(err, application.ErrSheetsNotConfigured):
		return "❌ Google Sheets не настроен."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
