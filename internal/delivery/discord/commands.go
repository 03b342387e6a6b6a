package discord

import "github.com/bwmarrin/discordgo"

var adminPermission = int64(discordgo.PermissionAdministrator)

func (b *Bot) addCommand(cmd *discordgo.ApplicationCommand, handler interactionHandler) {
	b.commands = append(b.commands, cmd)
	b.handlers[cmd.Name] = handler
}

func (b *Bot) newTierButtonCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "tier_button",
		Description: "Разместить кнопку подачи заявки на тир",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Канал для кнопки (по умолчанию текущий)", Required: false},
		},
	}
}

func (b *Bot) newSetApplicationsChannelCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "set_applications_channel",
		Description:              "Установить канал для заявок на тир (Только админы)",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Канал для заявок", Required: true},
		},
	}
}

func (b *Bot) newSetupTierListCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setup_tierlist",
		Description:              "Разместить автообновляемый список тиров (Только админы)",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Канал для списка (по умолчанию текущий)", Required: false},
		},
	}
}

func (b *Bot) newSetupRolesCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setup_roles",
		Description:              "Настроить роли для бота (Только админы)",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "allowed_roles", Description: "Роли для использования бота через пробел, none - все", Required: false},
			{Type: discordgo.ApplicationCommandOptionString, Name: "admin_roles", Description: "Роли для выдачи тиров через пробел, none - только админы", Required: false},
		},
	}
}

func (b *Bot) newRolesInfoCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "roles_info",
		Description:              "Показать настройки ролей (Только админы)",
		DefaultMemberPermissions: &adminPermission,
	}
}

func (b *Bot) newMyTierCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "my_tier",
		Description: "Показать ваш текущий тир",
	}
}

func (b *Bot) newPlayerInfoCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "player_info",
		Description: "Информация об игроке",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Пользователь", Required: true},
		},
	}
}

func (b *Bot) newTierTopCommand() *discordgo.ApplicationCommand {
	minLimit := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        "tier_top",
		Description: "Топ игроков по тирам",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "limit",
				Description: "Количество игроков (1-100, по умолчанию 20)",
				Required:    false,
				MinValue:    &minLimit,
				MaxValue:    100,
			},
		},
	}
}

func (b *Bot) newRemoveTierCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "remove_tier",
		Description: "Снять тир с пользователя",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Пользователь", Required: true},
		},
	}
}

func (b *Bot) newTierExportCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "tier_export",
		Description: "Экспорт тиров в Excel",
	}
}

func (b *Bot) newTierSyncSheetCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "tier_sync_sheet",
		Description: "Синхронизация тиров с Google Sheet",
	}
}
