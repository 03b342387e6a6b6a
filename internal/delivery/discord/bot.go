package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"tierbot/internal/application"
	"tierbot/pkg/config"
)

const (
	interactionTimeout = 30 * time.Second
	restoreTimeout     = 2 * time.Minute
)

type InteractionMetrics interface {
	InteractionHandled(kind, name string)
}

type Bot struct {
	session  *discordgo.Session
	services *application.Service
	router   *ComponentRouter
	metrics  InteractionMetrics
	logger   application.Logger

	guildID  string
	commands []*discordgo.ApplicationCommand
	handlers map[string]interactionHandler

	ctx    context.Context
	cancel context.CancelFunc
}

func NewBot(cfg *config.Config, session *discordgo.Session, services *application.Service, router *ComponentRouter, metrics InteractionMetrics, logger application.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		session:  session,
		services: services,
		router:   router,
		metrics:  metrics,
		logger:   logger,
		guildID:  cfg.GuildID,
		handlers: make(map[string]interactionHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init connects to the gateway, registers the slash commands and restores
// the persisted interactive components.
func (b *Bot) Init() error {
	b.addCommand(b.newTierButtonCommand(), b.handleTierButton)
	b.addCommand(b.newSetApplicationsChannelCommand(), b.handleSetApplicationsChannel)
	b.addCommand(b.newSetupTierListCommand(), b.handleSetupTierList)
	b.addCommand(b.newSetupRolesCommand(), b.handleSetupRoles)
	b.addCommand(b.newRolesInfoCommand(), b.handleRolesInfo)
	b.addCommand(b.newMyTierCommand(), b.handleMyTier)
	b.addCommand(b.newPlayerInfoCommand(), b.handlePlayerInfo)
	b.addCommand(b.newTierTopCommand(), b.handleTierTop)
	b.addCommand(b.newRemoveTierCommand(), b.handleRemoveTier)
	b.addCommand(b.newTierExportCommand(), b.ensureAdmin(b.handleTierExport))
	b.addCommand(b.newTierSyncSheetCommand(), b.ensureAdmin(b.handleTierSyncSheet))

	b.session.Identify.Intents = discordgo.IntentsGuilds
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.Info("discord session opened as %s, registering %d slash commands", b.session.State.User.Username, len(b.commands))

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, b.commands); err != nil {
		b.session.Close()
		return fmt.Errorf("failed to register commands: %w", err)
	}

	ctx, cancel := context.WithTimeout(b.ctx, restoreTimeout)
	defer cancel()
	if _, err := b.services.Recovery.Restore(ctx); err != nil {
		b.logger.Error("failed to restore components: %v", err)
	}
	return nil
}

func (b *Bot) Run(ctx context.Context) {
	<-ctx.Done()
	b.cancel()
}

func (b *Bot) Stop() {
	b.cancel()
	if err := b.session.Close(); err != nil {
		b.logger.Error("failed to close discord session: %v", err)
	}
	b.router.Clear()
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(b.ctx, interactionTimeout)
	defer cancel()

	i := ic.Interaction
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		handler, ok := b.handlers[name]
		if !ok {
			b.logger.Warn("unknown command %s", name)
			return
		}
		b.metrics.InteractionHandled("command", name)
		handler(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.metrics.InteractionHandled("component", i.MessageComponentData().CustomID)
		b.handleComponent(ctx, s, i)
	case discordgo.InteractionModalSubmit:
		b.metrics.InteractionHandled("modal", i.ModalSubmitData().CustomID)
		b.handleModal(ctx, s, i)
	}
}
