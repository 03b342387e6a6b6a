package main

import (
	"context"
	"embed"

	"tierbot/internal/application"
	"tierbot/internal/delivery/discord"
	"tierbot/internal/delivery/telegram"
	"tierbot/internal/repository"
	"tierbot/internal/scheduler"
	"tierbot/pkg/config"
	"tierbot/pkg/logger"
	"tierbot/pkg/metrics"
	service "tierbot/pkg/services"
	"tierbot/pkg/sheets"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, &cfg.Repo)
	if err != nil {
		log.Error("failed to init db: %s", err.Error())
		return
	}
	defer db.Close()

	log.Info("Running migrations...")
	if err := repository.RunMigrations(db, migrationFS); err != nil {
		log.Error("failed to run migrations: %s", err.Error())
		return
	}
	log.Info("Migrations applied successfully")

	repos := repository.NewRepository(db)
	m := metrics.New()

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Error("failed to create discord session: %s", err.Error())
		return
	}
	gateway := discord.NewGateway(session)
	router := discord.NewComponentRouter()

	deps := application.Deps{
		Notifier:      gateway,
		Publisher:     gateway,
		Resolver:      gateway,
		Registry:      router,
		Metrics:       m,
		SpreadsheetID: cfg.Google.SpreadsheetID,
		OwnerEmail:    cfg.Google.OwnerEmail,
	}

	if cfg.Telegram.Enabled() {
		announcer, err := telegram.NewAnnouncer(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
		if err != nil {
			log.Warn("telegram announcements disabled: %s", err.Error())
		} else {
			deps.Announcer = announcer
		}
	}

	if cfg.Google.Enabled() {
		client, err := sheets.NewGoogleSheetsClient(ctx, cfg.Google.CredentialsPath)
		if err != nil {
			log.Warn("google sheets disabled: %s", err.Error())
		} else {
			deps.Sheets = client
		}
	}

	services := application.NewService(repos, deps, log)

	manager := service.NewManager(log)
	manager.AddService(discord.NewBot(&cfg, session, services, router, m, log))
	if cfg.SheetsSyncCron != "" {
		manager.AddService(scheduler.NewSheetsSync(cfg.SheetsSyncCron, services.Sheets, log))
	}
	if cfg.MetricsAddr != "" {
		manager.AddService(metrics.NewServer(cfg.MetricsAddr, m, log))
	}

	if err := manager.Run(ctx); err != nil {
		log.Error("failed to start services: %s", err.Error())
		return
	}
	log.Info("Bot Stopped")
}
