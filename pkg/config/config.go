package config

import (
	"tierbot/internal/repository"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo         repository.Config `envPrefix:"REPO_"`
	DiscordToken string            `env:"DISCORD_TOKEN,notEmpty"`
	// GuildID scopes slash command registration. Empty registers global commands.
	GuildID  string `env:"DISCORD_GUILD_ID" envDefault:""`
	LogLevel string `env:"LOGGER_LEVEL" envDefault:"debug"`

	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Google   Google   `envPrefix:"GOOGLE_"`

	SheetsSyncCron string `env:"SHEETS_SYNC_CRON" envDefault:""`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:""`
}

type Telegram struct {
	Token  string `env:"TOKEN" envDefault:""`
	ChatID int64  `env:"CHAT_ID" envDefault:"0"`
}

func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type Google struct {
	CredentialsPath string `env:"CREDENTIALS_PATH" envDefault:""`
	SpreadsheetID   string `env:"SPREADSHEET_ID" envDefault:""`
	OwnerEmail      string `env:"OWNER_EMAIL" envDefault:""`
}

func (g Google) Enabled() bool {
	return g.CredentialsPath != ""
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}
