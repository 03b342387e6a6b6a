package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tierbot/internal/models"
)

var (
	// ErrNotPending is returned when a status transition finds the application
	// already decided.
	ErrNotPending = errors.New("application is not pending")
	// ErrNotRanked is returned when a tier removal finds no ranked player.
	ErrNotRanked = errors.New("player has no tier")
)

type Player interface {
	GetPlayer(ctx context.Context, discordID string) (*models.Player, error)
	// ListRanked returns ranked players ordered by tier, then by assignment
	// time. A limit of zero or less returns everyone.
	ListRanked(ctx context.Context, limit int) ([]models.Player, error)
	ClearTier(ctx context.Context, discordID, assignedBy string, at time.Time) (models.Tier, error)
	ListAssignments(ctx context.Context, limit int) ([]models.TierAssignment, error)
}

type Application interface {
	HasPending(ctx context.Context, applicantID string) (bool, error)
	CreateApplication(ctx context.Context, app *models.Application) (int64, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	AttachMessage(ctx context.Context, id int64, channelID, messageID string) error
	// Approve marks the application approved and assigns the tier in one
	// transaction. It returns the player's previous tier.
	Approve(ctx context.Context, id int64, tier models.Tier, processedBy string, at time.Time) (models.Tier, error)
	Reject(ctx context.Context, id int64, processedBy string, at time.Time) error
}

type Guild interface {
	GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error)
	SetApplicationsChannel(ctx context.Context, guildID, channelID string) error
	SetLeaderboard(ctx context.Context, guildID, channelID, messageID string) error
	SetAllowedRoles(ctx context.Context, guildID string, roles []string) error
	SetAdminRoles(ctx context.Context, guildID string, roles []string) error
}

type Component interface {
	SaveComponent(ctx context.Context, c models.PersistedComponent) error
	ListComponents(ctx context.Context) ([]models.PersistedComponent, error)
	DeleteComponent(ctx context.Context, messageID string) error
}

type Repository struct {
	Player
	Application
	Guild
	Component
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Player:      NewPlayerPostgres(db),
		Application: NewApplicationPostgres(db),
		Guild:       NewGuildPostgres(db),
		Component:   NewComponentPostgres(db),
		db:          db,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
