package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tierbot/internal/models"
)

type GuildPostgres struct {
	db *sql.DB
}

func NewGuildPostgres(db *sql.DB) *GuildPostgres {
	return &GuildPostgres{db: db}
}

func (r *GuildPostgres) GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	query := `SELECT guild_id, applications_channel_id, tier_list_channel_id, tier_list_message_id,
		allowed_roles, admin_roles, created_at, updated_at
		FROM guild_settings WHERE guild_id = $1`

	var (
		g                     models.GuildConfig
		intake, board, boardM sql.NullString
		allowed, admin        pq.StringArray
	)
	err := r.db.QueryRowContext(ctx, query, guildID).Scan(
		&g.GuildID, &intake, &board, &boardM, &allowed, &admin, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	g.ApplicationsChannelID = intake.String
	g.LeaderboardChannelID = board.String
	g.LeaderboardMessageID = boardM.String
	g.AllowedRoles = []string(allowed)
	g.AdminRoles = []string(admin)
	return &g, nil
}

func (r *GuildPostgres) SetApplicationsChannel(ctx context.Context, guildID, channelID string) error {
	query := `INSERT INTO guild_settings (guild_id, applications_channel_id) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET applications_channel_id = EXCLUDED.applications_channel_id, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to set applications channel: %w", err)
	}
	return nil
}

func (r *GuildPostgres) SetLeaderboard(ctx context.Context, guildID, channelID, messageID string) error {
	query := `INSERT INTO guild_settings (guild_id, tier_list_channel_id, tier_list_message_id) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id) DO UPDATE SET
			tier_list_channel_id = EXCLUDED.tier_list_channel_id,
			tier_list_message_id = EXCLUDED.tier_list_message_id,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, guildID, channelID, messageID); err != nil {
		return fmt.Errorf("failed to set tier list message: %w", err)
	}
	return nil
}

func (r *GuildPostgres) SetAllowedRoles(ctx context.Context, guildID string, roles []string) error {
	query := `INSERT INTO guild_settings (guild_id, allowed_roles) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET allowed_roles = EXCLUDED.allowed_roles, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, guildID, pq.StringArray(nonNil(roles))); err != nil {
		return fmt.Errorf("failed to set allowed roles: %w", err)
	}
	return nil
}

func (r *GuildPostgres) SetAdminRoles(ctx context.Context, guildID string, roles []string) error {
	query := `INSERT INTO guild_settings (guild_id, admin_roles) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET admin_roles = EXCLUDED.admin_roles, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, guildID, pq.StringArray(nonNil(roles))); err != nil {
		return fmt.Errorf("failed to set admin roles: %w", err)
	}
	return nil
}

// nonNil keeps an empty list from being stored as NULL.
func nonNil(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}
