package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tierbot/internal/models"
)

type ComponentPostgres struct {
	db *sql.DB
}

func NewComponentPostgres(db *sql.DB) *ComponentPostgres {
	return &ComponentPostgres{db: db}
}

func (r *ComponentPostgres) SaveComponent(ctx context.Context, c models.PersistedComponent) error {
	var payload any
	if len(c.Payload) > 0 {
		payload = []byte(c.Payload)
	}

	query := `INSERT INTO persistent_views (message_id, channel_id, guild_id, view_type, view_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (message_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			guild_id = EXCLUDED.guild_id,
			view_type = EXCLUDED.view_type,
			view_data = EXCLUDED.view_data`
	_, err := r.db.ExecContext(ctx, query, c.MessageID, c.ChannelID, c.GuildID, c.Kind, payload, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save component: %w", err)
	}
	return nil
}

func (r *ComponentPostgres) ListComponents(ctx context.Context) ([]models.PersistedComponent, error) {
	query := `SELECT message_id, channel_id, guild_id, view_type, view_data, created_at
		FROM persistent_views ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var out []models.PersistedComponent
	for rows.Next() {
		var (
			c       models.PersistedComponent
			payload []byte
		)
		if err := rows.Scan(&c.MessageID, &c.ChannelID, &c.GuildID, &c.Kind, &payload, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		c.Payload = payload
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate components: %w", err)
	}
	return out, nil
}

func (r *ComponentPostgres) DeleteComponent(ctx context.Context, messageID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM persistent_views WHERE message_id = $1", messageID); err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}
	return nil
}
