package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tierbot/internal/models"
)

type PlayerPostgres struct {
	db *sql.DB
}

func NewPlayerPostgres(db *sql.DB) *PlayerPostgres {
	return &PlayerPostgres{db: db}
}

const playerColumns = `discord_id, game_id, game_nickname, current_clan, page_info, tier,
	tier_assigned_at, tier_assigned_by, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*models.Player, error) {
	var (
		p          models.Player
		assignedAt sql.NullTime
		assignedBy sql.NullString
	)
	err := row.Scan(&p.DiscordID, &p.GameID, &p.Nickname, &p.Clan, &p.ProfileLink, &p.Tier,
		&assignedAt, &assignedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		p.TierAssignedAt = &t
	}
	p.TierAssignedBy = assignedBy.String
	return &p, nil
}

func (r *PlayerPostgres) GetPlayer(ctx context.Context, discordID string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE discord_id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, discordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

func (r *PlayerPostgres) ListRanked(ctx context.Context, limit int) ([]models.Player, error) {
	// Ranked tiers are T1..T5, so lexical order on tier is rank order.
	query := `SELECT ` + playerColumns + ` FROM players
		WHERE tier <> $1
		ORDER BY tier ASC, tier_assigned_at ASC NULLS LAST, discord_id ASC
		LIMIT NULLIF($2, 0)`

	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.QueryContext(ctx, query, models.TierUnranked, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

func (r *PlayerPostgres) ClearTier(ctx context.Context, discordID, assignedBy string, at time.Time) (old models.Tier, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `SELECT tier FROM players WHERE discord_id = $1 FOR UPDATE`, discordID).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !old.Ranked()) {
		err = ErrNotRanked
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to lock player: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE players
		SET tier = $2, tier_assigned_at = $3, tier_assigned_by = $4, updated_at = $3
		WHERE discord_id = $1`, discordID, models.TierUnranked, at, assignedBy)
	if err != nil {
		return "", fmt.Errorf("failed to clear tier: %w", err)
	}

	if err = insertAssignment(ctx, tx, models.TierAssignment{
		DiscordID:  discordID,
		OldTier:    old,
		NewTier:    models.TierUnranked,
		AssignedBy: assignedBy,
		AssignedAt: at,
	}); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return old, nil
}

func (r *PlayerPostgres) ListAssignments(ctx context.Context, limit int) ([]models.TierAssignment, error) {
	query := `SELECT id, discord_id, old_tier, new_tier, assigned_by, assigned_at, application_id
		FROM tier_assignments ORDER BY assigned_at DESC, id DESC LIMIT NULLIF($1, 0)`

	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier assignments: %w", err)
	}
	defer rows.Close()

	var entries []models.TierAssignment
	for rows.Next() {
		var (
			e     models.TierAssignment
			old   sql.NullString
			appID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.DiscordID, &old, &e.NewTier, &e.AssignedBy, &e.AssignedAt, &appID); err != nil {
			return nil, fmt.Errorf("failed to scan tier assignment: %w", err)
		}
		e.OldTier = models.Tier(old.String)
		if appID.Valid {
			id := appID.Int64
			e.ApplicationID = &id
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tier assignments: %w", err)
	}
	return entries, nil
}

func insertAssignment(ctx context.Context, tx *sql.Tx, e models.TierAssignment) error {
	var appID sql.NullInt64
	if e.ApplicationID != nil {
		appID = sql.NullInt64{Int64: *e.ApplicationID, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `INSERT INTO tier_assignments
		(discord_id, old_tier, new_tier, assigned_by, assigned_at, application_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.DiscordID, nullString(string(e.OldTier)), e.NewTier, e.AssignedBy, e.AssignedAt, appID)
	if err != nil {
		return fmt.Errorf("failed to insert tier assignment: %w", err)
	}
	return nil
}
