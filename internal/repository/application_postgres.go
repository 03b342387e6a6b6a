package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tierbot/internal/models"
)

type ApplicationPostgres struct {
	db *sql.DB
}

func NewApplicationPostgres(db *sql.DB) *ApplicationPostgres {
	return &ApplicationPostgres{db: db}
}

func (r *ApplicationPostgres) HasPending(ctx context.Context, applicantID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM applications WHERE discord_id = $1 AND status = $2)"
	err := r.db.QueryRowContext(ctx, query, applicantID, models.StatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending application: %w", err)
	}
	return exists, nil
}

func (r *ApplicationPostgres) CreateApplication(ctx context.Context, app *models.Application) (int64, error) {
	query := `INSERT INTO applications
		(discord_id, guild_id, game_id, game_nickname, current_clan, page_info, desired_tier, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		app.ApplicantID, app.GuildID, app.GameID, app.Nickname, app.Clan, app.ProfileLink,
		app.DesiredTier, models.StatusPending, app.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert application: %w", err)
	}
	return id, nil
}

func (r *ApplicationPostgres) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	query := `SELECT id, discord_id, guild_id, game_id, game_nickname, current_clan, page_info,
		desired_tier, status, channel_id, message_id, created_at, processed_at, processed_by
		FROM applications WHERE id = $1`

	var (
		a           models.Application
		channelID   sql.NullString
		messageID   sql.NullString
		processedAt sql.NullTime
		processedBy sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.ApplicantID, &a.GuildID, &a.GameID, &a.Nickname, &a.Clan, &a.ProfileLink,
		&a.DesiredTier, &a.Status, &channelID, &messageID, &a.CreatedAt, &processedAt, &processedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	a.ChannelID = channelID.String
	a.MessageID = messageID.String
	a.ProcessedBy = processedBy.String
	if processedAt.Valid {
		t := processedAt.Time
		a.ProcessedAt = &t
	}
	return &a, nil
}

func (r *ApplicationPostgres) AttachMessage(ctx context.Context, id int64, channelID, messageID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE applications SET channel_id = $2, message_id = $3 WHERE id = $1",
		id, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to attach message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ApplicationPostgres) Approve(ctx context.Context, id int64, tier models.Tier, processedBy string, at time.Time) (old models.Tier, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var app models.Application
	err = tx.QueryRowContext(ctx, `UPDATE applications
		SET status = $2, processed_at = $3, processed_by = $4
		WHERE id = $1 AND status = $5
		RETURNING discord_id, game_id, game_nickname, current_clan, page_info`,
		id, models.StatusApproved, at, processedBy, models.StatusPending,
	).Scan(&app.ApplicantID, &app.GameID, &app.Nickname, &app.Clan, &app.ProfileLink)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotPending
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to approve application: %w", err)
	}

	var prev sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT tier FROM players WHERE discord_id = $1 FOR UPDATE`, app.ApplicantID).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to lock player: %w", err)
	}
	old = models.Tier(prev.String)

	_, err = tx.ExecContext(ctx, `INSERT INTO players
		(discord_id, game_id, game_nickname, current_clan, page_info, tier, tier_assigned_at, tier_assigned_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7, $7)
		ON CONFLICT (discord_id) DO UPDATE SET
			game_id = EXCLUDED.game_id,
			game_nickname = EXCLUDED.game_nickname,
			current_clan = EXCLUDED.current_clan,
			page_info = EXCLUDED.page_info,
			tier = EXCLUDED.tier,
			tier_assigned_at = EXCLUDED.tier_assigned_at,
			tier_assigned_by = EXCLUDED.tier_assigned_by,
			updated_at = EXCLUDED.updated_at`,
		app.ApplicantID, app.GameID, app.Nickname, app.Clan, app.ProfileLink, tier, at, processedBy)
	if err != nil {
		return "", fmt.Errorf("failed to upsert player: %w", err)
	}

	appID := id
	if err = insertAssignment(ctx, tx, models.TierAssignment{
		DiscordID:     app.ApplicantID,
		OldTier:       old,
		NewTier:       tier,
		AssignedBy:    processedBy,
		AssignedAt:    at,
		ApplicationID: &appID,
	}); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return old, nil
}

func (r *ApplicationPostgres) Reject(ctx context.Context, id int64, processedBy string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $2, processed_at = $3, processed_by = $4
		WHERE id = $1 AND status = $5`,
		id, models.StatusRejected, at, processedBy, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotPending
	}
	return nil
}
