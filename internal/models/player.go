package models

import "time"

type Player struct {
	DiscordID      string     `json:"discord_id" db:"discord_id"`
	GameID         string     `json:"game_id" db:"game_id"`
	Nickname       string     `json:"game_nickname" db:"game_nickname"`
	Clan           string     `json:"current_clan" db:"current_clan"`
	ProfileLink    string     `json:"page_info" db:"page_info"`
	Tier           Tier       `json:"tier" db:"tier"`
	TierAssignedAt *time.Time `json:"tier_assigned_at" db:"tier_assigned_at"`
	TierAssignedBy string     `json:"tier_assigned_by" db:"tier_assigned_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// TierAssignment is one row of the append-only tier change log.
// OldTier is empty when the player had no row before the change.
type TierAssignment struct {
	ID            int64     `json:"id" db:"id"`
	DiscordID     string    `json:"discord_id" db:"discord_id"`
	OldTier       Tier      `json:"old_tier" db:"old_tier"`
	NewTier       Tier      `json:"new_tier" db:"new_tier"`
	AssignedBy    string    `json:"assigned_by" db:"assigned_by"`
	AssignedAt    time.Time `json:"assigned_at" db:"assigned_at"`
	ApplicationID *int64    `json:"application_id" db:"application_id"`
}
