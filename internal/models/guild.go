package models

import "time"

type GuildConfig struct {
	GuildID               string    `json:"guild_id" db:"guild_id"`
	ApplicationsChannelID string    `json:"applications_channel_id" db:"applications_channel_id"`
	LeaderboardChannelID  string    `json:"tier_list_channel_id" db:"tier_list_channel_id"`
	LeaderboardMessageID  string    `json:"tier_list_message_id" db:"tier_list_message_id"`
	AllowedRoles          []string  `json:"allowed_roles" db:"allowed_roles"`
	AdminRoles            []string  `json:"admin_roles" db:"admin_roles"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

func (g *GuildConfig) HasIntake() bool {
	return g != nil && g.ApplicationsChannelID != ""
}

func (g *GuildConfig) HasLeaderboard() bool {
	return g != nil && g.LeaderboardChannelID != "" && g.LeaderboardMessageID != ""
}

// Actor is the guild member behind an interaction.
type Actor struct {
	UserID        string
	GuildID       string
	Roles         []string
	Administrator bool
	ManageRoles   bool
}
