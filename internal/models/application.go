package models

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Application struct {
	ID          int64             `json:"id" db:"id"`
	ApplicantID string            `json:"discord_id" db:"discord_id"`
	GuildID     string            `json:"guild_id" db:"guild_id"`
	GameID      string            `json:"game_id" db:"game_id"`
	Nickname    string            `json:"game_nickname" db:"game_nickname"`
	Clan        string            `json:"current_clan" db:"current_clan"`
	ProfileLink string            `json:"page_info" db:"page_info"`
	DesiredTier Tier              `json:"desired_tier" db:"desired_tier"`
	Status      ApplicationStatus `json:"status" db:"status"`
	ChannelID   string            `json:"channel_id" db:"channel_id"`
	MessageID   string            `json:"message_id" db:"message_id"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time        `json:"processed_at" db:"processed_at"`
	ProcessedBy string            `json:"processed_by" db:"processed_by"`
}

// HasPanel reports whether the decision panel for the application was posted.
func (a *Application) HasPanel() bool {
	return a.ChannelID != "" && a.MessageID != ""
}

// ApplicationForm is the raw modal input before validation.
type ApplicationForm struct {
	GameID      string
	Nickname    string
	Clan        string
	ProfileLink string
	DesiredTier string
}

// Decision is either an approval with a tier or a rejection.
type Decision struct {
	Approve bool
	Tier    Tier
}

func ApproveAs(t Tier) Decision {
	return Decision{Approve: true, Tier: t}
}

func Reject() Decision {
	return Decision{}
}

func (d Decision) Status() ApplicationStatus {
	if d.Approve {
		return StatusApproved
	}
	return StatusRejected
}
