package discord

const (
	// Component custom ids
	customIDApply       = "tier_apply"
	customIDAssign      = "tier_assign:"
	customIDReject      = "tier_reject"
	customIDApplyModal  = "tier_application_modal"
	modalFieldGameID    = "game_id"
	modalFieldNickname  = "nickname"
	modalFieldClan      = "clan"
	modalFieldProfile   = "profile_link"
	modalFieldTier      = "desired_tier"
	maxTierInputLength  = 2
	defaultTopLimit     = 20
	exportFileName      = "tiers.xlsx"

	// Embed colors
	colorT1    = 0xFFD700 // gold
	colorT2    = 0xC0C0C0 // silver
	colorT3    = 0xCD7F32 // bronze
	colorT4    = 0x4169E1 // royal blue
	colorT5    = 0x32CD32 // lime green
	colorInfo  = 0x0099FF
	colorError = 0xFF0000

	// Discord limits
	maxEmbedFieldLength = 1024
)
