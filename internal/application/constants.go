package application

const (
	// Application form limits, counted in characters
	maxGameIDLength      = 100
	maxNicknameLength    = 100
	maxClanLength        = 100
	maxProfileLinkLength = 200

	// Leaderboard
	boardEntriesPerTier = 15
	topEntriesPerTier   = 10
	minTopLimit         = 1
	maxTopLimit         = 100

	// Excel export
	exportPlayersSheet = "Тиры"
	exportHistorySheet = "История"
	exportHistoryLimit = 500

	// Google Sheets
	defaultSheetTitle    = "Tier List"
	defaultClearRange    = "A1:Z1000"
	defaultStartCell     = "A1"
	sheetsOwnerRole      = "writer"
	spreadsheetURLFormat = "https://docs.google.com/spreadsheets/d/%s"

	// Role setup keyword that clears a list
	rolesClearKeyword = "none"

	// Metric outcomes
	outcomeOK         = "ok"
	outcomeRejected   = "rejected"
	outcomeFailed     = "failed"
	outcomeEdited     = "edited"
	outcomeReposted   = "reposted"
	outcomeSkipped    = "skipped"
	outcomeRestored   = "restored"
	outcomeRemoved    = "removed"
	outcomeDuplicate  = "duplicate"
	outcomeUnrouted   = "unrouted"
	outcomeLostRace   = "already_processed"
	outcomeNoTierList = "no_tier_list"
)
