package application

import (
	"context"
	"time"

	"tierbot/internal/models"
	"tierbot/internal/repository"
	"tierbot/pkg/sheets"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Metrics receives lifecycle events. Implementations must tolerate being
// called from several goroutines.
type Metrics interface {
	ApplicationSubmitted(outcome string)
	ApplicationDecided(outcome string)
	TierRemoved()
	LeaderboardRefreshed(outcome string)
	ComponentRestored(outcome string)
}

// Notifier posts and edits the chat messages that belong to an application.
// A missing channel or message is reported as models.ErrNotFound.
type Notifier interface {
	PostApplicationButton(ctx context.Context, channelID string) (messageID string, err error)
	PostApplication(ctx context.Context, channelID string, app *models.Application) (messageID string, err error)
	ClosePanel(ctx context.Context, app *models.Application, d models.Decision) error
	NotifyDecision(ctx context.Context, app *models.Application, d models.Decision) error
	NotifyTierRemoved(ctx context.Context, userID, actorID string) error
}

type BoardPublisher interface {
	PublishBoard(ctx context.Context, channelID string, board *TierBoard) (messageID string, err error)
	EditBoard(ctx context.Context, channelID, messageID string, board *TierBoard) error
}

type ComponentResolver interface {
	ResolveChannel(ctx context.Context, channelID string) error
	ResolveMessage(ctx context.Context, channelID, messageID string) error
}

type ComponentRegistry interface {
	Register(messageID string, c models.Component)
	Unregister(messageID string)
}

type TierChange struct {
	DiscordID string
	Nickname  string
	OldTier   models.Tier
	NewTier   models.Tier
	ActorID   string
}

type Announcer interface {
	AnnounceTier(ctx context.Context, change TierChange) error
}

type PermissionService interface {
	Authorize(ctx context.Context, actor models.Actor, class PermissionClass) error
}

type LifecycleService interface {
	OpenForm(ctx context.Context, actor models.Actor) error
	Submit(ctx context.Context, actor models.Actor, form models.ApplicationForm) (*models.Application, error)
	Decide(ctx context.Context, actor models.Actor, applicationID int64, d models.Decision) (*models.Application, error)
	RemoveTier(ctx context.Context, actor models.Actor, targetID string) (models.Tier, error)
	PublishApplicationButton(ctx context.Context, actor models.Actor, channelID string) error
}

type LeaderboardService interface {
	Refresh(ctx context.Context, guildID string) error
	Publish(ctx context.Context, actor models.Actor, channelID string) error
	Top(ctx context.Context, limit int) (*TierBoard, error)
}

type RecoveryService interface {
	Restore(ctx context.Context) (RestoreReport, error)
}

type GuildService interface {
	SetApplicationsChannel(ctx context.Context, actor models.Actor, channelID string) error
	SetupRoles(ctx context.Context, actor models.Actor, update RoleUpdate, known []string) (*models.GuildConfig, error)
	RolesInfo(ctx context.Context, actor models.Actor) (*models.GuildConfig, error)
}

type PlayerService interface {
	MyTier(ctx context.Context, actor models.Actor) (*models.Player, error)
	PlayerInfo(ctx context.Context, userID string) (*models.Player, error)
}

type ExportService interface {
	Workbook(ctx context.Context) ([]byte, error)
}

type SheetsService interface {
	Sync(ctx context.Context) (string, error)
}

// Deps groups the outbound adapters the services talk to. Announcer and
// Sheets are optional.
type Deps struct {
	Notifier  Notifier
	Publisher BoardPublisher
	Resolver  ComponentResolver
	Registry  ComponentRegistry
	Announcer Announcer
	Metrics   Metrics

	Sheets        sheets.Client
	SpreadsheetID string
	OwnerEmail    string

	Clock func() time.Time
}

type Service struct {
	Permissions PermissionService
	Lifecycle   LifecycleService
	Leaderboard LeaderboardService
	Recovery    RecoveryService
	Guild       GuildService
	Players     PlayerService
	Export      ExportService
	Sheets      SheetsService
}

func NewService(repos *repository.Repository, deps Deps, logger Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}

	perms := NewPermissionServiceImpl(repos.Guild)
	board := NewLeaderboardServiceImpl(repos.Player, repos.Guild, deps.Publisher, deps.Metrics, deps.Clock, logger)

	return &Service{
		Permissions: perms,
		Lifecycle:   NewLifecycleServiceImpl(repos, perms, board, deps, logger),
		Leaderboard: board,
		Recovery:    NewRecoveryServiceImpl(repos.Component, deps.Resolver, deps.Registry, deps.Metrics, logger),
		Guild:       NewGuildServiceImpl(repos.Guild),
		Players:     NewPlayerServiceImpl(repos.Player, perms),
		Export:      NewExportServiceImpl(repos.Player, deps.Clock),
		Sheets:      NewSheetsServiceImpl(deps.Sheets, repos.Player, deps.SpreadsheetID, deps.OwnerEmail, logger),
	}
}

type noopMetrics struct{}

func (noopMetrics) ApplicationSubmitted(string) {}
func (noopMetrics) ApplicationDecided(string)   {}
func (noopMetrics) TierRemoved()                {}
func (noopMetrics) LeaderboardRefreshed(string) {}
func (noopMetrics) ComponentRestored(string)    {}
