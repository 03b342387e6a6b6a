package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

type boardRefresher interface {
	Refresh(ctx context.Context, guildID string) error
}

type LifecycleServiceImpl struct {
	apps       repository.Application
	players    repository.Player
	guilds     repository.Guild
	components repository.Component

	perms     PermissionService
	board     boardRefresher
	notifier  Notifier
	registry  ComponentRegistry
	announcer Announcer
	metrics   Metrics
	now       func() time.Time
	logger    Logger
}

func NewLifecycleServiceImpl(repos *repository.Repository, perms PermissionService, board boardRefresher, deps Deps, logger Logger) *LifecycleServiceImpl {
	return &LifecycleServiceImpl{
		apps:       repos.Application,
		players:    repos.Player,
		guilds:     repos.Guild,
		components: repos.Component,
		perms:      perms,
		board:      board,
		notifier:   deps.Notifier,
		registry:   deps.Registry,
		announcer:  deps.Announcer,
		metrics:    deps.Metrics,
		now:        deps.Clock,
		logger:     logger,
	}
}

// OpenForm runs the checks that happen before the application form is shown.
func (s *LifecycleServiceImpl) OpenForm(ctx context.Context, actor models.Actor) error {
	if err := s.perms.Authorize(ctx, actor, ClassGeneral); err != nil {
		return err
	}

	pending, err := s.apps.HasPending(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if pending {
		return ErrDuplicatePending
	}
	return nil
}

// Submit records a new application and posts its decision panel to the
// guild's intake channel. The pending check and the insert are separate
// statements, so two concurrent submissions from one user can both succeed.
//
// When the application was stored but could not be posted, Submit returns
// the stored application together with the error.
func (s *LifecycleServiceImpl) Submit(ctx context.Context, actor models.Actor, form models.ApplicationForm) (*models.Application, error) {
	tier, ok := models.ParseTier(form.DesiredTier)
	if !ok {
		s.metrics.ApplicationSubmitted(outcomeRejected)
		return nil, ErrInvalidTier
	}
	if err := validateForm(form); err != nil {
		s.metrics.ApplicationSubmitted(outcomeRejected)
		return nil, err
	}

	pending, err := s.apps.HasPending(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if pending {
		s.metrics.ApplicationSubmitted(outcomeDuplicate)
		return nil, ErrDuplicatePending
	}

	app := &models.Application{
		ApplicantID: actor.UserID,
		GuildID:     actor.GuildID,
		GameID:      strings.TrimSpace(form.GameID),
		Nickname:    strings.TrimSpace(form.Nickname),
		Clan:        strings.TrimSpace(form.Clan),
		ProfileLink: strings.TrimSpace(form.ProfileLink),
		DesiredTier: tier,
		Status:      models.StatusPending,
		CreatedAt:   s.now(),
	}
	id, err := s.apps.CreateApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = id

	cfg, err := s.guilds.GetGuildConfig(ctx, actor.GuildID)
	if err != nil {
		return app, fmt.Errorf("failed to load guild settings: %w", err)
	}
	if !cfg.HasIntake() {
		s.metrics.ApplicationSubmitted(outcomeUnrouted)
		return app, ErrChannelNotConfigured
	}

	messageID, err := s.notifier.PostApplication(ctx, cfg.ApplicationsChannelID, app)
	if err != nil {
		s.metrics.ApplicationSubmitted(outcomeUnrouted)
		if errors.Is(err, models.ErrNotFound) {
			return app, ErrChannelMissing
		}
		return app, fmt.Errorf("failed to post application: %w", err)
	}
	app.ChannelID = cfg.ApplicationsChannelID
	app.MessageID = messageID

	if err := s.apps.AttachMessage(ctx, app.ID, app.ChannelID, app.MessageID); err != nil {
		s.logger.Error("failed to attach panel to application %d: %v", app.ID, err)
	}
	s.track(ctx, app.GuildID, app.ChannelID, app.MessageID, models.DecisionPanel{ApplicationID: app.ID})

	s.metrics.ApplicationSubmitted(outcomeOK)
	s.logger.Info("application %d submitted by %s for %s", app.ID, app.ApplicantID, app.DesiredTier)
	return app, nil
}

// Decide approves or rejects a pending application. Work after the status
// change is best effort and never fails a committed decision.
func (s *LifecycleServiceImpl) Decide(ctx context.Context, actor models.Actor, applicationID int64, d models.Decision) (*models.Application, error) {
	if d.Approve && !d.Tier.Ranked() {
		return nil, ErrInvalidTier
	}
	if err := s.perms.Authorize(ctx, actor, ClassAdmin); err != nil {
		return nil, err
	}

	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.GuildID != actor.GuildID {
		return nil, ErrForbidden
	}
	if app.Status != models.StatusPending {
		s.metrics.ApplicationDecided(outcomeLostRace)
		return app, ErrAlreadyProcessed
	}

	now := s.now()
	var oldTier models.Tier
	if d.Approve {
		oldTier, err = s.apps.Approve(ctx, app.ID, d.Tier, actor.UserID, now)
	} else {
		err = s.apps.Reject(ctx, app.ID, actor.UserID, now)
	}
	if errors.Is(err, repository.ErrNotPending) {
		s.metrics.ApplicationDecided(outcomeLostRace)
		return app, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, err
	}

	app.Status = d.Status()
	app.ProcessedAt = &now
	app.ProcessedBy = actor.UserID
	s.metrics.ApplicationDecided(string(app.Status))
	s.logger.Info("application %d %s by %s", app.ID, app.Status, actor.UserID)

	s.afterDecision(ctx, app, d, oldTier)
	return app, nil
}

func (s *LifecycleServiceImpl) afterDecision(ctx context.Context, app *models.Application, d models.Decision, oldTier models.Tier) {
	if app.HasPanel() {
		if err := s.notifier.ClosePanel(ctx, app, d); err != nil {
			s.logger.Warn("failed to close panel of application %d: %v", app.ID, err)
		}
		s.untrack(ctx, app.MessageID)
	}

	if d.Approve {
		if err := s.board.Refresh(ctx, app.GuildID); err != nil {
			s.logger.Warn("failed to refresh tier list of guild %s: %v", app.GuildID, err)
		}
		s.announce(ctx, TierChange{
			DiscordID: app.ApplicantID,
			Nickname:  app.Nickname,
			OldTier:   oldTier,
			NewTier:   d.Tier,
			ActorID:   app.ProcessedBy,
		})
	}

	if err := s.notifier.NotifyDecision(ctx, app, d); err != nil {
		s.logger.Debug("could not notify %s about application %d: %v", app.ApplicantID, app.ID, err)
	}
}

// RemoveTier resets a player to unranked. Guild admins and members with the
// Manage Roles permission may do this.
func (s *LifecycleServiceImpl) RemoveTier(ctx context.Context, actor models.Actor, targetID string) (models.Tier, error) {
	if !actor.ManageRoles {
		if err := s.perms.Authorize(ctx, actor, ClassAdmin); err != nil {
			return "", err
		}
	}

	old, err := s.players.ClearTier(ctx, targetID, actor.UserID, s.now())
	if errors.Is(err, repository.ErrNotRanked) {
		return "", ErrNoTierAssigned
	}
	if err != nil {
		return "", err
	}
	s.metrics.TierRemoved()
	s.logger.Info("tier %s removed from %s by %s", old, targetID, actor.UserID)

	if err := s.board.Refresh(ctx, actor.GuildID); err != nil {
		s.logger.Warn("failed to refresh tier list of guild %s: %v", actor.GuildID, err)
	}
	if err := s.notifier.NotifyTierRemoved(ctx, targetID, actor.UserID); err != nil {
		s.logger.Debug("could not notify %s about tier removal: %v", targetID, err)
	}
	s.announce(ctx, TierChange{
		DiscordID: targetID,
		OldTier:   old,
		NewTier:   models.TierUnranked,
		ActorID:   actor.UserID,
	})
	return old, nil
}

// PublishApplicationButton posts the public intake button and keeps it
// answerable across restarts.
func (s *LifecycleServiceImpl) PublishApplicationButton(ctx context.Context, actor models.Actor, channelID string) error {
	if err := s.perms.Authorize(ctx, actor, ClassAdmin); err != nil {
		return err
	}

	messageID, err := s.notifier.PostApplicationButton(ctx, channelID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrChannelMissing
	}
	if err != nil {
		return fmt.Errorf("failed to post application button: %w", err)
	}

	s.track(ctx, actor.GuildID, channelID, messageID, models.ApplicationButton{})
	return nil
}

func (s *LifecycleServiceImpl) track(ctx context.Context, guildID, channelID, messageID string, c models.Component) {
	s.registry.Register(messageID, c)

	kind, payload, err := models.EncodeComponent(c)
	if err != nil {
		s.logger.Error("failed to encode component for message %s: %v", messageID, err)
		return
	}
	err = s.components.SaveComponent(ctx, models.PersistedComponent{
		MessageID: messageID,
		ChannelID: channelID,
		GuildID:   guildID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("failed to persist component for message %s: %v", messageID, err)
	}
}

func (s *LifecycleServiceImpl) untrack(ctx context.Context, messageID string) {
	s.registry.Unregister(messageID)
	if err := s.components.DeleteComponent(ctx, messageID); err != nil {
		s.logger.Warn("failed to delete component for message %s: %v", messageID, err)
	}
}

func (s *LifecycleServiceImpl) announce(ctx context.Context, change TierChange) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.AnnounceTier(ctx, change); err != nil {
		s.logger.Warn("failed to announce tier change of %s: %v", change.DiscordID, err)
	}
}
