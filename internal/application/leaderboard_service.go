package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

type TierEntry struct {
	DiscordID string
	Nickname  string
}

// TierGroup holds the displayed entries of one tier. Total counts every
// player of the tier, including those cut from Entries.
type TierGroup struct {
	Tier    models.Tier
	Entries []TierEntry
	Total   int
}

func (g TierGroup) Overflow() int {
	return g.Total - len(g.Entries)
}

type TierBoard struct {
	Groups      []TierGroup
	Total       int
	GeneratedAt time.Time
}

// BuildTierBoard groups ranked players from T1 to T5. Within a tier the
// earliest assignment comes first. Unranked players are dropped. Every
// ranked tier gets a group, empty or not.
func BuildTierBoard(players []models.Player, perTier int, at time.Time) *TierBoard {
	byTier := make(map[models.Tier][]models.Player, len(models.RankedTiers))
	total := 0
	for _, p := range players {
		if !p.Tier.Ranked() {
			continue
		}
		byTier[p.Tier] = append(byTier[p.Tier], p)
		total++
	}

	board := &TierBoard{Total: total, GeneratedAt: at}
	for _, tier := range models.RankedTiers {
		list := byTier[tier]
		sort.SliceStable(list, func(i, j int) bool {
			return assignedBefore(list[i], list[j])
		})

		group := TierGroup{Tier: tier, Total: len(list)}
		for i, p := range list {
			if perTier > 0 && i >= perTier {
				break
			}
			group.Entries = append(group.Entries, TierEntry{DiscordID: p.DiscordID, Nickname: p.Nickname})
		}
		board.Groups = append(board.Groups, group)
	}
	return board
}

func assignedBefore(a, b models.Player) bool {
	switch {
	case a.TierAssignedAt == nil:
		return false
	case b.TierAssignedAt == nil:
		return true
	default:
		return a.TierAssignedAt.Before(*b.TierAssignedAt)
	}
}

type LeaderboardServiceImpl struct {
	players   repository.Player
	guilds    repository.Guild
	publisher BoardPublisher
	metrics   Metrics
	now       func() time.Time
	logger    Logger
}

func NewLeaderboardServiceImpl(players repository.Player, guilds repository.Guild, publisher BoardPublisher, metrics Metrics, now func() time.Time, logger Logger) *LeaderboardServiceImpl {
	return &LeaderboardServiceImpl{
		players:   players,
		guilds:    guilds,
		publisher: publisher,
		metrics:   metrics,
		now:       now,
		logger:    logger,
	}
}

// Refresh re-renders the guild's published tier list in place. A guild
// without a published list is left alone. A deleted message is replaced by a
// new one in the same channel.
func (s *LeaderboardServiceImpl) Refresh(ctx context.Context, guildID string) error {
	cfg, err := s.guilds.GetGuildConfig(ctx, guildID)
	if err != nil {
		s.metrics.LeaderboardRefreshed(outcomeFailed)
		return fmt.Errorf("failed to load guild settings: %w", err)
	}
	if !cfg.HasLeaderboard() {
		s.metrics.LeaderboardRefreshed(outcomeNoTierList)
		return nil
	}

	board, err := s.build(ctx, 0, boardEntriesPerTier)
	if err != nil {
		s.metrics.LeaderboardRefreshed(outcomeFailed)
		return err
	}

	err = s.publisher.EditBoard(ctx, cfg.LeaderboardChannelID, cfg.LeaderboardMessageID, board)
	if err == nil {
		s.metrics.LeaderboardRefreshed(outcomeEdited)
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.metrics.LeaderboardRefreshed(outcomeFailed)
		return fmt.Errorf("failed to edit tier list: %w", err)
	}

	s.logger.Info("tier list message %s of guild %s is gone, posting a new one", cfg.LeaderboardMessageID, guildID)
	messageID, err := s.publisher.PublishBoard(ctx, cfg.LeaderboardChannelID, board)
	if err != nil {
		s.metrics.LeaderboardRefreshed(outcomeFailed)
		if errors.Is(err, models.ErrNotFound) {
			return ErrChannelMissing
		}
		return fmt.Errorf("failed to repost tier list: %w", err)
	}
	if err := s.guilds.SetLeaderboard(ctx, guildID, cfg.LeaderboardChannelID, messageID); err != nil {
		s.metrics.LeaderboardRefreshed(outcomeFailed)
		return err
	}

	s.metrics.LeaderboardRefreshed(outcomeReposted)
	return nil
}

// Publish posts a fresh tier list and makes it the one Refresh keeps in sync.
func (s *LeaderboardServiceImpl) Publish(ctx context.Context, actor models.Actor, channelID string) error {
	if !actor.Administrator {
		return ErrForbidden
	}

	board, err := s.build(ctx, 0, boardEntriesPerTier)
	if err != nil {
		return err
	}

	messageID, err := s.publisher.PublishBoard(ctx, channelID, board)
	if errors.Is(err, models.ErrNotFound) {
		return ErrChannelMissing
	}
	if err != nil {
		return fmt.Errorf("failed to post tier list: %w", err)
	}
	return s.guilds.SetLeaderboard(ctx, actor.GuildID, channelID, messageID)
}

func (s *LeaderboardServiceImpl) Top(ctx context.Context, limit int) (*TierBoard, error) {
	if limit < minTopLimit || limit > maxTopLimit {
		return nil, ErrInvalidLimit
	}
	return s.build(ctx, limit, topEntriesPerTier)
}

func (s *LeaderboardServiceImpl) build(ctx context.Context, limit, perTier int) (*TierBoard, error) {
	players, err := s.players.ListRanked(ctx, limit)
	if err != nil {
		return nil, err
	}
	return BuildTierBoard(players, perTier, s.now()), nil
}
