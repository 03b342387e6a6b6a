package application

import (
	"context"
	"fmt"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

// RoleUpdate carries the raw role lists typed by an administrator. A nil
// field leaves that list unchanged.
type RoleUpdate struct {
	Allowed *string
	Admin   *string
}

type GuildServiceImpl struct {
	guilds repository.Guild
}

func NewGuildServiceImpl(guilds repository.Guild) *GuildServiceImpl {
	return &GuildServiceImpl{guilds: guilds}
}

func (s *GuildServiceImpl) SetApplicationsChannel(ctx context.Context, actor models.Actor, channelID string) error {
	if !actor.Administrator {
		return ErrForbidden
	}
	return s.guilds.SetApplicationsChannel(ctx, actor.GuildID, channelID)
}

// SetupRoles parses and stores the role lists. known holds the ids of the
// roles that exist in the guild. Nothing is stored if any list is invalid.
func (s *GuildServiceImpl) SetupRoles(ctx context.Context, actor models.Actor, update RoleUpdate, known []string) (*models.GuildConfig, error) {
	if !actor.Administrator {
		return nil, ErrForbidden
	}

	allowed, err := resolveRoles(update.Allowed, known)
	if err != nil {
		return nil, err
	}
	admin, err := resolveRoles(update.Admin, known)
	if err != nil {
		return nil, err
	}

	if allowed != nil {
		if err := s.guilds.SetAllowedRoles(ctx, actor.GuildID, allowed); err != nil {
			return nil, err
		}
	}
	if admin != nil {
		if err := s.guilds.SetAdminRoles(ctx, actor.GuildID, admin); err != nil {
			return nil, err
		}
	}

	return s.config(ctx, actor.GuildID)
}

func (s *GuildServiceImpl) RolesInfo(ctx context.Context, actor models.Actor) (*models.GuildConfig, error) {
	if !actor.Administrator {
		return nil, ErrForbidden
	}
	return s.config(ctx, actor.GuildID)
}

func (s *GuildServiceImpl) config(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	cfg, err := s.guilds.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &models.GuildConfig{GuildID: guildID}
	}
	return cfg, nil
}

// resolveRoles returns nil when raw is absent or blank, which means "leave
// the stored list alone".
func resolveRoles(raw *string, known []string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	ids, err := parseRoleRefs(*raw)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, nil
	}

	exists := make(map[string]struct{}, len(known))
	for _, id := range known {
		exists[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, id)
		}
	}
	return ids, nil
}

type PlayerServiceImpl struct {
	players repository.Player
	perms   PermissionService
}

func NewPlayerServiceImpl(players repository.Player, perms PermissionService) *PlayerServiceImpl {
	return &PlayerServiceImpl{players: players, perms: perms}
}

func (s *PlayerServiceImpl) MyTier(ctx context.Context, actor models.Actor) (*models.Player, error) {
	if err := s.perms.Authorize(ctx, actor, ClassGeneral); err != nil {
		return nil, err
	}

	p, err := s.players.GetPlayer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Tier.Ranked() {
		return nil, ErrNoTierAssigned
	}
	return p, nil
}

func (s *PlayerServiceImpl) PlayerInfo(ctx context.Context, userID string) (*models.Player, error) {
	p, err := s.players.GetPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}
