package application

import (
	"context"
	"fmt"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

type PermissionClass int

const (
	// ClassGeneral covers submitting applications and personal queries.
	ClassGeneral PermissionClass = iota
	// ClassAdmin covers deciding applications and posting the intake button.
	ClassAdmin
)

func (c PermissionClass) String() string {
	if c == ClassAdmin {
		return "admin"
	}
	return "general"
}

// CanAct decides whether actor may perform an action of the given class.
// Guild administrators always pass. An empty admin role list admits nobody
// else, an empty allowed role list admits everyone. cfg may be nil.
func CanAct(actor models.Actor, cfg *models.GuildConfig, class PermissionClass) bool {
	if actor.Administrator {
		return true
	}

	var allowed, admin []string
	if cfg != nil {
		allowed, admin = cfg.AllowedRoles, cfg.AdminRoles
	}

	switch class {
	case ClassAdmin:
		return hasAnyRole(actor.Roles, admin)
	default:
		return len(allowed) == 0 || hasAnyRole(actor.Roles, allowed)
	}
}

type PermissionServiceImpl struct {
	guilds repository.Guild
}

func NewPermissionServiceImpl(guilds repository.Guild) *PermissionServiceImpl {
	return &PermissionServiceImpl{guilds: guilds}
}

// Authorize reads the guild configuration on every call.
func (s *PermissionServiceImpl) Authorize(ctx context.Context, actor models.Actor, class PermissionClass) error {
	if actor.Administrator {
		return nil
	}

	cfg, err := s.guilds.GetGuildConfig(ctx, actor.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}
	if !CanAct(actor, cfg, class) {
		return ErrForbidden
	}
	return nil
}
