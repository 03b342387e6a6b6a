package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type ComponentKind string

const (
	KindApplicationButton ComponentKind = "tier_application"
	KindDecisionPanel     ComponentKind = "tier_assignment"
)

// Component is an interactive message the bot has to answer after a restart.
// The set of implementations is closed: ApplicationButton and DecisionPanel.
type Component interface {
	Kind() ComponentKind
	component()
}

// ApplicationButton is the public "apply for a tier" button.
type ApplicationButton struct{}

func (ApplicationButton) Kind() ComponentKind { return KindApplicationButton }
func (ApplicationButton) component()          {}

// DecisionPanel carries the moderator buttons of one application.
type DecisionPanel struct {
	ApplicationID int64
}

func (DecisionPanel) Kind() ComponentKind { return KindDecisionPanel }
func (DecisionPanel) component()          {}

type PersistedComponent struct {
	MessageID string          `json:"message_id" db:"message_id"`
	ChannelID string          `json:"channel_id" db:"channel_id"`
	GuildID   string          `json:"guild_id" db:"guild_id"`
	Kind      ComponentKind   `json:"view_type" db:"view_type"`
	Payload   json.RawMessage `json:"view_data" db:"view_data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type componentPayload struct {
	ApplicationID *int64 `json:"application_id,omitempty"`
}

// EncodeComponent returns the kind tag and JSON payload stored for c.
func EncodeComponent(c Component) (ComponentKind, json.RawMessage, error) {
	var p componentPayload
	switch v := c.(type) {
	case ApplicationButton:
	case DecisionPanel:
		id := v.ApplicationID
		p.ApplicationID = &id
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownComponent, c)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal component payload: %w", err)
	}
	return c.Kind(), data, nil
}

// DecodeComponent is the inverse of EncodeComponent. A decision panel without
// an application id yields ErrMissingApplicationID.
func DecodeComponent(kind ComponentKind, payload json.RawMessage) (Component, error) {
	var p componentPayload
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal component payload: %w", err)
		}
	}

	switch kind {
	case KindApplicationButton:
		return ApplicationButton{}, nil
	case KindDecisionPanel:
		if p.ApplicationID == nil {
			return nil, ErrMissingApplicationID
		}
		return DecisionPanel{ApplicationID: *p.ApplicationID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, kind)
	}
}
