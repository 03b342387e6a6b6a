package discord

import (
	"strings"
	"sync"

	"tierbot/internal/models"
)

// ComponentRouter maps message ids to the interactive component living on
// that message. It is safe for concurrent use.
type ComponentRouter struct {
	mu         sync.RWMutex
	components map[string]models.Component
}

func NewComponentRouter() *ComponentRouter {
	return &ComponentRouter{
		components: make(map[string]models.Component),
	}
}

func (r *ComponentRouter) Register(messageID string, c models.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[messageID] = c
}

func (r *ComponentRouter) Unregister(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.components, messageID)
}

func (r *ComponentRouter) Lookup(messageID string) (models.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[messageID]
	return c, ok
}

func (r *ComponentRouter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = make(map[string]models.Component)
}

// Size returns the number of routed messages
func (r *ComponentRouter) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

type buttonAction struct {
	apply   bool
	reject  bool
	approve models.Tier
}

// parseButton decodes the custom id of a button the bot rendered.
func parseButton(customID string) (buttonAction, bool) {
	switch {
	case customID == customIDApply:
		return buttonAction{apply: true}, true
	case customID == customIDReject:
		return buttonAction{reject: true}, true
	case strings.HasPrefix(customID, customIDAssign):
		tier, ok := models.ParseTier(strings.TrimPrefix(customID, customIDAssign))
		if !ok || !tier.Ranked() {
			return buttonAction{}, false
		}
		return buttonAction{approve: tier}, true
	default:
		return buttonAction{}, false
	}
}

func assignCustomID(t models.Tier) string {
	return customIDAssign + string(t)
}

// decisionFor matches a pressed button against the component registered on
// its message. Only decision panels accept tier and reject buttons.
func decisionFor(c models.Component, action buttonAction) (int64, models.Decision, bool) {
	panel, ok := c.(models.DecisionPanel)
	if !ok {
		return 0, models.Decision{}, false
	}
	switch {
	case action.reject:
		return panel.ApplicationID, models.Reject(), true
	case action.approve != "":
		return panel.ApplicationID, models.ApproveAs(action.approve), true
	default:
		return 0, models.Decision{}, false
	}
}
