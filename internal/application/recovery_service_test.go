package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tierbot/internal/models"
)

func persisted(messageID, channelID string, kind models.ComponentKind, payload string) models.PersistedComponent {
	c := models.PersistedComponent{MessageID: messageID, ChannelID: channelID, GuildID: testGuild, Kind: kind}
	if payload != "" {
		c.Payload = json.RawMessage(payload)
	}
	return c
}

func TestRestore(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	for _, c := range []models.PersistedComponent{
		persisted("button", "c1", models.KindApplicationButton, ""),
		persisted("panel", "c1", models.KindDecisionPanel, `{"application_id":7}`),
		persisted("no-app", "c1", models.KindDecisionPanel, `{}`),
		persisted("deleted-msg", "c1", models.KindDecisionPanel, `{"application_id":8}`),
		persisted("deleted-chan", "c-gone", models.KindApplicationButton, ""),
		persisted("weird", "c1", models.ComponentKind("poll"), ""),
	} {
		require.NoError(t, e.store.SaveComponent(ctx, c))
	}
	e.resolver.channels["c-gone"] = models.ErrNotFound
	e.resolver.messages["deleted-msg"] = models.ErrNotFound

	report, err := e.svc.Recovery.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, RestoreReport{Restored: 2, Removed: 3, Skipped: 1}, report)

	c, ok := e.registry.get("button")
	require.True(t, ok)
	assert.Equal(t, models.ApplicationButton{}, c)

	c, ok = e.registry.get("panel")
	require.True(t, ok)
	assert.Equal(t, models.DecisionPanel{ApplicationID: 7}, c)

	_, ok = e.registry.get("no-app")
	assert.False(t, ok)
	assert.Contains(t, e.store.components, "no-app")

	for _, gone := range []string{"deleted-msg", "deleted-chan", "weird"} {
		assert.NotContains(t, e.store.components, gone)
		_, ok := e.registry.get(gone)
		assert.False(t, ok)
	}

	assert.Equal(t, 2, e.metrics.get("restore:restored"))
	assert.Equal(t, 3, e.metrics.get("restore:removed"))
	assert.Equal(t, 1, e.metrics.get("restore:skipped"))
}

func TestRestoreDropsOnLookupFailure(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.store.SaveComponent(ctx, persisted("m1", "c1", models.KindApplicationButton, "")))
	e.resolver.messages["m1"] = errors.New("forbidden")

	report, err := e.svc.Recovery.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)
	assert.Empty(t, e.store.components)
}

func TestRestoreKeepsRecordWhenDeleteFails(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.store.SaveComponent(ctx, persisted("m1", "c1", models.KindApplicationButton, "")))
	e.resolver.messages["m1"] = models.ErrNotFound
	e.store.fail("DeleteComponent", errors.New("db down"))

	report, err := e.svc.Recovery.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, RestoreReport{}, report)
	assert.Equal(t, 1, e.metrics.get("restore:failed"))
	assert.Contains(t, e.store.components, "m1")
}

func TestRestoreListFailure(t *testing.T) {
	e := newEnv()
	boom := errors.New("db down")
	e.store.fail("ListComponents", boom)

	_, err := e.svc.Recovery.Restore(context.Background())
	assert.ErrorIs(t, err, boom)
}
