package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Notifications.Create(ctx, NotificationDraft{
		Type:      NotificationBudgetWarning,
		Title:     "Budget Warning",
		Message:   "You are approaching your Groceries budget limit (85% used).",
		Icon:      "alert",
		Priority:  PriorityMedium,
		CreatedAt: time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
		RelatedID: "b1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	all, err := s.Notifications.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, NotificationBudgetWarning, all[0].Type)
	assert.Equal(t, PriorityMedium, all[0].Priority)
	assert.False(t, all[0].IsRead)
	assert.Equal(t, "b1", all[0].RelatedID)
}

func TestNotifications_MarkRead(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Notifications.Create(ctx, NotificationDraft{
		Type: NotificationGeneral, Title: "Welcome", Message: "hi",
		Priority: PriorityLow, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Notifications.MarkRead(ctx, id))

	all, err := s.Notifications.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)

	// Unknown id is an error, not a silent no-op.
	assert.Error(t, s.Notifications.MarkRead(ctx, "missing"))
}
