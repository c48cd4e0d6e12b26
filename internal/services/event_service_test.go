package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SydAsim/Visaguardai-Upwork/internal/storage"
)

func TestRecordAndRecentEvents(t *testing.T) {
	svc := NewEventService(storage.NewMemory())

	require.NoError(t, svc.Record("auth.login", "info", "Signed in", "a@b.com"))
	require.NoError(t, svc.Record("analysis.complete", "info", "Analysis done", "a@b.com"))
	require.NoError(t, svc.Record("auth.login", "info", "Signed in", "other@b.com"))

	events, err := svc.RecentEvents("a@b.com", 10)
	require.NoError(t, err)
	require.Len(t, events, 2, "other accounts' events filtered out")
	assert.Equal(t, "analysis.complete", events[0].Type, "newest first")
	assert.Equal(t, "auth.login", events[1].Type)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestRecentEventsIncludesSystemWide(t *testing.T) {
	svc := NewEventService(storage.NewMemory())

	require.NoError(t, svc.Record("system.maintenance", "warn", "Maintenance window", ""))
	require.NoError(t, svc.Record("auth.login", "info", "Signed in", "a@b.com"))

	events, err := svc.RecentEvents("a@b.com", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestRecentEventsHonorsLimit(t *testing.T) {
	svc := NewEventService(storage.NewMemory())
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record("auth.login", "info", fmt.Sprintf("login %d", i), "a@b.com"))
	}

	events, err := svc.RecentEvents("a@b.com", 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestRecentEventsNegativeLimitMeansNoLimit(t *testing.T) {
	svc := NewEventService(storage.NewMemory())
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record("auth.login", "info", fmt.Sprintf("login %d", i), "a@b.com"))
	}

	events, err := svc.RecentEvents("a@b.com", -1)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestEventLogIsCapped(t *testing.T) {
	svc := NewEventService(storage.NewMemory())
	for i := 0; i < maxStoredEvents+25; i++ {
		require.NoError(t, svc.Record("auth.login", "info", fmt.Sprintf("login %d", i), "a@b.com"))
	}

	events, err := svc.RecentEvents("a@b.com", 0)
	require.NoError(t, err)
	assert.Len(t, events, maxStoredEvents)
	assert.Equal(t, fmt.Sprintf("login %d", maxStoredEvents+24), events[0].Message, "newest survives the cap")
}
