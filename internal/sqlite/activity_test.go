package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	base := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		ProjectID:    "FR-100",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project FR-100",
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "FR-100",
		ActivityType: activity.TypeStepToggled,
		Summary:      `marked "Generate names" done`,
		Details:      `{"step":"Generate names","value":true}`,
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.Greater(t, entry2.ID, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "FR-100"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry2.Details, entries[0].Details)
	require.True(t, entries[0].CreatedAt.Equal(entry2.CreatedAt))
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	base := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	for i, e := range []activity.ActivityEntry{
		{ProjectID: "A", ActivityType: activity.TypeProjectCreated, Summary: "a"},
		{ProjectID: "B", ActivityType: activity.TypeProjectCreated, Summary: "b"},
		{ProjectID: "A", ActivityType: activity.TypeDetailsUpdated, Summary: "a2"},
		{ActivityType: activity.TypeProgressSaved, Summary: "saved"},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Log(ctx, &e))
	}

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "A"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	created := activity.TypeProjectCreated
	entries, err = repo.List(ctx, activity.ListActivityOptions{ActivityType: &created})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "B", entries[0].ProjectID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"saved", "a2"}, []string{entries[0].Summary, entries[1].Summary})

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 3})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "none"})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestActivityRepository_WithService(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	svc := activity.NewService(NewActivityRepository(db), nil)

	require.NoError(t, svc.LogActivity(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypeProjectsImported,
		Summary:      "imported 2 projects (1 new)",
	}))

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Empty(t, entries[0].ProjectID)
}
