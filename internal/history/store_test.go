package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(started time.Time) *models.RunRecord {
	return &models.RunRecord{
		RootPath:   "/games/Prefabs",
		OutputFile: "teragon poi list.txt",
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
		Stats: models.RunStats{
			DirectoriesVisited: 3,
			DirectoriesSkipped: 1,
			FilesSkipped:       2,
			NotPois:            4,
			Dropped:            1,
			City:               5,
			Wilderness:         2,
			RwgTiles:           1,
		},
		Sections: []models.SectionSummary{
			{DisplayPath: "Prefabs", City: 3, Wilderness: 2},
			{DisplayPath: "Prefabs/Tiles", City: 2, RwgTiles: 1},
		},
		Dropped: []models.DroppedEntry{
			{Path: "Prefabs/cabin.xml", Reason: "cabin, prefab has bad or no YOffset tag"},
		},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:   "creates database successfully",
			dbPath: filepath.Join(t.TempDir(), "history.db"),
		},
		{
			name:   "handles in-memory database",
			dbPath: ":memory:",
		},
		{
			name:   "creates parent directories if needed",
			dbPath: filepath.Join(t.TempDir(), "nested", "dir", "history.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.dbPath)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.Close()

			version, err := store.GetLatestVersion()
			require.NoError(t, err)
			assert.Equal(t, len(migrations), version)
			assert.Equal(t, tt.dbPath, store.Path())
		})
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.RecordRun(context.Background(), sampleRun(time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	versions, err := second.GetAppliedVersions()
	require.NoError(t, err)
	require.Len(t, versions, len(migrations))
	for i, v := range versions {
		assert.Equal(t, i+1, v.Version)
	}

	runs, err := second.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "reopening must keep existing rows")
}

func TestRecordRunAssignsID(t *testing.T) {
	store := newTestStore(t)
	run := sampleRun(time.Now())

	require.NoError(t, store.RecordRun(context.Background(), run))

	_, err := uuid.Parse(run.ID)
	assert.NoError(t, err, "run id should be a UUID, got %q", run.ID)
}

func TestRecordRunKeepsExplicitID(t *testing.T) {
	store := newTestStore(t)
	run := sampleRun(time.Now())
	run.ID = "fixed-id"

	require.NoError(t, store.RecordRun(context.Background(), run))
	assert.Equal(t, "fixed-id", run.ID)

	dup := sampleRun(time.Now())
	dup.ID = "fixed-id"
	assert.Error(t, store.RecordRun(context.Background(), dup), "duplicate ids are rejected")
}

func TestGetRunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	run := sampleRun(started)

	require.NoError(t, store.RecordRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.RootPath, got.RootPath)
	assert.Equal(t, run.OutputFile, got.OutputFile)
	assert.True(t, started.Equal(got.StartedAt), "started_at %v != %v", got.StartedAt, started)
	assert.Equal(t, run.Duration, got.Duration)
	assert.Equal(t, run.Stats, got.Stats)
	assert.Equal(t, run.Sections, got.Sections)
	assert.Equal(t, run.Dropped, got.Dropped)
}

func TestGetRunByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := sampleRun(time.Now())
	a.ID = "abc111"
	b := sampleRun(time.Now())
	b.ID = "abc222"
	require.NoError(t, store.RecordRun(ctx, a))
	require.NoError(t, store.RecordRun(ctx, b))

	got, err := store.GetRun(ctx, "abc2")
	require.NoError(t, err)
	assert.Equal(t, "abc222", got.ID)

	_, err = store.GetRun(ctx, "abc")
	assert.True(t, errors.Is(err, ErrAmbiguousRunID), "got %v", err)

	_, err = store.GetRun(ctx, "zzz")
	assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)

	_, err = store.GetRun(ctx, "")
	assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		run.ID = string(rune('a' + i))
		require.NoError(t, store.RecordRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 5)
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
		assert.Empty(t, r.Sections, "ListRuns does not load sections")
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, ids)

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "e", limited[0].ID)
	assert.Equal(t, "d", limited[1].ID)
}

func TestListRunsEmpty(t *testing.T) {
	runs, err := newTestStore(t).ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestGetRunSectionsUnknownRun(t *testing.T) {
	sections, err := newTestStore(t).GetRunSections(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, sections)
}
