package infrastructure

import (
	"context"
	"testing"
	"time"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRepositoryStoreGet(t *testing.T) {
	repo := NewAnalysisRepository(logger.New("error"))
	ctx := context.Background()

	analysis := &domain.Analysis{Overview: map[string]int{"campaigns": 3}}
	require.NoError(t, repo.Store(ctx, "a1", analysis))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Same(t, analysis, got)
}

func TestAnalysisRepositoryGetMissing(t *testing.T) {
	repo := NewAnalysisRepository(logger.New("error"))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepositoryStoreGet(t *testing.T) {
	repo := NewJobRepository(logger.New("error"))
	ctx := context.Background()

	job := &domain.BulkJob{ID: "j1", Status: "generated", CreatedAt: time.Now()}
	require.NoError(t, repo.Store(ctx, job))

	got, err := repo.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "generated", got.Status)

	_, err = repo.Get(ctx, "j2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepositoryListNewestFirstWithLimit(t *testing.T) {
	repo := NewJobRepository(logger.New("error"))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Store(ctx, &domain.BulkJob{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	jobs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "mid", jobs[1].ID)
	assert.Equal(t, "old", jobs[2].ID)

	jobs, err = repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "mid", jobs[1].ID)
}
