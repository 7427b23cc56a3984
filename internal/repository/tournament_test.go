package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volley-rank/internal/database"
	"volley-rank/internal/db"
	"volley-rank/internal/domain"
)

func newTestRepository(t *testing.T) *TournamentRepository {
	t.Helper()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "archive.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewTournamentRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
}

func TestSaveAndListBatches(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first := domain.Batch{
		Name:      "제3회 인제 내린천배",
		DateLabel: "2025.3.8-3.9",
		Results: []domain.BatchResult{
			{Division: "남자클럽 2부", TeamName: "서울 엄보스", Rank: 1},
			{Division: "남자클럽 2부", TeamName: "용인 토이스토리", Rank: 2},
			{Division: "남자클럽 3부", TeamName: "해외팀", Rank: 3, Region: domain.RegionJeju},
		},
	}
	second := domain.Batch{
		Name:    "제18회 광양백운산기",
		Results: []domain.BatchResult{{Division: "남자 시니어부", TeamName: "목포 SMC", Rank: 1}},
	}

	saved, err := repo.SaveBatch(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Sequence)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 3, saved.Results)

	saved, err = repo.SaveBatch(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Sequence)

	batches, err := repo.ListBatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Batch{first, second}, batches)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.Name, listed[0].Name)
	assert.Equal(t, 3, listed[0].Results)
	assert.Equal(t, 1, listed[1].Results)
	assert.False(t, listed[0].CreatedAt.IsZero())
}

func TestSaveBatchWithoutResults(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.SaveBatch(ctx, domain.Batch{Name: "빈 대회"})
	require.NoError(t, err)

	batches, err := repo.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Empty(t, batches[0].Results)

	_, err = repo.SaveBatch(ctx, domain.Batch{})
	assert.Error(t, err)
}

func TestGetByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.SaveBatch(ctx, domain.Batch{Name: "제1회 횡성한우배", DateLabel: "2025.5"})
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "제1회 횡성한우배")
	require.NoError(t, err)
	assert.Equal(t, "2025.5", got.DateLabel)

	_, err = repo.GetByName(ctx, "없는 대회")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.SaveBatch(ctx, domain.Batch{
		Name:    "a",
		Results: []domain.BatchResult{{Division: "d", TeamName: "t", Rank: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	saved, err := repo.SaveBatch(ctx, domain.Batch{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Sequence)
}
