package service

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
	"volley-rank/internal/repository"
)

func newTestArchive(t *testing.T) *ArchiveService {
	t.Helper()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "archive.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewTournamentRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	return NewArchiveService(repo, zerolog.Nop())
}

func TestArchiveImportSkipsKnownTournaments(t *testing.T) {
	ctx := context.Background()
	svc := newTestArchive(t)

	batches := []domain.Batch{
		{Name: "T1", Results: []domain.BatchResult{{Division: "X", TeamName: "서울 A", Rank: 1}}},
		{Name: "T2"},
	}

	saved, err := svc.Import(ctx, batches, false)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	saved, err = svc.Import(ctx, batches, false)
	require.NoError(t, err)
	assert.Empty(t, saved)

	saved, err = svc.Import(ctx, batches[:1], true)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].Sequence)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	require.NoError(t, svc.Clear(ctx))
	listed, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
