package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volley-rank/internal/api"
	"volley-rank/internal/config"
	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
)

type fakeSource struct {
	name    string
	delay   time.Duration
	batches []domain.Batch
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) ([]domain.Batch, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.batches, f.err
}

type fakeLister struct{ batches []domain.Batch }

func (f fakeLister) ListBatches(context.Context) ([]domain.Batch, error) { return f.batches, nil }

type fakeFetcher struct {
	gotURL string
	snap   *api.SnapshotResponse
	err    error
}

func (f *fakeFetcher) FetchSnapshot(_ context.Context, url string) (*api.SnapshotResponse, error) {
	f.gotURL = url
	return f.snap, f.err
}

func batch(name string, results ...domain.BatchResult) domain.Batch {
	return domain.Batch{Name: name, Results: results}
}

func TestLoaderKeepsSourceOrder(t *testing.T) {
	slow := &fakeSource{name: "slow", delay: 20 * time.Millisecond, batches: []domain.Batch{batch("A"), batch("B")}}
	fast := &fakeSource{name: "fast", batches: []domain.Batch{batch("C")}}

	got, err := NewLoader(zerolog.Nop(), slow, fast).Load(context.Background())
	require.NoError(t, err)

	var names []string
	for _, b := range got {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestLoaderFailsOnAnySource(t *testing.T) {
	boom := errors.New("boom")
	ok := &fakeSource{name: "ok", delay: time.Second, batches: []domain.Batch{batch("A")}}
	bad := &fakeSource{name: "bad", err: boom}

	_, err := NewLoader(zerolog.Nop(), ok, bad).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "source bad")
}

func TestLoaderWithoutSources(t *testing.T) {
	got, err := NewLoader(zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedSource(t *testing.T) {
	got, err := NewEmbedded("").Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "제3회 인제 내린천배", got[0].Name)

	_, err = NewEmbedded("/does/not/exist.yaml").Load(context.Background())
	assert.Error(t, err)
}

func TestArchiveAndSnapshotSources(t *testing.T) {
	archived := []domain.Batch{batch("archived")}
	got, err := NewArchive(fakeLister{batches: archived}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, archived, got)

	fetcher := &fakeFetcher{snap: &api.SnapshotResponse{Tournaments: []domain.Batch{batch("remote")}}}
	got, err = NewSnapshot(fetcher, "http://example.test/s.json").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/s.json", fetcher.gotURL)
	assert.Equal(t, []domain.Batch{batch("remote")}, got)

	fetcher.err = api.ErrUnexpectedStatus
	_, err = NewSnapshot(fetcher, "x").Load(context.Background())
	assert.ErrorIs(t, err, api.ErrUnexpectedStatus)
}

func TestNewConfiguredLoader(t *testing.T) {
	cfg := &config.Config{
		DataSources: []string{config.SourceSnapshot, config.SourceEmbedded, config.SourceArchive},
		SnapshotURL: "http://example.test",
	}
	loader := NewConfiguredLoader(cfg, nil, nil, zerolog.Nop())

	var names []string
	for _, s := range loader.sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, cfg.DataSources, names)
}

func TestReplayAndBootstrap(t *testing.T) {
	first := batch("T1",
		domain.BatchResult{Division: "X", TeamName: "서울 A", Rank: 1},
		domain.BatchResult{Division: "X", TeamName: "부산 B", Rank: 4},
	)
	first.DateLabel = "2025.3"
	second := batch("T2", domain.BatchResult{Division: "X", TeamName: "서울A", Rank: 2})

	engine := ranking.NewEngine(zerolog.Nop())
	loader := NewLoader(zerolog.Nop(), &fakeSource{name: "fake", batches: []domain.Batch{first, second}})

	summary, err := Bootstrap(context.Background(), loader, engine)
	require.NoError(t, err)
	assert.Equal(t, BootstrapSummary{Tournaments: 2, Results: 3, SkippedRanks: 1}, summary)

	team, ok := engine.TeamDetails("서울 A")
	require.True(t, ok)
	assert.Equal(t, 8, team.TotalScore)

	tournaments := engine.Tournaments()
	require.Len(t, tournaments, 2)
	assert.Equal(t, "2025.3", tournaments[0].DateLabel)
}

func TestBootstrapLoadError(t *testing.T) {
	engine := ranking.NewEngine(zerolog.Nop())
	loader := NewLoader(zerolog.Nop(), &fakeSource{name: "bad", err: errors.New("offline")})

	_, err := Bootstrap(context.Background(), loader, engine)
	require.Error(t, err)
	assert.Zero(t, engine.TournamentStats().TotalTournaments)
}

func TestReloadReplacesEngineData(t *testing.T) {
	engine := ranking.NewEngine(zerolog.Nop())
	engine.Ingest("old", "", []domain.TournamentResult{{Division: "X", TeamName: "서울 A", Rank: 1}})

	src := &fakeSource{name: "fresh", batches: []domain.Batch{
		batch("T1", domain.BatchResult{Division: "X", TeamName: "부산 B", Rank: 1}),
		batch("T2", domain.BatchResult{Division: "X", TeamName: "부산 B", Rank: 5}),
	}}
	summary, err := Reload(context.Background(), NewLoader(zerolog.Nop(), src), engine)
	require.NoError(t, err)
	assert.Equal(t, BootstrapSummary{Tournaments: 2, Results: 2, SkippedRanks: 1}, summary)

	assert.Equal(t, []string{"T1", "T2"}, engine.TournamentNames())
	_, ok := engine.TeamDetails("서울 A")
	assert.False(t, ok)
}

func TestReloadKeepsDataWhenLoadFails(t *testing.T) {
	engine := ranking.NewEngine(zerolog.Nop())
	engine.Ingest("old", "", []domain.TournamentResult{{Division: "X", TeamName: "서울 A", Rank: 1}})

	bad := &fakeSource{name: "bad", err: errors.New("down")}
	_, err := Reload(context.Background(), NewLoader(zerolog.Nop(), bad), engine)
	require.Error(t, err)
	assert.Equal(t, []string{"old"}, engine.TournamentNames())
}
