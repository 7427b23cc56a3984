package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"volley-rank/internal/api"
	"volley-rank/internal/config"
	"volley-rank/internal/dataset"
	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
	"volley-rank/internal/repository"
)

// Source produces tournament batches in the order they should be ingested.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.Batch, error)
}

type Embedded struct {
	seedFile string
}

// NewEmbedded reads seedFile when set, otherwise the compiled-in seed.
func NewEmbedded(seedFile string) *Embedded {
	return &Embedded{seedFile: seedFile}
}

func (s *Embedded) Name() string { return config.SourceEmbedded }

func (s *Embedded) Load(_ context.Context) ([]domain.Batch, error) {
	if s.seedFile != "" {
		return dataset.LoadFile(s.seedFile)
	}
	return dataset.Load()
}

type BatchLister interface {
	ListBatches(ctx context.Context) ([]domain.Batch, error)
}

type Archive struct {
	repo BatchLister
}

func NewArchive(repo BatchLister) *Archive {
	return &Archive{repo: repo}
}

func (s *Archive) Name() string { return config.SourceArchive }

func (s *Archive) Load(ctx context.Context) ([]domain.Batch, error) {
	return s.repo.ListBatches(ctx)
}

type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, url string) (*api.SnapshotResponse, error)
}

type Snapshot struct {
	client SnapshotFetcher
	url    string
}

func NewSnapshot(client SnapshotFetcher, url string) *Snapshot {
	return &Snapshot{client: client, url: url}
}

func (s *Snapshot) Name() string { return config.SourceSnapshot }

func (s *Snapshot) Load(ctx context.Context) ([]domain.Batch, error) {
	snap, err := s.client.FetchSnapshot(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return snap.Tournaments, nil
}

type Loader struct {
	sources []Source
	logger  zerolog.Logger
}

func NewLoader(logger zerolog.Logger, sources ...Source) *Loader {
	return &Loader{sources: sources, logger: logger}
}

// NewConfiguredLoader wires the sources named in DATA_SOURCES, in that order.
func NewConfiguredLoader(cfg *config.Config, repo *repository.TournamentRepository, client *api.SnapshotClient, logger zerolog.Logger) *Loader {
	var sources []Source
	for _, name := range cfg.DataSources {
		switch name {
		case config.SourceEmbedded:
			sources = append(sources, NewEmbedded(cfg.SeedFile))
		case config.SourceArchive:
			sources = append(sources, NewArchive(repo))
		case config.SourceSnapshot:
			sources = append(sources, NewSnapshot(client, cfg.SnapshotURL))
		}
	}
	return NewLoader(logger, sources...)
}

// Load fetches every source concurrently and concatenates the batches in
// source order. Any failing source fails the load.
func (l *Loader) Load(ctx context.Context) ([]domain.Batch, error) {
	loaded := make([][]domain.Batch, len(l.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range l.sources {
		i, src := i, src
		g.Go(func() error {
			start := time.Now()
			batches, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			loaded[i] = batches
			l.logger.Debug().
				Str("source", src.Name()).
				Int("tournaments", len(batches)).
				Dur("duration", time.Since(start)).
				Msg("source loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.Batch
	for _, batches := range loaded {
		out = append(out, batches...)
	}
	return out, nil
}

type Ingester interface {
	Ingest(tournamentName, dateLabel string, results []domain.TournamentResult) ranking.IngestReport
}

// Replay ingests batches one at a time in the given order.
func Replay(engine Ingester, batches []domain.Batch) []ranking.IngestReport {
	reports := make([]ranking.IngestReport, 0, len(batches))
	for _, b := range batches {
		reports = append(reports, engine.Ingest(b.Name, b.DateLabel, b.TournamentResults()))
	}
	return reports
}

type BootstrapSummary struct {
	Tournaments  int `json:"tournaments"`
	Results      int `json:"results"`
	SkippedRanks int `json:"skippedRanks"`
}

// Bootstrap loads every source and replays it into engine.
func Bootstrap(ctx context.Context, loader *Loader, engine Ingester) (BootstrapSummary, error) {
	batches, err := loader.Load(ctx)
	if err != nil {
		return BootstrapSummary{}, fmt.Errorf("failed to load tournaments: %w", err)
	}

	summary := summarize(Replay(engine, batches))
	loader.logger.Info().
		Int("tournaments", summary.Tournaments).
		Int("results", summary.Results).
		Int("skipped_ranks", summary.SkippedRanks).
		Msg("engine bootstrapped")
	return summary, nil
}

type Resetter interface {
	Ingester
	Reset()
}

// Reload loads every source first and only then clears and refills engine,
// so a failing source leaves the current data in place.
func Reload(ctx context.Context, loader *Loader, engine Resetter) (BootstrapSummary, error) {
	batches, err := loader.Load(ctx)
	if err != nil {
		return BootstrapSummary{}, fmt.Errorf("failed to load tournaments: %w", err)
	}

	engine.Reset()
	summary := summarize(Replay(engine, batches))
	loader.logger.Info().
		Int("tournaments", summary.Tournaments).
		Int("results", summary.Results).
		Int("skipped_ranks", summary.SkippedRanks).
		Msg("engine reloaded")
	return summary, nil
}

func summarize(reports []ranking.IngestReport) BootstrapSummary {
	var summary BootstrapSummary
	for _, report := range reports {
		summary.Tournaments++
		summary.Results += report.Tournament.Results
		summary.SkippedRanks += report.SkippedRanks
	}
	return summary
}
