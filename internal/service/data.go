package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"volley-rank/internal/api"
	"volley-rank/internal/config"
	"volley-rank/internal/constants"
	"volley-rank/internal/metrics"
	"volley-rank/internal/ranking"
	"volley-rank/internal/repository"
	"volley-rank/internal/source"
)

// DataService reports where the engine's data came from and refills it.
type DataService struct {
	cfg      *config.Config
	engine   *ranking.Engine
	loader   *source.Loader
	repo     *repository.TournamentRepository
	snapshot *api.SnapshotClient
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	reloadMu sync.Mutex
}

func NewDataService(
	cfg *config.Config,
	engine *ranking.Engine,
	loader *source.Loader,
	repo *repository.TournamentRepository,
	snapshot *api.SnapshotClient,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *DataService {
	return &DataService{
		cfg:      cfg,
		engine:   engine,
		loader:   loader,
		repo:     repo,
		snapshot: snapshot,
		metrics:  m,
		logger:   logger,
	}
}

type SourceStatus struct {
	Configured   []string       `json:"configured"`
	Archived     int            `json:"archived"`
	SnapshotURL  string         `json:"snapshotUrl,omitempty"`
	LastSnapshot *api.FetchInfo `json:"lastSnapshot,omitempty"`
}

// Sources counts the archive and, when the snapshot source is configured,
// reports its last successful fetch.
func (s *DataService) Sources(ctx context.Context) (SourceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	archived, err := s.repo.Count(ctx)
	if err != nil {
		return SourceStatus{}, fmt.Errorf("failed to count archive: %w", err)
	}

	status := SourceStatus{
		Configured: append([]string(nil), s.cfg.DataSources...),
		Archived:   archived,
	}
	if s.cfg.HasSource(config.SourceSnapshot) {
		status.SnapshotURL = s.snapshot.URL()
		if last := s.snapshot.LastFetch(); !last.FetchedAt.IsZero() {
			status.LastSnapshot = &last
		}
	}
	return status, nil
}

// Reload clears the engine and replays every configured source, picking up
// tournaments archived since startup. Concurrent reloads run one at a time.
func (s *DataService) Reload(ctx context.Context) (source.BootstrapSummary, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.BootstrapTimeout)
	defer cancel()

	recorder := s.metrics.Recorder(s.engine)
	summary, err := source.Reload(ctx, s.loader, recorder)
	if err != nil {
		s.logger.Error().Err(err).Msg("reload failed, keeping current data")
		return source.BootstrapSummary{}, err
	}
	recorder.SyncTeams()
	return summary, nil
}
