package fx

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"volley-rank/internal/api"
	"volley-rank/internal/config"
	"volley-rank/internal/constants"
	"volley-rank/internal/database"
	"volley-rank/internal/db"
	"volley-rank/internal/logger"
	"volley-rank/internal/metrics"
	"volley-rank/internal/ranking"
	"volley-rank/internal/repository"
	"volley-rank/internal/server"
	"volley-rank/internal/service"
	"volley-rank/internal/source"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideDatabase opens the archive and closes it when the app stops.
func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	sqlDB, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
	return sqlDB, nil
}

// ProvideEngine builds the engine and replays every configured source into it
// before anything can read from it.
func ProvideEngine(loader *source.Loader, m *metrics.Metrics, logger zerolog.Logger) (*ranking.Engine, error) {
	engine := ranking.NewEngine(logger)

	ctx, cancel := context.WithTimeout(context.Background(), constants.BootstrapTimeout)
	defer cancel()

	recorder := m.Recorder(engine)
	if _, err := source.Bootstrap(ctx, loader, recorder); err != nil {
		return nil, err
	}
	recorder.SyncTeams()
	return engine, nil
}

// Core is everything except the HTTP surface; the CLI runs on it alone.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewTournamentRepository),
	// api client
	fx.Provide(api.NewSnapshotClient),
	// engine
	fx.Provide(source.NewConfiguredLoader),
	fx.Provide(metrics.New),
	fx.Provide(ProvideEngine),
	// svc
	fx.Provide(service.NewStandingsService),
	fx.Provide(service.NewArchiveService),
	fx.Provide(service.NewDataService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(server.NewRankingServer),
)
