package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"volley-rank/internal/constants"
	"volley-rank/internal/db"
	"volley-rank/internal/domain"
)

var ErrNotFound = errors.New("not found")

type TournamentRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTournamentRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// SaveBatch archives one tournament with its results in a single transaction.
// The tournament takes the next free sequence number.
func (r *TournamentRepository) SaveBatch(ctx context.Context, batch domain.Batch) (domain.ArchivedTournament, error) {
	if batch.Name == "" {
		return domain.ArchivedTournament{}, fmt.Errorf("tournament name is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ArchivedTournament{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	seq, err := qtx.NextSequence(ctx)
	if err != nil {
		return domain.ArchivedTournament{}, fmt.Errorf("failed to get next sequence: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return domain.ArchivedTournament{}, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	err = qtx.InsertTournament(ctx, db.InsertTournamentParams{
		ID:        id,
		Sequence:  seq,
		Name:      batch.Name,
		DateLabel: batch.DateLabel,
	})
	if err != nil {
		return domain.ArchivedTournament{}, fmt.Errorf("failed to insert tournament %s: %w", batch.Name, err)
	}

	for i := 0; i < len(batch.Results); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(batch.Results))

		for pos, res := range batch.Results[i:end] {
			resultID, err := gonanoid.New()
			if err != nil {
				return domain.ArchivedTournament{}, fmt.Errorf("failed to generate nanoid: %w", err)
			}
			err = qtx.InsertResult(ctx, db.Result{
				ID:           resultID,
				TournamentID: id,
				Position:     int64(i + pos),
				Division:     res.Division,
				TeamName:     res.TeamName,
				Rank:         int64(res.Rank),
				Region:       string(res.Region),
			})
			if err != nil {
				return domain.ArchivedTournament{}, fmt.Errorf("failed to insert result %s/%s: %w", batch.Name, res.TeamName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ArchivedTournament{}, fmt.Errorf("failed to commit tournament %s: %w", batch.Name, err)
	}

	r.logger.Debug().
		Str("id", id).
		Int64("sequence", seq).
		Str("tournament", batch.Name).
		Int("results", len(batch.Results)).
		Msg("tournament archived")

	return domain.ArchivedTournament{
		ID:        id,
		Sequence:  int(seq),
		Name:      batch.Name,
		DateLabel: batch.DateLabel,
		Results:   len(batch.Results),
	}, nil
}

// ListBatches rebuilds every archived tournament in sequence order.
func (r *TournamentRepository) ListBatches(ctx context.Context) ([]domain.Batch, error) {
	tournaments, err := r.queries.ListTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	results, err := r.queries.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	byTournament := make(map[string][]domain.BatchResult, len(tournaments))
	for _, res := range results {
		byTournament[res.TournamentID] = append(byTournament[res.TournamentID], domain.BatchResult{
			Division: res.Division,
			TeamName: res.TeamName,
			Rank:     int(res.Rank),
			Region:   domain.Region(res.Region),
		})
	}

	batches := make([]domain.Batch, 0, len(tournaments))
	for _, t := range tournaments {
		batches = append(batches, domain.Batch{
			Name:      t.Name,
			DateLabel: t.DateLabel,
			Results:   byTournament[t.ID],
		})
	}
	return batches, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]domain.ArchivedTournament, error) {
	rows, err := r.queries.ListTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	out := make([]domain.ArchivedTournament, len(rows))
	for i, row := range rows {
		out[i] = toArchived(row.Tournament, int(row.ResultCount))
	}
	return out, nil
}

// GetByName returns the earliest archived tournament with the given name.
func (r *TournamentRepository) GetByName(ctx context.Context, name string) (domain.ArchivedTournament, error) {
	t, err := r.queries.GetTournamentByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ArchivedTournament{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("tournament", name).Msg("failed to get tournament")
		return domain.ArchivedTournament{}, err
	}
	return toArchived(t, 0), nil
}

func (r *TournamentRepository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountTournaments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return int(count), nil
}

// Clear removes every archived tournament and result.
func (r *TournamentRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	if err := qtx.DeleteResults(ctx); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	if err := qtx.DeleteTournaments(ctx); err != nil {
		return fmt.Errorf("failed to clear tournaments: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to clear archive: %w", err)
	}
	r.logger.Info().Msg("tournament archive cleared")
	return nil
}

func toArchived(t db.Tournament, results int) domain.ArchivedTournament {
	return domain.ArchivedTournament{
		ID:        t.ID,
		Sequence:  int(t.Sequence),
		Name:      t.Name,
		DateLabel: t.DateLabel,
		Results:   results,
		CreatedAt: t.CreatedAt,
	}
}
