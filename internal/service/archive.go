package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"volley-rank/internal/constants"
	"volley-rank/internal/domain"
	"volley-rank/internal/repository"
)

type ArchiveService struct {
	repo   *repository.TournamentRepository
	logger zerolog.Logger
}

func NewArchiveService(repo *repository.TournamentRepository, logger zerolog.Logger) *ArchiveService {
	return &ArchiveService{repo: repo, logger: logger}
}

// Import archives batches in order. Batches already archived under the same
// name are skipped unless force is set; tournaments are not deduplicated by
// the engine, so a re-import would count twice on the next replay.
func (s *ArchiveService) Import(ctx context.Context, batches []domain.Batch, force bool) ([]domain.ArchivedTournament, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var saved []domain.ArchivedTournament
	for _, b := range batches {
		if !force {
			existing, err := s.repo.GetByName(ctx, b.Name)
			if err == nil {
				s.logger.Info().
					Str("tournament", b.Name).
					Int("sequence", existing.Sequence).
					Msg("tournament already archived, skipping")
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return saved, fmt.Errorf("failed to check archive for %s: %w", b.Name, err)
			}
		}

		archived, err := s.repo.SaveBatch(ctx, b)
		if err != nil {
			return saved, err
		}
		saved = append(saved, archived)
	}

	s.logger.Info().
		Int("submitted", len(batches)).
		Int("archived", len(saved)).
		Msg("archive import finished")
	return saved, nil
}

func (s *ArchiveService) List(ctx context.Context) ([]domain.ArchivedTournament, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *ArchiveService) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Clear(ctx)
}
