package ranking

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"volley-rank/internal/domain"
	"volley-rank/internal/region"
)

// Engine owns the cumulative team statistics. Ingest is the only mutator;
// every query returns copies.
type Engine struct {
	mu sync.RWMutex

	tournaments []domain.Tournament
	results     int

	teams     map[string]*domain.TeamStats
	teamOrder []string

	divisionTeams map[divisionKey]*domain.TeamStats
	divisionOrder []divisionKey
	divisions     map[string]struct{}

	logger zerolog.Logger
}

// IngestReport summarizes one Ingest call.
type IngestReport struct {
	Tournament   domain.Tournament `json:"tournament"`
	Counted      int               `json:"counted"`
	SkippedRanks int               `json:"skippedRanks"`
	NewTeams     int               `json:"newTeams"`
}

func NewEngine(logger zerolog.Logger) *Engine {
	e := &Engine{logger: logger}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.tournaments = nil
	e.results = 0
	e.teams = make(map[string]*domain.TeamStats)
	e.teamOrder = nil
	e.divisionTeams = make(map[divisionKey]*domain.TeamStats)
	e.divisionOrder = nil
	e.divisions = make(map[string]struct{})
}

// Reset drops every tournament and team.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
	e.logger.Info().Msg("engine data cleared")
}

// Ingest appends one tournament batch. Results are not deduplicated; a batch
// submitted twice counts twice. Ranks outside 1..3 are kept in history but do
// not touch the counters.
func (e *Engine) Ingest(tournamentName, dateLabel string, results []domain.TournamentResult) IngestReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := domain.Tournament{
		Sequence:  len(e.tournaments) + 1,
		Name:      tournamentName,
		DateLabel: dateLabel,
		Results:   len(results),
	}
	e.tournaments = append(e.tournaments, t)

	report := IngestReport{Tournament: t}
	for _, result := range results {
		e.results++
		result.Region = e.checkOverride(tournamentName, result)
		resolved := result.Region
		if resolved == "" {
			resolved = region.Classify(result.TeamName)
		}

		identity := Identity(result.TeamName)
		if _, ok := e.teams[identity]; !ok {
			report.NewTeams++
		}
		global := e.globalEntry(identity, result, resolved)
		scoped := e.divisionEntry(divisionKey{identity: identity, division: result.Division}, result, resolved)
		e.divisions[result.Division] = struct{}{}

		if !result.RankValid() {
			report.SkippedRanks++
			e.logger.Warn().
				Str("tournament", tournamentName).
				Str("team", result.TeamName).
				Int("rank", result.Rank).
				Msg("rank outside podium, recorded without counting")
		} else {
			report.Counted++
		}

		apply(global, result)
		apply(scoped, result)
	}

	e.logger.Info().
		Int("sequence", t.Sequence).
		Str("tournament", tournamentName).
		Int("results", len(results)).
		Int("skipped_ranks", report.SkippedRanks).
		Int("total_teams", len(e.teams)).
		Msg("tournament ingested")

	return report
}

// checkOverride returns the result's region override when it is one of the
// known labels. Anything else is dropped so the team name decides.
func (e *Engine) checkOverride(tournamentName string, result domain.TournamentResult) domain.Region {
	r := result.Region
	if r == "" || region.Valid(r) || r == domain.RegionUnknown {
		return r
	}
	e.logger.Warn().
		Str("tournament", tournamentName).
		Str("team", result.TeamName).
		Str("region", string(r)).
		Msg("unknown region override, classifying by name")
	return ""
}

func (e *Engine) globalEntry(identity string, result domain.TournamentResult, r domain.Region) *domain.TeamStats {
	stats, ok := e.teams[identity]
	if !ok {
		stats = newStats(result, r)
		e.teams[identity] = stats
		e.teamOrder = append(e.teamOrder, identity)
	}
	return stats
}

func (e *Engine) divisionEntry(key divisionKey, result domain.TournamentResult, r domain.Region) *domain.TeamStats {
	stats, ok := e.divisionTeams[key]
	if !ok {
		stats = newStats(result, r)
		e.divisionTeams[key] = stats
		e.divisionOrder = append(e.divisionOrder, key)
	}
	return stats
}

func newStats(first domain.TournamentResult, r domain.Region) *domain.TeamStats {
	return &domain.TeamStats{
		TeamName: first.TeamName,
		Division: first.Division,
		Region:   r,
	}
}

func apply(stats *domain.TeamStats, result domain.TournamentResult) {
	stats.Tournaments = append(stats.Tournaments, result)
	switch result.Rank {
	case domain.RankChampion:
		stats.Championships++
	case domain.RankRunnerUp:
		stats.RunnerUps++
	case domain.RankThirdPlace:
		stats.ThirdPlaces++
	}
	stats.TotalScore = domain.Score(stats.Championships, stats.RunnerUps, stats.ThirdPlaces)
}

// DivisionRankings returns division-scoped rows sorted for a ranking table.
// An empty division combines every division; a team playing in two divisions
// still appears once per division.
func (e *Engine) DivisionRankings(division string) []domain.TeamStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	teams := make([]domain.TeamStats, 0, len(e.divisionOrder))
	for _, key := range e.divisionOrder {
		if division != "" && key.division != division {
			continue
		}
		teams = append(teams, clone(e.divisionTeams[key]))
	}
	SortTeams(teams)
	return teams
}

// RegionalRankings filters DivisionRankings to one region, keeping order.
func (e *Engine) RegionalRankings(r domain.Region, division string) []domain.TeamStats {
	all := e.DivisionRankings(division)
	teams := make([]domain.TeamStats, 0, len(all))
	for _, team := range all {
		if team.Region == r {
			teams = append(teams, team)
		}
	}
	return teams
}

// TeamDetails looks a team up by identity in the cross-division map.
func (e *Engine) TeamDetails(teamName string) (domain.TeamStats, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats, ok := e.teams[Identity(teamName)]
	if !ok {
		return domain.TeamStats{}, false
	}
	return clone(stats), true
}

func (e *Engine) TournamentStats() domain.TournamentSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return domain.TournamentSummary{
		TotalTournaments: len(e.tournaments),
		TotalTeams:       len(e.teams),
		TotalResults:     e.results,
	}
}

// Divisions lists every division label seen in any result, sorted.
func (e *Engine) Divisions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, 0, len(e.divisions))
	for d := range e.divisions {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) Regions() []domain.Region {
	return region.Regions()
}

// Tournaments returns the ingestion log in order.
func (e *Engine) Tournaments() []domain.Tournament {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]domain.Tournament(nil), e.tournaments...)
}

func (e *Engine) TournamentNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, len(e.tournaments))
	for i, t := range e.tournaments {
		names[i] = t.Name
	}
	return names
}

// DivisionTeamCounts counts global teams by their first-seen division.
func (e *Engine) DivisionTeamCounts() []domain.DivisionTeamCount {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[string]int)
	var order []string
	for _, identity := range e.teamOrder {
		d := e.teams[identity].Division
		if _, ok := counts[d]; !ok {
			order = append(order, d)
		}
		counts[d]++
	}

	out := make([]domain.DivisionTeamCount, len(order))
	for i, d := range order {
		out[i] = domain.DivisionTeamCount{Division: d, TeamCount: counts[d]}
	}
	return out
}

// SearchTeams matches query case-insensitively against team name, division
// and region. limit <= 0 returns every match.
func (e *Engine) SearchTeams(query string, limit int) []domain.TeamStats {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []domain.TeamStats
	for _, identity := range e.teamOrder {
		stats := e.teams[identity]
		if strings.Contains(strings.ToLower(stats.TeamName), q) ||
			strings.Contains(strings.ToLower(stats.Division), q) ||
			strings.Contains(string(stats.Region), q) {
			out = append(out, clone(stats))
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func clone(s *domain.TeamStats) domain.TeamStats {
	c := *s
	c.Tournaments = append([]domain.TournamentResult(nil), s.Tournaments...)
	return c
}
