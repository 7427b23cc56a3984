package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"volley-rank/internal/analytics"
	"volley-rank/internal/constants"
	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
	"volley-rank/internal/region"
)

var ErrTeamNotFound = errors.New("team not found")

type StandingsService struct {
	engine *ranking.Engine
	logger zerolog.Logger
}

func NewStandingsService(engine *ranking.Engine, logger zerolog.Logger) *StandingsService {
	return &StandingsService{engine: engine, logger: logger}
}

type Row struct {
	ranking.Standing
	Badges []analytics.Badge `json:"badges,omitempty"`
}

type Board struct {
	Division string `json:"division"`
	Region   string `json:"region"`
	Rows     []Row  `json:"rows"`
}

type TeamDetail struct {
	domain.TeamStats
	Shares analytics.MedalShare `json:"shares"`
	Away   analytics.AwayRecord `json:"away"`
	Trend  analytics.TeamTrend  `json:"trend"`
}

type Analysis struct {
	Division string                   `json:"division"`
	Region   string                   `json:"region"`
	Summary  analytics.Summary        `json:"summary"`
	Trends   analytics.TrendReport    `json:"trends"`
	Stories  analytics.StoryReport    `json:"stories"`
	Medals   []analytics.RegionMedals `json:"medals"`
	Strength analytics.RegionSplit    `json:"strength"`
}

type Overview struct {
	Stats      domain.TournamentSummary   `json:"stats"`
	Divisions  []string                   `json:"divisions"`
	Regions    []domain.Region            `json:"regions"`
	TeamCounts []domain.DivisionTeamCount `json:"teamCounts"`
}

// NormalizeFilter maps the "all" sentinel and blanks to no restriction.
func NormalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if v == constants.AllDivisions || v == constants.AllRegions {
		return ""
	}
	return v
}

// Board builds a ranking table. Display ranks are computed over the rows
// shown, so a regional board ranks teams within the region; badges compare
// against the whole division pool.
func (s *StandingsService) Board(division, region string) Board {
	division = NormalizeFilter(division)
	region = NormalizeFilter(region)

	national := s.engine.DivisionRankings(division)
	teams := national
	if region != "" {
		teams = s.pool(division, region)
	}

	standings := ranking.Standings(teams)
	rows := make([]Row, len(standings))
	for i, st := range standings {
		rows[i] = Row{
			Standing: st,
			Badges:   analytics.Badges(st.TeamStats, national, region != "", constants.NationalBadgeCutoff),
		}
	}

	s.logger.Debug().
		Str("division", division).
		Str("region", region).
		Int("rows", len(rows)).
		Msg("ranking board built")

	return Board{Division: division, Region: region, Rows: rows}
}

func (s *StandingsService) Team(name string) (TeamDetail, error) {
	team, ok := s.engine.TeamDetails(name)
	if !ok {
		s.logger.Debug().Str("team", name).Msg("team not found")
		return TeamDetail{}, ErrTeamNotFound
	}

	return TeamDetail{
		TeamStats: team,
		Shares:    analytics.MedalShares(team),
		Away:      analytics.AwayRecordFor(team),
		Trend:     analytics.ClassifyTrend(team, s.engine.TournamentNames()),
	}, nil
}

func (s *StandingsService) Search(query string) []domain.TeamStats {
	return s.engine.SearchTeams(query, constants.SearchSuggestionLimit)
}

// pool returns the division rows, narrowed to one region when region is set.
func (s *StandingsService) pool(division, region string) []domain.TeamStats {
	if region == "" {
		return s.engine.DivisionRankings(division)
	}
	return s.engine.RegionalRankings(domain.Region(region), division)
}

// Analysis computes the insight report over the same rows a board with these
// filters would show.
func (s *StandingsService) Analysis(division, region string) Analysis {
	division = NormalizeFilter(division)
	region = NormalizeFilter(region)
	teams := s.pool(division, region)
	medals := analytics.MedalTable(teams)

	return Analysis{
		Division: division,
		Region:   region,
		Summary:  analytics.DivisionSummary(teams),
		Trends:   analytics.AnalyzeTrends(teams, s.engine.TournamentNames(), constants.AnalysisTopN),
		Stories:  analytics.Stories(teams, constants.AnalysisTopN),
		Medals:   medals,
		Strength: analytics.RegionStrength(medals),
	}
}

func (s *StandingsService) Medals(division, region string) []analytics.RegionMedals {
	return analytics.MedalTable(s.pool(NormalizeFilter(division), NormalizeFilter(region)))
}

func (s *StandingsService) Overview() Overview {
	return Overview{
		Stats:      s.engine.TournamentStats(),
		Divisions:  s.engine.Divisions(),
		Regions:    s.engine.Regions(),
		TeamCounts: s.engine.DivisionTeamCounts(),
	}
}

type RegionInfo struct {
	Region domain.Region `json:"region"`
	Cities []string      `json:"cities"`
}

// Regions lists the classifiable regions with the city prefixes that map a
// team name to each.
func (s *StandingsService) Regions() []RegionInfo {
	regions := s.engine.Regions()
	out := make([]RegionInfo, len(regions))
	for i, r := range regions {
		out[i] = RegionInfo{Region: r, Cities: region.Cities(r)}
	}
	return out
}

func (s *StandingsService) Tournaments() []domain.Tournament {
	return s.engine.Tournaments()
}
