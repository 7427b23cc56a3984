package domain

import "time"

type Region string

const (
	RegionCapital     Region = "수도권"
	RegionChungcheong Region = "충청권"
	RegionJeolla      Region = "전라권"
	RegionGyeongsang  Region = "경상권"
	RegionGangwon     Region = "강원권"
	RegionJeju        Region = "제주권"
	RegionUnknown     Region = "기타"
)

// DisplayRegion folds Unknown into Capital. Only summary views use it; stored
// regions keep RegionUnknown.
func (r Region) DisplayRegion() Region {
	if r == RegionUnknown || r == "" {
		return RegionCapital
	}
	return r
}

func (r Region) String() string {
	return string(r)
}

// Placement ranks. Anything else is recorded in history but never counted.
const (
	RankChampion   = 1
	RankRunnerUp   = 2
	RankThirdPlace = 3
)

const (
	ChampionPoints   = 5
	RunnerUpPoints   = 3
	ThirdPlacePoints = 1
)

type TournamentResult struct {
	Tournament string `json:"tournament" yaml:"tournament"`
	Division   string `json:"division" yaml:"division"`
	TeamName   string `json:"teamName" yaml:"teamName"`
	Rank       int    `json:"rank" yaml:"rank"`
	Region     Region `json:"region,omitempty" yaml:"region,omitempty"` // override, normally empty
}

func (r TournamentResult) RankValid() bool {
	return r.Rank >= RankChampion && r.Rank <= RankThirdPlace
}

type TeamStats struct {
	TeamName      string             `json:"teamName"`
	Division      string             `json:"division"`
	Region        Region             `json:"region"`
	Championships int                `json:"championships"`
	RunnerUps     int                `json:"runnerUps"`
	ThirdPlaces   int                `json:"thirdPlaces"`
	TotalScore    int                `json:"totalScore"`
	Tournaments   []TournamentResult `json:"tournaments"`
}

func (s TeamStats) TotalMedals() int {
	return s.Championships + s.RunnerUps + s.ThirdPlaces
}

// Score recomputes the weighted total from the three counters.
func Score(championships, runnerUps, thirdPlaces int) int {
	return championships*ChampionPoints + runnerUps*RunnerUpPoints + thirdPlaces*ThirdPlacePoints
}

type Tournament struct {
	Sequence  int    `json:"sequence"`
	Name      string `json:"name"`
	DateLabel string `json:"date"`
	Results   int    `json:"results"`
}

type TournamentSummary struct {
	TotalTournaments int `json:"totalTournaments"`
	TotalTeams       int `json:"totalTeams"`
	TotalResults     int `json:"totalResults"`
}

type DivisionTeamCount struct {
	Division  string `json:"division"`
	TeamCount int    `json:"teamCount"`
}

// Batch is one tournament as produced by a data source, before ingestion.
type Batch struct {
	Name      string        `json:"name" yaml:"name"`
	DateLabel string        `json:"date,omitempty" yaml:"date,omitempty"`
	Results   []BatchResult `json:"results" yaml:"results"`
}

type BatchResult struct {
	Division string `json:"division" yaml:"division"`
	TeamName string `json:"team" yaml:"team"`
	Rank     int    `json:"rank" yaml:"rank"`
	Region   Region `json:"region,omitempty" yaml:"region,omitempty"`
}

// TournamentResults expands the batch into ingestable records.
func (b Batch) TournamentResults() []TournamentResult {
	out := make([]TournamentResult, len(b.Results))
	for i, r := range b.Results {
		out[i] = TournamentResult{
			Tournament: b.Name,
			Division:   r.Division,
			TeamName:   r.TeamName,
			Rank:       r.Rank,
			Region:     r.Region,
		}
	}
	return out
}

// ArchivedTournament is a batch stored in the sqlite archive.
type ArchivedTournament struct {
	ID        string    `json:"id"` // nanoid
	Sequence  int       `json:"sequence"`
	Name      string    `json:"name"`
	DateLabel string    `json:"date"`
	Results   int       `json:"results"`
	CreatedAt time.Time `json:"createdAt"`
}
