package analytics

import (
	"sort"

	"volley-rank/internal/domain"
	"volley-rank/internal/region"
)

type RegionMedals struct {
	Region        domain.Region `json:"region"`
	Championships int           `json:"championships"`
	RunnerUps     int           `json:"runnerUps"`
	ThirdPlaces   int           `json:"thirdPlaces"`
	TotalMedals   int           `json:"totalMedals"`
	TeamCount     int           `json:"teamCount"`
}

// MedalTable sums medals per display region, so Unknown teams land in the
// Capital row. Regions without teams are left out. Rows are ordered by total
// medals, then classifier order.
func MedalTable(teams []domain.TeamStats) []RegionMedals {
	rows := make(map[domain.Region]*RegionMedals)
	for _, t := range teams {
		r := t.Region.DisplayRegion()
		row, ok := rows[r]
		if !ok {
			row = &RegionMedals{Region: r}
			rows[r] = row
		}
		row.Championships += t.Championships
		row.RunnerUps += t.RunnerUps
		row.ThirdPlaces += t.ThirdPlaces
		row.TotalMedals += t.TotalMedals()
		row.TeamCount++
	}

	out := make([]RegionMedals, 0, len(rows))
	for _, r := range region.Regions() {
		if row, ok := rows[r]; ok {
			out = append(out, *row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMedals > out[j].TotalMedals })
	return out
}

type RegionSplit struct {
	Strong []RegionMedals `json:"strong"`
	Weak   []RegionMedals `json:"weak"`
}

// RegionStrength puts the first ceil(n/2) rows of a medal table in Strong.
func RegionStrength(table []RegionMedals) RegionSplit {
	cut := ceilDiv(len(table), 2)
	return RegionSplit{
		Strong: append([]RegionMedals(nil), table[:cut]...),
		Weak:   append([]RegionMedals(nil), table[cut:]...),
	}
}

type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// CompetitionLevel grades a pool by the share of teams holding a championship.
func CompetitionLevel(teams []domain.TeamStats) Level {
	if len(teams) == 0 {
		return LevelLow
	}
	winners := 0
	for _, t := range teams {
		if t.Championships > 0 {
			winners++
		}
	}
	share := float64(winners) / float64(len(teams))
	switch {
	case share > 0.5:
		return LevelHigh
	case share > 0.2:
		return LevelMedium
	default:
		return LevelLow
	}
}

type Summary struct {
	Teams              int                   `json:"teams"`
	Championships      int                   `json:"championships"`
	RunnerUps          int                   `json:"runnerUps"`
	ThirdPlaces        int                   `json:"thirdPlaces"`
	TeamsWithTitles    int                   `json:"teamsWithTitles"`
	FrequentPodiums    int                   `json:"frequentPodiums"`
	Level              Level                 `json:"level"`
	RegionDistribution map[domain.Region]int `json:"regionDistribution"`
}

// DivisionSummary totals one ranking pool. FrequentPodiums counts teams with
// three or more history records.
func DivisionSummary(teams []domain.TeamStats) Summary {
	s := Summary{
		Teams:              len(teams),
		Level:              CompetitionLevel(teams),
		RegionDistribution: make(map[domain.Region]int),
	}
	for _, t := range teams {
		s.Championships += t.Championships
		s.RunnerUps += t.RunnerUps
		s.ThirdPlaces += t.ThirdPlaces
		if t.Championships > 0 {
			s.TeamsWithTitles++
		}
		if len(t.Tournaments) >= 3 {
			s.FrequentPodiums++
		}
		s.RegionDistribution[t.Region.DisplayRegion()]++
	}
	return s
}

// MedalShare is a team's podium mix as fractions of its total medals.
type MedalShare struct {
	WinRate      float64 `json:"winRate"`
	RunnerUpRate float64 `json:"runnerUpRate"`
	ThirdRate    float64 `json:"thirdRate"`
	TotalMedals  int     `json:"totalMedals"`
	AverageScore float64 `json:"averageScore"`
}

func MedalShares(team domain.TeamStats) MedalShare {
	total := team.TotalMedals()
	share := MedalShare{TotalMedals: total}
	if total == 0 {
		return share
	}
	f := float64(total)
	share.WinRate = float64(team.Championships) / f
	share.RunnerUpRate = float64(team.RunnerUps) / f
	share.ThirdRate = float64(team.ThirdPlaces) / f
	share.AverageScore = float64(team.TotalScore) / f
	return share
}
