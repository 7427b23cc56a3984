package analytics

import (
	"sort"

	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
	"volley-rank/internal/region"
)

// AwayRecord counts a team's podiums by venue region.
type AwayRecord struct {
	Team     domain.TeamStats `json:"team"`
	Home     int              `json:"home"`
	Away     int              `json:"away"`
	HomeWins int              `json:"homeWins"`
	AwayWins int              `json:"awayWins"`
}

type StoryReport struct {
	ChampionshipOnly []domain.TeamStats `json:"championshipOnly"`
	AlwaysFinalists  []domain.TeamStats `json:"alwaysFinalists"`
	ClutchFinals     []domain.TeamStats `json:"clutchFinals"`
	MostRunnerUps    []domain.TeamStats `json:"mostRunnerUps"`
	MostThirdPlaces  []domain.TeamStats `json:"mostThirdPlaces"`
	BestAway         []AwayRecord       `json:"bestAway"`
}

// Stories builds every story list over the given rows. Input order is kept for
// equal sort keys.
func Stories(teams []domain.TeamStats, limit int) StoryReport {
	return StoryReport{
		ChampionshipOnly: ChampionshipOnly(teams),
		AlwaysFinalists:  AlwaysFinalists(teams, limit),
		ClutchFinals:     ClutchFinals(teams, limit),
		MostRunnerUps:    MostRunnerUps(teams, limit),
		MostThirdPlaces:  MostThirdPlaces(teams, limit),
		BestAway:         BestAwayPerformers(teams, limit),
	}
}

// ChampionshipOnly lists every team whose only medals are titles, in input
// order and uncapped.
func ChampionshipOnly(teams []domain.TeamStats) []domain.TeamStats {
	return filter(teams, func(t domain.TeamStats) bool {
		return t.Championships > 0 && t.RunnerUps == 0 && t.ThirdPlaces == 0
	})
}

// AlwaysFinalists are teams that never finished third but reached at least one
// final.
func AlwaysFinalists(teams []domain.TeamStats, limit int) []domain.TeamStats {
	out := filter(teams, func(t domain.TeamStats) bool {
		return t.ThirdPlaces == 0 && (t.Championships > 0 || t.RunnerUps > 0)
	})
	ranking.SortTeams(out)
	return truncate(out, limit)
}

// ClutchFinals are teams that won more than once and never lost a final.
func ClutchFinals(teams []domain.TeamStats, limit int) []domain.TeamStats {
	out := filter(teams, func(t domain.TeamStats) bool {
		return t.Championships > 1 && t.RunnerUps == 0
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Championships > out[j].Championships })
	return truncate(out, limit)
}

func MostRunnerUps(teams []domain.TeamStats, limit int) []domain.TeamStats {
	out := filter(teams, func(t domain.TeamStats) bool { return t.RunnerUps > 0 })
	sort.SliceStable(out, func(i, j int) bool { return out[i].RunnerUps > out[j].RunnerUps })
	return truncate(out, limit)
}

func MostThirdPlaces(teams []domain.TeamStats, limit int) []domain.TeamStats {
	out := filter(teams, func(t domain.TeamStats) bool { return t.ThirdPlaces > 0 })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ThirdPlaces > out[j].ThirdPlaces })
	return truncate(out, limit)
}

// AwayRecordFor infers each history record's venue from the tournament name.
// Venues that cannot be placed count as neither home nor away.
func AwayRecordFor(team domain.TeamStats) AwayRecord {
	rec := AwayRecord{Team: team}
	for _, r := range team.Tournaments {
		venue := region.LocateTournament(r.Tournament)
		switch {
		case venue == domain.RegionUnknown:
			continue
		case venue == team.Region:
			rec.Home++
			if r.Rank == domain.RankChampion {
				rec.HomeWins++
			}
		default:
			rec.Away++
			if r.Rank == domain.RankChampion {
				rec.AwayWins++
			}
		}
	}
	return rec
}

// BestAwayPerformers lists teams with at least one away podium, most first.
func BestAwayPerformers(teams []domain.TeamStats, limit int) []AwayRecord {
	var out []AwayRecord
	for _, t := range teams {
		rec := AwayRecordFor(t)
		if rec.Away > 0 {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Away > out[j].Away })
	return truncate(out, limit)
}

func filter(teams []domain.TeamStats, keep func(domain.TeamStats) bool) []domain.TeamStats {
	var out []domain.TeamStats
	for _, t := range teams {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
