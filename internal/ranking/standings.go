package ranking

import (
	"sort"

	"volley-rank/internal/domain"
)

// Standing is a team row with its competition-style display rank.
type Standing struct {
	domain.TeamStats
	DisplayRank int `json:"displayRank"`
}

// Better reports whether a strictly outranks b: more championships, then more
// runner-ups, then more third places.
func Better(a, b domain.TeamStats) bool {
	if a.Championships != b.Championships {
		return a.Championships > b.Championships
	}
	if a.RunnerUps != b.RunnerUps {
		return a.RunnerUps > b.RunnerUps
	}
	return a.ThirdPlaces > b.ThirdPlaces
}

// SortTeams orders teams in place. Teams tied on all three counters keep their
// relative order.
func SortTeams(teams []domain.TeamStats) {
	sort.SliceStable(teams, func(i, j int) bool {
		return Better(teams[i], teams[j])
	})
}

// Standings assigns display ranks over exactly the slice given. A team's rank
// is one plus the number of entries strictly better than it, so tied teams
// share a rank and the next distinct record skips ahead.
func Standings(teams []domain.TeamStats) []Standing {
	out := make([]Standing, len(teams))
	for i, team := range teams {
		rank := 1
		for j := range teams {
			if j != i && Better(teams[j], team) {
				rank++
			}
		}
		out[i] = Standing{TeamStats: team, DisplayRank: rank}
	}
	return out
}

// RankWithin returns the display rank team would take among pool.
func RankWithin(pool []domain.TeamStats, team domain.TeamStats) int {
	rank := 1
	for _, other := range pool {
		if Better(other, team) {
			rank++
		}
	}
	return rank
}
