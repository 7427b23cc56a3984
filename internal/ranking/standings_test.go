package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"volley-rank/internal/domain"
)

func team(name string, c, r, t int) domain.TeamStats {
	return domain.TeamStats{TeamName: name, Championships: c, RunnerUps: r, ThirdPlaces: t}
}

func TestBetter(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.TeamStats
		want bool
	}{
		{"more championships", team("a", 2, 0, 0), team("b", 1, 9, 9), true},
		{"runner-ups break tie", team("a", 1, 2, 0), team("b", 1, 1, 9), true},
		{"thirds break tie", team("a", 1, 1, 2), team("b", 1, 1, 1), true},
		{"identical is not better", team("a", 1, 1, 1), team("b", 1, 1, 1), false},
		{"worse", team("a", 0, 5, 5), team("b", 1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Better(tt.a, tt.b))
		})
	}
}

func TestStandingsCompetitionRanking(t *testing.T) {
	teams := []domain.TeamStats{
		team("A", 2, 1, 0),
		team("B", 2, 1, 0),
		team("C", 1, 0, 0),
		team("D", 1, 0, 0),
		team("E", 0, 0, 1),
	}

	got := Standings(teams)
	var ranks []int
	for _, s := range got {
		ranks = append(ranks, s.DisplayRank)
	}
	assert.Equal(t, []int{1, 1, 3, 3, 5}, ranks)
	assert.Equal(t, "C", got[2].TeamName)
}

func TestSortTeamsIsStable(t *testing.T) {
	teams := []domain.TeamStats{
		team("first", 1, 0, 0),
		team("top", 3, 0, 0),
		team("second", 1, 0, 0),
		team("third", 1, 0, 0),
	}
	SortTeams(teams)

	var names []string
	for _, tm := range teams {
		names = append(names, tm.TeamName)
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, names)
}

func TestRankWithin(t *testing.T) {
	pool := []domain.TeamStats{team("A", 3, 0, 0), team("B", 1, 0, 0), team("C", 1, 0, 0)}

	assert.Equal(t, 1, RankWithin(pool, pool[0]))
	assert.Equal(t, 2, RankWithin(pool, pool[1]))
	assert.Equal(t, 2, RankWithin(pool, team("outsider", 1, 0, 0)))
	assert.Equal(t, 4, RankWithin(pool, team("last", 0, 0, 0)))
	assert.Equal(t, 1, RankWithin(nil, team("alone", 0, 0, 0)))
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"서울 V9", "서울v9"},
		{"서울V9", "서울v9"},
		{"  전주\tV9 ", "전주v9"},
		{"Seoul  Spikers", "seoulspikers"},
		// decomposed 서울 (jamo) collapses to the composed form
		{"\u1109\u1165\u110b\u116e\u11af A", "서울a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Identity(tt.in))
		})
	}
}
