package analytics

import (
	"sort"
	"strings"

	"volley-rank/internal/domain"
)

type Trend string

const (
	TrendRising     Trend = "rising"
	TrendDeclining  Trend = "declining"
	TrendConsistent Trend = "consistent"
)

// EpochBounds splits n tournaments into thirds. Tournament numbers 1..EarlyEnd
// are early, EarlyEnd+1..MidEnd middle, MidEnd+1..Total late.
type EpochBounds struct {
	Total    int `json:"total"`
	EarlyEnd int `json:"earlyEnd"`
	MidEnd   int `json:"midEnd"`
}

func Epochs(n int) EpochBounds {
	return EpochBounds{
		Total:    n,
		EarlyEnd: ceilDiv(n, 3),
		MidEnd:   ceilDiv(2*n, 3),
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// FindTournamentIndex locates name in the ordered tournament list. An exact
// match wins; otherwise a known name containing name, or name containing the
// first two words of a known name. Returns -1 when nothing matches.
func FindTournamentIndex(names []string, name string) int {
	if name == "" {
		return -1
	}
	for i, known := range names {
		if known == name {
			return i
		}
	}
	for i, known := range names {
		if strings.Contains(known, name) {
			return i
		}
		if head, ok := leadingWords(known, 2); ok && strings.Contains(name, head) {
			return i
		}
	}
	return -1
}

func leadingWords(s string, n int) (string, bool) {
	parts := strings.Split(s, " ")
	if len(parts) < n {
		return "", false
	}
	return strings.Join(parts[:n], " "), true
}

type TeamTrend struct {
	Team       domain.TeamStats `json:"team"`
	Early      int              `json:"early"`
	Mid        int              `json:"mid"`
	Late       int              `json:"late"`
	Unlocated  int              `json:"unlocated"`
	Rising     bool             `json:"rising"`
	Declining  bool             `json:"declining"`
	Consistent bool             `json:"consistent"`
}

// Trends returns the set of labels that apply; a team can be both rising and
// consistent.
func (t TeamTrend) Trends() []Trend {
	var out []Trend
	if t.Rising {
		out = append(out, TrendRising)
	}
	if t.Declining {
		out = append(out, TrendDeclining)
	}
	if t.Consistent {
		out = append(out, TrendConsistent)
	}
	return out
}

// ClassifyTrend buckets a team's history into epochs and applies the trend
// rules. History entries whose tournament cannot be located are skipped.
func ClassifyTrend(team domain.TeamStats, names []string) TeamTrend {
	bounds := Epochs(len(names))
	tt := TeamTrend{Team: team}

	for _, r := range team.Tournaments {
		idx := FindTournamentIndex(names, r.Tournament)
		if idx < 0 {
			tt.Unlocated++
			continue
		}
		number := idx + 1
		switch {
		case number <= bounds.EarlyEnd:
			tt.Early++
		case number <= bounds.MidEnd:
			tt.Mid++
		case number <= bounds.Total:
			tt.Late++
		}
	}

	tt.Rising = tt.Late > tt.Early && tt.Late >= 2
	tt.Declining = tt.Early > tt.Late && tt.Early >= 2

	hi := max(tt.Early, tt.Mid, tt.Late)
	lo := min(tt.Early, tt.Mid, tt.Late)
	tt.Consistent = hi-lo <= 1 && len(team.Tournaments) >= 3
	return tt
}

type TrendReport struct {
	Epochs     EpochBounds `json:"epochs"`
	Rising     []TeamTrend `json:"rising"`
	Declining  []TeamTrend `json:"declining"`
	Consistent []TeamTrend `json:"consistent"`
}

// AnalyzeTrends classifies every team against the tournament order. Rising
// and declining lists are ordered by the size of the swing; limit <= 0 keeps
// every team.
func AnalyzeTrends(teams []domain.TeamStats, names []string, limit int) TrendReport {
	report := TrendReport{Epochs: Epochs(len(names))}
	for _, team := range teams {
		tt := ClassifyTrend(team, names)
		if tt.Rising {
			report.Rising = append(report.Rising, tt)
		}
		if tt.Declining {
			report.Declining = append(report.Declining, tt)
		}
		if tt.Consistent {
			report.Consistent = append(report.Consistent, tt)
		}
	}

	sort.SliceStable(report.Rising, func(i, j int) bool {
		return report.Rising[i].Late-report.Rising[i].Early > report.Rising[j].Late-report.Rising[j].Early
	})
	sort.SliceStable(report.Declining, func(i, j int) bool {
		return report.Declining[i].Early-report.Declining[i].Late > report.Declining[j].Early-report.Declining[j].Late
	})

	report.Rising = truncate(report.Rising, limit)
	report.Declining = truncate(report.Declining, limit)
	report.Consistent = truncate(report.Consistent, limit)
	return report
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
