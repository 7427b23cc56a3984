package analytics

import (
	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
)

type BadgeKind string

const (
	BadgeRegionalLeader BadgeKind = "regional-leader"
	BadgeNational       BadgeKind = "national"
)

// Tier colours the national rank badge.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierTop5   Tier = "top5"
	TierTop10  Tier = "top10"
)

type Badge struct {
	Kind   BadgeKind     `json:"kind"`
	Region domain.Region `json:"region,omitempty"`
	Rank   int           `json:"rank,omitempty"`
	Tier   Tier          `json:"tier,omitempty"`
}

// NationalTier maps a national rank to its badge tier. ok is false outside
// the cutoff.
func NationalTier(rank, cutoff int) (Tier, bool) {
	switch {
	case rank < 1 || rank > cutoff:
		return "", false
	case rank == 1:
		return TierGold, true
	case rank == 2:
		return TierSilver, true
	case rank == 3:
		return TierBronze, true
	case rank <= 5:
		return TierTop5, true
	default:
		return TierTop10, true
	}
}

// Badges decorates a ranking row. national is the whole division pool the
// row was drawn from. With regional false (every region shown) only a
// region's leader gets a badge and Unknown never does; in a single-region
// view every team inside the national cutoff carries its national rank.
func Badges(team domain.TeamStats, national []domain.TeamStats, regional bool, cutoff int) []Badge {
	if !regional {
		if team.Region == domain.RegionUnknown {
			return nil
		}
		var pool []domain.TeamStats
		for _, t := range national {
			if t.Region == team.Region {
				pool = append(pool, t)
			}
		}
		if ranking.RankWithin(pool, team) == 1 {
			return []Badge{{Kind: BadgeRegionalLeader, Region: team.Region, Rank: 1}}
		}
		return nil
	}

	rank := ranking.RankWithin(national, team)
	tier, ok := NationalTier(rank, cutoff)
	if !ok {
		return nil
	}
	return []Badge{{Kind: BadgeNational, Rank: rank, Tier: tier}}
}
