package region

import (
	"strings"

	"volley-rank/internal/domain"
)

// Host-city keywords found in tournament titles. This table is independent of
// the team gazetteer and matched by substring.
var venues = []cityGroup{
	{region: domain.RegionGangwon, cities: []string{"인제", "강릉", "춘천"}},
	{region: domain.RegionChungcheong, cities: []string{"단양", "진천", "충주", "천안"}},
	{region: domain.RegionJeolla, cities: []string{"전주", "광주", "목포", "순천"}},
	{region: domain.RegionGyeongsang, cities: []string{"부산", "울산", "대구", "경주", "울진", "진안"}},
	{region: domain.RegionJeju, cities: []string{"제주"}},
	{region: domain.RegionCapital, cities: []string{"서울", "인천", "수원", "용인", "광명", "일산"}},
}

// LocateTournament infers where a tournament was held from its title.
func LocateTournament(tournamentName string) domain.Region {
	for _, venue := range venues {
		for _, keyword := range venue.cities {
			if strings.Contains(tournamentName, keyword) {
				return venue.region
			}
		}
	}
	return domain.RegionUnknown
}
