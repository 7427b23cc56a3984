package region

import (
	"strings"

	"volley-rank/internal/domain"
)

type cityGroup struct {
	region domain.Region
	cities []string
}

// gazetteer is checked in slice order. Some tokens (고성) appear in more than
// one region; the earlier region wins.
var gazetteer = []cityGroup{
	{
		region: domain.RegionCapital,
		cities: []string{
			"서울", "인천", "경기", "고양", "성남", "수원", "안양", "부천", "의정부", "안산",
			"구리", "남양주", "오산", "시흥", "군포", "의왕", "하남", "용인", "파주", "이천",
			"안성", "김포", "화성", "양주", "포천", "여주", "연천", "가평", "양평",
		},
	},
	{
		region: domain.RegionChungcheong,
		cities: []string{
			"대전", "서대전", "세종", "충북", "충남", "청주", "충주", "제천", "보은", "옥천",
			"영동", "진천", "괴산", "음성", "단양", "증평", "천안", "공주", "보령", "아산",
			"서산", "논산", "계룡", "당진", "금산", "부여", "서천", "청양", "홍성", "예산",
			"태안",
		},
	},
	{
		region: domain.RegionJeolla,
		cities: []string{
			"광주", "전북", "전남", "전주", "군산", "익산", "정읍", "남원", "김제", "완주",
			"진안", "무주", "장수", "임실", "순창", "고창", "부안", "목포", "여수", "순천",
			"나주", "광양", "담양", "곡성", "구례", "고흥", "보성", "화순", "장흥", "강진",
			"해남", "영암", "무안", "함평", "영광", "장성", "완도", "진도", "신안",
		},
	},
	{
		region: domain.RegionGyeongsang,
		cities: []string{
			"부산", "대구", "울산", "경북", "경남", "포항", "경주", "김천", "안동", "구미",
			"영주", "영천", "상주", "문경", "경산", "군위", "의성", "청송", "영양", "영덕",
			"청도", "고령", "성주", "칠곡", "예천", "봉화", "울진", "울릉", "창원", "진주",
			"통영", "사천", "김해", "밀양", "거제", "양산", "의령", "함안", "창녕", "고성",
			"남해", "하동", "산청", "함양", "거창", "합천",
		},
	},
	{
		region: domain.RegionGangwon,
		cities: []string{
			"강원", "춘천", "원주", "강릉", "동해", "태백", "속초", "삼척", "홍천", "횡성",
			"영월", "평창", "정선", "철원", "화천", "양구", "인제", "고성", "양양",
		},
	},
	{
		region: domain.RegionJeju,
		cities: []string{"제주", "서귀포"},
	},
}

// Classify maps a team name to a region by city-name prefix. Names are trimmed
// but otherwise matched as given; a city token inside the name does not count.
func Classify(teamName string) domain.Region {
	name := strings.TrimSpace(teamName)
	if name == "" {
		return domain.RegionUnknown
	}
	for _, group := range gazetteer {
		for _, city := range group.cities {
			if strings.HasPrefix(name, city) {
				return group.region
			}
		}
	}
	return domain.RegionUnknown
}

// Regions returns the six classifiable regions in priority order.
func Regions() []domain.Region {
	out := make([]domain.Region, len(gazetteer))
	for i, group := range gazetteer {
		out[i] = group.region
	}
	return out
}

// Cities returns a copy of the city tokens registered for a region.
func Cities(r domain.Region) []string {
	for _, group := range gazetteer {
		if group.region == r {
			return append([]string(nil), group.cities...)
		}
	}
	return nil
}

// Valid reports whether r is one of the six classifiable regions.
func Valid(r domain.Region) bool {
	for _, group := range gazetteer {
		if group.region == r {
			return true
		}
	}
	return false
}
