package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volley-rank/internal/domain"
)

func TestLoadEmbeddedSeed(t *testing.T) {
	batches, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, batches)

	first := batches[0]
	assert.Equal(t, "제3회 인제 내린천배", first.Name)
	assert.Equal(t, "2025.3.8-3.9", first.DateLabel)
	require.NotEmpty(t, first.Results)
	assert.Equal(t, domain.BatchResult{Division: "남자클럽 2부", TeamName: "서울 엄보스", Rank: 1}, first.Results[0])

	for _, b := range batches {
		for _, r := range b.Results {
			assert.True(t, r.Rank >= 1 && r.Rank <= 3, "%s %s rank %d", b.Name, r.TeamName, r.Rank)
			assert.NotEmpty(t, r.Division)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.Batch
		wantErr bool
	}{
		{
			name: "region override and missing date",
			input: `
tournaments:
  - name: "제주 한라배"
    results:
      - {division: "여자클럽 3부", team: "해외팀", rank: 2, region: "제주권"}
`,
			want: []domain.Batch{{
				Name: "제주 한라배",
				Results: []domain.BatchResult{
					{Division: "여자클럽 3부", TeamName: "해외팀", Rank: 2, Region: domain.RegionJeju},
				},
			}},
		},
		{name: "empty document", input: "", want: nil},
		{name: "unnamed tournament", input: "tournaments:\n  - results: []\n", wantErr: true},
		{
			name:    "result without team",
			input:   "tournaments:\n  - name: x\n    results:\n      - {division: d, rank: 1}\n",
			wantErr: true,
		},
		{name: "malformed yaml", input: "tournaments: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tournaments:\n  - name: a\n    date: d\n    results: []\n"), 0o600))

	batches, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "d", batches[0].DateLabel)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
