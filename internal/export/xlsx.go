package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
)

const (
	allDivisionsSheet = "All divisions"
	maxSheetName      = 31
)

var rankingHeader = []interface{}{
	"Rank", "Team", "Region", "Division", "Championships", "Runner-ups", "Third places", "Score", "Podiums",
}

// RankingSource is the part of the engine the exporter reads.
type RankingSource interface {
	Divisions() []string
	DivisionRankings(division string) []domain.TeamStats
}

type Sheet struct {
	Name string
	Rows []ranking.Standing
}

// RankingSheets returns the combined table followed by one table per division.
func RankingSheets(src RankingSource) []Sheet {
	sheets := []Sheet{{Name: allDivisionsSheet, Rows: ranking.Standings(src.DivisionRankings(""))}}
	for _, d := range src.Divisions() {
		sheets = append(sheets, Sheet{Name: d, Rows: ranking.Standings(src.DivisionRankings(d))})
	}
	return sheets
}

// Workbook renders each sheet as a ranking table. Sheet names are cleaned to
// what spreadsheet applications accept and made unique.
func Workbook(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	used := make(map[string]bool)

	for i, sheet := range sheets {
		name := uniqueName(sheetName(sheet.Name), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := writeRankings(f, name, sheet.Rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeRankings(f *excelize.File, sheet string, rows []ranking.Standing) error {
	if err := f.SetSheetRow(sheet, "A1", &rankingHeader); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.DisplayRank,
			row.TeamName,
			row.Region.String(),
			row.Division,
			row.Championships,
			row.RunnerUps,
			row.ThirdPlaces,
			row.TotalScore,
			len(row.Tournaments),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s on %q: %w", row.TeamName, sheet, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", "D", 16)
}

// WriteRankings streams the workbook for sheets to w.
func WriteRankings(w io.Writer, sheets []Sheet) error {
	f, err := Workbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		r := []rune(name)
		if len(r)+len([]rune(suffix)) > maxSheetName {
			r = r[:maxSheetName-len([]rune(suffix))]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// ReadResults parses tournament results from the first sheet of a workbook.
// The header row must name tournament, division, team and rank columns; date
// and region are optional. Rows of one tournament are grouped in order of
// first appearance.
func ReadResults(r io.Reader) ([]domain.Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	cols, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var batches []domain.Batch
	index := make(map[string]int)
	for i, row := range rows[1:] {
		line := i + 2
		name := cellAt(row, cols["tournament"])
		if name == "" {
			continue
		}
		rank, err := strconv.Atoi(cellAt(row, cols["rank"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rank %q", line, cellAt(row, cols["rank"]))
		}
		team := cellAt(row, cols["team"])
		if team == "" {
			return nil, fmt.Errorf("row %d: team is empty", line)
		}

		pos, ok := index[name]
		if !ok {
			pos = len(batches)
			index[name] = pos
			batches = append(batches, domain.Batch{Name: name, DateLabel: cellAt(row, cols["date"])})
		}
		batches[pos].Results = append(batches[pos].Results, domain.BatchResult{
			Division: cellAt(row, cols["division"]),
			TeamName: team,
			Rank:     rank,
			Region:   domain.Region(cellAt(row, cols["region"])),
		})
	}
	return batches, nil
}

func headerColumns(header []string) (map[string]int, error) {
	cols := map[string]int{"date": -1, "region": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "tournament", "date", "division", "team", "rank", "region":
			cols[key] = i
		}
	}
	for _, required := range []string{"tournament", "division", "team", "rank"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header is missing the %s column", required)
		}
	}
	return cols, nil
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
