package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/knockout"
	"github.com/derekprior/wicket/internal/schedule"
	"github.com/derekprior/wicket/internal/standings"
)

// Sheet names written alongside Fixtures.
const (
	MasterSheet        = "Master Schedule"
	UnschedulableSheet = "Unschedulable"
	StandingsSheet     = "Standings"
)

// Workbook is everything the derived sheets are drawn from.
type Workbook struct {
	Rows      []FixtureRow
	Slots     []schedule.Slot
	Blackouts []schedule.BlackoutSlot

	// Bracket, when set, replaces the Knockout sheet.
	Bracket *knockout.Bracket
}

// Generate creates a new workbook with the fixture list and every sheet
// derived from it.
func Generate(cfg *config.Config, wb Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := Write(f, cfg, wb); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// Update rewrites the fixture list and derived sheets of the workbook at
// src and saves it to dst, or back to src when dst is empty. Other sheets,
// such as Knockout, are carried over unless wb has a bracket.
func Update(src, dst string, cfg *config.Config, wb Workbook) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cfg, wb); err != nil {
		return err
	}
	if dst == "" || dst == src {
		err = f.Save()
	} else {
		err = f.SaveAs(dst)
	}
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

// Write (re)creates the Fixtures, Master Schedule, Unschedulable, Standings
// and per-team sheets in f, and the Knockout sheet when wb has a bracket.
func Write(f *excelize.File, cfg *config.Config, wb Workbook) error {
	steps := []struct {
		sheet string
		write func() error
	}{
		{FixturesSheet, func() error { return writeFixturesSheet(f, wb.Rows) }},
		{MasterSheet, func() error { return writeMasterSheet(f, cfg, wb) }},
		{UnschedulableSheet, func() error { return writeUnschedulableSheet(f, wb.Rows) }},
		{StandingsSheet, func() error { return writeStandingsSheet(f, cfg, wb.Rows) }},
	}
	for _, s := range steps {
		if err := resetSheet(f, s.sheet); err != nil {
			return err
		}
		if err := s.write(); err != nil {
			return fmt.Errorf("writing %s sheet: %w", s.sheet, err)
		}
	}

	if err := writeTeamSheets(f, cfg, wb.Rows); err != nil {
		return fmt.Errorf("writing team sheets: %w", err)
	}

	if wb.Bracket != nil {
		if err := WriteKnockout(f, *wb.Bracket, wb.Rows); err != nil {
			return fmt.Errorf("writing %s sheet: %w", KnockoutSheet, err)
		}
	}

	if idx, err := f.GetSheetIndex(FixturesSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return nil
}

// resetSheet replaces sheet with an empty one.
func resetSheet(f *excelize.File, sheet string) error {
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("removing %s: %w", sheet, err)
		}
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s: %w", sheet, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#2E7D32"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		return f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), headerStyle)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols int) {
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	if cellStyle != 0 {
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(cols, row), cellStyle)
	}
}

func matchLabel(m schedule.Match) string {
	return fmt.Sprintf("%s v %s", m.TeamA, m.TeamB)
}

func writeMasterSheet(f *excelize.File, cfg *config.Config, wb Workbook) error {
	sheet := MasterSheet

	var grounds []string
	for _, g := range cfg.Grounds {
		grounds = append(grounds, g.Name)
	}

	// Headers: Date, Day, Time, <ground1>, <ground2>, ...
	headers := append([]string{"Date", "Day", "Time"}, grounds...)
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	groundCellStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	type slotKey struct {
		date   time.Time
		start  string
		ground string
	}
	matches := make(map[slotKey]FixtureRow)
	for _, r := range wb.Rows {
		if r.HasSlot() {
			matches[slotKey{r.Date, r.Start, r.Ground}] = r
		}
	}
	blackouts := make(map[slotKey]string)
	for _, b := range wb.Blackouts {
		blackouts[slotKey{b.Date, b.Start, b.Ground}] = b.Reason
	}

	// Every (date, start) from slots, blackouts and slotted rows
	type timeSlot struct {
		date  time.Time
		start string
	}
	seen := make(map[timeSlot]bool)
	var times []timeSlot
	add := func(d time.Time, start string) {
		ts := timeSlot{d, start}
		if !seen[ts] {
			seen[ts] = true
			times = append(times, ts)
		}
	}
	for _, s := range wb.Slots {
		add(s.Date, s.Start)
	}
	for _, b := range wb.Blackouts {
		add(b.Date, b.Start)
	}
	for k := range matches {
		add(k.date, k.start)
	}
	sort.Slice(times, func(i, j int) bool {
		if !times[i].date.Equal(times[j].date) {
			return times[i].date.Before(times[j].date)
		}
		return times[i].start < times[j].start
	})

	for i, ts := range times {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), ts.date.Format(dateLayout))
		f.SetCellValue(sheet, cellRef(2, row), ts.date.Format("Mon"))
		f.SetCellValue(sheet, cellRef(3, row), ts.start)
		styleRow(f, sheet, row, 3)

		for gi, ground := range grounds {
			col := gi + 4
			key := slotKey{ts.date, ts.start, ground}
			if r, ok := matches[key]; ok {
				f.SetCellValue(sheet, cellRef(col, row), matchLabel(r.Match))
			} else if reason, ok := blackouts[key]; ok {
				f.SetCellValue(sheet, cellRef(col, row), reason)
			}
			if groundCellStyle != 0 {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), groundCellStyle)
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 6)
	f.SetColWidth(sheet, "C", "C", 8)
	for i := range grounds {
		col := colLetter(i + 4)
		f.SetColWidth(sheet, col, col, 28)
	}

	// Non-match text in ground columns (blackouts, reservations) is shaded
	lastRow := len(times) + 1
	redFill, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	for i := range grounds {
		col := colLetter(i + 4)
		cellRange := fmt.Sprintf("%s2:%s%d", col, col, lastRow)
		topCell := fmt.Sprintf("%s2", col)
		formula := fmt.Sprintf(`AND(%s<>"",ISERROR(FIND(" v ",%s)))`, topCell, topCell)
		f.SetConditionalFormat(sheet, cellRange, []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: formula,
				Format:   &redFill,
			},
		})
	}
	return nil
}

func writeUnschedulableSheet(f *excelize.File, rows []FixtureRow) error {
	sheet := UnschedulableSheet
	headers := []string{"Match", "Group", "Format", "Team A", "Team B", "Reason"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}
	line := 2
	for _, r := range rows {
		if r.HasSlot() {
			continue
		}
		values := []interface{}{r.ID, r.Group, r.Format, r.TeamA, r.TeamB, r.Note}
		if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
			return err
		}
		styleRow(f, sheet, line, len(headers))
		line++
	}
	widths := map[string]float64{"A": 8, "B": 12, "C": 10, "D": 16, "E": 16, "F": 60}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func writeStandingsSheet(f *excelize.File, cfg *config.Config, rows []FixtureRow) error {
	sheet := StandingsSheet
	headers := []string{"Group", "Pos", "Team", "P", "W", "L", "T", "Pts", "NRR"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}
	line := 2
	for _, g := range cfg.Groups {
		table := standings.Calculate(g.Teams, Results(rows, g.Name))
		for pos, s := range table {
			values := []interface{}{
				g.Name, pos + 1, s.Team, s.Played, s.Won, s.Lost, s.Tied, s.Points,
				fmt.Sprintf("%.2f", s.NetRunRate),
			}
			if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
				return err
			}
			styleRow(f, sheet, line, len(headers))
			line++
		}
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func writeTeamSheets(f *excelize.File, cfg *config.Config, rows []FixtureRow) error {
	for _, team := range cfg.AllTeams() {
		sheet := team
		if err := resetSheet(f, sheet); err != nil {
			return err
		}

		headers := []string{"Date", "Day", "Time", "Ground", "Opponent", "Duty", "Match"}
		if err := writeHeader(f, sheet, headers); err != nil {
			return err
		}

		// Collect this team's matches and umpiring duties
		type duty struct {
			row      FixtureRow
			opponent string
			kind     string
		}
		var duties []duty
		for _, r := range rows {
			if !r.HasSlot() {
				continue
			}
			switch {
			case r.TeamA == team:
				duties = append(duties, duty{r, r.TeamB, "Play"})
			case r.TeamB == team:
				duties = append(duties, duty{r, r.TeamA, "Play"})
			case contains(r.Umpires, team):
				duties = append(duties, duty{r, matchLabel(r.Match), "Umpire"})
			}
		}
		sort.SliceStable(duties, func(i, j int) bool {
			a, b := duties[i].row, duties[j].row
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.Start < b.Start
		})

		for i, d := range duties {
			line := i + 2
			values := []interface{}{
				d.row.Date.Format(dateLayout), d.row.Date.Format("Mon"), d.row.Start,
				d.row.Ground, d.opponent, d.kind, d.row.ID,
			}
			if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
				return err
			}
			styleRow(f, sheet, line, len(headers))
		}

		widths := map[string]float64{"A": 14, "B": 6, "C": 8, "D": 22, "E": 24, "F": 10, "G": 8}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
