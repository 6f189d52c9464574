package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/wicket/internal/schedule"
	"github.com/derekprior/wicket/internal/standings"
)

// FixturesSheet is the sheet every other sheet is derived from.
const FixturesSheet = "Fixtures"

const dateLayout = "2006-01-02"

var fixtureHeaders = []string{
	"Match", "Date", "Day", "Time", "Ground", "Format", "Group", "Team A", "Team B",
	"Umpires", "Locked", "Played", "Score A", "Score B", "Winner", "Note",
}

// Fixture columns, 0-based.
const (
	colID = iota
	colDate
	colDay
	colTime
	colGround
	colFormat
	colGroup
	colTeamA
	colTeamB
	colUmpires
	colLocked
	colPlayed
	colScoreA
	colScoreB
	colWinner
	colNote
)

// FixtureRow is one line of the Fixtures sheet. A row without a SlotID is a
// match that has not been given a slot; Note then says why.
type FixtureRow struct {
	ID string
	schedule.Fixture
	Date   time.Time
	Start  string
	Ground string
	ScoreA int
	ScoreB int
	Winner string
	Note   string

	// Line is the sheet row the fixture was read from, 0 if it was not read.
	Line int
}

// HasSlot reports whether the fixture has been given a slot.
func (r FixtureRow) HasSlot() bool {
	return r.SlotID != ""
}

// Place puts the fixture in slot.
func (r *FixtureRow) Place(slot schedule.Slot) {
	r.SlotID = slot.ID
	r.Date = slot.Date
	r.Start = slot.Start
	r.Ground = slot.Ground
}

// NewRows numbers a scheduling result as fixture rows, slotted matches in
// slot order first, then the unschedulable ones with their reason.
func NewRows(res schedule.Result, slots schedule.SlotIndex) []FixtureRow {
	var rows []FixtureRow
	for _, sc := range res.Scheduled {
		rows = append(rows, slottedRow(sc, slots))
	}
	for _, u := range res.Unschedulable {
		rows = append(rows, FixtureRow{Fixture: schedule.Fixture{Scheduled: schedule.Scheduled{Match: u.Match}}, Note: u.Reason})
	}
	SortRows(rows)
	for i := range rows {
		rows[i].ID = fmt.Sprintf("M%03d", i+1)
	}
	return rows
}

// Rebuild folds a reschedule back into the rows it was made from. Preserved
// rows are kept untouched; every other row takes its new slot, or its new
// reason, and keeps its match ID.
func Rebuild(old []FixtureRow, res schedule.Rescheduled, slots schedule.SlotIndex) []FixtureRow {
	ids := make(map[schedule.Match][]string)
	var rows []FixtureRow
	for _, r := range old {
		if r.Preserved() {
			rows = append(rows, r)
			continue
		}
		ids[r.Match] = append(ids[r.Match], r.ID)
	}
	takeID := func(m schedule.Match) string {
		q := ids[m]
		if len(q) == 0 {
			return ""
		}
		ids[m] = q[1:]
		return q[0]
	}

	for _, sc := range res.Scheduled {
		r := slottedRow(sc, slots)
		r.ID = takeID(sc.Match)
		rows = append(rows, r)
	}
	for _, u := range res.Unschedulable {
		rows = append(rows, FixtureRow{
			ID:      takeID(u.Match),
			Fixture: schedule.Fixture{Scheduled: schedule.Scheduled{Match: u.Match}},
			Note:    u.Reason,
		})
	}
	SortRows(rows)
	return rows
}

func slottedRow(sc schedule.Scheduled, slots schedule.SlotIndex) FixtureRow {
	r := FixtureRow{Fixture: schedule.Fixture{Scheduled: sc}}
	if slot, ok := slots[sc.SlotID]; ok {
		r.Place(slot)
	}
	return r
}

// SortRows orders rows by date, start and ground, with unslotted rows last.
// Ties keep their order.
func SortRows(rows []FixtureRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.HasSlot() != b.HasSlot() {
			return a.HasSlot()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Ground < b.Ground
	})
}

// Find returns the index of the row with the given match ID.
func Find(rows []FixtureRow, id string) (int, bool) {
	for i, r := range rows {
		if strings.EqualFold(r.ID, id) {
			return i, true
		}
	}
	return -1, false
}

// Fixtures returns the engine view of every row.
func Fixtures(rows []FixtureRow) []schedule.Fixture {
	out := make([]schedule.Fixture, len(rows))
	for i, r := range rows {
		out[i] = r.Fixture
	}
	return out
}

// Existing returns every row that holds a slot.
func Existing(rows []FixtureRow) []schedule.Scheduled {
	var out []schedule.Scheduled
	for _, r := range rows {
		if r.HasSlot() {
			out = append(out, r.Scheduled)
		}
	}
	return out
}

// Occupancy returns who is in each slot, leaving out the row with match ID
// skip.
func Occupancy(rows []FixtureRow, skip string) schedule.Occupancy {
	occ := make(schedule.Occupancy)
	for _, r := range rows {
		if !r.HasSlot() || (skip != "" && r.ID == skip) {
			continue
		}
		occ.Add(r.SlotID, r.TeamA, r.TeamB)
		occ.Add(r.SlotID, r.Umpires...)
	}
	return occ
}

// Results returns the played matches of a group as standings results. A
// blank winner goes to the higher score, or is a tie.
func Results(rows []FixtureRow, group string) []standings.Result {
	var out []standings.Result
	for _, r := range rows {
		if !r.Played || r.Group != group {
			continue
		}
		winner := r.Winner
		if winner == "" {
			switch {
			case r.ScoreA > r.ScoreB:
				winner = r.TeamA
			case r.ScoreB > r.ScoreA:
				winner = r.TeamB
			}
		}
		out = append(out, standings.Result{
			TeamA: r.TeamA, TeamB: r.TeamB,
			ScoreA: r.ScoreA, ScoreB: r.ScoreB,
			Winner: winner,
		})
	}
	return out
}

// ReadFixturesFile opens path and reads its Fixtures sheet.
func ReadFixturesFile(path string) ([]FixtureRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadFixtures(f)
}

// ReadFixtures parses the Fixtures sheet. Slot IDs are rebuilt from the
// date, time and ground columns.
func ReadFixtures(f *excelize.File) ([]FixtureRow, error) {
	rows, err := f.GetRows(FixturesSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FixturesSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", FixturesSheet)
	}

	var out []FixtureRow
	for i, row := range rows[1:] {
		line := i + 2
		if cell(row, colTeamA) == "" && cell(row, colTeamB) == "" {
			continue
		}
		r, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", FixturesSheet, line, err)
		}
		r.Line = line
		out = append(out, r)
	}
	return out, nil
}

func parseRow(row []string) (FixtureRow, error) {
	r := FixtureRow{
		ID:     cell(row, colID),
		Start:  cell(row, colTime),
		Ground: cell(row, colGround),
		Winner: cell(row, colWinner),
		Note:   cell(row, colNote),
	}
	r.Match = schedule.Match{
		TeamA:  cell(row, colTeamA),
		TeamB:  cell(row, colTeamB),
		Group:  cell(row, colGroup),
		Format: cell(row, colFormat),
	}
	r.Locked = truthy(cell(row, colLocked))
	r.Played = truthy(cell(row, colPlayed))
	if u := cell(row, colUmpires); u != "" {
		for _, name := range strings.Split(u, ",") {
			if name = strings.TrimSpace(name); name != "" {
				r.Umpires = append(r.Umpires, name)
			}
		}
	}

	if d := cell(row, colDate); d != "" {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			return FixtureRow{}, fmt.Errorf("invalid date %q: %w", d, err)
		}
		r.Date = date
		r.SlotID = schedule.SlotID(date, r.Start, r.Ground)
	}

	var err error
	if r.ScoreA, err = score(cell(row, colScoreA)); err != nil {
		return FixtureRow{}, err
	}
	if r.ScoreB, err = score(cell(row, colScoreB)); err != nil {
		return FixtureRow{}, err
	}
	return r, nil
}

func score(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", s, err)
	}
	return n, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "x":
		return true
	}
	return false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func writeFixturesSheet(f *excelize.File, rows []FixtureRow) error {
	sheet := FixturesSheet
	if err := writeHeader(f, sheet, fixtureHeaders); err != nil {
		return err
	}
	for i, r := range rows {
		line := i + 2
		values := make([]interface{}, len(fixtureHeaders))
		values[colID] = r.ID
		if r.HasSlot() {
			values[colDate] = r.Date.Format(dateLayout)
			values[colDay] = r.Date.Format("Mon")
			values[colTime] = r.Start
			values[colGround] = r.Ground
		}
		values[colFormat] = r.Format
		values[colGroup] = r.Group
		values[colTeamA] = r.TeamA
		values[colTeamB] = r.TeamB
		values[colUmpires] = strings.Join(r.Umpires, ", ")
		values[colLocked] = yes(r.Locked)
		values[colPlayed] = yes(r.Played)
		if r.Played {
			values[colScoreA] = r.ScoreA
			values[colScoreB] = r.ScoreB
		}
		values[colWinner] = r.Winner
		values[colNote] = r.Note
		if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, line, err)
		}
		styleRow(f, sheet, line, len(fixtureHeaders))
	}

	widths := []float64{8, 12, 6, 8, 20, 10, 12, 16, 16, 24, 8, 8, 9, 9, 16, 40}
	for i, w := range widths {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
