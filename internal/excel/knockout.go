package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/wicket/internal/knockout"
	"github.com/derekprior/wicket/internal/schedule"
)

// KnockoutSheet holds the bracket.
const KnockoutSheet = "Knockout"

// KnockoutRows numbers the scheduled first-round matches as fixture rows,
// continuing after any knockout rows already present.
func KnockoutRows(existing []FixtureRow, scheduled []schedule.Scheduled, slots schedule.SlotIndex) []FixtureRow {
	n := 0
	for _, r := range existing {
		if strings.HasPrefix(r.ID, "K") {
			n++
		}
	}
	var rows []FixtureRow
	for _, sc := range scheduled {
		n++
		r := slottedRow(sc, slots)
		r.ID = fmt.Sprintf("K%02d", n)
		rows = append(rows, r)
	}
	return rows
}

// WriteKnockout (re)creates the Knockout sheet. Later rounds name the
// earlier winners that feed them.
func WriteKnockout(f *excelize.File, b knockout.Bracket, rows []FixtureRow) error {
	sheet := KnockoutSheet
	if err := resetSheet(f, sheet); err != nil {
		return err
	}
	headers := []string{"Round", "Match", "Team A", "Team B", "Date", "Time", "Ground", "Umpires", "Note"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	slotted := make(map[[2]string]FixtureRow)
	for _, r := range rows {
		if r.Group == knockout.Group && r.HasSlot() {
			slotted[r.Teams()] = r
		}
	}

	line := 2
	for ri, round := range b.Rounds {
		for mi, m := range round {
			values := []interface{}{m.Round, mi + 1, m.TeamA, m.TeamB}
			switch {
			case m.IsBye:
				values = append(values, "", "", "", "", "bye")
			case ri > 0:
				values[2] = fmt.Sprintf("Winner R%d M%d", ri, m.FromA)
				values[3] = fmt.Sprintf("Winner R%d M%d", ri, m.FromB)
			default:
				r, ok := slotted[[2]string{m.TeamA, m.TeamB}]
				if !ok {
					values = append(values, "", "", "", "", "no slot available")
					break
				}
				values = append(values, r.Date.Format(dateLayout), r.Start, r.Ground, strings.Join(r.Umpires, ", "))
			}
			if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
				return fmt.Errorf("writing %s row %d: %w", sheet, line, err)
			}
			styleRow(f, sheet, line, len(headers))
			line++
		}
	}

	widths := map[string]float64{"A": 7, "B": 7, "C": 18, "D": 18, "E": 12, "F": 8, "G": 22, "H": 24, "I": 20}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}
