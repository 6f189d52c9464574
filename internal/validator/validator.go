package validator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/excel"
	"github.com/derekprior/wicket/internal/schedule"
)

// Violation represents a constraint violation found during validation.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule workbook and checks its fixtures against the
// config.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	rows, err := excel.ReadFixturesFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return Check(cfg, rows), nil
}

// Check runs every rule over rows. Errors come first, each kind in row order.
func Check(cfg *config.Config, rows []excel.FixtureRow) []Violation {
	var slotted []excel.FixtureRow
	var violations []Violation
	for _, r := range rows {
		if r.HasSlot() {
			slotted = append(slotted, r)
			continue
		}
		violations = append(violations, Violation{
			Row:     r.Line,
			Type:    "warning",
			Message: fmt.Sprintf("%s %s v %s has no slot: %s", r.ID, r.TeamA, r.TeamB, r.Note),
		})
	}

	conflicts := schedule.NewConflicts(schedule.ConflictsFromConfig(cfg))

	// Hard rules
	violations = append(violations, checkDoubleBooking(slotted)...)
	violations = append(violations, checkGroundFormat(cfg, slotted)...)
	violations = append(violations, checkTeamFormat(cfg, rows)...)
	violations = append(violations, checkTeamClash(slotted)...)
	violations = append(violations, checkUmpires(slotted)...)
	violations = append(violations, checkSameSlotConflicts(slotted, conflicts)...)
	violations = append(violations, checkSameDayConflicts(slotted, conflicts)...)
	violations = append(violations, checkBlackouts(cfg, slotted)...)
	violations = append(violations, checkMatchCompleteness(cfg, slotted)...)

	// Soft rules
	violations = append(violations, checkWeekendDoubleUps(slotted)...)

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Type != violations[j].Type {
			return violations[i].Type == "error"
		}
		return false
	})
	return violations
}

func label(r excel.FixtureRow) string {
	return fmt.Sprintf("%s %s v %s", r.ID, r.TeamA, r.TeamB)
}

func checkDoubleBooking(rows []excel.FixtureRow) []Violation {
	seen := make(map[string]excel.FixtureRow)
	var violations []Violation
	for _, r := range rows {
		if first, ok := seen[r.SlotID]; ok {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s shares slot %s with %s", label(r), r.SlotID, label(first)),
			})
			continue
		}
		seen[r.SlotID] = r
	}
	return violations
}

func checkGroundFormat(cfg *config.Config, rows []excel.FixtureRow) []Violation {
	formats := make(map[string]string)
	for _, g := range cfg.Grounds {
		formats[g.Name] = g.Format
	}
	var violations []Violation
	for _, r := range rows {
		want, ok := formats[r.Ground]
		switch {
		case !ok:
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s is at unknown ground %q", label(r), r.Ground),
			})
		case want != r.Format:
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s (%s) is at %s, a %s ground", label(r), r.Format, r.Ground, want),
			})
		}
	}
	return violations
}

// checkTeamFormat reports teams listed in a match of another format than
// their group plays.
func checkTeamFormat(cfg *config.Config, rows []excel.FixtureRow) []Violation {
	var violations []Violation
	for _, r := range rows {
		for _, team := range r.Teams() {
			g, ok := cfg.GroupOf(team)
			if !ok || g.Format == r.Format {
				continue
			}
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s is a %s match but %s plays %s in group %s", label(r), r.Format, team, g.Format, g.Name),
			})
		}
	}
	return violations
}

// checkTeamClash reports teams playing two matches at the same date and time.
func checkTeamClash(rows []excel.FixtureRow) []Violation {
	type teamTime struct {
		team  string
		date  time.Time
		start string
	}
	seen := make(map[teamTime]excel.FixtureRow)
	var violations []Violation
	for _, r := range rows {
		for _, team := range r.Teams() {
			k := teamTime{team, r.Date, r.Start}
			if first, ok := seen[k]; ok {
				violations = append(violations, Violation{
					Row:  r.Line,
					Type: "error",
					Message: fmt.Sprintf("%s plays %s and %s at %s %s",
						team, label(first), label(r), r.Date.Format("01/02"), r.Start),
				})
				continue
			}
			seen[k] = r
		}
	}
	return violations
}

// checkUmpires reports umpires playing in their own match, and warns about
// umpires playing elsewhere at the same time.
func checkUmpires(rows []excel.FixtureRow) []Violation {
	type when struct {
		date  time.Time
		start string
	}
	playing := make(map[when]map[string]bool)
	for _, r := range rows {
		k := when{r.Date, r.Start}
		if playing[k] == nil {
			playing[k] = make(map[string]bool)
		}
		playing[k][r.TeamA] = true
		playing[k][r.TeamB] = true
	}

	var violations []Violation
	for _, r := range rows {
		for _, u := range r.Umpires {
			switch {
			case r.Involves(u):
				violations = append(violations, Violation{
					Row:     r.Line,
					Type:    "error",
					Message: fmt.Sprintf("%s umpires its own match %s", u, label(r)),
				})
			case playing[when{r.Date, r.Start}][u]:
				violations = append(violations, Violation{
					Row:  r.Line,
					Type: "warning",
					Message: fmt.Sprintf("%s umpires %s while playing at %s %s",
						u, label(r), r.Date.Format("01/02"), r.Start),
				})
			}
		}
	}
	return violations
}

func checkSameSlotConflicts(rows []excel.FixtureRow, conflicts *schedule.Conflicts) []Violation {
	var violations []Violation
	for _, r := range rows {
		for _, team := range r.Teams() {
			for _, u := range r.Umpires {
				if conflicts.Has(team, u, schedule.SameSlot) {
					violations = append(violations, Violation{
						Row:     r.Line,
						Type:    "error",
						Message: fmt.Sprintf("%s umpires %s despite a same_slot conflict with %s", u, label(r), team),
					})
				}
			}
		}
	}
	return violations
}

// checkSameDayConflicts compares playing teams only; opponents in the same
// match are not a conflict.
func checkSameDayConflicts(rows []excel.FixtureRow, conflicts *schedule.Conflicts) []Violation {
	type playing struct {
		team string
		row  excel.FixtureRow
	}
	byDate := make(map[string][]playing)
	var dates []string
	for _, r := range rows {
		d := schedule.DateKey(r.Date)
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		for _, team := range r.Teams() {
			byDate[d] = append(byDate[d], playing{team, r})
		}
	}
	sort.Strings(dates)

	var violations []Violation
	reported := make(map[string]bool)
	for _, d := range dates {
		list := byDate[d]
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if a.row.SlotID == b.row.SlotID || !conflicts.Has(a.team, b.team, schedule.SameDay) {
					continue
				}
				key := d + "|" + strings.Join(sortedPair(a.team, b.team), "|")
				if reported[key] {
					continue
				}
				reported[key] = true
				violations = append(violations, Violation{
					Row:     b.row.Line,
					Type:    "error",
					Message: fmt.Sprintf("%s and %s both play on %s despite a same_day conflict", a.team, b.team, d),
				})
			}
		}
	}
	return violations
}

func sortedPair(a, b string) []string {
	if a > b {
		a, b = b, a
	}
	return []string{a, b}
}

func checkBlackouts(cfg *config.Config, rows []excel.FixtureRow) []Violation {
	blackouts := schedule.NewBlackouts(schedule.BlackoutsFromConfig(cfg))
	var violations []Violation
	for _, r := range rows {
		for _, team := range r.Teams() {
			if blackouts[team][schedule.DateKey(r.Date)] {
				violations = append(violations, Violation{
					Row:     r.Line,
					Type:    "error",
					Message: fmt.Sprintf("%s plays %s on blackout date %s", team, label(r), r.Date.Format("01/02")),
				})
			}
		}
	}
	return violations
}

func checkMatchCompleteness(cfg *config.Config, rows []excel.FixtureRow) []Violation {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.TeamA]++
		counts[r.TeamB]++
	}

	var violations []Violation
	for _, team := range cfg.AllTeams() {
		if counts[team] == 0 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s has no matches scheduled", team),
			})
		}
	}
	return violations
}

// checkWeekendDoubleUps warns when a team plays on both days of a weekend.
func checkWeekendDoubleUps(rows []excel.FixtureRow) []Violation {
	type teamWeekend struct {
		team    string
		weekend string
	}
	days := make(map[teamWeekend]map[string]bool)
	var order []teamWeekend
	last := make(map[teamWeekend]excel.FixtureRow)
	for _, r := range rows {
		for _, team := range r.Teams() {
			k := teamWeekend{team, schedule.WeekendKey(r.Date)}
			if days[k] == nil {
				days[k] = make(map[string]bool)
				order = append(order, k)
			}
			days[k][schedule.DateKey(r.Date)] = true
			last[k] = r
		}
	}

	var violations []Violation
	for _, k := range order {
		if len(days[k]) > 1 {
			violations = append(violations, Violation{
				Row:     last[k].Line,
				Type:    "warning",
				Message: fmt.Sprintf("%s plays both days of the weekend of %s", k.team, k.weekend),
			})
		}
	}
	return violations
}
