package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/derekprior/wicket/internal/config"
)

// BlackoutSlot is a slot that is unavailable, with a reason.
type BlackoutSlot struct {
	Date   time.Time
	Start  string
	Ground string
	Reason string
}

// SlotID is the stable identifier of a ground/start/date slot.
func SlotID(date time.Time, start, ground string) string {
	return fmt.Sprintf("%s %s %s", DateKey(date), start, ground)
}

type reservationIndex struct {
	fullDay map[groundDate]bool
	times   map[groundDateTime]bool
}

type groundDate struct {
	ground string
	date   time.Time
}

type groundDateTime struct {
	ground string
	date   time.Time
	start  string
}

func buildReservations(cfg *config.Config) reservationIndex {
	idx := reservationIndex{
		fullDay: make(map[groundDate]bool),
		times:   make(map[groundDateTime]bool),
	}
	for _, g := range cfg.Grounds {
		for _, r := range g.Reservations {
			for _, rd := range r.Dates() {
				if len(r.Times) == 0 {
					idx.fullDay[groundDate{g.Name, rd}] = true
					continue
				}
				for _, t := range r.Times {
					idx.times[groundDateTime{g.Name, rd, t}] = true
				}
			}
		}
	}
	return idx
}

// GenerateSlots builds every available (date, start, ground) slot for the
// season, skipping season blackout dates and ground reservations. Slots are
// ordered by date, start time, then ground.
func GenerateSlots(cfg *config.Config) []Slot {
	blackoutDates := make(map[time.Time]bool)
	for _, b := range cfg.Season.BlackoutDates {
		blackoutDates[b.Date.Time] = true
	}
	holidayDates := holidays(cfg)
	res := buildReservations(cfg)

	var slots []Slot
	for d := cfg.Season.StartDate.Time; !d.After(cfg.Season.EndDate.Time); d = d.AddDate(0, 0, 1) {
		if blackoutDates[d] {
			continue
		}
		for _, t := range timesForDay(d, holidayDates, cfg.TimeSlots) {
			for _, g := range cfg.Grounds {
				if res.fullDay[groundDate{g.Name, d}] || res.times[groundDateTime{g.Name, d, t}] {
					continue
				}
				slots = append(slots, Slot{
					ID:     SlotID(d, t, g.Name),
					Date:   d,
					Format: g.Format,
					Ground: g.Name,
					Start:  t,
				})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		return slots[i].Ground < slots[j].Ground
	})
	return slots
}

// SlotsFrom returns the slots on or after from, keeping their order.
func SlotsFrom(slots []Slot, from time.Time) []Slot {
	var out []Slot
	for _, s := range slots {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out
}

// GenerateBlackoutSlots returns all slots that are blacked out (season-wide
// blackouts and ground reservations) for display on the master sheet.
func GenerateBlackoutSlots(cfg *config.Config) []BlackoutSlot {
	holidayDates := holidays(cfg)
	var blackouts []BlackoutSlot

	for _, b := range cfg.Season.BlackoutDates {
		for _, t := range timesForDay(b.Date.Time, holidayDates, cfg.TimeSlots) {
			for _, g := range cfg.Grounds {
				blackouts = append(blackouts, BlackoutSlot{Date: b.Date.Time, Start: t, Ground: g.Name, Reason: b.Reason})
			}
		}
	}

	for _, g := range cfg.Grounds {
		for _, r := range g.Reservations {
			for _, rd := range r.Dates() {
				if rd.Before(cfg.Season.StartDate.Time) || rd.After(cfg.Season.EndDate.Time) {
					continue
				}
				times := r.Times
				if len(times) == 0 {
					times = timesForDay(rd, holidayDates, cfg.TimeSlots)
				}
				for _, t := range times {
					blackouts = append(blackouts, BlackoutSlot{Date: rd, Start: t, Ground: g.Name, Reason: r.Reason})
				}
			}
		}
	}

	sort.SliceStable(blackouts, func(i, j int) bool {
		if !blackouts[i].Date.Equal(blackouts[j].Date) {
			return blackouts[i].Date.Before(blackouts[j].Date)
		}
		if blackouts[i].Start != blackouts[j].Start {
			return blackouts[i].Start < blackouts[j].Start
		}
		return blackouts[i].Ground < blackouts[j].Ground
	})
	return blackouts
}

// ConflictsFromConfig converts configured conflicts to engine values.
func ConflictsFromConfig(cfg *config.Config) []Conflict {
	var out []Conflict
	for _, c := range cfg.Conflicts {
		if len(c.Teams) != 2 {
			continue
		}
		out = append(out, Conflict{TeamA: c.Teams[0], TeamB: c.Teams[1], Level: ConflictLevel(c.Level)})
	}
	return out
}

// BlackoutsFromConfig flattens per-team blackout dates.
func BlackoutsFromConfig(cfg *config.Config) []Blackout {
	var out []Blackout
	for _, b := range cfg.Blackouts {
		for _, d := range b.Dates {
			out = append(out, Blackout{Team: b.Team, Date: d.Time})
		}
	}
	return out
}

// NewInput assembles a scheduling Input from the config, the slot catalogue
// and the matches to place.
func NewInput(cfg *config.Config, slots []Slot, matches []Match) Input {
	var expected map[string]int
	if len(cfg.ExpectedMatches) > 0 {
		expected = cfg.ExpectedMatches
	}
	return Input{
		Matches:     matches,
		Slots:       slots,
		Conflicts:   ConflictsFromConfig(cfg),
		Blackouts:   BlackoutsFromConfig(cfg),
		UmpirePool:  cfg.UmpirePool(),
		TeamFormats: cfg.TeamFormats(),
		Expected:    expected,
	}
}

func holidays(cfg *config.Config) map[time.Time]bool {
	m := make(map[time.Time]bool)
	for _, h := range cfg.TimeSlots.HolidayDates {
		m[h.Time] = true
	}
	return m
}

func timesForDay(d time.Time, holidays map[time.Time]bool, ts config.TimeSlots) []string {
	if holidays[d] {
		return ts.Sunday
	}
	switch d.Weekday() {
	case time.Saturday:
		return ts.Saturday
	case time.Sunday:
		return ts.Sunday
	default:
		return ts.Weekday
	}
}
