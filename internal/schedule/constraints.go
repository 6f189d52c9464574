package schedule

import (
	"sort"
	"time"
)

type pairKey struct {
	a, b string
}

func normalizePair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Conflicts is a symmetric lookup over team conflicts. A nil *Conflicts has
// no conflicts.
type Conflicts struct {
	list   []Conflict
	levels map[pairKey]map[ConflictLevel]bool
}

// NewConflicts indexes conflicts so either team order finds them.
func NewConflicts(list []Conflict) *Conflicts {
	c := &Conflicts{
		list:   list,
		levels: make(map[pairKey]map[ConflictLevel]bool),
	}
	for _, cf := range list {
		k := normalizePair(cf.TeamA, cf.TeamB)
		if c.levels[k] == nil {
			c.levels[k] = make(map[ConflictLevel]bool)
		}
		c.levels[k][cf.Level] = true
	}
	return c
}

// Has reports whether a and b conflict at the given level.
func (c *Conflicts) Has(a, b string, level ConflictLevel) bool {
	if c == nil {
		return false
	}
	return c.levels[normalizePair(a, b)][level]
}

// Any reports whether a and b conflict at any level.
func (c *Conflicts) Any(a, b string) bool {
	if c == nil {
		return false
	}
	return len(c.levels[normalizePair(a, b)]) > 0
}

// Difficulty counts the conflicts, of either level, touching either team.
func (c *Conflicts) Difficulty(m Match) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cf := range c.list {
		if m.Involves(cf.TeamA) || m.Involves(cf.TeamB) {
			n++
		}
	}
	return n
}

// Blackouts maps team -> date key -> unavailable.
type Blackouts map[string]map[string]bool

// NewBlackouts indexes blackout entries by team and date.
func NewBlackouts(list []Blackout) Blackouts {
	b := make(Blackouts)
	for _, e := range list {
		if b[e.Team] == nil {
			b[e.Team] = make(map[string]bool)
		}
		b[e.Team][DateKey(e.Date)] = true
	}
	return b
}

// FormatCompatible reports whether the slot's ground hosts the match format.
func FormatCompatible(slot Slot, m Match) bool {
	return slot.Format == m.Format
}

// SlotOccupied reports whether any team is already present in the slot. A
// slot holds one match, so any presence at all rules it out.
func SlotOccupied(occ Occupancy, slotID string) bool {
	return len(occ[slotID]) > 0
}

// TeamAvailable reports whether neither playing team is already in the slot.
func TeamAvailable(occ Occupancy, slotID string, m Match) bool {
	return !occ.Has(slotID, m.TeamA) && !occ.Has(slotID, m.TeamB)
}

// ConflictInSlot reports whether a team in the slot has a same_slot
// conflict with either playing team.
func ConflictInSlot(occ Occupancy, slotID string, m Match, conflicts *Conflicts) bool {
	for _, present := range occ[slotID] {
		if conflicts.Has(present, m.TeamA, SameSlot) || conflicts.Has(present, m.TeamB, SameSlot) {
			return true
		}
	}
	return false
}

// ConflictOnDay reports whether a team present anywhere on date has a
// same_day conflict with either playing team.
func ConflictOnDay(occ Occupancy, slots SlotIndex, date time.Time, m Match, conflicts *Conflicts) bool {
	day := DateKey(date)
	for id, teams := range occ {
		s, ok := slots[id]
		if !ok || DateKey(s.Date) != day {
			continue
		}
		for _, present := range teams {
			if conflicts.Has(present, m.TeamA, SameDay) || conflicts.Has(present, m.TeamB, SameDay) {
				return true
			}
		}
	}
	return false
}

// WeekendLimit reports whether either playing team already occupies a slot
// on a different date of the same weekend.
func WeekendLimit(occ Occupancy, slots SlotIndex, date time.Time, m Match) bool {
	day := DateKey(date)
	weekend := WeekendKey(date)
	for id, teams := range occ {
		s, ok := slots[id]
		if !ok || DateKey(s.Date) == day || WeekendKey(s.Date) != weekend {
			continue
		}
		for _, present := range teams {
			if m.Involves(present) {
				return true
			}
		}
	}
	return false
}

// BlackedOut reports whether either team is unavailable on date.
func BlackedOut(blackouts Blackouts, date time.Time, m Match) bool {
	day := DateKey(date)
	return blackouts[m.TeamA][day] || blackouts[m.TeamB][day]
}

// Rejection names the first constraint a slot failed for a match.
type Rejection int

const (
	Accepted Rejection = iota
	RejectFormat
	RejectOccupied
	RejectTeamBusy
	RejectSlotConflict
	RejectDayConflict
	RejectWeekend
	RejectBlackout
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectFormat:
		return "format mismatch"
	case RejectOccupied:
		return "occupied"
	case RejectTeamBusy:
		return "team unavailable"
	case RejectSlotConflict:
		return "same-slot conflict"
	case RejectDayConflict:
		return "same-day conflict"
	case RejectWeekend:
		return "already playing that weekend"
	case RejectBlackout:
		return "blacked out"
	default:
		return "unknown"
	}
}

// Constraints bundles the read-only context the predicates need.
type Constraints struct {
	Slots     SlotIndex
	Conflicts *Conflicts
	Blackouts Blackouts
}

// Check runs the full predicate pipeline for placing m in slot and returns
// the first failure, or Accepted.
func (c Constraints) Check(slot Slot, m Match, occ Occupancy) Rejection {
	switch {
	case !FormatCompatible(slot, m):
		return RejectFormat
	case SlotOccupied(occ, slot.ID):
		return RejectOccupied
	case !TeamAvailable(occ, slot.ID, m):
		return RejectTeamBusy
	case ConflictInSlot(occ, slot.ID, m, c.Conflicts):
		return RejectSlotConflict
	case ConflictOnDay(occ, c.Slots, slot.Date, m, c.Conflicts):
		return RejectDayConflict
	case WeekendLimit(occ, c.Slots, slot.Date, m):
		return RejectWeekend
	case BlackedOut(c.Blackouts, slot.Date, m):
		return RejectBlackout
	}
	return Accepted
}

// SortByDifficulty orders matches so those touching the most conflicts come
// first. Equal difficulties keep their input order.
func SortByDifficulty(matches []Match, conflicts *Conflicts) {
	type ranked struct {
		m Match
		d int
	}
	rs := make([]ranked, len(matches))
	for i, m := range matches {
		rs[i] = ranked{m, conflicts.Difficulty(m)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].d > rs[j].d
	})
	for i, r := range rs {
		matches[i] = r.m
	}
}
