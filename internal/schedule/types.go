package schedule

import (
	"time"
)

// Match is a fixture waiting for a slot.
type Match struct {
	TeamA  string
	TeamB  string
	Group  string
	Format string
}

// Teams returns both sides of the match.
func (m Match) Teams() [2]string {
	return [2]string{m.TeamA, m.TeamB}
}

// Involves reports whether team plays in the match.
func (m Match) Involves(team string) bool {
	return m.TeamA == team || m.TeamB == team
}

// Slot is a ground and start time on a date. It holds at most one match.
type Slot struct {
	ID     string
	Date   time.Time
	Format string // ground format
	Ground string
	Start  string // "10:00", "14:00", etc.
}

// SlotIndex looks slots up by ID.
type SlotIndex map[string]Slot

// IndexSlots builds a SlotIndex. Later duplicates win.
func IndexSlots(slots []Slot) SlotIndex {
	idx := make(SlotIndex, len(slots))
	for _, s := range slots {
		idx[s.ID] = s
	}
	return idx
}

// ConflictLevel says how far apart two conflicting teams must be kept.
type ConflictLevel string

const (
	SameSlot ConflictLevel = "same_slot"
	SameDay  ConflictLevel = "same_day"
)

// Conflict forbids two teams from sharing a slot or a date. Order of the
// teams does not matter.
type Conflict struct {
	TeamA string
	TeamB string
	Level ConflictLevel
}

// Blackout is a date on which a team is unavailable.
type Blackout struct {
	Team string
	Date time.Time
}

// Occupancy maps a slot ID to the teams present in it: two playing teams
// plus up to two umpiring teams.
type Occupancy map[string][]string

// Clone returns a deep copy so callers' maps are never mutated.
func (o Occupancy) Clone() Occupancy {
	c := make(Occupancy, len(o))
	for id, teams := range o {
		c[id] = append([]string(nil), teams...)
	}
	return c
}

// Has reports whether team is present in the slot.
func (o Occupancy) Has(slotID, team string) bool {
	for _, t := range o[slotID] {
		if t == team {
			return true
		}
	}
	return false
}

// Add records teams as present in the slot.
func (o Occupancy) Add(slotID string, teams ...string) {
	o[slotID] = append(o[slotID], teams...)
}

// Scheduled is a match assigned to a slot.
type Scheduled struct {
	Match
	SlotID  string
	Umpires []string
}

// Unschedulable is a match no slot could take, with the reason why.
type Unschedulable struct {
	Match
	Reason string
}

// Fixture is the caller's persisted view of a match. An empty SlotID means
// the match has not been assigned.
type Fixture struct {
	Scheduled
	Locked bool
	Played bool
}

// Preserved reports whether rescheduling must leave the fixture alone.
func (f Fixture) Preserved() bool {
	return f.Locked || f.Played
}
