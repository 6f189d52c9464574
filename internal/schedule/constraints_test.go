package schedule

import (
	"testing"
)

func slot(id, day, start, ground, format string) Slot {
	return Slot{ID: id, Date: mustDate(day), Start: start, Ground: ground, Format: format}
}

func TestWeekendKey(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2026-05-02", "2026-05-02"}, // Saturday
		{"2026-05-03", "2026-05-02"}, // Sunday maps back to Saturday
		{"2026-05-04", "2026-05-04"}, // Monday
		{"2026-05-08", "2026-05-08"}, // Friday
	}
	for _, tt := range tests {
		if got := WeekendKey(mustDate(tt.day)); got != tt.want {
			t.Errorf("WeekendKey(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestConflictsAreSymmetric(t *testing.T) {
	c := NewConflicts([]Conflict{
		{TeamA: "Foxes", TeamB: "Hawks", Level: SameSlot},
		{TeamA: "Owls", TeamB: "Foxes", Level: SameDay},
	})

	if !c.Has("Hawks", "Foxes", SameSlot) || !c.Has("Foxes", "Hawks", SameSlot) {
		t.Error("same_slot conflict should match either order")
	}
	if c.Has("Foxes", "Hawks", SameDay) {
		t.Error("same_slot conflict should not match same_day")
	}
	if !c.Any("Foxes", "Owls") {
		t.Error("Any(Foxes, Owls) = false, want true")
	}
	if c.Any("Hawks", "Owls") {
		t.Error("Any(Hawks, Owls) = true, want false")
	}

	var none *Conflicts
	if none.Any("Foxes", "Hawks") || none.Difficulty(Match{TeamA: "Foxes", TeamB: "Hawks"}) != 0 {
		t.Error("nil Conflicts should report nothing")
	}
}

func TestPredicates(t *testing.T) {
	sat := slot("s1", "2026-05-02", "10:00", "Riverside", "T20")
	sat2 := slot("s2", "2026-05-02", "14:00", "Riverside", "T20")
	sun := slot("s3", "2026-05-03", "11:00", "Riverside", "T20")
	mon := slot("s4", "2026-05-04", "18:00", "Riverside", "T20")
	idx := IndexSlots([]Slot{sat, sat2, sun, mon})
	m := Match{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}

	conflicts := NewConflicts([]Conflict{
		{TeamA: "Foxes", TeamB: "Wolves", Level: SameSlot},
		{TeamA: "Hawks", TeamB: "Bears", Level: SameDay},
	})

	t.Run("format compatible", func(t *testing.T) {
		if !FormatCompatible(sat, m) {
			t.Error("T20 match should fit T20 slot")
		}
		if FormatCompatible(sat, Match{TeamA: "a", TeamB: "b", Format: "40-over"}) {
			t.Error("40-over match should not fit T20 slot")
		}
	})

	t.Run("slot occupied by anyone", func(t *testing.T) {
		occ := Occupancy{"s1": {"Owls"}}
		if !SlotOccupied(occ, "s1") {
			t.Error("slot with an umpire present should be occupied")
		}
		if SlotOccupied(occ, "s2") {
			t.Error("empty slot should not be occupied")
		}
	})

	t.Run("team available", func(t *testing.T) {
		occ := Occupancy{"s1": {"Owls", "Hawks"}}
		if TeamAvailable(occ, "s1", m) {
			t.Error("Hawks already present; team should be unavailable")
		}
		if !TeamAvailable(occ, "s2", m) {
			t.Error("empty slot; teams should be available")
		}
	})

	t.Run("conflict in slot checks both orderings", func(t *testing.T) {
		occ := Occupancy{"s1": {"Wolves"}}
		if !ConflictInSlot(occ, "s1", m, conflicts) {
			t.Error("Wolves has same_slot conflict with Foxes")
		}
		swapped := Match{TeamA: "Hawks", TeamB: "Foxes", Format: "T20"}
		if !ConflictInSlot(occ, "s1", swapped, conflicts) {
			t.Error("conflict should be found with teams swapped")
		}
	})

	t.Run("conflict on day spans every slot of the date", func(t *testing.T) {
		occ := Occupancy{"s2": {"Bears", "Lions"}}
		if !ConflictOnDay(occ, idx, sat.Date, m, conflicts) {
			t.Error("Bears plays on the same day as Hawks")
		}
		if ConflictOnDay(occ, idx, mon.Date, m, conflicts) {
			t.Error("Monday has no conflicting team")
		}
	})

	t.Run("weekend limit", func(t *testing.T) {
		occ := Occupancy{"s3": {"Foxes", "Owls"}}
		if !WeekendLimit(occ, idx, sat.Date, m) {
			t.Error("Foxes plays Sunday; Saturday of the same weekend should be limited")
		}
		if WeekendLimit(occ, idx, sun.Date, m) {
			t.Error("same date is not a different date of the weekend")
		}
		if WeekendLimit(occ, idx, mon.Date, m) {
			t.Error("weekdays are their own weekend key")
		}
	})

	t.Run("blacked out", func(t *testing.T) {
		b := NewBlackouts([]Blackout{{Team: "Hawks", Date: mustDate("2026-05-03")}})
		if !BlackedOut(b, sun.Date, m) {
			t.Error("Hawks is blacked out on Sunday")
		}
		if BlackedOut(b, sat.Date, m) {
			t.Error("Hawks is available on Saturday")
		}
	})
}

func TestCheckReportsFirstFailure(t *testing.T) {
	sat := slot("s1", "2026-05-02", "10:00", "Riverside", "T20")
	sat2 := slot("s2", "2026-05-02", "14:00", "Riverside", "T20")
	rules := Constraints{
		Slots: IndexSlots([]Slot{sat, sat2}),
		Conflicts: NewConflicts([]Conflict{
			{TeamA: "Foxes", TeamB: "Bears", Level: SameDay},
		}),
		Blackouts: NewBlackouts([]Blackout{{Team: "Hawks", Date: mustDate("2026-05-02")}}),
	}
	m := Match{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}

	tests := []struct {
		name string
		m    Match
		occ  Occupancy
		want Rejection
	}{
		{"format", Match{TeamA: "Foxes", TeamB: "Hawks", Format: "40-over"}, Occupancy{}, RejectFormat},
		{"occupied", m, Occupancy{"s1": {"Owls"}}, RejectOccupied},
		{"day conflict", m, Occupancy{"s2": {"Bears"}}, RejectDayConflict},
		{"blackout", m, Occupancy{}, RejectBlackout},
		{"accepted", Match{TeamA: "Owls", TeamB: "Wolves", Format: "T20"}, Occupancy{}, Accepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Check(sat, tt.m, tt.occ); got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByDifficulty(t *testing.T) {
	conflicts := NewConflicts([]Conflict{
		{TeamA: "Foxes", TeamB: "Bears", Level: SameDay},
		{TeamA: "Foxes", TeamB: "Lions", Level: SameSlot},
		{TeamA: "Owls", TeamB: "Bears", Level: SameDay},
	})
	matches := []Match{
		{TeamA: "Hawks", TeamB: "Wolves"}, // 0
		{TeamA: "Owls", TeamB: "Wolves"},  // 1
		{TeamA: "Foxes", TeamB: "Hawks"},  // 2
		{TeamA: "Hawks", TeamB: "Elms"},   // 0
		{TeamA: "Foxes", TeamB: "Owls"},   // 3
	}
	SortByDifficulty(matches, conflicts)

	want := []Match{
		{TeamA: "Foxes", TeamB: "Owls"},
		{TeamA: "Foxes", TeamB: "Hawks"},
		{TeamA: "Owls", TeamB: "Wolves"},
		{TeamA: "Hawks", TeamB: "Wolves"},
		{TeamA: "Hawks", TeamB: "Elms"},
	}
	for i := range want {
		if matches[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, matches[i], want[i])
		}
	}
}
