package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/derekprior/wicket/internal/config"
)

// roundRobin pairs every team once, in i<j order.
func roundRobin(group, format string, teams ...string) []Match {
	var out []Match
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			out = append(out, Match{TeamA: teams[i], TeamB: teams[j], Group: group, Format: format})
		}
	}
	return out
}

// weekdaySlots returns one 18:00 slot per weekday from Monday 2026-05-04.
func weekdaySlots(n int, ground, format string) []Slot {
	var out []Slot
	for d := mustDate("2026-05-04"); len(out) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, Slot{ID: SlotID(d, "18:00", ground), Date: d, Start: "18:00", Ground: ground, Format: format})
	}
	return out
}

func partitionCheck(t *testing.T, in Input, res Result) {
	t.Helper()
	if got := len(res.Scheduled) + len(res.Unschedulable); got != len(in.Matches) {
		t.Errorf("scheduled %d + unschedulable %d != %d matches",
			len(res.Scheduled), len(res.Unschedulable), len(in.Matches))
	}
	seen := make(map[Match]int)
	for _, m := range in.Matches {
		seen[m]++
	}
	for _, sc := range res.Scheduled {
		seen[sc.Match]--
	}
	for _, u := range res.Unschedulable {
		if u.Reason == "" {
			t.Errorf("unschedulable %s vs %s has no reason", u.TeamA, u.TeamB)
		}
		seen[u.Match]--
	}
	for m, n := range seen {
		if n != 0 {
			t.Errorf("match %s vs %s accounted %d times off", m.TeamA, m.TeamB, n)
		}
	}
}

func TestScheduleSeason(t *testing.T) {
	cfg := testConfig()
	cfg.Conflicts = append(cfg.Conflicts, cfgConflict("Owls", "Wolves", "same_slot"))
	slots := GenerateSlots(cfg)
	matches := append(
		roundRobin("North", "T20", "Foxes", "Hawks", "Owls", "Wolves"),
		roundRobin("Vets", "40-over", "Oaks", "Elms")...,
	)
	in := NewInput(cfg, slots, matches)
	res := Schedule(in)
	idx := IndexSlots(slots)

	t.Run("every match accounted for once", func(t *testing.T) {
		partitionCheck(t, in, res)
	})

	t.Run("all 7 matches scheduled", func(t *testing.T) {
		if len(res.Scheduled) != 7 {
			t.Errorf("scheduled %d matches, want 7: %+v", len(res.Scheduled), res.Unschedulable)
		}
	})

	t.Run("formats match and slots are exclusive", func(t *testing.T) {
		used := make(map[string]bool)
		for _, sc := range res.Scheduled {
			s, ok := idx[sc.SlotID]
			if !ok {
				t.Fatalf("unknown slot %q", sc.SlotID)
			}
			if s.Format != sc.Format {
				t.Errorf("%s vs %s (%s) in %s slot", sc.TeamA, sc.TeamB, sc.Format, s.Format)
			}
			if used[sc.SlotID] {
				t.Errorf("slot %s used twice", sc.SlotID)
			}
			used[sc.SlotID] = true
		}
	})

	t.Run("same_day conflicts never share a date", func(t *testing.T) {
		present := make(map[string]map[string]bool) // date -> teams
		for _, sc := range res.Scheduled {
			d := DateKey(idx[sc.SlotID].Date)
			if present[d] == nil {
				present[d] = make(map[string]bool)
			}
			teams := sc.Teams()
			for _, team := range append(teams[:], sc.Umpires...) {
				present[d][team] = true
			}
		}
		for d, teams := range present {
			if teams["Foxes"] && teams["Oaks"] {
				t.Errorf("Foxes and Oaks both present on %s", d)
			}
		}
	})

	t.Run("umpires are never playing or conflicting", func(t *testing.T) {
		for _, sc := range res.Scheduled {
			for _, u := range sc.Umpires {
				if sc.Involves(u) {
					t.Errorf("%s umpires its own match", u)
				}
				if (u == "Owls" && sc.Involves("Wolves")) || (u == "Wolves" && sc.Involves("Owls")) {
					t.Errorf("%s umpires a conflicting team's match", u)
				}
			}
		}
	})

	t.Run("umpires come from the match's format", func(t *testing.T) {
		for _, sc := range res.Scheduled {
			for _, u := range sc.Umpires {
				if in.TeamFormats[u] != sc.Format {
					t.Errorf("%s (%s) umpires a %s match", u, in.TeamFormats[u], sc.Format)
				}
			}
		}
	})

	t.Run("blackouts respected", func(t *testing.T) {
		for _, sc := range res.Scheduled {
			d := idx[sc.SlotID].Date
			if sc.Involves("Owls") && (d.Equal(mustDate("2026-05-02")) || d.Equal(mustDate("2026-05-03"))) {
				t.Errorf("Owls scheduled on blackout date %s", DateKey(d))
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		again := Schedule(in)
		if diff := cmp.Diff(res, again); diff != "" {
			t.Errorf("second run differs (-first +second):\n%s", diff)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		if got := res.TeamMetrics["Foxes"].Matches; got != 3 {
			t.Errorf("Foxes matches = %d, want 3", got)
		}
		if got := res.TeamMetrics["Oaks"].Matches; got != 1 {
			t.Errorf("Oaks matches = %d, want 1", got)
		}
	})
}

func cfgConflict(a, b, level string) config.Conflict {
	return config.Conflict{Teams: []string{a, b}, Level: level}
}

func TestScheduleInterleavesGroups(t *testing.T) {
	matches := append(
		roundRobin("North", "T20", "Foxes", "Hawks", "Owls", "Wolves"),
		roundRobin("Vets", "T20", "Oaks", "Elms")...,
	)
	res := Schedule(Input{Matches: matches, Slots: weekdaySlots(10, "Riverside", "T20")})

	if len(res.Scheduled) != 7 {
		t.Fatalf("scheduled %d, want 7", len(res.Scheduled))
	}
	// Foxes v Hawks first, then the untouched Owls v Wolves, then the small
	// group's only match before anyone plays a second time.
	want := []string{"Foxes-Hawks", "Owls-Wolves", "Oaks-Elms"}
	for i, w := range want {
		got := res.Scheduled[i].TeamA + "-" + res.Scheduled[i].TeamB
		if got != w {
			t.Errorf("pick %d = %s, want %s", i, got, w)
		}
	}
}

func TestScheduleSpreadsAcrossDays(t *testing.T) {
	slots := []Slot{
		slot("a", "2026-05-04", "18:00", "Riverside", "T20"),
		slot("b", "2026-05-04", "18:00", "Mill Lane", "T20"),
		slot("c", "2026-05-05", "18:00", "Riverside", "T20"),
	}
	res := Schedule(Input{
		Matches: []Match{
			{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"},
			{TeamA: "Owls", TeamB: "Wolves", Format: "T20"},
		},
		Slots: slots,
	})
	if len(res.Scheduled) != 2 {
		t.Fatalf("scheduled %d, want 2", len(res.Scheduled))
	}
	if res.Scheduled[0].SlotID != "a" {
		t.Errorf("first match in %s, want a (first on ties)", res.Scheduled[0].SlotID)
	}
	if res.Scheduled[1].SlotID != "c" {
		t.Errorf("second match in %s, want c (day load avoids 05-04)", res.Scheduled[1].SlotID)
	}
}

func TestScheduleUnschedulableReasons(t *testing.T) {
	t.Run("no slots of the format", func(t *testing.T) {
		res := Schedule(Input{
			Matches: []Match{{TeamA: "Oaks", TeamB: "Elms", Format: "40-over"}},
			Slots:   weekdaySlots(3, "Riverside", "T20"),
		})
		if len(res.Unschedulable) != 1 {
			t.Fatalf("unschedulable = %d, want 1", len(res.Unschedulable))
		}
		if got := res.Unschedulable[0].Reason; got != "no 40-over slots available" {
			t.Errorf("reason = %q", got)
		}
	})

	t.Run("every slot taken", func(t *testing.T) {
		res := Schedule(Input{
			Matches: []Match{
				{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"},
				{TeamA: "Owls", TeamB: "Wolves", Format: "T20"},
			},
			Slots: weekdaySlots(1, "Riverside", "T20"),
		})
		if len(res.Scheduled) != 1 || len(res.Unschedulable) != 1 {
			t.Fatalf("scheduled %d, unschedulable %d; want 1 and 1", len(res.Scheduled), len(res.Unschedulable))
		}
		want := "no valid slot among 1 T20 slots: 1 occupied"
		if got := res.Unschedulable[0].Reason; got != want {
			t.Errorf("reason = %q, want %q", got, want)
		}
	})

	t.Run("blackout on every date", func(t *testing.T) {
		slots := weekdaySlots(2, "Riverside", "T20")
		var blackouts []Blackout
		for _, s := range slots {
			blackouts = append(blackouts, Blackout{Team: "Hawks", Date: s.Date})
		}
		res := Schedule(Input{
			Matches:   []Match{{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}},
			Slots:     slots,
			Blackouts: blackouts,
		})
		if len(res.Unschedulable) != 1 || !strings.Contains(res.Unschedulable[0].Reason, "2 blacked out") {
			t.Errorf("unschedulable = %+v, want a blackout reason", res.Unschedulable)
		}
	})

	t.Run("same_day conflict with an existing match", func(t *testing.T) {
		slots := []Slot{
			slot("a", "2026-05-04", "18:00", "Riverside", "T20"),
			slot("b", "2026-05-04", "18:00", "Mill Lane", "T20"),
		}
		res := Schedule(Input{
			Matches:   []Match{{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}},
			Slots:     slots,
			Conflicts: []Conflict{{TeamA: "Bears", TeamB: "Hawks", Level: SameDay}},
			Existing:  []Scheduled{{Match: Match{TeamA: "Bears", TeamB: "Lions", Format: "T20"}, SlotID: "a"}},
		})
		want := "no valid slot among 2 T20 slots: 1 occupied, 1 same-day conflict"
		if len(res.Unschedulable) != 1 || res.Unschedulable[0].Reason != want {
			t.Errorf("unschedulable = %+v, want reason %q", res.Unschedulable, want)
		}
	})
}

func TestScheduleRespectsExisting(t *testing.T) {
	slots := weekdaySlots(4, "Riverside", "T20")
	existing := []Scheduled{
		{Match: Match{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}, SlotID: slots[0].ID, Umpires: []string{"Owls"}},
	}
	before := append([]Scheduled(nil), existing...)
	before[0].Umpires = append([]string(nil), existing[0].Umpires...)

	res := Schedule(Input{
		Matches:    roundRobin("North", "T20", "Owls", "Wolves", "Bears"),
		Slots:      slots,
		Existing:   existing,
		UmpirePool: []string{"Foxes", "Hawks", "Owls", "Wolves", "Bears"},
	})

	if diff := cmp.Diff(before, existing); diff != "" {
		t.Errorf("existing was mutated:\n%s", diff)
	}
	for _, sc := range res.Scheduled {
		if sc.SlotID == slots[0].ID {
			t.Errorf("%s vs %s placed in an existing match's slot", sc.TeamA, sc.TeamB)
		}
	}
	if got := res.TeamMetrics["Owls"].Umpiring; got < 1 {
		t.Errorf("Owls umpiring = %d, want the existing duty counted", got)
	}
}
