package schedule

import "testing"

func TestSelectUmpire(t *testing.T) {
	m := Match{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}
	pool := []string{"Foxes", "Hawks", "Owls", "Wolves", "Oaks"}

	t.Run("fewest duties wins, ties by pool order", func(t *testing.T) {
		uc := UmpireContext{Occupancy: Occupancy{}, Counts: map[string]int{"Owls": 2, "Wolves": 1, "Oaks": 1}, Pool: pool}
		got, ok := SelectUmpire("s1", m, uc)
		if !ok || got != "Wolves" {
			t.Errorf("SelectUmpire() = %q, %v; want Wolves", got, ok)
		}
	})

	t.Run("never a playing team", func(t *testing.T) {
		uc := UmpireContext{Occupancy: Occupancy{}, Pool: []string{"Foxes", "Hawks"}}
		if got, ok := SelectUmpire("s1", m, uc); ok {
			t.Errorf("SelectUmpire() = %q, want none", got)
		}
	})

	t.Run("skips teams already in the slot", func(t *testing.T) {
		uc := UmpireContext{Occupancy: Occupancy{"s1": {"Owls"}}, Pool: pool}
		if got, _ := SelectUmpire("s1", m, uc); got != "Wolves" {
			t.Errorf("SelectUmpire() = %q, want Wolves", got)
		}
	})

	t.Run("format filter only when formats are supplied", func(t *testing.T) {
		uc := UmpireContext{Occupancy: Occupancy{}, Pool: []string{"Oaks", "Owls"}}
		if got, _ := SelectUmpire("s1", m, uc); got != "Oaks" {
			t.Errorf("without formats: %q, want Oaks", got)
		}
		uc.Formats = map[string]string{"Oaks": "40-over", "Owls": "T20"}
		if got, _ := SelectUmpire("s1", m, uc); got != "Owls" {
			t.Errorf("with formats: %q, want Owls", got)
		}
	})

	t.Run("skips teams conflicting with either side", func(t *testing.T) {
		uc := UmpireContext{
			Occupancy: Occupancy{},
			Pool:      []string{"Owls", "Wolves"},
			Conflicts: NewConflicts([]Conflict{{TeamA: "Hawks", TeamB: "Owls", Level: SameDay}}),
		}
		if got, _ := SelectUmpire("s1", m, uc); got != "Wolves" {
			t.Errorf("SelectUmpire() = %q, want Wolves", got)
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		if _, ok := SelectUmpire("s1", m, UmpireContext{Occupancy: Occupancy{}}); ok {
			t.Error("empty pool should select nobody")
		}
	})
}

func TestSelectUmpiresPicksDistinctTeams(t *testing.T) {
	m := Match{TeamA: "Foxes", TeamB: "Hawks", Format: "T20"}
	occ := Occupancy{"s1": {"Foxes", "Hawks"}}
	counts := map[string]int{}
	uc := UmpireContext{Occupancy: occ, Counts: counts, Pool: []string{"Owls", "Wolves", "Bears"}}

	got := SelectUmpires("s1", m, uc, 2)
	if len(got) != 2 || got[0] != "Owls" || got[1] != "Wolves" {
		t.Fatalf("SelectUmpires() = %v, want [Owls Wolves]", got)
	}
	if !occ.Has("s1", "Owls") || !occ.Has("s1", "Wolves") {
		t.Error("picks should be added to occupancy")
	}
	if counts["Owls"] != 1 || counts["Wolves"] != 1 {
		t.Errorf("counts = %v, want one duty each", counts)
	}
}
