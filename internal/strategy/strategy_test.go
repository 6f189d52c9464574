package strategy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/derekprior/wicket/internal/config"
)

func testGroups() []config.Group {
	return []config.Group{
		{Name: "North", Format: "T20", Teams: []string{"Foxes", "Hawks", "Owls", "Wolves", "Bears"}},
		{Name: "Vets", Format: "40-over", Teams: []string{"Oaks", "Elms", "Ashes"}},
	}
}

func TestPairs(t *testing.T) {
	t.Run("four teams", func(t *testing.T) {
		got, err := Pairs([]string{"A", "B", "C", "D"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Pair{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}, {"C", "D"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Pairs() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("n(n-1)/2 unique pairs without self-pairs", func(t *testing.T) {
		teams := []string{"a", "b", "c", "d", "e", "f", "g"}
		for n := 2; n <= len(teams); n++ {
			pairs, err := Pairs(teams[:n])
			if err != nil {
				t.Fatalf("n=%d: unexpected error: %v", n, err)
			}
			if len(pairs) != n*(n-1)/2 {
				t.Errorf("n=%d: %d pairs, want %d", n, len(pairs), n*(n-1)/2)
			}
			seen := make(map[Pair]bool)
			for _, p := range pairs {
				if p.A == p.B {
					t.Errorf("n=%d: self-pair %v", n, p)
				}
				if seen[p] || seen[Pair{p.B, p.A}] {
					t.Errorf("n=%d: duplicate pair %v", n, p)
				}
				seen[p] = true
			}
		}
	})

	t.Run("fewer than two teams", func(t *testing.T) {
		for _, teams := range [][]string{nil, {"A"}} {
			if _, err := Pairs(teams); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Pairs(%v) err = %v, want ErrInvalidInput", teams, err)
			}
		}
	})
}

func TestRoundRobin(t *testing.T) {
	matches, err := (&RoundRobin{}).GenerateMatches(testGroups())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("total match count", func(t *testing.T) {
		// C(5,2) + C(3,2)
		if len(matches) != 13 {
			t.Errorf("total matches = %d, want 13", len(matches))
		}
	})

	t.Run("matches carry group and format", func(t *testing.T) {
		for _, m := range matches {
			switch m.Group {
			case "North":
				if m.Format != "T20" {
					t.Errorf("%s vs %s format = %q, want T20", m.TeamA, m.TeamB, m.Format)
				}
			case "Vets":
				if m.Format != "40-over" {
					t.Errorf("%s vs %s format = %q, want 40-over", m.TeamA, m.TeamB, m.Format)
				}
			default:
				t.Errorf("unexpected group %q", m.Group)
			}
		}
	})

	t.Run("no cross-group matches", func(t *testing.T) {
		group := make(map[string]string)
		for _, g := range testGroups() {
			for _, team := range g.Teams {
				group[team] = g.Name
			}
		}
		for _, m := range matches {
			if group[m.TeamA] != group[m.TeamB] {
				t.Errorf("%s vs %s crosses groups", m.TeamA, m.TeamB)
			}
		}
	})

	t.Run("small group fails", func(t *testing.T) {
		groups := []config.Group{{Name: "Solo", Format: "T20", Teams: []string{"Foxes"}}}
		if _, err := (&RoundRobin{}).GenerateMatches(groups); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestDoubleRoundRobin(t *testing.T) {
	matches, err := (&DoubleRoundRobin{}).GenerateMatches(testGroups())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 26 {
		t.Fatalf("total matches = %d, want 26", len(matches))
	}

	t.Run("second leg swaps sides", func(t *testing.T) {
		half := len(matches) / 2
		for i := 0; i < half; i++ {
			a, b := matches[i], matches[half+i]
			if a.TeamA != b.TeamB || a.TeamB != b.TeamA {
				t.Errorf("leg 2 match %d = %s vs %s, want %s vs %s", i, b.TeamA, b.TeamB, a.TeamB, a.TeamA)
			}
		}
	})

	t.Run("each team plays every group rival twice", func(t *testing.T) {
		counts := make(map[string]int)
		for _, m := range matches {
			counts[m.TeamA]++
			counts[m.TeamB]++
		}
		if counts["Foxes"] != 8 {
			t.Errorf("Foxes plays %d, want 8", counts["Foxes"])
		}
		if counts["Oaks"] != 4 {
			t.Errorf("Oaks plays %d, want 4", counts["Oaks"])
		}
	})
}

func TestGetStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"round_robin", &RoundRobin{}, false},
		{"double_round_robin", &DoubleRoundRobin{}, false},
		{"swiss", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Get(%q) mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}
