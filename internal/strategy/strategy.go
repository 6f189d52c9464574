package strategy

import (
	"errors"
	"fmt"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/schedule"
)

// ErrInvalidInput is returned when there are too few teams to pair.
var ErrInvalidInput = errors.New("invalid input")

// Pair is an unordered matchup between two teams.
type Pair struct {
	A string
	B string
}

// Pairs returns every pair of teams exactly once, in i<j order.
func Pairs(teams []string) ([]Pair, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, got %d", ErrInvalidInput, len(teams))
	}
	pairs := make([]Pair, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, Pair{A: teams[i], B: teams[j]})
		}
	}
	return pairs, nil
}

// Strategy generates the list of matches for a season.
type Strategy interface {
	GenerateMatches(groups []config.Group) ([]schedule.Match, error)
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case "round_robin", "":
		return &RoundRobin{}, nil
	case "double_round_robin":
		return &DoubleRoundRobin{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// RoundRobin plays every pair within a group once.
type RoundRobin struct{}

func (s *RoundRobin) GenerateMatches(groups []config.Group) ([]schedule.Match, error) {
	var matches []schedule.Match
	for _, g := range groups {
		pairs, err := Pairs(g.Teams)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}
		for _, p := range pairs {
			matches = append(matches, schedule.Match{TeamA: p.A, TeamB: p.B, Group: g.Name, Format: g.Format})
		}
	}
	return matches, nil
}

// DoubleRoundRobin plays every pair within a group twice. The second leg
// follows the whole first leg with the sides swapped.
type DoubleRoundRobin struct{}

func (s *DoubleRoundRobin) GenerateMatches(groups []config.Group) ([]schedule.Match, error) {
	first, err := (&RoundRobin{}).GenerateMatches(groups)
	if err != nil {
		return nil, err
	}
	matches := make([]schedule.Match, 0, 2*len(first))
	matches = append(matches, first...)
	for _, m := range first {
		m.TeamA, m.TeamB = m.TeamB, m.TeamA
		matches = append(matches, m)
	}
	return matches, nil
}
