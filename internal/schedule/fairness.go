package schedule

import "math"

// Penalty weights for Score.
const (
	progressWeight = 50
	dayWeight      = 10
	groundWeight   = 8
	startWeight    = 8
	dayLoadWeight  = 1
)

// TeamKey pairs a team with a date key, ground name or start time.
type TeamKey struct {
	Team  string
	Value string
}

// Tally holds the running counts the fairness score reads.
type Tally struct {
	Day     map[TeamKey]int // team + date key -> matches
	Ground  map[TeamKey]int // team + ground -> matches
	Start   map[TeamKey]int // team + start time -> matches
	Total   map[string]int  // team -> matches scheduled
	DayLoad map[string]int  // date key -> occupied slots
}

func NewTally() *Tally {
	return &Tally{
		Day:     make(map[TeamKey]int),
		Ground:  make(map[TeamKey]int),
		Start:   make(map[TeamKey]int),
		Total:   make(map[string]int),
		DayLoad: make(map[string]int),
	}
}

// Clone returns an independent copy. A nil Tally clones to an empty one.
func (t *Tally) Clone() *Tally {
	c := NewTally()
	if t == nil {
		return c
	}
	for k, v := range t.Day {
		c.Day[k] = v
	}
	for k, v := range t.Ground {
		c.Ground[k] = v
	}
	for k, v := range t.Start {
		c.Start[k] = v
	}
	for k, v := range t.Total {
		c.Total[k] = v
	}
	for k, v := range t.DayLoad {
		c.DayLoad[k] = v
	}
	return c
}

// Track makes sure team takes part in the global minimum even before it has
// played.
func (t *Tally) Track(team string) {
	if _, ok := t.Total[team]; !ok {
		t.Total[team] = 0
	}
}

// Record counts m as played in slot.
func (t *Tally) Record(m Match, slot Slot) {
	day := DateKey(slot.Date)
	for _, team := range m.Teams() {
		t.Day[TeamKey{team, day}]++
		t.Ground[TeamKey{team, slot.Ground}]++
		t.Start[TeamKey{team, slot.Start}]++
		t.Total[team]++
	}
	t.DayLoad[day]++
}

// Score returns the penalty for placing m in slot; lower is better. With a
// nil expected map, teams ahead of the least-scheduled team are penalised.
// With expected counts, progress ratios are compared instead, which keeps
// groups of different sizes moving at the same pace.
func Score(slot Slot, m Match, t *Tally, expected map[string]int) int {
	if t == nil {
		t = NewTally()
	}
	score := 0
	if expected == nil {
		low := minTotal(t.Total)
		for _, team := range m.Teams() {
			score += (t.Total[team] - low) * progressWeight
		}
	} else {
		low := minRatio(t.Total, expected)
		for _, team := range m.Teams() {
			r, ok := ratio(t.Total, expected, team)
			if !ok {
				continue
			}
			score += int(math.Floor((r-low)*100)) * progressWeight
		}
	}

	day := DateKey(slot.Date)
	for _, team := range m.Teams() {
		score += t.Day[TeamKey{team, day}] * dayWeight
		score += t.Ground[TeamKey{team, slot.Ground}] * groundWeight
		score += t.Start[TeamKey{team, slot.Start}] * startWeight
	}
	score += t.DayLoad[day] * dayLoadWeight
	return score
}

func minTotal(totals map[string]int) int {
	first := true
	low := 0
	for _, n := range totals {
		if first || n < low {
			low = n
			first = false
		}
	}
	return low
}

// ratio is scheduled/expected for team. Teams without a positive expected
// count have no ratio.
func ratio(totals, expected map[string]int, team string) (float64, bool) {
	want := expected[team]
	if want <= 0 {
		return 0, false
	}
	return float64(totals[team]) / float64(want), true
}

func minRatio(totals, expected map[string]int) float64 {
	first := true
	low := 0.0
	for team := range expected {
		r, ok := ratio(totals, expected, team)
		if !ok {
			continue
		}
		if first || r < low {
			low = r
			first = false
		}
	}
	return low
}
