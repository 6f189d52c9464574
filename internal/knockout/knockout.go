// Package knockout seeds group qualifiers into a single-elimination bracket
// and schedules its first round.
package knockout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/derekprior/wicket/internal/logging"
	"github.com/derekprior/wicket/internal/schedule"
)

// ErrInvalidInput is returned when there are fewer than two qualifiers.
var ErrInvalidInput = errors.New("invalid input")

// Group is the group name given to knockout matches.
const Group = "Knockout"

// Qualifier is a team that finished Rank in its group.
type Qualifier struct {
	Team  string
	Rank  int
	Group string
}

// Match is one bracket position. A bye has only TeamA. Matches in later
// rounds have no teams until earlier rounds are played; FromA and FromB
// name the 1-based positions in the previous round whose winners meet.
type Match struct {
	TeamA string
	TeamB string
	IsBye bool
	Round int

	FromA int
	FromB int
}

// Bracket lists every round, first round first.
type Bracket struct {
	Size        int
	TotalRounds int
	Byes        int
	Rounds      [][]Match
}

// Input is a knockout run. Occupancy, UmpireCounts and Tally describe the
// season already scheduled; they are copied, never modified.
type Input struct {
	Qualifiers []Qualifier

	// Slots are the candidates for first-round matches. Catalogue is every
	// slot of the season, used to date the matches already in Occupancy;
	// nil means Slots.
	Slots     []schedule.Slot
	Catalogue []schedule.Slot

	Conflicts   []schedule.Conflict
	Blackouts   []schedule.Blackout
	UmpirePool  []string
	TeamFormats map[string]string
	Format      string

	Occupancy    schedule.Occupancy
	UmpireCounts map[string]int
	Tally        *schedule.Tally

	Log *logging.Logger
}

// Result holds the bracket and the first-round matches that found a slot.
// Dropped counts first-round matches that did not.
type Result struct {
	Bracket   Bracket
	Scheduled []schedule.Scheduled
	Dropped   int
}

// Build seeds the qualifiers, hands byes to the best seeds and schedules
// the remaining first-round matches with two umpires each.
func Build(in Input) (Result, error) {
	n := len(in.Qualifiers)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 qualifiers, got %d", ErrInvalidInput, n)
	}

	size, rounds := bracketSize(n)
	byes := size - n
	seeds := Seed(in.Qualifiers)

	var first []Match
	for _, q := range seeds[:byes] {
		first = append(first, Match{TeamA: q.Team, IsBye: true, Round: 1})
	}
	for i := byes; i+1 < len(seeds); i += 2 {
		first = append(first, Match{TeamA: seeds[i].Team, TeamB: seeds[i+1].Team, Round: 1})
	}

	bracket := Bracket{Size: size, TotalRounds: rounds, Byes: byes, Rounds: [][]Match{first}}
	for r := 2; r <= rounds; r++ {
		bracket.Rounds = append(bracket.Rounds, feedRound(r, size>>(r-1)))
	}

	scheduled, dropped := scheduleFirstRound(first, in)
	return Result{Bracket: bracket, Scheduled: scheduled, Dropped: dropped}, nil
}

// feedRound folds a round of prev positions in half: the first meets the
// last, the second the second to last, and so on. Byes hold the first
// positions, so the best seeds stay apart until the final.
func feedRound(round, prev int) []Match {
	matches := make([]Match, prev/2)
	for i := range matches {
		matches[i] = Match{Round: round, FromA: i + 1, FromB: prev - i}
	}
	return matches
}

// bracketSize returns the smallest power of two holding n teams and the
// number of rounds it takes.
func bracketSize(n int) (size, rounds int) {
	size = 1
	for size < n {
		size <<= 1
		rounds++
	}
	return size, rounds
}

// Seed orders qualifiers by rank, then group, and interleaves the groups so
// neighbouring bracket positions come from different groups where possible.
func Seed(qualifiers []Qualifier) []Qualifier {
	sorted := make([]Qualifier, len(qualifiers))
	copy(sorted, qualifiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].Group < sorted[j].Group
	})

	var order []string
	queues := make(map[string][]Qualifier)
	for _, q := range sorted {
		if _, ok := queues[q.Group]; !ok {
			order = append(order, q.Group)
		}
		queues[q.Group] = append(queues[q.Group], q)
	}

	seeds := make([]Qualifier, 0, len(sorted))
	for len(seeds) < len(sorted) {
		for _, g := range order {
			if q := queues[g]; len(q) > 0 {
				seeds = append(seeds, q[0])
				queues[g] = q[1:]
			}
		}
	}
	return seeds
}

func scheduleFirstRound(first []Match, in Input) ([]schedule.Scheduled, int) {
	log := in.Log.WithComponent("knockout")
	catalogue := in.Catalogue
	if catalogue == nil {
		catalogue = in.Slots
	}
	slots := schedule.IndexSlots(catalogue)
	conflicts := schedule.NewConflicts(in.Conflicts)
	rules := schedule.Constraints{
		Slots:     slots,
		Conflicts: conflicts,
		Blackouts: schedule.NewBlackouts(in.Blackouts),
	}

	st := schedule.State{
		Occupancy:    in.Occupancy.Clone(),
		UmpireCounts: make(map[string]int, len(in.UmpireCounts)),
		Tally:        in.Tally.Clone(),
	}
	for team, n := range in.UmpireCounts {
		st.UmpireCounts[team] = n
	}

	var scheduled []schedule.Scheduled
	dropped := 0
	for _, km := range first {
		if km.IsBye {
			continue
		}
		m := schedule.Match{TeamA: km.TeamA, TeamB: km.TeamB, Group: Group, Format: in.Format}
		slot, ok, reason := schedule.BestSlot(m, in.Slots, rules, st, nil)
		if !ok {
			log.Debug("knockout match dropped", "team_a", m.TeamA, "team_b", m.TeamB, "reason", reason)
			dropped++
			continue
		}

		st.Occupancy.Add(slot.ID, m.TeamA, m.TeamB)
		umpires := schedule.SelectUmpires(slot.ID, m, schedule.UmpireContext{
			Occupancy: st.Occupancy,
			Counts:    st.UmpireCounts,
			Conflicts: conflicts,
			Pool:      in.UmpirePool,
			Formats:   in.TeamFormats,
		}, 2)
		st.Tally.Record(m, slot)

		log.Debug("knockout match placed", "team_a", m.TeamA, "team_b", m.TeamB, "slot", slot.ID, "umpires", umpires)
		scheduled = append(scheduled, schedule.Scheduled{Match: m, SlotID: slot.ID, Umpires: umpires})
	}
	return scheduled, dropped
}
