package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/derekprior/wicket/internal/logging"
)

// Input is everything one scheduling run needs. Nothing in it is mutated.
type Input struct {
	Matches []Match

	// Slots are the candidates matches may be placed in.
	Slots []Slot

	// Catalogue is every slot of the season. Existing matches and the
	// weekend and same_day checks look slots up here, so a match in a slot
	// missing from it counts towards no date. Nil means Slots.
	Catalogue []Slot

	Conflicts []Conflict
	Blackouts []Blackout

	// Existing holds locked or played matches already in slots. They block
	// their slots and count towards every tally.
	Existing []Scheduled

	// UmpirePool lists the teams that may umpire. Empty means matches are
	// scheduled without umpires.
	UmpirePool []string

	// TeamFormats enables the umpire format filter when non-nil.
	TeamFormats map[string]string

	// Expected is the optional per-team expected match total. When set the
	// fairness score compares progress ratios instead of raw totals.
	Expected map[string]int

	Log *logging.Logger
}

func (in Input) catalogue() []Slot {
	if in.Catalogue != nil {
		return in.Catalogue
	}
	return in.Slots
}

// TeamMetrics holds per-team schedule statistics.
type TeamMetrics struct {
	Matches  int
	Umpiring int
	Weekend  int
}

// Result is the output of a scheduling run. Every input match ends up in
// exactly one of Scheduled or Unschedulable.
type Result struct {
	Scheduled     []Scheduled
	Unschedulable []Unschedulable
	TeamMetrics   map[string]*TeamMetrics
}

// State is the working set a run builds from its input: slot occupancy,
// umpiring duty counts and the fairness tally.
type State struct {
	Occupancy    Occupancy
	UmpireCounts map[string]int
	Tally        *Tally
}

// Seed builds a fresh State from matches already in slots. slots should be
// the whole season catalogue: matches whose slot is not in it still occupy
// it but add no date-based counts.
func Seed(existing []Scheduled, slots SlotIndex) State {
	st := State{
		Occupancy:    make(Occupancy),
		UmpireCounts: make(map[string]int),
		Tally:        NewTally(),
	}
	for _, sc := range existing {
		st.record(sc, slots)
	}
	return st
}

func (st State) record(sc Scheduled, slots SlotIndex) {
	st.Occupancy.Add(sc.SlotID, sc.TeamA, sc.TeamB)
	st.Occupancy.Add(sc.SlotID, sc.Umpires...)
	for _, u := range sc.Umpires {
		st.UmpireCounts[u]++
	}
	if slot, ok := slots[sc.SlotID]; ok {
		st.Tally.Record(sc.Match, slot)
		return
	}
	st.Tally.Total[sc.TeamA]++
	st.Tally.Total[sc.TeamB]++
}

// Schedule assigns matches to slots greedily. Matches touching the most
// conflicts are ordered first; after that the pending match whose teams are
// furthest behind their expected totals goes next, and takes the
// lowest-penalty slot that passes every constraint. Matches with no valid
// slot are reported with a reason and the run carries on.
func Schedule(in Input) Result {
	s := newScheduler(in)
	s.run()
	return Result{
		Scheduled:     s.scheduled,
		Unschedulable: s.unschedulable,
		TeamMetrics:   s.buildMetrics(),
	}
}

type scheduler struct {
	in    Input
	slots SlotIndex
	rules Constraints
	state State
	log   *logging.Logger

	// denominators for picking the next match
	pace map[string]int

	scheduled     []Scheduled
	unschedulable []Unschedulable
}

func newScheduler(in Input) *scheduler {
	slots := IndexSlots(in.catalogue())
	s := &scheduler{
		in:    in,
		slots: slots,
		rules: Constraints{
			Slots:     slots,
			Conflicts: NewConflicts(in.Conflicts),
			Blackouts: NewBlackouts(in.Blackouts),
		},
		state: Seed(in.Existing, slots),
		log:   in.Log.WithComponent("scheduler"),
		pace:  make(map[string]int),
	}

	// Without caller-supplied expectations, a team is expected to play every
	// match it appears in.
	derived := make(map[string]int)
	for _, m := range in.Matches {
		derived[m.TeamA]++
		derived[m.TeamB]++
	}
	for _, sc := range in.Existing {
		derived[sc.TeamA]++
		derived[sc.TeamB]++
	}
	for team, n := range derived {
		s.pace[team] = n
		if want := in.Expected[team]; want > 0 {
			s.pace[team] = want
		}
		s.state.Tally.Track(team)
	}
	return s
}

func (s *scheduler) run() {
	pending := make([]Match, len(s.in.Matches))
	copy(pending, s.in.Matches)
	SortByDifficulty(pending, s.rules.Conflicts)

	for len(pending) > 0 {
		i := s.pickNext(pending)
		m := pending[i]
		pending = append(pending[:i], pending[i+1:]...)
		s.place(m)
	}
}

// pickNext returns the index of the pending match with the lowest average
// progress ratio. The first one found wins ties.
func (s *scheduler) pickNext(pending []Match) int {
	best := 0
	bestRatio := 0.0
	for i, m := range pending {
		r := (s.progress(m.TeamA) + s.progress(m.TeamB)) / 2
		if i == 0 || r < bestRatio {
			best, bestRatio = i, r
		}
	}
	return best
}

func (s *scheduler) progress(team string) float64 {
	want := s.pace[team]
	if want <= 0 {
		return 0
	}
	return float64(s.state.Tally.Total[team]) / float64(want)
}

func (s *scheduler) place(m Match) {
	slot, ok, reason := BestSlot(m, s.in.Slots, s.rules, s.state, s.in.Expected)
	if !ok {
		s.log.Debug("match unschedulable", "team_a", m.TeamA, "team_b", m.TeamB, "reason", reason)
		s.unschedulable = append(s.unschedulable, Unschedulable{Match: m, Reason: reason})
		return
	}

	sc := Scheduled{Match: m, SlotID: slot.ID}
	if len(s.in.UmpirePool) > 0 {
		u, found := SelectUmpire(slot.ID, m, UmpireContext{
			Occupancy: s.state.Occupancy,
			Counts:    s.state.UmpireCounts,
			Conflicts: s.rules.Conflicts,
			Pool:      s.in.UmpirePool,
			Formats:   s.in.TeamFormats,
		})
		if found {
			sc.Umpires = []string{u}
		}
	}

	s.log.Debug("match placed", "team_a", m.TeamA, "team_b", m.TeamB, "slot", slot.ID, "umpires", sc.Umpires)
	s.scheduled = append(s.scheduled, sc)
	s.state.record(sc, s.slots)
}

// BestSlot filters slots through every constraint and returns the one with
// the lowest fairness penalty, earliest in slots on ties. When nothing
// passes, the reason explains which constraints ruled the slots out.
func BestSlot(m Match, slots []Slot, rules Constraints, st State, expected map[string]int) (Slot, bool, string) {
	var best Slot
	bestScore := 0
	found := false
	rejections := make(map[Rejection]int)
	compatible := 0

	for _, slot := range slots {
		r := rules.Check(slot, m, st.Occupancy)
		if r != RejectFormat {
			compatible++
		}
		if r != Accepted {
			rejections[r]++
			continue
		}
		score := Score(slot, m, st.Tally, expected)
		if !found || score < bestScore {
			best, bestScore, found = slot, score, true
		}
	}
	if found {
		return best, true, ""
	}
	return Slot{}, false, unschedulableReason(m, compatible, rejections)
}

func unschedulableReason(m Match, compatible int, rejections map[Rejection]int) string {
	if compatible == 0 {
		return fmt.Sprintf("no %s slots available", m.Format)
	}
	var parts []string
	for _, r := range []Rejection{
		RejectOccupied, RejectTeamBusy, RejectSlotConflict,
		RejectDayConflict, RejectWeekend, RejectBlackout,
	} {
		if n := rejections[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, r))
		}
	}
	return fmt.Sprintf("no valid slot among %d %s slots: %s", compatible, m.Format, strings.Join(parts, ", "))
}

func (s *scheduler) buildMetrics() map[string]*TeamMetrics {
	metrics := make(map[string]*TeamMetrics)
	get := func(team string) *TeamMetrics {
		if metrics[team] == nil {
			metrics[team] = &TeamMetrics{}
		}
		return metrics[team]
	}
	for team := range s.pace {
		get(team)
	}

	all := make([]Scheduled, 0, len(s.in.Existing)+len(s.scheduled))
	all = append(all, s.in.Existing...)
	all = append(all, s.scheduled...)
	for _, sc := range all {
		slot, known := s.slots[sc.SlotID]
		weekend := known && (slot.Date.Weekday() == time.Saturday || slot.Date.Weekday() == time.Sunday)
		for _, team := range sc.Teams() {
			m := get(team)
			m.Matches++
			if weekend {
				m.Weekend++
			}
		}
		for _, u := range sc.Umpires {
			get(u).Umpiring++
		}
	}
	return metrics
}
