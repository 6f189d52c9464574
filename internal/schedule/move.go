package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLocked             = errors.New("match is locked")
	ErrPlayed             = errors.New("match has already been played")
	ErrFormatIncompatible = errors.New("slot format is incompatible with match format")
)

// MoveError is a rejected move or lock toggle. Nothing was changed.
type MoveError struct {
	Op     string // "move" or "lock"
	Match  Match
	SlotID string
	Err    error
}

func (e *MoveError) Error() string {
	if e.SlotID != "" {
		return fmt.Sprintf("%s %s vs %s to %s: %v", e.Op, e.Match.TeamA, e.Match.TeamB, e.SlotID, e.Err)
	}
	return fmt.Sprintf("%s %s vs %s: %v", e.Op, e.Match.TeamA, e.Match.TeamB, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// MoveResult says whether a move may go ahead. A non-empty Conflict with
// Moved false means the move would double-book or break a conflict and can
// be retried with override.
type MoveResult struct {
	Moved      bool
	Overridden bool
	Conflict   string
}

// MoveMatch validates moving f into slot to. Locked, played and
// format-incompatible moves are rejected outright. Otherwise the slot's
// occupancy is checked for the playing teams and same_slot conflicts;
// override lets the move through anyway. The caller persists the move.
func MoveMatch(f Fixture, to Slot, occ Occupancy, conflicts *Conflicts, override bool) (MoveResult, error) {
	reject := func(err error) (MoveResult, error) {
		return MoveResult{}, &MoveError{Op: "move", Match: f.Match, SlotID: to.ID, Err: err}
	}
	switch {
	case f.Locked:
		return reject(ErrLocked)
	case f.Played:
		return reject(ErrPlayed)
	case !FormatCompatible(to, f.Match):
		return reject(ErrFormatIncompatible)
	}

	var problems []string
	if !TeamAvailable(occ, to.ID, f.Match) {
		var busy []string
		for _, team := range f.Teams() {
			if occ.Has(to.ID, team) {
				busy = append(busy, team)
			}
		}
		problems = append(problems, fmt.Sprintf("%s already in slot %s", strings.Join(busy, " and "), to.ID))
	}
	if ConflictInSlot(occ, to.ID, f.Match, conflicts) {
		for _, present := range occ[to.ID] {
			for _, team := range f.Teams() {
				if conflicts.Has(present, team, SameSlot) {
					problems = append(problems, fmt.Sprintf("%s has a same_slot conflict with %s in slot %s", team, present, to.ID))
				}
			}
		}
	}

	if len(problems) == 0 {
		return MoveResult{Moved: true}, nil
	}
	desc := strings.Join(problems, "; ")
	if !override {
		return MoveResult{Conflict: desc}, nil
	}
	return MoveResult{Moved: true, Overridden: true, Conflict: desc}, nil
}

// ToggleLock returns the flipped lock flag. Played matches cannot change.
func ToggleLock(f Fixture) (bool, error) {
	if f.Played {
		return f.Locked, &MoveError{Op: "lock", Match: f.Match, Err: ErrPlayed}
	}
	return !f.Locked, nil
}
