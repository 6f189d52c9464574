package schedule

import "fmt"

// Rescheduled is the outcome of Reschedule. Preserved holds the locked and
// played fixtures exactly as they came in.
type Rescheduled struct {
	Result
	Preserved []Fixture
	Message   string
}

// Reschedule re-runs Schedule over every fixture that is neither locked nor
// played. Preserved fixtures keep their slots and block them for the run.
// in.Matches and in.Existing are replaced by the partition of fixtures.
func Reschedule(fixtures []Fixture, in Input) Rescheduled {
	var preserved []Fixture
	var eligible []Match
	for _, f := range fixtures {
		if f.Preserved() {
			preserved = append(preserved, f)
			continue
		}
		eligible = append(eligible, f.Match)
	}

	if len(eligible) == 0 {
		return Rescheduled{
			Result: Result{
				Scheduled:     []Scheduled{},
				Unschedulable: []Unschedulable{},
			},
			Preserved: preserved,
			Message:   fmt.Sprintf("nothing to reschedule: all %d matches are locked or played", len(fixtures)),
		}
	}

	var existing []Scheduled
	for _, f := range preserved {
		if f.SlotID != "" {
			existing = append(existing, f.Scheduled)
		}
	}

	in.Matches = eligible
	in.Existing = existing
	in.Log.WithComponent("rescheduler").Info("rescheduling",
		"eligible", len(eligible), "preserved", len(preserved))

	return Rescheduled{
		Result:    Schedule(in),
		Preserved: preserved,
	}
}
