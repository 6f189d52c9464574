package schedule

// UmpireContext is what the umpire selector needs besides the match itself.
// A nil Formats map skips the format filter.
type UmpireContext struct {
	Occupancy Occupancy
	Counts    map[string]int // team -> umpiring duties so far
	Conflicts *Conflicts
	Pool      []string
	Formats   map[string]string // team -> format
}

// SelectUmpire picks the eligible team with the fewest umpiring duties for
// m in slotID. Ties go to the earlier team in the pool. Playing teams, teams
// already in the slot, teams of another format and teams conflicting with
// either side are never picked.
func SelectUmpire(slotID string, m Match, uc UmpireContext) (string, bool) {
	best := ""
	bestCount := 0
	found := false
	for _, team := range uc.Pool {
		if m.Involves(team) || uc.Occupancy.Has(slotID, team) {
			continue
		}
		if uc.Formats != nil && m.Format != "" {
			if f, ok := uc.Formats[team]; ok && f != m.Format {
				continue
			}
		}
		if uc.Conflicts.Any(team, m.TeamA) || uc.Conflicts.Any(team, m.TeamB) {
			continue
		}
		n := uc.Counts[team]
		if !found || n < bestCount {
			best, bestCount, found = team, n, true
		}
	}
	return best, found
}

// SelectUmpires picks up to n distinct umpires one after another, adding
// each pick to the slot's occupancy and duty counts before the next, so
// later picks see the earlier ones.
func SelectUmpires(slotID string, m Match, uc UmpireContext, n int) []string {
	var picks []string
	for range n {
		u, ok := SelectUmpire(slotID, m, uc)
		if !ok {
			break
		}
		uc.Occupancy.Add(slotID, u)
		if uc.Counts != nil {
			uc.Counts[u]++
		}
		picks = append(picks, u)
	}
	return picks
}
