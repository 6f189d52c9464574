// Package standings turns match results into a group table.
package standings

import "sort"

// Points awarded per result.
const (
	WinPoints  = 2
	TiePoints  = 1
	LossPoints = 0
)

// Result is a played match. An empty Winner is a tie.
type Result struct {
	TeamA  string
	TeamB  string
	ScoreA int
	ScoreB int
	Winner string
}

// Row is one team's line in the table.
type Row struct {
	Team       string
	Played     int
	Won        int
	Lost       int
	Tied       int
	Points     int
	Scored     int
	Conceded   int
	NetRunRate float64
}

// Calculate builds a row for every team, including teams yet to play, and
// sorts by points then net run rate. Teams level on both keep the order
// they were given in.
func Calculate(teams []string, results []Result) []Row {
	rows := make([]Row, len(teams))
	index := make(map[string]int, len(teams))
	for i, team := range teams {
		rows[i].Team = team
		index[team] = i
	}

	apply := func(team string, scored, conceded int, winner string) {
		i, ok := index[team]
		if !ok {
			return
		}
		r := &rows[i]
		r.Played++
		r.Scored += scored
		r.Conceded += conceded
		switch winner {
		case "":
			r.Tied++
			r.Points += TiePoints
		case team:
			r.Won++
			r.Points += WinPoints
		default:
			r.Lost++
			r.Points += LossPoints
		}
	}
	for _, res := range results {
		apply(res.TeamA, res.ScoreA, res.ScoreB, res.Winner)
		apply(res.TeamB, res.ScoreB, res.ScoreA, res.Winner)
	}

	for i := range rows {
		if rows[i].Played > 0 {
			rows[i].NetRunRate = float64(rows[i].Scored-rows[i].Conceded) / float64(rows[i].Played)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].NetRunRate > rows[j].NetRunRate
	})
	return rows
}
