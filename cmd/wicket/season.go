package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/excel"
	"github.com/derekprior/wicket/internal/knockout"
	"github.com/derekprior/wicket/internal/schedule"
	"github.com/derekprior/wicket/internal/standings"
)

func newStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "standings <schedule.xlsx>",
		Short:        "Print group tables from played matches",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStandings(cfg, args[0])
		},
	}
}

func newKnockoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "knockout <schedule.xlsx>",
		Short:        "Seed the group qualifiers into a bracket and schedule its first round",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runKnockout(cfg, args[0])
		},
	}
}

func groupTables(cfg *config.Config, rows []excel.FixtureRow) map[string][]standings.Row {
	tables := make(map[string][]standings.Row, len(cfg.Groups))
	for _, g := range cfg.Groups {
		tables[g.Name] = standings.Calculate(g.Teams, excel.Results(rows, g.Name))
	}
	return tables
}

func runStandings(cfg *config.Config, schedulePath string) error {
	rows, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}

	tables := groupTables(cfg, rows)
	for _, g := range cfg.Groups {
		fmt.Printf("\n%s (%s)\n", g.Name, g.Format)
		fmt.Printf("  %3s %-15s %3s %3s %3s %3s %4s %7s\n", "Pos", "Team", "P", "W", "L", "T", "Pts", "NRR")
		for i, r := range tables[g.Name] {
			fmt.Printf("  %3d %-15s %3d %3d %3d %3d %4d %7.2f\n",
				i+1, r.Team, r.Played, r.Won, r.Lost, r.Tied, r.Points, r.NetRunRate)
		}
	}
	return nil
}

func knockoutFormat(cfg *config.Config) string {
	if cfg.Knockout.Format != "" {
		return cfg.Knockout.Format
	}
	return cfg.Groups[0].Format
}

// qualifiers takes the top teams of every group playing the knockout format.
func qualifiers(cfg *config.Config, tables map[string][]standings.Row, format string) []knockout.Qualifier {
	var out []knockout.Qualifier
	for _, g := range cfg.Groups {
		if g.Format != format {
			logger.Info("group skipped for knockout", "group", g.Name, "format", g.Format)
			continue
		}
		for i, r := range tables[g.Name] {
			if i >= cfg.Knockout.QualifiersPerGroup {
				break
			}
			out = append(out, knockout.Qualifier{Team: r.Team, Rank: i + 1, Group: g.Name})
		}
	}
	return out
}

func runKnockout(cfg *config.Config, schedulePath string) error {
	all, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}

	// A fresh bracket replaces any knockout matches already in the list.
	var rows []excel.FixtureRow
	for _, r := range all {
		if r.Group != knockout.Group {
			rows = append(rows, r)
		}
	}

	format := knockoutFormat(cfg)
	quals := qualifiers(cfg, groupTables(cfg, rows), format)

	slots := schedule.GenerateSlots(cfg)
	idx := schedule.IndexSlots(slots)
	candidates := slots
	if cfg.Knockout.StartDate != nil {
		candidates = schedule.SlotsFrom(slots, cfg.Knockout.StartDate.Time)
	}

	st := schedule.Seed(excel.Existing(rows), idx)
	res, err := knockout.Build(knockout.Input{
		Qualifiers:   quals,
		Slots:        candidates,
		Catalogue:    slots,
		Conflicts:    schedule.ConflictsFromConfig(cfg),
		Blackouts:    schedule.BlackoutsFromConfig(cfg),
		UmpirePool:   cfg.UmpirePool(),
		TeamFormats:  cfg.TeamFormats(),
		Format:       format,
		Occupancy:    st.Occupancy,
		UmpireCounts: st.UmpireCounts,
		Tally:        st.Tally,
		Log:          logger,
	})
	if err != nil {
		return fmt.Errorf("building bracket: %w", err)
	}
	b := res.Bracket
	logger.Info("bracket built", "qualifiers", len(quals), "size", b.Size, "rounds", b.TotalRounds, "byes", b.Byes)

	fmt.Printf("Bracket of %d: %d qualifiers, %d byes, %d rounds\n", b.Size, len(quals), b.Byes, b.TotalRounds)
	for _, m := range b.Rounds[0] {
		if m.IsBye {
			fmt.Printf("  %s bye\n", m.TeamA)
			continue
		}
		fmt.Printf("  %s v %s\n", m.TeamA, m.TeamB)
	}
	if res.Dropped > 0 {
		fmt.Printf("%s %d first-round matches found no %s slot\n", warnMark, res.Dropped, format)
		logger.Warn("knockout matches dropped", "dropped", res.Dropped, "format", format)
	}

	rows = append(rows, excel.KnockoutRows(rows, res.Scheduled, idx)...)
	wb := excel.Workbook{Rows: rows, Slots: slots, Blackouts: schedule.GenerateBlackoutSlots(cfg), Bracket: &b}
	if err := excel.Update(schedulePath, "", cfg, wb); err != nil {
		return fmt.Errorf("updating workbook: %w", err)
	}

	fmt.Printf("%s %d knockout matches scheduled in %s\n", okMark, len(res.Scheduled), schedulePath)
	return nil
}
