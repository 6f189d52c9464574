package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/excel"
	"github.com/derekprior/wicket/internal/schedule"
)

func newMatchCmd() *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Move or lock individual matches",
	}

	var override bool
	var reason string
	moveCmd := &cobra.Command{
		Use:          "move <schedule.xlsx> <match> <slot-id>",
		Short:        "Move a match to another slot",
		Long:         `Move a match to another slot. Slot IDs look like "2026-05-04 18:00 Riverside Oval".`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runMove(cfg, args[0], args[1], args[2], override, reason)
		},
	}
	moveCmd.Flags().BoolVar(&override, "override", false, "Move even if the slot is taken or a conflict is broken")
	moveCmd.Flags().StringVar(&reason, "reason", "", "Note recorded against the moved match")

	lockCmd := &cobra.Command{
		Use:          "lock <schedule.xlsx> <match>",
		Short:        "Lock or unlock a match so rescheduling leaves it alone",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runLock(cfg, args[0], args[1])
		},
	}

	matchCmd.AddCommand(moveCmd, lockCmd)
	return matchCmd
}

func runMove(cfg *config.Config, schedulePath, matchID, slotID string, override bool, reason string) error {
	rows, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}
	i, ok := excel.Find(rows, matchID)
	if !ok {
		return fmt.Errorf("no match %q in %s", matchID, schedulePath)
	}
	row := &rows[i]

	slots := schedule.GenerateSlots(cfg)
	idx := schedule.IndexSlots(slots)
	to, ok := idx[slotID]
	if !ok {
		return fmt.Errorf("unknown slot %q: expected \"<date> <start> <ground>\" for an open slot", slotID)
	}

	occ := excel.Occupancy(rows, row.ID)
	conflicts := schedule.NewConflicts(schedule.ConflictsFromConfig(cfg))
	res, err := schedule.MoveMatch(row.Fixture, to, occ, conflicts, override)
	if err != nil {
		return err
	}
	if !res.Moved {
		fmt.Printf("%s %s\n", errMark, res.Conflict)
		return fmt.Errorf("move of %s rejected; pass --override to force it", row.ID)
	}
	if res.Overridden {
		fmt.Printf("%s Overriding: %s\n", warnMark, res.Conflict)
	}

	from := row.SlotID
	row.Place(to)
	row.Umpires = reselectUmpires(cfg, rows, *row, occ, conflicts)

	notes := []string{}
	if from != "" {
		notes = append(notes, "moved from "+from)
	}
	if reason != "" {
		notes = append(notes, reason)
	}
	if res.Overridden {
		notes = append(notes, "override: "+res.Conflict)
	}
	row.Note = strings.Join(notes, "; ")
	logger.Info("match moved", "match", row.ID, "from", from, "to", to.ID, "overridden", res.Overridden)
	id := row.ID

	excel.SortRows(rows)
	wb := excel.Workbook{Rows: rows, Slots: slots, Blackouts: schedule.GenerateBlackoutSlots(cfg)}
	if err := excel.Update(schedulePath, "", cfg, wb); err != nil {
		return fmt.Errorf("updating workbook: %w", err)
	}
	fmt.Printf("%s Moved %s to %s\n", okMark, id, to.ID)
	return nil
}

// reselectUmpires picks fresh umpires for a moved match, as many as it had
// before. Duty counts leave out the moved match's old umpires.
func reselectUmpires(cfg *config.Config, rows []excel.FixtureRow, moved excel.FixtureRow, occ schedule.Occupancy, conflicts *schedule.Conflicts) []string {
	pool := cfg.UmpirePool()
	if len(pool) == 0 || len(moved.Umpires) == 0 {
		return moved.Umpires
	}

	counts := make(map[string]int)
	for _, r := range rows {
		if r.ID == moved.ID {
			continue
		}
		for _, u := range r.Umpires {
			counts[u]++
		}
	}

	occ = occ.Clone()
	occ.Add(moved.SlotID, moved.TeamA, moved.TeamB)
	picks := schedule.SelectUmpires(moved.SlotID, moved.Match, schedule.UmpireContext{
		Occupancy: occ,
		Counts:    counts,
		Conflicts: conflicts,
		Pool:      pool,
		Formats:   cfg.TeamFormats(),
	}, len(moved.Umpires))
	if len(picks) == 0 {
		fmt.Printf("%s No umpire available for %s in %s\n", warnMark, moved.ID, moved.SlotID)
	}
	return picks
}

func runLock(cfg *config.Config, schedulePath, matchID string) error {
	rows, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}
	i, ok := excel.Find(rows, matchID)
	if !ok {
		return fmt.Errorf("no match %q in %s", matchID, schedulePath)
	}

	locked, err := schedule.ToggleLock(rows[i].Fixture)
	if errors.Is(err, schedule.ErrPlayed) {
		return fmt.Errorf("%s has already been played and cannot be unlocked or locked", rows[i].ID)
	}
	if err != nil {
		return err
	}
	rows[i].Locked = locked

	slots := schedule.GenerateSlots(cfg)
	wb := excel.Workbook{Rows: rows, Slots: slots, Blackouts: schedule.GenerateBlackoutSlots(cfg)}
	if err := excel.Update(schedulePath, "", cfg, wb); err != nil {
		return fmt.Errorf("updating workbook: %w", err)
	}

	state := "Unlocked"
	if locked {
		state = "Locked"
	}
	fmt.Printf("%s %s %s\n", okMark, state, rows[i].ID)
	return nil
}
