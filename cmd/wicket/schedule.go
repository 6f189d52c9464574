package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/excel"
	"github.com/derekprior/wicket/internal/schedule"
	"github.com/derekprior/wicket/internal/strategy"
	"github.com/derekprior/wicket/internal/validator"
)

func newScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, reschedule and validate fixture lists",
	}

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a fixture list from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runGenerate(cfg, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	var rescheduleOut, fromDate string
	rescheduleCmd := &cobra.Command{
		Use:          "reschedule <schedule.xlsx>",
		Short:        "Re-run the scheduler over every match that is not locked or played",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runReschedule(cfg, args[0], rescheduleOut, fromDate)
		},
	}
	rescheduleCmd.Flags().StringVarP(&rescheduleOut, "output", "o", "", "Output Excel file path (default: overwrite the input)")
	rescheduleCmd.Flags().StringVar(&fromDate, "from", "", "Only use slots on or after this date (YYYY-MM-DD)")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a fixture list against the config",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runValidate(cfg, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, rescheduleCmd, validateCmd)
	return scheduleCmd
}

func runGenerate(cfg *config.Config, outputPath string) error {
	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return err
	}

	matches, err := strat.GenerateMatches(cfg.Groups)
	if err != nil {
		return fmt.Errorf("generating matches: %w", err)
	}
	slots := schedule.GenerateSlots(cfg)
	blackouts := schedule.GenerateBlackoutSlots(cfg)

	fmt.Printf("Scheduling %d matches into %d available slots...\n", len(matches), len(slots))
	logger.Info("scheduling", "strategy", cfg.Strategy, "matches", len(matches), "slots", len(slots))

	in := schedule.NewInput(cfg, slots, matches)
	in.Log = logger
	result := schedule.Schedule(in)

	if n := len(result.Unschedulable); n > 0 {
		fmt.Fprintf(os.Stderr, "%s %d of %d matches could not be scheduled\n", warnMark, n, len(matches))
	} else {
		fmt.Printf("%s All %d matches scheduled\n", okMark, len(result.Scheduled))
	}

	printMetrics(cfg, result.TeamMetrics)

	if len(result.Unschedulable) > 0 {
		fmt.Printf("\nUnschedulable matches (%d):\n", len(result.Unschedulable))
		for _, u := range result.Unschedulable {
			fmt.Printf("  %s %s v %s (%s): %s\n", warnMark, u.TeamA, u.TeamB, u.Group, u.Reason)
			logger.Warn("match unschedulable", "team_a", u.TeamA, "team_b", u.TeamB, "group", u.Group, "reason", u.Reason)
		}
	}

	rows := excel.NewRows(result, schedule.IndexSlots(slots))
	f, err := excel.Generate(cfg, excel.Workbook{Rows: rows, Slots: slots, Blackouts: blackouts})
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("closing workbook", "error", err)
		}
	}()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n%s Schedule saved to %s\n", okMark, outputPath)
	if len(result.Unschedulable) > 0 {
		return fmt.Errorf("schedule is incomplete: %d of %d matches scheduled", len(result.Scheduled), len(matches))
	}
	return nil
}

func printMetrics(cfg *config.Config, metrics map[string]*schedule.TeamMetrics) {
	fmt.Println("\nPer Team Metrics:")
	fmt.Printf("  %-15s %7s %8s %7s\n", "Team", "Matches", "Umpiring", "Weekend")
	for _, team := range cfg.AllTeams() {
		m := metrics[team]
		if m == nil {
			m = &schedule.TeamMetrics{}
		}
		fmt.Printf("  %-15s %7d %8d %7d\n", team, m.Matches, m.Umpiring, m.Weekend)
	}
}

func runReschedule(cfg *config.Config, schedulePath, outputPath, from string) error {
	rows, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}

	slots := schedule.GenerateSlots(cfg)
	candidates := slots
	if from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		candidates = schedule.SlotsFrom(slots, d)
	}

	in := schedule.NewInput(cfg, candidates, nil)
	in.Catalogue = slots
	in.Log = logger
	res := schedule.Reschedule(excel.Fixtures(rows), in)
	if res.Message != "" {
		fmt.Printf("%s %s\n", warnMark, res.Message)
		return nil
	}
	logger.Info("rescheduled", "preserved", len(res.Preserved), "scheduled", len(res.Scheduled), "unschedulable", len(res.Unschedulable))

	fmt.Printf("%s Kept %d locked or played matches, rescheduled %d\n", okMark, len(res.Preserved), len(res.Scheduled))
	for _, u := range res.Unschedulable {
		fmt.Printf("  %s %s v %s (%s): %s\n", warnMark, u.TeamA, u.TeamB, u.Group, u.Reason)
		logger.Warn("match unschedulable", "team_a", u.TeamA, "team_b", u.TeamB, "group", u.Group, "reason", u.Reason)
	}
	printMetrics(cfg, res.TeamMetrics)

	rebuilt := excel.Rebuild(rows, res, schedule.IndexSlots(slots))
	wb := excel.Workbook{Rows: rebuilt, Slots: slots, Blackouts: schedule.GenerateBlackoutSlots(cfg)}
	if err := excel.Update(schedulePath, outputPath, cfg, wb); err != nil {
		return fmt.Errorf("updating workbook: %w", err)
	}

	if outputPath == "" {
		outputPath = schedulePath
	}
	fmt.Printf("\n%s Schedule saved to %s\n", okMark, outputPath)
	if len(res.Unschedulable) > 0 {
		return fmt.Errorf("schedule is incomplete: %d matches could not be rescheduled", len(res.Unschedulable))
	}
	return nil
}

func runValidate(cfg *config.Config, schedulePath string) error {
	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("%s Row %d: %s\n", errMark, v.Row, v.Message)
		case "warning":
			warnings++
			fmt.Printf("%s Row %d: %s\n", warnMark, v.Row, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errors, warnings)

	// Regenerate derived sheets from the fixture list
	rows, err := excel.ReadFixturesFile(schedulePath)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}
	slots := schedule.GenerateSlots(cfg)
	wb := excel.Workbook{Rows: rows, Slots: slots, Blackouts: schedule.GenerateBlackoutSlots(cfg)}
	if err := excel.Update(schedulePath, "", cfg, wb); err != nil {
		return fmt.Errorf("updating sheets: %w", err)
	}
	fmt.Printf("%s Derived sheets updated in %s\n", okMark, schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d constraint violations found", errors)
	}
	return nil
}
