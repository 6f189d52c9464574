package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/derekprior/wicket/internal/config"
	"github.com/derekprior/wicket/internal/logging"
)

const defaultConfigFile = "config.yaml"

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	errMark  = color.New(color.FgRed).Sprint("✗")
)

// logger is set up from --log-level and --log-json before any command runs.
var logger = logging.Nop()

func resolveConfigPath() (string, error) {
	if p := viper.GetString("config"); p != "" {
		return p, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("config loaded", "path", path, "teams", len(cfg.AllTeams()), "grounds", len(cfg.Grounds))
	return cfg, nil
}

func initSettings() {
	viper.SetDefault("log_level", logging.LevelInfo)
	viper.SetDefault("log_json", false)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WICKET")
	// e.g. WICKET_LOG_LEVEL for log_level
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wicket",
		Short: "Cricket league fixture scheduler",
		Long: `Wicket builds a season of group fixtures across grounds and time slots,
keeps conflicting teams apart, shares umpiring duty fairly and seeds the
knockout stage from the group tables.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(os.Stderr, viper.GetString("log_level"), viper.GetBool("log_json"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: config.yaml in current directory)")
	flags.String("log-level", logging.LevelInfo, fmt.Sprintf("Log level (%s)", strings.Join(logging.ValidLevels(), ", ")))
	flags.Bool("log-json", false, "Write logs as JSON")
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))

	rootCmd.AddCommand(
		newInitCmd(),
		newScheduleCmd(),
		newMatchCmd(),
		newStandingsCmd(),
		newKnockoutCmd(),
	)
	return rootCmd
}

func main() {
	cobra.OnInitialize(initSettings)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newInitCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(outputPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultConfigFile, "Output path for the config file")
	return cmd
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("%s Created %s\n", okMark, outputPath)
	return nil
}
