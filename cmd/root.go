package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagDataFile string
	flagLogLevel string
	flagQuiet    bool
)

var (
	appConfig config.Config
	logger    = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:               "moneymate",
	Short:             "Personal budget tracker",
	Long:              "Track expenses, category limits and savings goals, and get told before you overspend.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data-file", "f", "", "Ledger snapshot path (overrides MONEYMATE_DATA_FILE and config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// setup loads the config file and installs the process logger. A broken
// config file is reported and replaced by defaults so read-only commands
// keep working.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config unusable, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if flagDataFile != "" {
		cfg.General.DataFileFlag = flagDataFile
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	appConfig = cfg

	l, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	logger = l
	return nil
}

// openLedger loads the snapshot the config points at.
func openLedger() *ledger.Store {
	path := config.GetDataFile(appConfig)
	l := ledger.New(path, ledger.WithLogger(logger))
	l.Load()
	logger.Debug("ledger loaded", "path", path, "expenses", len(l.Expenses()))
	return l
}

// persist writes the ledger and reports where.
func persist(l *ledger.Store) error {
	if err := l.Persist(); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	logger.Debug("ledger saved", "path", l.Path())
	return nil
}

func threshold() float64 {
	if t := appConfig.Alerts.NearingThreshold; t > 0 {
		return t
	}
	return alert.DefaultThreshold
}

// infof prints unless --quiet is set.
func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
