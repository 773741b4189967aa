// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/agri-potential/cmd/common"
	"fjacquet/agri-potential/internal/config"
	"fjacquet/agri-potential/internal/container"
	"fjacquet/agri-potential/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags shared by every command. Non-empty
// values override the configuration file and environment.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	DBDriver   string
	DBDSN      string
}

var (
	// Flags holds the parsed persistent flags
	Flags = GlobalFlags{}

	// AppContainer is the dependency container built before each command runs
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "agri-potential",
		Short: "A batch pipeline linking agricultural subsidy payments to customers and estimating sales potential.",
		Long: `agri-potential imports published agricultural subsidy payment exports, aggregates them per
beneficiary, matches beneficiaries to the active customer directory by exact name, postal code and
city, and derives per-customer sales potential, share of wallet and an A/B/C segment.

Run the whole pipeline for a year with "run", or each stage on its own for backfills.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) { Shutdown() },
	}
)

func init() {
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default searches $HOME/.agri-potential, .agri-potential and .)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.DBDriver, "db-driver", "", "Database driver (sqlite or postgres)")
	Cmd.PersistentFlags().StringVar(&Flags.DBDSN, "db-dsn", "", "Database DSN (sqlite file path or postgres connection string)")
}

// LoadConfig reads the configuration and applies the global flag overrides.
func LoadConfig() (*config.Config, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.DBDriver != "" {
		cfg.Database.Driver = Flags.DBDriver
	}
	if Flags.DBDSN != "" {
		cfg.Database.DSN = Flags.DBDSN
	}
	return cfg, nil
}

// needsContainer reports whether cmd does pipeline work. Help, completion
// and the bare root command do not open the database.
func needsContainer(cmd *cobra.Command) bool {
	if !cmd.HasParent() || !cmd.Runnable() {
		return false
	}
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

func setup(cmd *cobra.Command, _ []string) error {
	if !needsContainer(cmd) {
		return nil
	}
	// Flag checks run before the database file is opened or migrated.
	if err := common.CheckYearFlag(cmd); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	return nil
}

// Shutdown closes the container. It is safe to call more than once.
func Shutdown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		AppContainer.GetLogger().WithError(err).Warn("Failed to close container")
	}
	AppContainer = nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application container is not initialized")
	}
	return AppContainer, nil
}

// GetLogger returns the container logger, or a discard logger before setup.
func GetLogger() logging.Logger {
	if AppContainer == nil {
		return logging.NewDiscardLogger()
	}
	return AppContainer.GetLogger()
}
