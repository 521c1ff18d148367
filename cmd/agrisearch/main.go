package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/config"
	"github.com/agri365/agri365/internal/logging"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agrisearch",
	Short: "Search the Agri365 crop, pest and disease catalog",
	Long: `agrisearch runs fuzzy catalog searches locally, seeds a Memgraph
database with the catalog, and smoke-tests a running API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		if configPath == "" {
			configPath = os.Getenv("CONFIG_PATH")
		}
		if configPath == "" {
			configPath = "config/config.toml"
		}
		var err error
		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config TOML (default $CONFIG_PATH or config/config.toml)")
	rootCmd.AddCommand(searchCmd, seedCmd, smokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
