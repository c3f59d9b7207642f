package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/morokoshi/quizlet/internal/config"
	"github.com/morokoshi/quizlet/internal/logger"
	"github.com/morokoshi/quizlet/internal/store"
)

var (
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "quizlet",
	Short: "Terminal flashcard quiz",
	Long:  "Quizlet is a terminal flashcard app. Each question is answered by multiple choice first, then typed out until it sticks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, playOptions{splash: true})
	},
	SilenceUsage: true,
}

func Execute() error {
	defer func() { _ = log.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZLET_DB_PATH)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config.yaml or ~/.config/quizlet/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the CLI logger.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	l, err := logger.New(c)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	cfg, log = c, l
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db_path setting, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the bank catalog.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("opened catalog", zap.String("path", dbPath))
	return st, nil
}
