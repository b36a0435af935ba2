package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jgoulah/ecohome/internal/config"
	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/internal/greenscore"
	"github.com/jgoulah/ecohome/pkg/models"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "ecohome",
	Short: "Track household water and energy usage",
	Long: `EcoHome records water and energy usage per household in a local SQLite database.
It computes a 0-100 green score from the last 30 days, serves a web dashboard and
JSON API, and can publish scores to Home Assistant and MQTT.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./ecohome.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "ecohome.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// parseHouseholdID parses a positional household id argument
func parseHouseholdID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid household id %q", arg)
	}
	return id, nil
}

// scoreHousehold computes the green score breakdown from the household's recent entries
func scoreHousehold(ctx context.Context, db *database.DB, householdID int64, now time.Time) (greenscore.Result, error) {
	entries, err := db.ListEntries(ctx, householdID, database.ListOptions{
		Since: now.AddDate(0, 0, -(greenscore.WindowDays + 1)).Add(-24 * time.Hour),
	})
	if err != nil {
		return greenscore.Result{}, fmt.Errorf("listing entries: %w", err)
	}
	return greenscore.Breakdown(entries, now), nil
}

// householdsFor resolves the --household flag, or every household when id is 0
func householdsFor(ctx context.Context, db *database.DB, id int64) ([]models.Household, error) {
	if id == 0 {
		return db.ListHouseholds(ctx)
	}
	hh, err := db.GetHousehold(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("household %d: %w", id, err)
	}
	return []models.Household{*hh}, nil
}
