package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/csvio"
)

var importCmd = &cobra.Command{
	Use:   "import <household-id> <file.csv>",
	Short: "Import usage entries from CSV",
	Long: `Reads entry_type, value and recorded_at columns (in any order) and stores every row.
Any invalid row aborts the whole import and nothing is stored.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	id, err := parseHouseholdID(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[1], err)
	}
	defer f.Close()

	entries, err := csvio.Import(f, time.Now())
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	hh, err := db.GetHousehold(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("household %d: %w", id, err)
	}

	n, err := db.ImportEntries(cmd.Context(), hh.ID, entries)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	fmt.Printf("Imported %d usage entries for %s\n", n, hh.Name)
	return nil
}
