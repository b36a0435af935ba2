package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/csvio"
	"github.com/jgoulah/ecohome/pkg/models"
)

var addAt string

var addCmd = &cobra.Command{
	Use:   "add <household-id> <water|energy> <value>",
	Short: "Record a usage entry",
	Long:  `Records a water (litres) or energy (kWh) reading for a household. The reading is timestamped now unless --at is given.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "when the reading was taken (RFC 3339, or local YYYY-MM-DD HH:MM:SS / YYYY-MM-DD)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	id, err := parseHouseholdID(args[0])
	if err != nil {
		return err
	}
	entryType, err := models.ParseEntryType(args[1])
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("value %q is not a number", args[2])
	}
	if err := models.ValidateValue(value); err != nil {
		return err
	}

	recordedAt := time.Now()
	if addAt != "" {
		recordedAt, err = csvio.ParseTimestamp(addAt, time.Local)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
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

	entry, err := db.CreateUsageEntry(cmd.Context(), hh.ID, entryType, value, recordedAt)
	if err != nil {
		return fmt.Errorf("adding entry: %w", err)
	}

	fmt.Printf("Added entry %d: %g %s of %s at %s\n",
		entry.ID, entry.Value, entry.Type.Unit(), entry.Type, entry.RecordedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
