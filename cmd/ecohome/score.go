package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/greenscore"
)

var scoreCmd = &cobra.Command{
	Use:   "score <household-id>",
	Short: "Show a household's green score and tips",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	id, err := parseHouseholdID(args[0])
	if err != nil {
		return err
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

	result, err := scoreHousehold(cmd.Context(), db, hh.ID, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", hh.Name, hh.Postcode)
	fmt.Printf("Green score: %d\n", result.Score)
	fmt.Printf("  water:  %5.1f%s\n", result.WaterScore, dailyAvg(result.WaterAvg, "L"))
	fmt.Printf("  energy: %5.1f%s\n", result.EnergyScore, dailyAvg(result.EnergyAvg, "kWh"))
	fmt.Println("\nTips:")
	for _, tip := range greenscore.Tips(*hh, result.Score) {
		fmt.Printf("  - %s\n", tip)
	}
	return nil
}

func dailyAvg(avg *float64, unit string) string {
	if avg == nil {
		return "  (no readings in the last 30 days)"
	}
	return fmt.Sprintf("  (%.1f %s/day)", *avg, unit)
}
