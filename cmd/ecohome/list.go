package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/pkg/models"
)

var (
	listHousehold int64
	listLimit     int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List households and their stored usage",
	Long:  `Without --household, lists every registered household. With --household, displays that household's usage entries, newest first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int64Var(&listHousehold, "household", 0, "Show entries for this household id")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Limit number of entries shown (0 = no limit)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listHousehold == 0 {
		return listHouseholds(cmd, db)
	}

	hh, err := db.GetHousehold(cmd.Context(), listHousehold)
	if err != nil {
		return fmt.Errorf("household %d: %w", listHousehold, err)
	}

	entries, err := db.ListEntries(cmd.Context(), hh.ID, database.ListOptions{
		Order: database.Descending,
		Limit: listLimit,
	})
	if err != nil {
		return fmt.Errorf("listing entries for %s: %w", hh.Name, err)
	}

	if len(entries) == 0 {
		fmt.Printf("No entries found for %s\n", hh.Name)
		return nil
	}

	fmt.Printf("\n%s Usage Data:\n", hh.Name)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-6s  %-20s  %-7s  %12s\n", "ID", "Recorded", "Type", "Value")
	fmt.Println("--------------------------------------------------")

	totals := map[models.EntryType]float64{}
	for _, e := range entries {
		fmt.Printf("%-6d  %-20s  %-7s  %8s %-3s\n",
			e.ID, e.RecordedAt.Local().Format("2006-01-02 15:04:05"), e.Type, humanize.CommafWithDigits(e.Value, 2), e.Type.Unit())
		totals[e.Type] += e.Value
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total: %s L water, %s kWh energy (%d records)\n",
		humanize.CommafWithDigits(totals[models.Water], 2), humanize.CommafWithDigits(totals[models.Energy], 2), len(entries))
	return nil
}

func listHouseholds(cmd *cobra.Command, db *database.DB) error {
	households, err := db.ListHouseholds(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing households: %w", err)
	}
	if len(households) == 0 {
		fmt.Println("No households registered")
		return nil
	}

	fmt.Printf("%-6s  %-30s  %-10s  %s\n", "ID", "Name", "Postcode", "Registered")
	fmt.Println("----------------------------------------------------------------")
	for _, hh := range households {
		fmt.Printf("%-6d  %-30s  %-10s  %s\n", hh.ID, hh.Name, hh.Postcode, humanize.Time(hh.CreatedAt))
	}
	return nil
}
