package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/csvio"
	"github.com/jgoulah/ecohome/internal/database"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <household-id>",
	Short: "Export a household's usage as CSV",
	Long:  `Writes every usage entry for the household, oldest first, as CSV to stdout or --output.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	entries, err := db.ListEntries(cmd.Context(), hh.ID, database.ListOptions{Order: database.Ascending})
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := csvio.Export(w, entries); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries for %s to %s\n", len(entries), hh.Name, exportOutput)
	}
	return nil
}
