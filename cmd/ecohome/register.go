package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/greenscore"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <postcode>",
	Short: "Register a household",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	postcode := strings.TrimSpace(args[1])
	if name == "" || postcode == "" {
		return fmt.Errorf("name and postcode are required")
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	hh, err := db.CreateHousehold(cmd.Context(), name, postcode)
	if err != nil {
		return fmt.Errorf("registering household: %w", err)
	}

	fmt.Printf("Registered household %d: %s (%s)\n", hh.ID, hh.Name, hh.Postcode)
	fmt.Println(greenscore.ScheduleTip(greenscore.Schedule(hh.Postcode)))
	return nil
}
