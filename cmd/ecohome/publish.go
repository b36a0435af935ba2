package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/greenscore"
	"github.com/jgoulah/ecohome/internal/publisher"
)

var publishHousehold int64

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish green scores to Home Assistant and MQTT",
	Long: `Computes the current green score for each household and publishes it to Home Assistant
via the HTTP states API and/or to an MQTT broker as a retained message, per config.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().Int64Var(&publishHousehold, "household", 0, "Only publish this household id (default: all households)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pub, err := publisher.New(cfg)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	households, err := householdsFor(cmd.Context(), db, publishHousehold)
	if err != nil {
		return err
	}
	if len(households) == 0 {
		fmt.Println("No households registered")
		return nil
	}

	published := 0
	for i, hh := range households {
		now := time.Now()
		result, err := scoreHousehold(cmd.Context(), db, hh.ID, now)
		if err != nil {
			return fmt.Errorf("scoring %s: %w", hh.Name, err)
		}

		fmt.Printf("[%d/%d] Publishing %s (score %d)... ", i+1, len(households), hh.Name, result.Score)
		snap := publisher.Snapshot{
			Household: hh,
			Result:    result,
			Tips:      greenscore.Tips(hh, result.Score),
			At:        now,
		}
		if err := pub.PublishScore(cmd.Context(), snap); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓\n")
		published++
	}

	fmt.Printf("\nPublished %d/%d households\n", published, len(households))
	if published < len(households) {
		return fmt.Errorf("%d households failed to publish", len(households)-published)
	}
	return nil
}
