package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/ecohome/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Writes a config file with the defaults filled in and Home Assistant and MQTT
disabled. Secrets can stay out of the file: set ECOHOME_HA_TOKEN and
ECOHOME_MQTT_PASSWORD in the environment or a .env file instead.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := &config.Config{
		Server:         config.ServerConfig{Addr: ":5000"},
		DashboardLimit: 50,
		HomeAssistant:  config.HAConfig{URL: "http://homeassistant.local:8123"},
		MQTT: config.MQTTConfig{
			Broker:      "localhost:1883",
			TopicPrefix: "ecohome",
		},
	}
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
