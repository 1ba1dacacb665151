package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/config"
	"github.com/duskwallet/duskwallet/internal/tui/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (api.base_url, api.timeout_sec, api.dedupe_gets, storage.path, appearance.theme, log.level)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("\n  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL:     %s\n", cfg.API.BaseURL)
	fmt.Printf("    Timeout:      %s\n", cfg.API.Timeout())
	fmt.Printf("    Dedupe GETs:  %v\n", cfg.API.DedupeGets)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Database:     %s\n", cfg.StoragePath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:        %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:        %s\n", cfg.Log.Level)
	fmt.Printf("    File:         %s\n", cfg.LogPath())
	fmt.Println()
	return nil
}

// setConfigValue applies key=value to cfg.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "api.base_url":
		cfg.API.BaseURL = strings.TrimRight(value, "/")
	case "api.timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return errors.New("timeout_sec must be a positive number of seconds")
		}
		cfg.API.TimeoutSec = n
	case "api.dedupe_gets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.New("dedupe_gets must be true or false")
		}
		cfg.API.DedupeGets = b
	case "storage.path":
		cfg.Storage.Path = value
	case "appearance.theme":
		if theme.ByName(value).Name != value {
			names := make([]string, len(theme.All))
			for i, t := range theme.All {
				names[i] = t.Name
			}
			return fmt.Errorf("unknown theme %q (one of %s)", value, strings.Join(names, ", "))
		}
		cfg.Appearance.Theme = value
	case "log.level":
		cfg.Log.Level = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\n  Saved %s to %s\n\n", args[0], config.Path())
	return nil
}
