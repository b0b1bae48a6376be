// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the source-scout CLI.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/source-scout/internal/secrets"
	"github.com/pdiddy/source-scout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the source-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "source-scout",
	Short: "Grounded source lookup for research topics",
	Long: `source-scout takes a research topic and asks a search-grounded generation
API for recent, reputable sources, returning the generated summary together
with the web citations it was grounded in.

Run "source-scout ask" for a one-shot lookup from the terminal, or
"source-scout serve" to start the web UI and JSON API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./source-scout.yaml or ~/.config/source-scout/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("source-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "source-scout"))
		}
	}

	viper.SetEnvPrefix("SOURCE_SCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: compiled-in defaults
// overridden by whatever the config file and environment provide.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if v := viper.GetString("server.host"); v != "" {
		cfg.Server.Host = v
	}
	if v := viper.GetInt("server.port"); v != 0 {
		cfg.Server.Port = v
	}
	if v := viper.GetDuration("server.request_timeout"); v != 0 {
		cfg.Server.RequestTimeout = v
	}
	if v := viper.GetDuration("server.session_idle_expiry"); v != 0 {
		cfg.Server.SessionIdleExpiry = v
	}
	if v := viper.GetString("generation.model"); v != "" {
		cfg.Generation.Model = v
	}
	if v := viper.GetString("generation.api_key"); v != "" {
		cfg.Generation.APIKey = v
	}
	if v := viper.GetDuration("generation.timeout"); v != 0 {
		cfg.Generation.Timeout = v
	}
	if v := viper.GetInt("prompt.source_count"); v != 0 {
		cfg.Prompt.SourceCount = v
	}
	if v := viper.GetInt("prompt.recency_years"); v != 0 {
		cfg.Prompt.RecencyYears = v
	}

	cfg.Generation.APIKey = secrets.GeminiAPIKey(cfg.Generation.APIKey, loadedSecrets)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
