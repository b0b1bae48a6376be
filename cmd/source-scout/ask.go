// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/source-scout/internal/generate"
	"github.com/pdiddy/source-scout/internal/prompt"
	"github.com/pdiddy/source-scout/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <topic>",
	Short: "Look up recent sources on a topic",
	Long: `Ask sends one search-grounded generation request for the topic and prints
the markdown summary with its citations. The topic is all arguments joined
by spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(strings.Join(args, " "))
		if topic == "" {
			return fmt.Errorf("topic is empty")
		}

		cfg := loadConfig()
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.Generation.Model = model
		}

		backend := &generate.GeminiBackend{
			APIKey: cfg.Generation.APIKey,
			Model:  cfg.Generation.Model,
			Client: &http.Client{Timeout: cfg.Generation.Timeout},
		}
		svc := generate.NewService(backend, prompt.NewBuilder(cfg.Prompt))

		result, err := svc.Lookup(context.Background(), topic)
		if err != nil {
			return fmt.Errorf("lookup failed: %s", generate.FailureMessage(err))
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		asYAML, _ := cmd.Flags().GetBool("yaml")
		switch {
		case asJSON:
			return formatJSON(result, os.Stdout)
		case asYAML:
			return formatYAML(result, os.Stdout)
		default:
			formatText(result, os.Stdout)
			return nil
		}
	},
}

func init() {
	askCmd.Flags().String("model", "", "generation model identifier (overrides config)")
	askCmd.Flags().Bool("json", false, "output the result as JSON")
	askCmd.Flags().Bool("yaml", false, "output the result as YAML")

	rootCmd.AddCommand(askCmd)
}

// formatText writes the answer followed by a numbered source list.
func formatText(result types.SearchResult, w io.Writer) {
	fmt.Fprintln(w, result.Text)
	if len(result.Citations) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSources:\n")
	for i, c := range result.Citations {
		fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, c.Title, c.URI)
	}
}

// formatJSON writes the result as indented JSON.
func formatJSON(result types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// formatYAML writes the result as YAML.
func formatYAML(result types.SearchResult, w io.Writer) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = w.Write(data)
	return err
}
