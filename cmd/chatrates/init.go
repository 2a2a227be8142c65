// ABOUTME: init command writing a starter config file
// ABOUTME: Refuses to overwrite an existing file unless forced

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newInitCmd(configPath *string) *cobra.Command {
	var (
		force  bool
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFile := *configPath
			if _, err := os.Stat(outputFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outputFile)
			}
			if dbPath == "" {
				dbPath = filepath.Join(getDataPath(), "settings.db")
			}

			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(outputFile, []byte(starterConfig(dbPath)), 0644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", outputFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Settings database: %s\n", dbPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "settings database path")
	return cmd
}

func starterConfig(dbPath string) string {
	var cfg strings.Builder
	cfg.WriteString("# chatrates configuration\n")
	cfg.WriteString("# Generated by chatrates init\n\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString("  level: \"info\"\n")
	cfg.WriteString("  format: \"text\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("cache:\n")
	cfg.WriteString("  capacities:\n")
	cfg.WriteString("    game: 100\n")
	cfg.WriteString("    spam: 100\n")
	cfg.WriteString("    mesbox: 300\n")
	cfg.WriteString("\n")

	cfg.WriteString("# Seeds the Config tracker until settings are changed.\n")
	cfg.WriteString("defaults:\n")
	cfg.WriteString("  add_level_prefix: true\n")
	cfg.WriteString("  use_boosted_level: true\n")
	cfg.WriteString("  level_prefix: \"overall\"\n")
	cfg.WriteString("  success_messages: []\n")
	cfg.WriteString("  failure_messages: []\n")
	cfg.WriteString("\n")

	cfg.WriteString("# Extra trackers with fixed messages, for example:\n")
	cfg.WriteString("# trackers:\n")
	cfg.WriteString("#   - name: \"Cake stall\"\n")
	cfg.WriteString("#     skill: \"thieving\"\n")
	cfg.WriteString("#     use_boosted_level: true\n")
	cfg.WriteString("#     success: [\"You steal a cake.\"]\n")
	cfg.WriteString("#     failure: [\"The baker catches you.\"]\n")
	cfg.WriteString("trackers: []\n")
	return cfg.String()
}
