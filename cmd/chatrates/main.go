// ABOUTME: Entry point for the chatrates command line tool
// ABOUTME: Replays chat scripts through the collapse plugin and manages settings

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the config file.
// Priority: CHATRATES_CONFIG env var > XDG_CONFIG_HOME/chatrates/config.yaml > ~/.config/chatrates/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CHATRATES_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "chatrates", "config.yaml")
}

// getDataPath returns the path to the chatrates data directory.
// Priority: XDG_DATA_HOME/chatrates > ~/.local/share/chatrates
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "chatrates")
}

// newRootCmd builds the command tree. Output goes to stdout, logs to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "chatrates",
		Short:         "chatrates - collapse duplicate chat lines and track success rates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", getConfigPath(), "config file (YAML or TOML)")

	root.AddCommand(
		newInitCmd(&configPath),
		newChatCmd(&configPath),
		newReplayCmd(&configPath),
		newReportCmd(&configPath),
		newSettingsCmd(&configPath),
	)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
