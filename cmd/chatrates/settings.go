// ABOUTME: settings command for reading and changing persisted plugin settings
// ABOUTME: get, set, list, and reset operate on the chatsuccessrates group

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/chat-success-rates/internal/settings"
)

func newSettingsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change plugin settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer a.Close()

				key := color.New(color.FgGreen)
				for _, k := range settings.Keys() {
					v, err := a.settings.Get(k)
					if err != nil {
						return err
					}
					key.Fprintf(cmd.OutOrStdout(), "%-16s", k)
					fmt.Fprintf(cmd.OutOrStdout(), " %s\n", strconv.Quote(v))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer a.Close()

				v, err := a.settings.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>...",
			Short: "Change a setting; several values are joined one per line",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer a.Close()

				return a.settings.Set(cmd.Context(), args[0], strings.Join(args[1:], "\n"))
			},
		},
		&cobra.Command{
			Use:   "reset <key>",
			Short: "Restore a setting to its default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer a.Close()

				return a.settings.Reset(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}
