// ABOUTME: replay and report commands
// ABOUTME: Drive a chat script through the plugin and print chat, summary, and rates

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/chat-success-rates/internal/report"
)

func newReplayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a chat script and show the collapsed chat box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.replay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.plugin.Stop()

			out := cmd.OutOrStdout()
			heading(out, "Chat")
			if err := s.box.Print(out); err != nil {
				return err
			}

			heading(out, "Summary")
			if summary := s.plugin.Summary(); summary != "" {
				fmt.Fprintln(out, summary)
			}

			if t, ok := s.plugin.SelectedTracker(); ok {
				heading(out, "Selected tracker")
				fmt.Fprintf(out, "%s: %s\n", t.Name(), report.FormatRate(t.Totals()))
			}

			heading(out, "Report")
			fmt.Fprint(out, report.Markdown(report.Build(s.plugin.Trackers())))
			return nil
		},
	}
}

func newReportCmd(configPath *string) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "report <script>",
		Short: "Replay a chat script and print only the success rate report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.replay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.plugin.Stop()

			sections := report.Build(s.plugin.Trackers())
			if !html {
				fmt.Fprint(cmd.OutOrStdout(), report.Markdown(sections))
				return nil
			}
			rendered, err := report.HTML(sections)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "render the report as HTML")
	return cmd
}

func heading(w io.Writer, title string) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "\n== %s ==\n", title)
}
