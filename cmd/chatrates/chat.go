// ABOUTME: Interactive chat session against the simulated chat box
// ABOUTME: Plain lines are game messages; slash commands change settings and levels

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/report"
	"github.com/2389/chat-success-rates/internal/sim"
	"github.com/2389/chat-success-rates/internal/skill"
)

// errQuit ends the session.
var errQuit = errors.New("quit")

const chatHelp = `Type a line to deliver it as a game message.
  /spam <text>            deliver a spam message
  /mesbox <text>          deliver a message box popup
  /public <text>          deliver a public chat message
  /set <key> <value>      change a setting
  /level <skill> <base> [boosted]
  /copy                   copy the collapsed lines to the clipboard
  /report                 show success rates
  /reset                  zero every tracker
  /stop, /start           stop or start the plugin
  /quit                   leave`

func newChatCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Type chat messages into a simulated chat box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.startSession()
			if err != nil {
				return err
			}
			defer s.plugin.Stop()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          color.New(color.FgCyan).Sprint("chat> "),
				InterruptPrompt: "^C",
				EOFPrompt:       "/quit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("creating readline: %w", err)
			}
			defer rl.Close()

			c := &console{app: a, session: s, out: cmd.OutOrStdout()}
			fmt.Fprintln(c.out, chatHelp)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				if err := c.exec(cmd.Context(), line); err != nil {
					if errors.Is(err, errQuit) {
						return nil
					}
					fmt.Fprintf(c.out, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
				}
			}
		},
	}
}

// console interprets one input line at a time.
type console struct {
	app     *app
	session *session
	out     io.Writer
}

func (c *console) exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return c.deliver(chat.CategoryGame, line)
	}

	command, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	box, p := c.session.box, c.session.plugin

	switch command {
	case "spam":
		return c.deliver(chat.CategorySpam, rest)
	case "mesbox":
		return c.deliver(chat.CategoryMessageBox, rest)
	case "public":
		return c.deliver(chat.CategoryPublic, rest)
	case "set":
		key, value, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: /set <key> <value>")
		}
		return c.app.settings.Set(ctx, key, value)
	case "level":
		return c.setLevel(strings.Fields(rest))
	case "copy":
		entries := p.MenuEntries()
		if len(entries) == 0 {
			return fmt.Errorf("nothing to copy")
		}
		if err := entries[0].OnClick(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, box.ClipboardContents())
		return nil
	case "report":
		fmt.Fprint(c.out, report.Markdown(report.Build(p.Trackers())))
		return nil
	case "reset":
		for _, t := range p.Trackers() {
			t.Reset()
		}
		return nil
	case "stop":
		p.Stop()
		return box.Print(c.out)
	case "start":
		p.Start()
		return box.Print(c.out)
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(c.out, chatHelp)
		return nil
	default:
		return fmt.Errorf("unknown command /%s", command)
	}
}

func (c *console) deliver(category chat.Category, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}
	c.session.box.Deliver(category, text)
	return c.session.box.Print(c.out)
}

func (c *console) setLevel(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: /level <skill> <base> [boosted]")
	}
	s, err := skill.Parse(args[0])
	if err != nil {
		return err
	}
	base, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("base level: %w", err)
	}
	boosted := base
	if len(args) == 3 {
		if boosted, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("boosted level: %w", err)
		}
	}
	if !c.session.box.SetLevel(s, sim.Level{Base: base, Boosted: boosted}) {
		return fmt.Errorf("level of %s is derived and cannot be set", s)
	}
	return nil
}
