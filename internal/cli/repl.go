// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/commands"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	assistantStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

const (
	userPrompt     = "you> "
	assistantLabel = "bot>"
	historyFile    = "repl_history"
)

// =============================================================================
// LINE READER
// =============================================================================

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineHistory loads and saves liner history in the config directory.
type lineHistory struct {
	line *liner.State
	path string
}

func newLineHistory(line *liner.State) *lineHistory {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	h := &lineHistory{line: line, path: filepath.Join(dir, historyFile)}
	if f, err := os.Open(h.path); err == nil {
		h.line.ReadHistory(f)
		f.Close()
	}
	return h
}

// save writes history with 0600 permissions.
func (h *lineHistory) save() {
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		log.Debug().Err(err).Msg("could not save repl history")
		return
	}
	defer f.Close()
	h.line.WriteHistory(f)
}

// =============================================================================
// COMMAND
// =============================================================================

func newREPLCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Line-mode chat with history",
		Long: `Chat one line at a time. Arrow keys walk the input history.

Commands (Tab completes them):
  /clear, /c      clear the conversation
  /session, /s    show the session id
  /help, /h       show this help
  /quit, /q       exit (Ctrl+D also works)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ctrl, store, err := env.newController(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			defer ctrl.Wait()

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			hist := newLineHistory(line)
			defer hist.save()

			r := newREPL(ctrl, line, cmd.OutOrStdout(), env.cfg.API.BaseURL)
			line.SetCompleter(r.commands.Complete)
			return r.run(ctx)
		},
	}
}

// =============================================================================
// LOOP
// =============================================================================

// repl drives a controller from a line reader.
type repl struct {
	ctrl     *chat.Controller
	in       lineReader
	out      io.Writer
	target   string
	commands *commands.Registry
}

func newREPL(ctrl *chat.Controller, in lineReader, out io.Writer, target string) *repl {
	r := &repl{ctrl: ctrl, in: in, out: out, target: target}
	r.registerCommands()
	return r
}

func (r *repl) run(ctx context.Context) error {
	r.printWelcome()

	for ctx.Err() == nil {
		input, err := r.in.Prompt(userPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}
		r.in.AppendHistory(input)

		if commands.IsCommand(text) {
			if quit := r.command(ctx, text); quit {
				return nil
			}
			continue
		}
		r.send(ctx, input)
	}
	return nil
}

func (r *repl) printWelcome() {
	snap := r.ctrl.Snapshot()
	if reply, ok := model.LastAssistant(snap.Messages); ok {
		fmt.Fprintf(r.out, "%s %s\n", assistantStyle.Render(assistantLabel), reply.Text)
	}
	if snap.SessionID != "" {
		fmt.Fprintln(r.out, dimStyle.Render("resumed session "+util.ShortID(snap.SessionID, 8)))
	}
	fmt.Fprintln(r.out, dimStyle.Render("talking to "+r.target+" - /help for commands"))
}

func (r *repl) send(ctx context.Context, text string) {
	if err := r.ctrl.Send(ctx, text); err != nil {
		fmt.Fprintln(r.out, styles.RenderWarning(err.Error()))
		r.ctrl.DismissError()
		return
	}

	snap := r.ctrl.Snapshot()
	if reply, ok := model.LastAssistant(snap.Messages); ok {
		fmt.Fprintf(r.out, "%s %s\n", assistantStyle.Render(assistantLabel), reply.Text)
	}
	if snap.Error != nil {
		fmt.Fprintln(r.out, styles.RenderError(snap.Error.Text))
		r.ctrl.DismissError()
	}
}

// registerCommands wires the slash commands to the controller.
func (r *repl) registerCommands() {
	r.commands = commands.NewRegistry()

	r.commands.Register(&commands.Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation",
		Handler: func(ctx context.Context, _ []string) error {
			ok, err := r.ctrl.Clear(ctx, lineConfirmer{r.in})
			switch {
			case err != nil && !ok:
				return err
			case !ok:
				fmt.Fprintln(r.out, dimStyle.Render("Cancelled."))
			default:
				if err != nil {
					fmt.Fprintln(r.out, styles.RenderWarning("could not forget saved session: "+err.Error()))
				}
				fmt.Fprintln(r.out, styles.RenderSuccess("Conversation cleared."))
			}
			return nil
		},
	})

	r.commands.Register(&commands.Command{
		Name:        "/session",
		Aliases:     []string{"/s"},
		Description: "Show the session id",
		Handler: func(context.Context, []string) error {
			if id := r.ctrl.SessionID(); id != "" {
				fmt.Fprintln(r.out, id)
			} else {
				fmt.Fprintln(r.out, dimStyle.Render("no session yet"))
			}
			return nil
		},
	})

	r.commands.Register(&commands.Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show this help",
		Handler: func(context.Context, []string) error {
			fmt.Fprint(r.out, r.commands.Help())
			return nil
		},
	})

	r.commands.Register(&commands.Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit (Ctrl+D also works)",
		Handler: func(context.Context, []string) error {
			return commands.ErrQuit
		},
	})
}

// command runs a slash command and reports whether to quit.
func (r *repl) command(ctx context.Context, text string) bool {
	err := r.commands.Execute(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrQuit):
		return true
	case errors.Is(err, commands.ErrUnknownCommand):
		fmt.Fprintln(r.out, styles.RenderWarning(err.Error()))
	default:
		fmt.Fprintln(r.out, styles.RenderError(err.Error()))
	}
	return false
}

// lineConfirmer asks yes/no through the line reader. Prompts stay unstyled
// because liner measures them by byte.
type lineConfirmer struct {
	in lineReader
}

// Confirm implements chat.Confirmer.
func (c lineConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := c.in.Prompt(prompt + " [y/N]: ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return isYes(answer), nil
}
