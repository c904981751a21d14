// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Handler runs a command with its parsed arguments.
type Handler func(ctx context.Context, args []string) error

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/clear [--yes]")
	Usage string

	// MaxArgs rejects extra arguments. Negative means unlimited.
	MaxArgs int

	// Handler is the function that executes the command
	Handler Handler

	// Hidden commands don't appear in help
	Hidden bool
}

var (
	// ErrQuit is returned by a handler to end the session.
	ErrQuit = errors.New("quit")

	// ErrUnknownCommand is returned by Execute for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNotCommand is returned by Execute for input without a leading slash.
	ErrNotCommand = errors.New("not a command")
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Register adds a command to the registry. Names are matched
// case-insensitively.
func (r *Registry) Register(cmd *Command) {
	r.commands[strings.ToLower(cmd.Name)] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Execute parses input and runs the matching handler.
func (r *Registry) Execute(ctx context.Context, input string) error {
	res := r.Parse(input)
	if !res.IsCommand {
		return ErrNotCommand
	}
	if res.Command == nil {
		return fmt.Errorf("%w %s (try /help)", ErrUnknownCommand, res.CommandName)
	}
	if err := ValidateArgs(res.Command, res.Args); err != nil {
		return err
	}
	if res.Command.Handler == nil {
		return nil
	}
	return res.Command.Handler(ctx, res.Args)
}

// Help returns one line per visible command.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		if len(cmd.Aliases) > 0 {
			usage += ", " + strings.Join(cmd.Aliases, ", ")
		}
		fmt.Fprintf(&b, "  %-22s %s\n", usage, cmd.Description)
	}
	return b.String()
}
