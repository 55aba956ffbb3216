// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/psy-tui/internal/ui/components"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown by /help
	Description string

	// Usage shows argument syntax (e.g., "/note <text>")
	Usage string

	// MinArgs is the number of required arguments.
	MinArgs int

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Category for grouping in help display
	Category string
}

// Context carries the chat page hooks a handler may call. Nil hooks make
// the matching commands report that they are unavailable.
type Context struct {
	// Clear starts a new conversation.
	Clear func() tea.Cmd

	// Save stores the conversation in the journal.
	Save func() tea.Cmd

	// RawArgs is the text after the command name, quotes intact.
	RawArgs string

	registry *Registry
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias. Lookup ignores case.
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

// Complete returns the command names and aliases that start with prefix,
// sorted.
func (r *Registry) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for name := range r.commands {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	for alias := range r.aliases {
		if strings.HasPrefix(alias, prefix) {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Execute runs a parsed command. Unknown commands and missing arguments
// come back as an error toast.
func (r *Registry) Execute(result ParseResult, ctx *Context) tea.Cmd {
	if result.Command == nil {
		return components.ShowToast(components.ToastKindError, "Unknown command "+result.CommandName+" (try /help)")
	}
	if len(result.Args) < result.Command.MinArgs {
		return components.ShowToast(components.ToastKindWarning, "Usage: "+result.Command.Usage)
	}
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.RawArgs = result.RawArgs
	ctx.registry = r
	return result.Command.Handler(ctx, result.Args)
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "List commands",
		Category:    "General",
		Handler:     handleHelp,
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Leave psy",
		Category:    "General",
		Handler:     func(*Context, []string) tea.Cmd { return tea.Quit },
	})
	r.Register(&Command{
		Name:        "/theme",
		Description: "Switch between light and dark",
		Category:    "General",
		Handler:     func(*Context, []string) tea.Cmd { return emit(ToggleThemeMsg{}) },
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/new", "/c"},
		Description: "Start a new conversation",
		Category:    "Conversation",
		Handler:     handleClear,
	})
	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save the conversation to the journal",
		Category:    "Conversation",
		Handler:     handleSave,
	})
	r.Register(&Command{
		Name:        "/note",
		Description: "Write a journal note",
		Usage:       "/note <text>",
		MinArgs:     1,
		Category:    "Journal",
		Handler:     handleNote,
	})

	r.Register(&Command{
		Name:        "/journal",
		Aliases:     []string{"/j"},
		Description: "Go to the journal",
		Category:    "Pages",
		Handler:     navigateTo(TargetJournal),
	})
	r.Register(&Command{
		Name:        "/chat",
		Description: "Go to the chat",
		Category:    "Pages",
		Handler:     navigateTo(TargetChat),
	})
	r.Register(&Command{
		Name:        "/resources",
		Aliases:     []string{"/r"},
		Description: "Go to the resources",
		Category:    "Pages",
		Handler:     navigateTo(TargetResources),
	})
	r.Register(&Command{
		Name:        "/page",
		Aliases:     []string{"/p"},
		Description: "Go to a page by number or name",
		Usage:       "/page <1-3|journal|chat|resources>",
		MinArgs:     1,
		Category:    "Pages",
		Handler:     handlePage,
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelp(ctx *Context, _ []string) tea.Cmd {
	names := make([]string, 0, len(ctx.registry.commands))
	for _, cmd := range ctx.registry.All() {
		names = append(names, cmd.Name)
	}
	return components.ShowToast(components.ToastKindStatus, "Commands: "+strings.Join(names, " "))
}

func handleClear(ctx *Context, _ []string) tea.Cmd {
	if ctx.Clear == nil {
		return unavailable("/clear")
	}
	return ctx.Clear()
}

func handleSave(ctx *Context, _ []string) tea.Cmd {
	if ctx.Save == nil {
		return unavailable("/save")
	}
	return ctx.Save()
}

func handleNote(ctx *Context, _ []string) tea.Cmd {
	note := strings.TrimSpace(ctx.RawArgs)
	if note == "" {
		return components.ShowToast(components.ToastKindWarning, "Usage: /note <text>")
	}
	return emit(NoteMsg{Content: note})
}

func handlePage(_ *Context, args []string) tea.Cmd {
	arg := strings.ToLower(args[0])
	switch arg {
	case TargetJournal, TargetChat, TargetResources:
		return emit(NavigateMsg{Target: arg})
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return components.ShowToast(components.ToastKindWarning, "Usage: /page <1-3|journal|chat|resources>")
	}
	return emit(NavigateMsg{Index: n - 1})
}

func navigateTo(target string) func(*Context, []string) tea.Cmd {
	return func(*Context, []string) tea.Cmd {
		return emit(NavigateMsg{Target: target})
	}
}

func unavailable(name string) tea.Cmd {
	return components.ShowToast(components.ToastKindWarning, name+" is not available here")
}
