package commands

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"mistralchat/internal/chat"
	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// Context provides everything a command needs to handle one input line
type Context interface {
	context.Context

	// Event methods
	GetCommand() string
	GetArgs() []string
	GetLine() string

	// Responder methods
	Reply(string)

	// Runtime methods
	GetSession() *chat.Session
	GetConfig() *config.Configuration
	GetProvider() *settings.Provider
	GetSettingsFile() settings.FileSource
	GetLogger() *zap.SugaredLogger
}

// Command defines the interface for REPL commands
type Command interface {
	Name() string
	Usage() string
	Execute(ctx Context)
}

// Registry manages command registration and dispatch
type Registry struct {
	commands       map[string]Command
	defaultCommand Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
// Commands with empty name are registered as the default fallback
func (r *Registry) Register(cmd Command) {
	name := cmd.Name()
	if name == "" {
		r.defaultCommand = cmd
		return
	}
	r.commands[name] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Dispatch executes the appropriate command based on context
// Returns true if a command was executed, false otherwise
func (r *Registry) Dispatch(ctx Context) bool {
	cmdName := ctx.GetCommand()

	cmd, ok := r.commands[cmdName]
	if !ok {
		if len(cmdName) > 1 && cmdName[0] == '/' {
			ctx.Reply("Unknown command " + cmdName + ", try /help")
			return true
		}
		if r.defaultCommand != nil {
			r.defaultCommand.Execute(ctx)
			return true
		}
		return false
	}

	cmd.Execute(ctx)
	return true
}

// All returns all registered commands (excluding default), sorted by name
func (r *Registry) All() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

// NewDefaultRegistry registers every REPL command
func NewDefaultRegistry(version string) *Registry {
	r := NewRegistry()
	r.Register(&ChatCommand{})
	r.Register(NewHelpCommand(r))
	r.Register(&VersionCommand{Version: version})
	r.Register(&HistoryCommand{})
	r.Register(&CountCommand{})
	r.Register(&ShowCommand{})
	r.Register(&ClearCommand{})
	r.Register(&SearchCommand{})
	r.Register(&EditCommand{})
	r.Register(&StatsCommand{})
	r.Register(&ExportCommand{})
	r.Register(&SaveCommand{})
	r.Register(&LoadCommand{})
	r.Register(&RetryCommand{})
	r.Register(&ReplyCommand{})
	r.Register(&GetCommand{})
	r.Register(&SetCommand{})
	r.Register(&GuideCommand{})
	return r
}
