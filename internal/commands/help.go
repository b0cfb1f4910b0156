package commands

import (
	"strings"
)

// HelpCommand handles the /help command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a help command that can list registered commands
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string  { return "/help" }
func (c *HelpCommand) Usage() string { return "/help [command] - list commands" }

func (c *HelpCommand) Execute(ctx Context) {
	if args := ctx.GetArgs(); len(args) > 1 {
		name := args[1]
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		if cmd, ok := c.registry.Get(name); ok {
			ctx.Reply(cmd.Usage())
			return
		}
		ctx.Reply("Unknown command " + name)
		return
	}

	lines := []string{"Type a message to chat, or one of:"}
	for _, cmd := range c.registry.All() {
		lines = append(lines, "  "+cmd.Usage())
	}
	lines = append(lines, "  /quit - leave")
	ctx.Reply(strings.Join(lines, "\n"))
}
