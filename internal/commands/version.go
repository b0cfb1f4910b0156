package commands

// VersionCommand handles the /version command
type VersionCommand struct {
	Version string
}

func (c *VersionCommand) Name() string  { return "/version" }
func (c *VersionCommand) Usage() string { return "/version - print the client version" }

func (c *VersionCommand) Execute(ctx Context) {
	ctx.Reply("mistralchat " + c.Version)
}
