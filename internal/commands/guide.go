package commands

import (
	"strings"

	"mistralchat/internal/guide"
)

// GuideCommand prints a help topic
type GuideCommand struct{}

func (c *GuideCommand) Name() string { return "/guide" }
func (c *GuideCommand) Usage() string {
	return "/guide [topic] - setup help (" + strings.Join(guide.Names(), ", ") + ")"
}

func (c *GuideCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Reply(strings.TrimRight(guide.Index(), "\n"))
		return
	}
	topic, ok := guide.Lookup(args[1])
	if !ok {
		ctx.Reply("Unknown topic " + args[1] + ". Topics: " + strings.Join(guide.Names(), ", "))
		return
	}
	ctx.Reply(strings.TrimRight(topic.Render(), "\n"))
}
