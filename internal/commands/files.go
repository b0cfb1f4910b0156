package commands

import (
	"fmt"
	"os"
	"strings"
)

// ExportCommand renders the transcript as Markdown
type ExportCommand struct{}

func (c *ExportCommand) Name() string  { return "/export" }
func (c *ExportCommand) Usage() string { return "/export [file] - Markdown transcript" }

func (c *ExportCommand) Execute(ctx Context) {
	md := ctx.GetSession().Transcript().Markdown()
	args := ctx.GetArgs()
	if len(args) < 2 {
		if md == "" {
			ctx.Reply("History is empty")
			return
		}
		ctx.Reply(strings.TrimRight(md, "\n"))
		return
	}
	path := args[1]
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		ctx.GetLogger().Errorw("export_failed", "path", path, "error", err)
		ctx.Reply(fmt.Sprintf("Failed: %v", err))
		return
	}
	ctx.Reply("Exported to " + path)
}

// SaveCommand writes the transcript as JSON
type SaveCommand struct{}

func (c *SaveCommand) Name() string  { return "/save" }
func (c *SaveCommand) Usage() string { return "/save <file> - save the conversation as JSON" }

func (c *SaveCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Reply("Usage: " + c.Usage())
		return
	}
	if err := ctx.GetSession().Transcript().SaveFile(args[1]); err != nil {
		ctx.GetLogger().Errorw("history_save_failed", "path", args[1], "error", err)
		ctx.Reply(fmt.Sprintf("Failed: %v", err))
		return
	}
	ctx.GetLogger().Infow("history_saved", "path", args[1])
	ctx.Reply("History saved to " + args[1])
}

// LoadCommand replaces the transcript with a saved one
type LoadCommand struct{}

func (c *LoadCommand) Name() string  { return "/load" }
func (c *LoadCommand) Usage() string { return "/load <file> - replace the conversation from JSON" }

func (c *LoadCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Reply("Usage: " + c.Usage())
		return
	}
	n, err := ctx.GetSession().Transcript().LoadFile(args[1])
	if err != nil {
		ctx.GetLogger().Warnw("history_load_failed", "path", args[1], "error", err)
		ctx.Reply(fmt.Sprintf("Failed: %v", err))
		return
	}
	ctx.Reply(fmt.Sprintf("Loaded %d messages", n))
}
