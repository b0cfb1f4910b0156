package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HistoryCommand prints the transcript
type HistoryCommand struct{}

func (c *HistoryCommand) Name() string  { return "/history" }
func (c *HistoryCommand) Usage() string { return "/history - show the conversation" }

func (c *HistoryCommand) Execute(ctx Context) {
	tr := ctx.GetSession().Transcript()
	if tr.Len() == 0 {
		ctx.Reply("History is empty")
		return
	}
	ctx.Reply(strings.TrimSpace(tr.Format()))
}

// CountCommand prints the number of messages
type CountCommand struct{}

func (c *CountCommand) Name() string  { return "/count" }
func (c *CountCommand) Usage() string { return "/count - number of messages" }

func (c *CountCommand) Execute(ctx Context) {
	ctx.Reply(fmt.Sprintf("%d messages", ctx.GetSession().Transcript().Len()))
}

// ShowCommand prints one message by index
type ShowCommand struct{}

func (c *ShowCommand) Name() string  { return "/show" }
func (c *ShowCommand) Usage() string { return "/show <index> - show one message" }

func (c *ShowCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Reply("Usage: " + c.Usage())
		return
	}
	i, err := strconv.Atoi(args[1])
	if err != nil {
		ctx.Reply("Invalid index " + args[1])
		return
	}
	m, err := ctx.GetSession().Transcript().At(i)
	if err != nil {
		ctx.Reply(err.Error())
		return
	}
	ctx.Reply(fmt.Sprintf("[%d] %s: %s", i, m.Role, m.Content))
}

// ClearCommand empties the transcript
type ClearCommand struct{}

func (c *ClearCommand) Name() string  { return "/clear" }
func (c *ClearCommand) Usage() string { return "/clear - forget the conversation" }

func (c *ClearCommand) Execute(ctx Context) {
	ctx.GetSession().Transcript().Clear()
	ctx.GetLogger().Debug("history_cleared")
	ctx.Reply("History cleared")
}

// SearchCommand lists messages containing a keyword
type SearchCommand struct{}

func (c *SearchCommand) Name() string  { return "/search" }
func (c *SearchCommand) Usage() string { return "/search <keyword> - find messages, ignoring case" }

func (c *SearchCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Reply("Usage: " + c.Usage())
		return
	}
	keyword := strings.Join(args[1:], " ")
	found := ctx.GetSession().Transcript().Search(keyword)
	if len(found) == 0 {
		ctx.Reply(fmt.Sprintf("No messages match %q", keyword))
		return
	}
	lines := make([]string, 0, len(found)+1)
	lines = append(lines, fmt.Sprintf("%d matches:", len(found)))
	for _, m := range found {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	ctx.Reply(strings.Join(lines, "\n"))
}

// EditCommand replaces the content of one message
type EditCommand struct{}

func (c *EditCommand) Name() string  { return "/edit" }
func (c *EditCommand) Usage() string { return "/edit <index> <text> - replace a message's content" }

func (c *EditCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 3 {
		ctx.Reply("Usage: " + c.Usage())
		return
	}
	i, err := strconv.Atoi(args[1])
	if err != nil {
		ctx.Reply("Invalid index " + args[1])
		return
	}
	if err := ctx.GetSession().Transcript().Edit(i, strings.Join(args[2:], " ")); err != nil {
		ctx.Reply(err.Error())
		return
	}
	ctx.Reply(fmt.Sprintf("Message %d updated", i))
}

// StatsCommand shows message counts per role and dialog time
type StatsCommand struct{}

func (c *StatsCommand) Name() string  { return "/stats" }
func (c *StatsCommand) Usage() string { return "/stats - messages per role and dialog time" }

func (c *StatsCommand) Execute(ctx Context) {
	tr := ctx.GetSession().Transcript()
	counts := tr.CountByRole()
	roles := make([]string, 0, len(counts))
	for role := range counts {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	parts := make([]string, 0, len(roles)+2)
	parts = append(parts, fmt.Sprintf("messages: %d", tr.Len()))
	for _, role := range roles {
		parts = append(parts, fmt.Sprintf("%s: %d", role, counts[role]))
	}
	parts = append(parts, "dialog time: "+tr.Elapsed().Round(time.Second).String())
	ctx.Reply(strings.Join(parts, ", "))
}
