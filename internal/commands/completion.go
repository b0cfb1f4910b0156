package commands

import (
	"errors"
	"strings"

	"mistralchat/internal/chat"
)

// ChatCommand is the default command: the whole line is sent as a user turn
type ChatCommand struct{}

func (c *ChatCommand) Name() string  { return "" }
func (c *ChatCommand) Usage() string { return "<message>" }

func (c *ChatCommand) Execute(ctx Context) {
	text := strings.TrimSpace(ctx.GetLine())
	ex, err := ctx.GetSession().Send(ctx, text)
	awaitReply(ctx, ex, err)
}

// RetryCommand asks for a reply to a pending user turn
type RetryCommand struct{}

func (c *RetryCommand) Name() string  { return "/retry" }
func (c *RetryCommand) Usage() string { return "/retry - request a reply to the last user message" }

func (c *RetryCommand) Execute(ctx Context) {
	ex, err := ctx.GetSession().ReplyToLast(ctx)
	awaitReply(ctx, ex, err)
}

// ReplyCommand shows the last successful reply
type ReplyCommand struct{}

func (c *ReplyCommand) Name() string  { return "/reply" }
func (c *ReplyCommand) Usage() string { return "/reply - show the last successful reply" }

func (c *ReplyCommand) Execute(ctx Context) {
	reply := ctx.GetSession().CurrentReply()
	if reply == "" {
		ctx.Reply("No reply yet")
		return
	}
	ctx.Reply(reply)
}

func awaitReply(ctx Context, ex *chat.Exchange, err error) {
	switch {
	case errors.Is(err, chat.ErrBusy):
		ctx.Reply("Still waiting for the previous reply")
		return
	case errors.Is(err, chat.ErrNothingToReply):
		ctx.Reply("The last message is not a user message; nothing to reply to")
		return
	case err != nil:
		ctx.GetLogger().Errorw("send_failed", "error", err)
		ctx.Reply(err.Error())
		return
	}

	out, err := ex.Wait(ctx)
	if err != nil {
		// the exchange still resolves and records its assistant turn
		ctx.Reply("Interrupted: " + err.Error())
		return
	}
	if out.Kind == chat.OutcomeSkipped {
		return
	}
	ctx.Reply(out.Content)
}
