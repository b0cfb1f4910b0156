package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mistralchat/internal/chat"
	"mistralchat/internal/commands"
	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// ChatContext carries one input line through command dispatch
type ChatContext struct {
	context.Context
	repl      *REPL
	line      string
	args      []string
	command   string
	logger    *zap.SugaredLogger
	requestID string
}

var _ commands.Context = (*ChatContext)(nil)

func newChatContext(parent context.Context, r *REPL, line string) *ChatContext {
	requestID := uuid.NewString()[:8]
	ctx := &ChatContext{
		Context:   parent,
		repl:      r,
		line:      line,
		args:      strings.Fields(line),
		requestID: requestID,
		logger:    r.logger.With("request_id", requestID),
	}
	if len(ctx.args) > 0 && strings.HasPrefix(ctx.args[0], "/") {
		ctx.command = strings.ToLower(ctx.args[0])
	}
	return ctx
}

func (c *ChatContext) GetCommand() string { return c.command }
func (c *ChatContext) GetArgs() []string  { return c.args }
func (c *ChatContext) GetLine() string    { return c.line }

const assistantLabel = "assistant:"

// Reply prints msg. Replies to chat lines are labelled as the assistant.
func (c *ChatContext) Reply(msg string) {
	st := c.repl.styles
	if c.command == "" {
		width := 0
		if c.repl.width > 0 {
			width = max(c.repl.width-len(assistantLabel)-1, 20)
		}
		indent := strings.Repeat(" ", len(assistantLabel)+1)
		text := strings.Join(wrapLines(msg, width), "\n"+indent)
		fmt.Fprintf(c.repl.out, "%s %s\n", st.assistant.Render(assistantLabel), text)
		return
	}
	fmt.Fprintln(c.repl.out, st.notice.Render(msg))
}

func (c *ChatContext) GetSession() *chat.Session            { return c.repl.session }
func (c *ChatContext) GetConfig() *config.Configuration     { return c.repl.config }
func (c *ChatContext) GetProvider() *settings.Provider      { return c.repl.provider }
func (c *ChatContext) GetSettingsFile() settings.FileSource { return c.repl.settingsFile }
func (c *ChatContext) GetLogger() *zap.SugaredLogger        { return c.logger }
