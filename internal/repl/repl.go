// Package repl runs the interactive chat loop on a terminal or any
// line-oriented reader.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"mistralchat/internal/chat"
	"mistralchat/internal/commands"
	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// REPL reads lines, dispatches them to commands and prints the replies
type REPL struct {
	registry     *commands.Registry
	session      *chat.Session
	config       *config.Configuration
	provider     *settings.Provider
	settingsFile settings.FileSource
	logger       *zap.SugaredLogger

	in     io.Reader
	out    io.Writer
	width  int
	styles styles
}

// Options wires the REPL to its collaborators
type Options struct {
	Registry     *commands.Registry
	Session      *chat.Session
	Config       *config.Configuration
	Provider     *settings.Provider
	SettingsFile settings.FileSource
	Logger       *zap.SugaredLogger
	In           io.Reader
	Out          io.Writer
	// Width wraps assistant replies; zero disables wrapping.
	Width int
}

func New(opts Options) *REPL {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &REPL{
		registry:     opts.Registry,
		session:      opts.Session,
		config:       opts.Config,
		provider:     opts.Provider,
		settingsFile: opts.SettingsFile,
		logger:       logger,
		in:           opts.In,
		out:          opts.Out,
		width:        opts.Width,
		styles:       newStyles(opts.Out),
	}
}

// Run reads until EOF, /quit or cancellation of ctx.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	fmt.Fprintln(r.out, r.styles.notice.Render("Type /help for commands, /quit to leave."))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, r.styles.prompt.Render("you>")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit(line) {
			return nil
		}
		r.handle(ctx, line)
	}
}

// Exec dispatches a single line, as if typed at the prompt.
func (r *REPL) Exec(ctx context.Context, line string) {
	if line = strings.TrimSpace(line); line != "" {
		r.handle(ctx, line)
	}
}

func (r *REPL) handle(parent context.Context, line string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cctx := newChatContext(ctx, r, line)
	cctx.logger.Debugw("input_received", "command", cctx.command, "length", len(line))
	if !r.registry.Dispatch(cctx) {
		cctx.logger.Debugw("input_ignored", "line", line)
	}
}

func quit(line string) bool {
	switch strings.ToLower(line) {
	case "/quit", "/exit":
		return true
	}
	return false
}
