package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"mistralchat/internal/chat"
	"mistralchat/internal/commands"
	"mistralchat/internal/config"
	"mistralchat/internal/core"
	"mistralchat/internal/mistral"
	"mistralchat/internal/repl"
	"mistralchat/internal/settings"
)

const watchDebounce = 250 * time.Millisecond

// runtime holds everything built from the command line
type runtime struct {
	cfg      *config.Configuration
	file     settings.FileSource
	provider *settings.Provider
	session  *chat.Session
	logger   *zap.SugaredLogger
}

func newRuntime(ctx context.Context, c *cli.Command) (*runtime, error) {
	cfg := config.NewConfiguration(c)
	core.InitLogger(cfg.UI.Verbose)
	logger := core.WithFields("version", version)

	overrides, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}

	file := settings.FileSource{Path: cfg.Session.SettingsPath}
	var stored settings.Source = file
	if cfg.Session.Watch {
		if err := os.MkdirAll(filepath.Dir(file.Path), 0o700); err != nil {
			return nil, err
		}
		w := settings.NewWatcher(file, watchDebounce, logger)
		w.OnReload = func(s settings.Settings, err error) {
			logger.Infow("settings_changed", "path", file.Path, "model", s.Model.String(), "error", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Errorw("settings_watch_failed", "error", err)
			}
		}()
		stored = w
	}
	provider := settings.NewProvider(logger, overrides, stored)

	client := mistral.NewClient(mistral.Options{
		RequestsPerMinute: cfg.API.RequestsPerMinute,
		UserAgent:         "mistralchat/" + version,
		Logger:            logger,
	})

	session := chat.NewSession(provider, client,
		chat.WithLogger(logger),
		chat.WithTimeout(cfg.API.Timeout),
		chat.WithRecordUserTurns(cfg.Session.RecordUserTurns),
	)

	if cfg.UI.Verbose {
		cfg.PrintConfig()
	}

	return &runtime{cfg: cfg, file: file, provider: provider, session: session, logger: logger}, nil
}

func (rt *runtime) repl(in io.Reader, out io.Writer) *repl.REPL {
	return repl.New(repl.Options{
		Registry:     commands.NewDefaultRegistry(version),
		Session:      rt.session,
		Config:       rt.cfg,
		Provider:     rt.provider,
		SettingsFile: rt.file,
		Logger:       rt.logger,
		In:           in,
		Out:          out,
		Width:        terminalWidth(out),
	})
}

// loadHistory restores the transcript file, if one is configured and exists.
func (rt *runtime) loadHistory() {
	path := rt.cfg.Session.HistoryPath
	if path == "" {
		return
	}
	n, err := rt.session.Transcript().LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		rt.logger.Debugw("history_not_found", "path", path)
	case err != nil:
		rt.logger.Warnw("history_load_failed", "path", path, "error", err)
	default:
		rt.logger.Infow("history_loaded", "path", path, "messages", n)
	}
}

func (rt *runtime) saveHistory() {
	path := rt.cfg.Session.HistoryPath
	if path == "" {
		return
	}
	if err := rt.session.Transcript().SaveFile(path); err != nil {
		rt.logger.Errorw("history_save_failed", "path", path, "error", err)
		return
	}
	rt.logger.Debugw("history_saved", "path", path)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth is the column count of out, or zero when it is not a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !isTerminal(f) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func runChat(ctx context.Context, c *cli.Command) error {
	rt, err := newRuntime(ctx, c)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	if !rt.cfg.UI.NoBanner {
		os.Stdout.WriteString(getBanner(version, isTerminal(os.Stdout)))
	}
	if _, err := rt.provider.Resolve(); errors.Is(err, settings.ErrNotConfigured) {
		os.Stdout.WriteString("No settings found. Run `mistralchat config init` or see `/guide apikey`.\n")
	}

	rt.loadHistory()
	defer rt.saveHistory()

	err = rt.repl(os.Stdin, os.Stdout).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
