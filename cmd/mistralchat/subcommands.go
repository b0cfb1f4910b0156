package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"mistralchat/internal/chat"
	"mistralchat/internal/config"
	"mistralchat/internal/core"
	"mistralchat/internal/guide"
	"mistralchat/internal/settings"
)

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "send one message and print the reply",
		ArgsUsage: "<message>",
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return cli.Exit("nothing to ask", 2)
			}

			rt, err := newRuntime(ctx, c)
			if err != nil {
				return err
			}
			rt.loadHistory()
			defer rt.saveHistory()

			start := time.Now()
			out, err := rt.session.Ask(ctx, text)
			core.LogDuration(rt.logger, "ask", start)
			if err != nil {
				return err
			}
			fmt.Println(out.Content)
			if out.Kind == chat.OutcomeError {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect or edit the settings record",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the effective settings",
				Action: func(ctx context.Context, c *cli.Command) error {
					rt, err := newRuntime(ctx, c)
					if err != nil {
						return err
					}
					fmt.Printf("settings: %s\n", rt.file.Path)
					rt.repl(os.Stdin, os.Stdout).Exec(ctx, "/get")
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "store one setting (apikey, apiurl, model)",
				ArgsUsage: "<key> <value>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() < 2 {
						return cli.Exit("usage: mistralchat config set <key> <value>", 2)
					}
					rt, err := newRuntime(ctx, c)
					if err != nil {
						return err
					}
					rt.repl(os.Stdin, os.Stdout).Exec(ctx, "/set "+strings.Join(c.Args().Slice(), " "))
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "write a settings record with the default URL and model",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "overwrite an existing record"},
					&cli.BoolFlag{Name: "prompt-key", Usage: "read the API key from the terminal without echo"},
				},
				Action: runConfigInit,
			},
			{
				Name:  "path",
				Usage: "print the settings file path",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println(config.NewConfiguration(c).Session.SettingsPath)
					return nil
				},
			},
		},
	}
}

func runConfigInit(ctx context.Context, c *cli.Command) error {
	cfg := config.NewConfiguration(c)
	core.InitLogger(cfg.UI.Verbose)
	file := settings.FileSource{Path: cfg.Session.SettingsPath}

	if _, err := file.Load(); !errors.Is(err, settings.ErrNotConfigured) && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("%s already exists, use --force to overwrite", file.Path), 1)
	}

	s := settings.Default()
	overrides, err := cfg.Overrides()
	if err != nil {
		return err
	}
	if overrides.APIKey != "" {
		s.APIKey = overrides.APIKey
	}
	if overrides.APIURL != "" {
		s.APIURL = overrides.APIURL
	}
	if overrides.Model != settings.ModelUnset {
		s.Model = overrides.Model
	}

	if c.Bool("prompt-key") {
		if !isTerminal(os.Stdin) {
			return cli.Exit("--prompt-key needs a terminal", 2)
		}
		fmt.Print("API key: ")
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		s.APIKey = strings.TrimSpace(string(key))
	}

	if err := file.Save(s); err != nil {
		return err
	}
	fmt.Printf("wrote %s (apikey: %s, model: %s)\n", file.Path, config.MaskAPIKey(s.APIKey), s.Model)
	if s.APIKey == "" {
		fmt.Println("no API key stored yet, see `mistralchat guide apikey`")
	}
	return nil
}

func guideCommand() *cli.Command {
	return &cli.Command{
		Name:      "guide",
		Usage:     "setup help: " + strings.Join(guide.Names(), ", "),
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, c *cli.Command) error {
			if !c.Args().Present() {
				fmt.Print(guide.Index())
				return nil
			}
			topic, ok := guide.Lookup(c.Args().First())
			if !ok {
				return cli.Exit(fmt.Sprintf("unknown topic %q, topics: %s", c.Args().First(), strings.Join(guide.Names(), ", ")), 2)
			}
			fmt.Print(topic.Render())
			return nil
		},
	}
}

func docsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "print the documentation links",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Printf("Mistral documentation: %s\n", guide.DocsURL)
			fmt.Printf("Author: %s\n", guide.AuthorURL)
			return nil
		},
	}
}
