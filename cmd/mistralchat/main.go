package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mistralchat/internal/config"
)

const version = "1.0.0"

func main() {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:    "mistralchat",
		Usage:   "chat with Mistral models from the terminal",
		Version: version,
		Flags:   config.GetFlags(),
		Action:  runChat,
		Commands: []*cli.Command{
			askCommand(),
			configCommand(),
			guideCommand(),
			docsCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		// Print to stderr first in case logger isn't initialized
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		zap.S().Debugw("exit", "error", err)
		os.Exit(1)
	}
}
