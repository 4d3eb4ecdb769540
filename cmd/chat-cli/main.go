package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/chat-cli/internal/infrastructure/cli"
	"github.com/doeshing/chat-cli/internal/infrastructure/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() (err error) {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, closeFn, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeFn(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: %w", closeErr)
		}
	}()

	return root.ExecuteContext(ctx)
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("CHAT_CLI_DEBUG"), "1") || strings.EqualFold(os.Getenv("CHAT_CLI_DEBUG"), "true")
}
