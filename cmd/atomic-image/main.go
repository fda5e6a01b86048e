package main

import (
	"log/slog"
	"os"

	"github.com/krsacme/ansible-modules-extras/cmd/atomic-image/commands"
)

func main() {
	// stdout carries the module result, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	commands.Execute()
}
