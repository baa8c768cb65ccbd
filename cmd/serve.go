package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amp/internal/mcp"
	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/tools"
)

// Serve exposes the tool registry to an assistant host over stdio. Logs go
// to a file because stdout carries protocol traffic.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	logPath, err := shared.ExpandPath(cmd.String("log-file"))
	if err != nil {
		return err
	}
	logger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return err
	}

	registry := tools.NewRegistry(svc, r.config.API.PageSize)

	srv, err := mcp.NewServer(mcp.Config{
		Registry: registry,
		Logger:   logger,
		In:       os.Stdin,
		Out:      os.Stdout,
		Name:     "amp",
		Version:  cmd.Root().Version,
	})
	if err != nil {
		return err
	}

	logger.Info("serving tools on stdio", "tools", len(registry.List()))
	return srv.Run(ctx)
}
