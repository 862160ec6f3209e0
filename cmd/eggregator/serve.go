package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal/web"
)

type serveCmd struct {
	overrides config.Overrides
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio table over http" }
func (*serveCmd) Usage() string {
	return `eggregator serve [--config <file>] [--listen <addr>]

  Serves the table at /, rows as json at /rows, and live updates at
  /rows/stream (server-sent events) and /ws (websocket).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	c.overrides.Bind(f)
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger, err := newLogger("")
	if err != nil {
		fail("Error creating logger: %v", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, p, err := openPortfolio(ctx, c.overrides, logger)
	if err != nil {
		logger.Error("failed to create portfolio", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer p.Close()

	server := web.NewServer(conf.Listen, p.Broadcaster, conf.PageSize, logger.With(zap.String("component", "web")))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Service.Run(gctx)
	})
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("stopped", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("shutdown complete")
	return subcommands.ExitSuccess
}
