package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal/tui"
)

type tableCmd struct {
	overrides config.Overrides
	logFile   string
}

func (*tableCmd) Name() string     { return "table" }
func (*tableCmd) Synopsis() string { return "show the portfolio table in the terminal" }
func (*tableCmd) Usage() string {
	return `eggregator table [--config <file>] [--holdings <file>] [--pricer <name>]

  Opens an interactive table that refreshes in the background.
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	c.overrides.Bind(f)
	f.StringVar(&c.logFile, "log", "eggregator.log", "log file, the terminal is used by the table")
}

func (c *tableCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger, err := newLogger(c.logFile)
	if err != nil {
		fail("Error creating logger: %v", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, p, err := openPortfolio(ctx, c.overrides, logger)
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	defer p.Close()

	updates := p.Broadcaster.Subscribe()
	defer p.Broadcaster.Unsubscribe(updates)

	go func() {
		if err := p.Service.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("refresh loop stopped", zap.Error(err))
		}
	}()

	err = tui.Run(ctx, tui.Options{
		Refresher: p.Service,
		Updates:   updates,
		PageSize:  conf.PageSize,
		Logger:    logger.With(zap.String("component", "tui")),
	})
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
