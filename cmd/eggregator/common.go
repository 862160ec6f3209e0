package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal"
)

// newLogger builds the process logger. An empty path logs to stderr.
func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if *debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	return cfg.Build()
}

// openPortfolio loads the configuration and wires the refresh service.
func openPortfolio(ctx context.Context, o config.Overrides, logger *zap.Logger) (config.Config, *internal.Portfolio, error) {
	conf, err := o.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	p, err := internal.NewPortfolio(ctx, conf, logger)
	if err != nil {
		return config.Config{}, nil, err
	}
	return conf, p, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
