package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/smilewilson1999/Eggregator/internal/setup"
)

type setupCmd struct {
	path string
}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "create a config file interactively" }
func (*setupCmd) Usage() string {
	return `eggregator setup [--out config.gen.yaml]

  Asks for holdings sources, price provider and refresh settings and
  writes them as yaml.
`
}

func (c *setupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "out", setup.DefaultPath, "where to write the config")
}

func (c *setupCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := setup.RunTUI(c.path); err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
