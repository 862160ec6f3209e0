// Command eggregator shows Binance.US balances and Ethereum wallet tokens
// as one priced table, in the terminal or over HTTP.
//
// Usage:
//
//	eggregator table --config config.yaml
//	eggregator serve --listen :8080
//	eggregator print --holdings holdings.yaml --pricer file --sort total:desc
//	eggregator setup
//
// Binance.US keys are read from BINANCE_API_KEY and BINANCE_API_SECRET.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var debug = flag.Bool("debug", false, "use the development logger")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&tableCmd{}, "view")
	commander.Register(&serveCmd{}, "view")
	commander.Register(&printCmd{}, "view")
	commander.Register(&setupCmd{}, "config")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
