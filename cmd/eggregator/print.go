package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal/grid"
	"github.com/smilewilson1999/Eggregator/internal/web"
)

type printCmd struct {
	overrides config.Overrides
	sort      string
	filter    string
	hide      string
	page      int
	raw       bool
}

func (*printCmd) Name() string     { return "print" }
func (*printCmd) Synopsis() string { return "print one page of the portfolio table" }
func (*printCmd) Usage() string {
	return `eggregator print [--sort total:desc,asset] [--filter <source>] [--hide price] [--page 0]

  Refreshes once and prints the table as markdown.
`
}

func (c *printCmd) SetFlags(f *flag.FlagSet) {
	c.overrides.Bind(f)
	f.StringVar(&c.sort, "sort", "", "sort columns, example: total:desc,asset")
	f.StringVar(&c.filter, "filter", "", "case-insensitive source filter")
	f.StringVar(&c.hide, "hide", "", "hidden columns, example: price,source")
	f.IntVar(&c.page, "page", 0, "page index, zero based")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *printCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := web.ParseQuery(url.Values{
		"sort":   {c.sort},
		"filter": {c.filter},
		"hide":   {c.hide},
		"page":   {strconv.Itoa(c.page)},
	})
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitUsageError
	}

	logger, err := newLogger("")
	if err != nil {
		fail("Error creating logger: %v", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	conf, p, err := openPortfolio(ctx, c.overrides, logger)
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}
	defer p.Close()

	snap, err := p.Service.Refresh(ctx)
	if err != nil {
		fail("Error refreshing portfolio: %v", err)
		return subcommands.ExitFailure
	}

	t := grid.New(snap.Rows)
	t.SetPageSize(conf.PageSize)
	q.Apply(t)

	printMarkdown(grid.Markdown(t), c.raw)
	return subcommands.ExitSuccess
}

func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
