// Command streamload opens many concurrent subscribers against a running
// eggregator server and reports how many snapshots they receive.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	var opts loadOptions
	flag.StringVar(&opts.URL, "url", "http://localhost:8080/rows/stream", "stream endpoint, http(s) for sse or ws(s) for websocket")
	flag.IntVar(&opts.Conns, "conns", 500, "number of concurrent subscribers")
	flag.DurationVar(&opts.Ramp, "ramp", 0, "spread subscriber starts across this window")
	dur := flag.Duration("dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if opts.Conns <= 0 {
		logger.Fatal("invalid conns", zap.Int("conns", opts.Conns))
	}
	if opts.Ramp == 0 && opts.Conns > 100 {
		// 1 second per 500 subscribers
		opts.Ramp = max(time.Duration(opts.Conns/500)*time.Second, time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *dur > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, *dur)
		defer stop()
	}

	logger.Info("starting stream load",
		zap.String("url", opts.URL),
		zap.Int("conns", opts.Conns),
		zap.Duration("ramp", opts.Ramp),
		zap.Duration("duration", *dur),
	)

	stats, err := run(ctx, opts, func(s *counters) {
		logger.Info("status", s.fields()...)
	})
	if err != nil {
		logger.Fatal("load failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, stats.String())
}
