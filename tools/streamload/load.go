package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const statusInterval = 5 * time.Second

type loadOptions struct {
	URL   string
	Conns int
	Ramp  time.Duration
}

type counters struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	snapshots   atomic.Int64
	start       time.Time
}

func (c *counters) fields() []zap.Field {
	return []zap.Field{
		zap.Int64("connected", c.connected.Load()),
		zap.Int64("connect_errs", c.connectErrs.Load()),
		zap.Int64("stream_errs", c.streamErrs.Load()),
		zap.Int64("snapshots", c.snapshots.Load()),
		zap.Duration("elapsed", time.Since(c.start).Truncate(time.Second)),
	}
}

// Result totals of one load run.
type Result struct {
	Connected   int64
	ConnectErrs int64
	StreamErrs  int64
	Snapshots   int64
	Elapsed     time.Duration
}

func (r Result) String() string {
	elapsed := r.Elapsed
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	return fmt.Sprintf("done: connected=%d connect_errs=%d stream_errs=%d snapshots=%d elapsed=%s snapshots/s=%.2f",
		r.Connected, r.ConnectErrs, r.StreamErrs, r.Snapshots, r.Elapsed.Truncate(time.Millisecond),
		float64(r.Snapshots)/elapsed.Seconds())
}

type subscriber func(ctx context.Context, c *counters)

// run keeps opts.Conns subscribers open until ctx is done.
func run(ctx context.Context, opts loadOptions, report func(*counters)) (Result, error) {
	sub, err := newSubscriber(opts)
	if err != nil {
		return Result{}, err
	}

	c := &counters{start: time.Now()}
	var wg sync.WaitGroup

	if report != nil {
		go func() {
			ticker := time.NewTicker(statusInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					report(c)
				}
			}
		}()
	}

	var gap time.Duration
	if opts.Ramp > 0 {
		gap = opts.Ramp / time.Duration(opts.Conns)
	}
	for i := 0; i < opts.Conns && ctx.Err() == nil; i++ {
		if i > 0 && gap > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(gap):
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub(ctx, c)
		}()
	}
	wg.Wait()

	return Result{
		Connected:   c.connected.Load(),
		ConnectErrs: c.connectErrs.Load(),
		StreamErrs:  c.streamErrs.Load(),
		Snapshots:   c.snapshots.Load(),
		Elapsed:     time.Since(c.start),
	}, nil
}

func newSubscriber(opts loadOptions) (subscriber, error) {
	switch {
	case strings.HasPrefix(opts.URL, "ws://"), strings.HasPrefix(opts.URL, "wss://"):
		return wsSubscriber(opts.URL), nil
	case strings.HasPrefix(opts.URL, "http://"), strings.HasPrefix(opts.URL, "https://"):
		return sseSubscriber(opts.URL, opts.Conns), nil
	default:
		return nil, errors.Errorf("unsupported url %q", opts.URL)
	}
}

func sseSubscriber(url string, conns int) subscriber {
	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     conns + 100,
			MaxIdleConns:        conns + 100,
			MaxIdleConnsPerHost: conns + 100,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	return func(ctx context.Context, c *counters) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			c.connectErrs.Add(1)
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := client.Do(req)
		if err != nil {
			c.connectErrs.Add(1)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			c.connectErrs.Add(1)
			return
		}

		c.connected.Add(1)
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if ctx.Err() == nil {
					c.streamErrs.Add(1)
				}
				return
			}
			if isSnapshotLine(line) {
				c.snapshots.Add(1)
			}
		}
	}
}

// isSnapshotLine reports whether an sse line carries a snapshot payload.
// Heartbeat comments and event names are not counted.
func isSnapshotLine(line string) bool {
	return strings.HasPrefix(line, "data:")
}

func wsSubscriber(url string) subscriber {
	dialer := &websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	return func(ctx context.Context, c *counters) {
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			c.connectErrs.Add(1)
			return
		}
		defer conn.Close()
		c.connected.Add(1)

		go func() {
			<-ctx.Done()
			_ = conn.Close()
		}()

		for {
			kind, _, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					c.streamErrs.Add(1)
				}
				return
			}
			if kind == websocket.TextMessage {
				c.snapshots.Add(1)
			}
		}
	}
}
