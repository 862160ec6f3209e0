// Package web serves the portfolio table over HTTP, SSE and websockets.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/internal/grid"
)

const (
	heartbeatInterval = 30 * time.Second
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = 54 * time.Second
)

type snapshotFeed interface {
	Latest() (domain.Snapshot, bool)
	Subscribe() chan domain.Snapshot
	Unsubscribe(ch chan domain.Snapshot)
}

// Server exposes HTTP endpoints serving the HTML UI, the row model and live streams.
type Server struct {
	Addr     string
	Feed     snapshotFeed
	PageSize int

	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new web server instance.
func NewServer(addr string, feed snapshotFeed, pageSize int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Addr:     addr,
		Feed:     feed,
		PageSize: pageSize,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/rows", s.handleRows)
	mux.HandleFunc("/rows/stream", s.handleRowsStream)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting web server", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

type columnView struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Sort     string `json:"sort,omitempty"`
	Sortable bool   `json:"sortable"`
	Hideable bool   `json:"hideable"`
	Visible  bool   `json:"visible"`
}

type actionView struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type rowsResponse struct {
	Snapshot string              `json:"snapshot,omitempty"`
	Time     *time.Time          `json:"ts,omitempty"`
	Columns  []columnView        `json:"columns"`
	Rows     []map[string]string `json:"rows"`
	Total    int                 `json:"total"`
	Summary  string              `json:"summary"`
	Empty    string              `json:"empty,omitempty"`
	Page     int                 `json:"page"`
	Pages    int                 `json:"pages"`
	Actions  []actionView        `json:"actions"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := grid.New(nil)
	if s.PageSize > 0 {
		t.SetPageSize(s.PageSize)
	}
	var resp rowsResponse
	if s.Feed != nil {
		if snap, ok := s.Feed.Latest(); ok {
			t.SetRows(snap.Rows)
			resp.Snapshot = snap.ID
			resp.Time = &snap.Time
		}
	}
	q.Apply(t)

	visible := t.VisibleColumns()
	for _, c := range grid.Columns {
		resp.Columns = append(resp.Columns, columnView{
			ID:       c.ID,
			Label:    c.Label,
			Sort:     sortName(t.Sorting.Direction(c.ID)),
			Sortable: c.Sortable,
			Hideable: c.Hideable,
			Visible:  t.IsVisible(c.ID),
		})
	}

	resp.Rows = make([]map[string]string, 0)
	for _, row := range t.RowModel() {
		cells := make(map[string]string, len(visible)+1)
		cells["id"] = fmt.Sprint(row.ID)
		for _, c := range visible {
			cells[c.ID] = row.Cell(c.ID)
		}
		resp.Rows = append(resp.Rows, cells)
	}
	if len(resp.Rows) == 0 {
		resp.Empty = grid.NoResults
	}

	resp.Total = t.FilteredCount()
	resp.Summary = t.Summary()
	resp.Page = t.Pagination.PageIndex
	resp.Pages = t.PageCount()
	for _, a := range grid.Actions {
		resp.Actions = append(resp.Actions, actionView{Label: a.Label, URL: a.URL})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to write rows", zap.Error(err))
	}
}

func sortName(d grid.SortDirection) string {
	if d == grid.SortNone {
		return ""
	}
	return d.String()
}

func (s *Server) handleRowsStream(w http.ResponseWriter, r *http.Request) {
	if s.Feed == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "snapshot feed not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates := s.Feed.Subscribe()
	defer s.Feed.Unsubscribe(updates)

	// send a comment heartbeat so proxies keep connection
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case snap, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				s.logger.Error("failed to encode snapshot", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: rows\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.Feed == nil {
		http.Error(w, "snapshot feed not available", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates := s.Feed.Subscribe()
	defer s.Feed.Unsubscribe(updates)

	// the read loop only handles control frames and notices a closed peer
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case snap, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				s.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
