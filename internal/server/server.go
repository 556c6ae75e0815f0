// Package server exposes the mission queue over HTTP: submit goals, list
// task records, and stream lifecycle events over a WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/pravjet2007-code/devrunauto/internal/logger"
	"github.com/pravjet2007-code/devrunauto/internal/supervisor"
)

type TaskRecord struct {
	ID        string         `json:"id"`
	Goal      string         `json:"goal"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Result    map[string]any `json:"result,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Event is one WebSocket frame: a task was submitted or finished.
type Event struct {
	Type string      `json:"type"`
	Task *TaskRecord `json:"task"`
}

type Server struct {
	mu      sync.Mutex
	tasks   []*TaskRecord // newest first
	clients map[*websocket.Conn]bool

	submit   func(goal string) string
	results  <-chan supervisor.MissionResult
	upgrader websocket.Upgrader
}

func New() *Server {
	return &Server{
		clients: make(map[*websocket.Conn]bool),
		submit:  supervisor.Submit,
		results: supervisor.ResultChannel,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /tasks", s.handleSubmitTask)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run serves until ctx is cancelled, pumping mission results into task
// records and out to WebSocket clients the whole time.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.pumpResults(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Log.Printf("[Server] Listening on %s", addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "devrunauto server running"})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*TaskRecord, len(s.tasks))
	copy(out, s.tasks)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal string `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	req.Goal = strings.TrimSpace(req.Goal)
	if req.Goal == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goal is required"})
		return
	}

	id := s.submit(req.Goal)
	record := &TaskRecord{
		ID:        id,
		Goal:      req.Goal,
		Status:    "running",
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.tasks = append([]*TaskRecord{record}, s.tasks...)
	s.mu.Unlock()

	s.broadcast(Event{Type: "task_submitted", Task: record})
	writeJSON(w, http.StatusAccepted, record)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Reads are discarded; the socket exists to push events out. The read
	// loop only detects the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) pumpResults(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-s.results:
			s.completeTask(res)
		}
	}
}

func (s *Server) completeTask(res supervisor.MissionResult) {
	s.mu.Lock()
	var record *TaskRecord
	for _, t := range s.tasks {
		if t.ID == res.MissionID {
			record = t
			break
		}
	}
	if record != nil {
		record.Status = string(res.Outcome.Status)
		record.Result = res.Outcome.Result
		record.Reason = res.Outcome.Reason
	}
	s.mu.Unlock()

	if record != nil {
		s.broadcast(Event{Type: "task_finished", Task: record})
	}
}

func (s *Server) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.dropClient(c)
		}
	}
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
