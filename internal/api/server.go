// Package api exposes the lights over HTTP. Effects and scenes are started as background tasks and every
// request returns immediately; websocket clients on /ws are told when tasks start and finish.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/callebjorkell/tardis-lights/internal/app"
	"github.com/callebjorkell/tardis-lights/internal/scheduler"
	"github.com/callebjorkell/tardis-lights/internal/tasks"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	core       *app.Core
	hub        *Hub
	schedules  func() []scheduler.Entry
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func NewServer(core *app.Core, addr string) *Server {
	s := &Server{
		core: core,
		hub:  NewHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	core.Runner.OnEvent(func(e tasks.Event) {
		s.hub.Broadcast(NewMessage("task_"+string(e.State), e))
	})

	return s
}

// SetSchedules makes the schedules listed by fn available on /api/schedules.
func (s *Server) SetSchedules(fn func() []scheduler.Entry) {
	s.schedules = fn
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("GET /api/led/sections", s.getSections)
	mux.HandleFunc("GET /api/config/sections", s.getSectionsConfig)
	mux.HandleFunc("POST /api/config/sections", s.saveSectionsConfig)

	mux.HandleFunc("POST /api/led/on", s.turnOn)
	mux.HandleFunc("POST /api/led/off", s.turnOff)
	mux.HandleFunc("POST /api/led/color", s.setColor)
	mux.HandleFunc("POST /api/led/pulse", s.pulse)
	mux.HandleFunc("POST /api/led/rainbow", s.rainbow)
	mux.HandleFunc("POST /api/led/fade", s.fade)
	mux.HandleFunc("POST /api/led/breath", s.breath)
	mux.HandleFunc("POST /api/led/cylon", s.cylon)
	mux.HandleFunc("POST /api/led/wipe", s.wipe)
	mux.HandleFunc("POST /api/led/chase", s.chase)
	mux.HandleFunc("POST /api/led/sparkle", s.sparkle)
	mux.HandleFunc("POST /api/led/flicker", s.flicker)
	mux.HandleFunc("POST /api/led/strobe", s.strobe)
	mux.HandleFunc("POST /api/led/preview", s.preview)

	mux.HandleFunc("GET /api/scenes", s.getScenes)
	mux.HandleFunc("POST /api/scenes/{name}/play", s.playScene)
	mux.HandleFunc("GET /api/tasks", s.getTasks)
	mux.HandleFunc("GET /api/schedules", s.getSchedules)

	return allowAllOrigins(mux)
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.hub.Run(ctx)

	log.Infof("Listening on %v", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Debug("Shutting down http server...")
	return s.httpServer.Shutdown(ctx)
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("Unable to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode reads the JSON body into req, which holds the defaults. An empty body keeps them all.
func decode(w http.ResponseWriter, r *http.Request, req any) bool {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "TARDIS Lights API"})
}

func (s *Server) getTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.core.Runner.Running())
}

func (s *Server) getSchedules(w http.ResponseWriter, _ *http.Request) {
	entries := []scheduler.Entry{}
	if s.schedules != nil {
		entries = s.schedules()
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("WebSocket upgrade error: %v", err)
		return
	}

	if err := conn.WriteJSON(NewMessage("tasks", s.core.Runner.Running())); err != nil {
		conn.Close()
		return
	}

	if !s.hub.Register(conn) {
		conn.Close()
		return
	}
	defer s.hub.Unregister(conn)

	// clients only listen, reading is needed to notice them leaving
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
