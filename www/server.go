package www

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/sensor"
	"github.com/rnovacek/czspot-go/spot"
)

//go:embed static
var embeddedStaticDir embed.FS

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	db     *database.Database
	holder *spot.Holder
	hub    *Hub
	mux    *http.ServeMux

	// Latest published sensor states, served by /api/sensors and pushed
	// to new websocket clients.
	states atomic.Pointer[[]sensor.State]
}

func NewServer(db *database.Database, holder *spot.Holder, config config.AppConfigApi) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		config: config,
		db:     db,
		holder: holder,
		hub:    NewHub(logger),
		mux:    http.NewServeMux(),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	s.mux.Handle("/", staticFilesHandler())
	s.mux.Handle("/api/prices", logReqMW(NewPricesHandler(
		logger.With(slog.String("handler", "prices")), holder)))
	s.mux.Handle("/api/sensors", logReqMW(NewSensorsHandler(
		logger.With(slog.String("handler", "sensors")), s.latestStates)))
	s.mux.Handle("/api/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")), db)))

	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// Publish stores the latest sensor states and pushes them to every
// connected websocket client. Wired as the task publish callback.
func (s *Server) Publish(snap *spot.Snapshot, states []sensor.State) {
	s.states.Store(&states)

	payload, err := json.Marshal(sensorsPayload(snap.BuiltAt, states))
	if err != nil {
		s.logger.Error("encoding websocket payload failed", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- payload
}

func (s *Server) latestStates() []sensor.State {
	if p := s.states.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler: s.mux,
	}

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil && err != http.ErrServerClosed {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}

func staticFilesHandler() http.Handler {
	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
