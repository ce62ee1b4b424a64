// Package server exposes compile and render over HTTP for editor front-ends.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/organum-go/organum"
	"github.com/organum-go/organum/internal/config"
	"github.com/organum-go/organum/internal/synth"
)

const maxSourceBytes = 1 << 20

type Server struct {
	cfg    config.Config
	router *mux.Router
}

func New(cfg config.Config) *Server {
	if limit := cfg.Server.MaxRenderSeconds; limit > 0 && (cfg.Synth.MaxSeconds == 0 || cfg.Synth.MaxSeconds > limit) {
		cfg.Synth.MaxSeconds = limit
	}
	s := &Server{cfg: cfg, router: mux.NewRouter().StrictSlash(true)}
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/compile", s.handleCompile).Methods(http.MethodPost)
	s.router.HandleFunc("/render", s.handleRender).Methods(http.MethodPost)
	s.router.HandleFunc("/midi", s.handleMIDI).Methods(http.MethodPost)
	s.router.Use(requestID)
	return s
}

// Handler returns the router wrapped in the configured CORS policy.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type ctxKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id, _ := r.Context().Value(ctxKey{}).(string)
	log.Printf("[%s] %s %s: %v", id, r.Method, r.URL.Path, err)
	http.Error(w, err.Error(), status)
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request) (*organum.Score, bool) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err != nil {
		fail(w, r, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	score, err := organum.CompileString(string(src))
	if err != nil {
		fail(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	return score, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	score, ok := s.compile(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(score); err != nil {
		id, _ := r.Context().Value(ctxKey{}).(string)
		log.Printf("[%s] encode score: %v", id, err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	score, ok := s.compile(w, r)
	if !ok {
		return
	}
	mixed, err := organum.Render(score, organum.WithConfig(s.cfg))
	if err != nil {
		status := http.StatusInternalServerError
		var evErr *synth.EventError
		if errors.Is(err, organum.ErrNoVoices) || errors.As(err, &evErr) {
			status = http.StatusUnprocessableEntity
		}
		fail(w, r, status, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Write(organum.EncodeWAVFloat32LE(mixed, s.cfg.SampleRate, 1))
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	score, ok := s.compile(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := organum.WriteMIDI(&buf, score); err != nil {
		fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(buf.Bytes())
}
