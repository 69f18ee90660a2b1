// Package transport serves a vscreen.Screen over HTTP.
//
// Frames and labels are fetched on demand from /api/screen and /api/labels,
// or pushed on change through /api/events (server-sent events) and /ws
// (WebSocket). Keystrokes arrive on /api/input and /ws and are written to
// the configured input, typically a pty.
package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/danielgatis/go-vscreen"
)

const (
	// DefaultChunkSize is the serializer buffer used per chunk.
	DefaultChunkSize = 512

	// DefaultRetries bounds how often a frame is restarted because the
	// screen changed mid-pass.
	DefaultRetries = 3

	labelsBufSize = 256
)

// ErrScreenBusy is returned when every serialization attempt was restarted.
var ErrScreenBusy = errors.New("transport: screen changed during every serialization attempt")

type Server struct {
	addr       string
	screen     *vscreen.Screen
	events     *vscreen.Broadcaster
	input      io.Writer
	logger     log.FieldLogger
	chunkSize  int
	retries    int
	router     *mux.Router
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithInput sets where keystrokes from clients are written.
func WithInput(w io.Writer) Option {
	return func(s *Server) {
		s.input = w
	}
}

// WithLogger sets the logger.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChunkSize sets the serializer buffer size. Values below
// vscreen.MinChunkSize are raised to it.
func WithChunkSize(n int) Option {
	return func(s *Server) {
		if n < vscreen.MinChunkSize {
			n = vscreen.MinChunkSize
		}
		s.chunkSize = n
	}
}

// WithRetries sets how many restarted passes are tolerated per frame.
func WithRetries(n int) Option {
	return func(s *Server) {
		if n < 1 {
			n = 1
		}
		s.retries = n
	}
}

// New creates a server for screen. events must be the notifier the screen
// was created with; push endpoints subscribe to it.
func New(addr string, screen *vscreen.Screen, events *vscreen.Broadcaster, opts ...Option) *Server {
	s := &Server{
		addr:      addr,
		screen:    screen,
		events:    events,
		logger:    log.StandardLogger(),
		chunkSize: DefaultChunkSize,
		retries:   DefaultRetries,
		router:    mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	// a method mismatch inside the subrouter otherwise falls through to 404
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.HandleFunc("/screen", s.handleScreen).Methods("GET")
	api.HandleFunc("/labels", s.handleLabels).Methods("GET")
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods("GET")
	api.HandleFunc("/screenshot.png", s.handleScreenshot).Methods("GET")
	api.HandleFunc("/events", s.handleEvents).Methods("GET")
	api.HandleFunc("/input", s.handleInput).Methods("POST")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/config", s.handleSetConfig).Methods("POST")
	api.HandleFunc("/settings/apply", s.handleApply).Methods("POST")
	api.HandleFunc("/settings/reload", s.handleReload).Methods("POST")
	api.HandleFunc("/settings/defaults", s.handleDefaults).Methods("POST")

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Infof("Starting web server on %s", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Frame serializes the whole screen in chunks, starting over when the
// screen changes between chunks.
func (s *Server) Frame() ([]byte, error) {
	buf := make([]byte, s.chunkSize)
	var out []byte

	for attempt := 0; attempt < s.retries; attempt++ {
		var cur vscreen.SerializeCursor
		out = out[:0]

	pass:
		for {
			n, status := s.screen.SerializeToBuffer(buf, &cur)
			switch status {
			case vscreen.SerializeRestart:
				s.logger.Debugf("frame restarted after %d bytes", len(out))
				break pass
			case vscreen.SerializeDone:
				return append(out, buf[:n]...), nil
			default:
				out = append(out, buf[:n]...)
			}
		}
	}

	return nil, ErrScreenBusy
}

// Labels serializes the title and button labels.
func (s *Server) Labels() []byte {
	buf := make([]byte, labelsBufSize)
	n := s.screen.SerializeLabelsToBuffer(buf)
	return buf[:n]
}

// encode returns the payload pushed for topic.
func (s *Server) encode(topic vscreen.Topic) ([]byte, error) {
	if topic == vscreen.ChangeLabels {
		return s.Labels(), nil
	}
	return s.Frame()
}
