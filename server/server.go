package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/mgkim990427/wikimediator/pkg/logger"
)

// Mediator is the service surface the server dispatches requests to.
type Mediator interface {
	SimpleSearch(ctx context.Context, query string, limit int) ([]string, error)
	GetPage(ctx context.Context, title string) (string, error)
	Zeitgeist(limit int) []string
	Trending(limit int) []string
	PeakLoad30s() int
}

type config struct {
	addr            string
	maxClients      int64
	shutdownTimeout time.Duration
	maxRequestBytes int
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		addr:            ":9595",
		maxClients:      32,
		shutdownTimeout: 5 * time.Second,
		maxRequestBytes: 1 << 20,
	}
}

// Server accepts TCP connections and serves the line-JSON protocol with
// graceful shutdown and logging.
type Server struct {
	cfg  *config
	ln   net.Listener
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:   cfg,
		sem:   semaphore.NewWeighted(cfg.maxClients),
		conns: make(map[net.Conn]struct{}),
	}
}

// Run starts listening and blocks until the context is cancelled, an
// interrupt/TERM signal arrives, or the listener fails. It returns ErrStart
// wrapped with the underlying error if the server fails to start.
func (s *Server) Run(ctx context.Context, m Mediator) error {
	if m == nil {
		return errors.Join(ErrStart, errors.New("nil mediator"))
	}

	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	ln, err := net.Listen("tcp", s.cfg.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.ln = ln
	s.mu.Unlock()

	for _, h := range s.cfg.startHooks {
		h(s.cfg.logger)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.acceptLoop(loopCtx, m) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case <-stop:
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
		_ = s.Shutdown(context.Background())
	}

	if runErr != nil && !errors.Is(runErr, net.ErrClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// Shutdown stops accepting connections and waits for live ones to drain,
// up to the configured shutdown timeout; connections still open after the
// deadline are closed. It is safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		ln := s.ln
		s.mu.Unlock()

		if ln != nil {
			_ = ln.Close()
		}

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		select {
		case <-done:
		case <-ctx.Done():
			s.closeConns()
			<-done
			err = errors.Join(ErrShutdown, ctx.Err())
		}

		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}
	})
	return err
}

func (s *Server) acceptLoop(ctx context.Context, m Mediator) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}

		if err := s.sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			return nil
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sem.Release(1)
			defer s.untrack(conn)
			defer conn.Close()
			s.serveConn(ctx, conn, m)
		}()
	}
}

// serveConn reads request lines until the client disconnects or the
// server shuts down. Protocol-level failures are answered on the wire,
// never by dropping the connection.
func (s *Server) serveConn(ctx context.Context, conn net.Conn, m Mediator) {
	log := s.cfg.logger.With(slog.String("remote", conn.RemoteAddr().String()))
	log.DebugContext(ctx, "client connected")

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), s.cfg.maxRequestBytes)

	enc := json.NewEncoder(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			log.WarnContext(ctx, "malformed request", logger.Error(err))
			if err := enc.Encode(failed("", "malformed request")); err != nil {
				return
			}
			continue
		}

		resp := s.handle(ctx, m, req, log)
		if err := enc.Encode(resp); err != nil {
			log.WarnContext(ctx, "write response", logger.Error(err))
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.WarnContext(ctx, "read request", logger.Error(err))
	}
	log.DebugContext(ctx, "client disconnected")
}

// handle dispatches one request, honoring its optional per-request
// timeout. The request's deadline bounds only the remote lookup; the
// cache itself never blocks on I/O.
func (s *Server) handle(ctx context.Context, m Mediator, req Request, log *slog.Logger) Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log.DebugContext(ctx, "request", logger.RequestID(req.ID), slog.String("type", req.Type))

	if secs, err := strconv.Atoi(req.Timeout); err == nil && secs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}

	var (
		payload any
		err     error
	)
	switch req.Type {
	case TypeSimpleSearch:
		payload, err = m.SimpleSearch(ctx, req.Query, req.Limit)
	case TypeGetPage:
		payload, err = m.GetPage(ctx, req.PageTitle)
	case TypeZeitgeist:
		payload = m.Zeitgeist(req.Limit)
	case TypeTrending:
		payload = m.Trending(req.Limit)
	case TypePeakLoad30s:
		payload = m.PeakLoad30s()
	default:
		return failed(req.ID, "unknown request type: "+req.Type)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return failed(req.ID, timedOutMessage)
		}
		log.WarnContext(ctx, "request failed", logger.RequestID(req.ID), logger.Error(err))
		return failed(req.ID, err.Error())
	}
	return success(req.ID, payload)
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
}
