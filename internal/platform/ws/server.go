// Package ws serves Threes sessions over WebSocket. Each connection plays
// one session, optionally bound to a stored cart.
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-threes/internal/games/threes"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

// Config holds the WebSocket server settings.
type Config struct {
	Address string
	Policy  threes.SavePolicy
	Seed    int64 // 0 seeds each session from the clock
}

// Server hands out one session per WebSocket connection.
type Server struct {
	config   Config
	store    *storage.Store
	logger   *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server
}

// NewServer creates a server. A nil store serves sessions that are never saved.
func NewServer(cfg Config, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		config: cfg,
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: /play upgrades to a game session,
// /healthz reports liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/play", s.handlePlay)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// handlePlay upgrades the request and runs a session until the peer leaves.
// The optional cart query parameter names the stored cart to resume.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	cart := r.URL.Query().Get("cart")

	release := func() {}
	if cart != "" && s.store != nil {
		var ok bool
		release, ok = s.store.Claim(cart)
		if !ok {
			http.Error(w, "cart is already being played", http.StatusConflict)
			return
		}
	}
	defer release()

	client, err := s.newClient(cart)
	if err != nil {
		s.logger.Error("cannot start session", "cart", cart, "error", err)
		http.Error(w, "cannot load cart", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client.conn = conn

	s.logger.Info("session started", "cart", cart, "remote", r.RemoteAddr)
	go client.writePump()
	client.readPump()

	if err := client.session.Persist(); err != nil {
		s.logger.Error("save failed", "cart", cart, "error", err)
	}
	s.logger.Info("session ended", "cart", cart, "remote", r.RemoteAddr, "score", client.session.Score())
}

// newClient builds a session, booted from the cart when one is named.
func (s *Server) newClient(cart string) (*Client, error) {
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []threes.Option{threes.WithSavePolicy(s.config.Policy)}
	var mem threes.Memory
	var c *storage.Cart
	if cart != "" && s.store != nil {
		c = s.store.Cart(cart)
		loaded, err := c.Load()
		if err != nil {
			return nil, err
		}
		mem = loaded
		if n := mem.Corrupt(); n > 0 {
			s.logger.Warn("skipped corrupt memory slots", "cart", cart, "slots", n)
		}
		opts = append(opts, threes.WithPersister(c))
	}

	session := threes.NewSession(rand.New(rand.NewSource(seed)), opts...)
	if err := session.Boot(mem); err != nil {
		return nil, err
	}

	return &Client{
		server:  s,
		cart:    c,
		session: session,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Active returns the number of carts being played on the server's store,
// whichever front end holds them.
func (s *Server) Active() int {
	if s.store == nil {
		return 0
	}
	return s.store.Claimed()
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting websocket server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down websocket server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
