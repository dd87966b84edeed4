package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const shutdownTimeout = 2 * time.Second

type ServerConfig struct {
	Address    string
	RPCPath    string
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

// Server carries calls to a Dispatcher over websocket frames and single
// HTTP requests.
type Server struct {
	address  string
	rpcPath  string
	dispatch *Dispatcher
	log      *slog.Logger
	upgrader websocket.Upgrader
	server   *http.Server
}

func NewServer(config ServerConfig) *Server {
	s := &Server{
		address:  config.Address,
		rpcPath:  config.RPCPath,
		dispatch: config.Dispatcher,
		log:      config.Logger,
	}
	if s.rpcPath == "" {
		s.rpcPath = "/ws"
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	// The visualizer is served from arbitrary local pages.
	s.upgrader.CheckOrigin = func(*http.Request) bool { return true }

	s.server = &http.Server{
		Addr:    s.address,
		Handler: s.setupRoutes(),
	}
	return s
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully. It
// returns early if the listener cannot be opened.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting rpc server", "addr", s.address, "path", s.rpcPath)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Info("shutting down rpc server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("rpc server shutdown", "err", err)
		if err := s.server.Close(); err != nil {
			s.log.Warn("rpc server force close", "err", err)
		}
	}
	s.log.Info("rpc server stopped")
	return nil
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/rpc", s.handleCall)
	mux.HandleFunc(s.rpcPath, s.handleSocket)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: &ErrorBody{Code: code, Message: msg}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleCall serves one request envelope per POST body. Method failures are
// reported inside the envelope with status 200.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, CodeInvalidArgument, "method not allowed")
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, CodeInvalidArgument, "malformed request: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.dispatch.Call(req)); err != nil {
		s.log.Warn("write rpc response", "err", err)
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()
	s.log.Debug("client connected", "remote", r.RemoteAddr)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read", "err", err)
			}
			return
		}

		var resp Response
		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			resp.Error = &ErrorBody{Code: CodeInvalidArgument, Message: "malformed request: " + err.Error()}
		} else {
			resp = s.dispatch.Call(req)
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Debug("websocket write", "err", err)
			return
		}
	}
}
