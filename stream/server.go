package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Handler returns the HTTP routes: /ws upgrades to a frame stream and
// /healthz reports liveness.
func Handler(hub *Hub) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("stream: upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		client := newClient(hub, conn, extractIP(r))
		if !hub.add(client) {
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok %d\n", hub.ClientCount())
	})

	return mux
}

// Serve runs the hub and an HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, hub *Hub) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stream: listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           Handler(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("stream: listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("stream: serve: %w", err)
	}
	return nil
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
