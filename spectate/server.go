package spectate

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

//go:embed index.html
var indexHTML []byte

const writeWait = 5 * time.Second

// Handler serves the viewer page on / and the frame stream on /ws.
func Handler(hub *Hub, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("viewer upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer conn.Close()

		logger.Info("viewer connected", "remote", conn.RemoteAddr().String())
		defer logger.Info("viewer disconnected", "remote", conn.RemoteAddr().String())

		frames, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		// Viewers never send anything useful; reading detects the close.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(f); err != nil {
					if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, io.EOF) {
						logger.Debug("viewer write failed", "remote", conn.RemoteAddr().String(), "err", err)
					}
					return
				}
			}
		}
	})
	return mux
}

// Serve runs the spectator endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, hub *Hub, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(hub, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
