package linklab

// Receive frames over WebSocket.  Each text message is one envelope.

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const WEBSOCKET_PATH = "/link"

func websocketHandler(ctx context.Context, rx *Receiver, logger *log.Logger) http.Handler {
	var upgrader = websocket.Upgrader{ //nolint:exhaustruct
		CheckOrigin: func(*http.Request) bool { return true },
	}

	var mux = http.NewServeMux()
	mux.HandleFunc(WEBSOCKET_PATH, func(w http.ResponseWriter, r *http.Request) {
		var conn, err = upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "peer", r.RemoteAddr, "err", err)
			return
		}
		defer conn.Close()

		var stop = context.AfterFunc(ctx, func() {
			conn.Close()
		})
		defer stop()

		var peer = "ws:" + r.RemoteAddr

		for {
			var kind, data, readErr = conn.ReadMessage()
			if readErr != nil {
				if !websocket.IsCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
					logger.Warn("websocket dropped", "peer", peer, "err", readErr)
				}

				return
			}

			if kind != websocket.TextMessage {
				logger.Warn("ignoring non-text websocket message", "peer", peer)
				continue
			}

			var msg, parseErr = ParseLinkMessage(string(data))
			if parseErr != nil {
				logger.Warn("bad envelope", "peer", peer, "err", parseErr)
				continue
			}

			rx.Report(peer, msg)
		}
	})

	return mux
}

// serveWebSocket runs the HTTP server on ln until ctx is cancelled.
func serveWebSocket(ctx context.Context, ln net.Listener, rx *Receiver, logger *log.Logger) error {
	var srv = &http.Server{ //nolint:exhaustruct
		Handler:           websocketHandler(ctx, rx, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var stop = context.AfterFunc(ctx, func() {
		var shutdownCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	logger.Info("ready to accept websocket emitters", "addr", ln.Addr().String(), "path", WEBSOCKET_PATH)

	var err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
