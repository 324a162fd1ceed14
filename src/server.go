package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Run every configured receiver transport together.
 *
 * Description:	TCP, WebSocket and serial each get a goroutine in one
 *		errgroup.  If one fails the rest are shut down and the
 *		first error comes back.  Cancelling ctx is a clean stop.
 *
 *		Listeners are all opened before anything starts so a
 *		port already in use fails straight away.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"net"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

func Serve(ctx context.Context, cfg *ReceiverConfig, rx *Receiver, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var tcpLn, wsLn net.Listener

	if cfg.Listen != "" {
		var err error

		tcpLn, err = net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Listen, err)
		}
	}

	if cfg.WebSocket != "" {
		var err error

		wsLn, err = net.Listen("tcp", cfg.WebSocket)
		if err != nil {
			if tcpLn != nil {
				tcpLn.Close()
			}

			return fmt.Errorf("listen %s: %w", cfg.WebSocket, err)
		}
	}

	var g, gctx = errgroup.WithContext(ctx)

	if tcpLn != nil {
		g.Go(func() error {
			return serveTCP(gctx, tcpLn, rx, logger.With("transport", "tcp"))
		})

		if cfg.DNSSD {
			var port = tcpLn.Addr().(*net.TCPAddr).Port

			g.Go(func() error {
				// Not being discoverable is no reason to stop receiving.
				if err := dnsSDAnnounce(gctx, cfg.DNSSDName, port, logger); err != nil {
					logger.Error("DNS-SD", "err", err)
				}

				return nil
			})
		}
	}

	if wsLn != nil {
		g.Go(func() error {
			return serveWebSocket(gctx, wsLn, rx, logger.With("transport", "websocket"))
		})
	}

	if cfg.Serial != "" {
		g.Go(func() error {
			return serveSerial(gctx, cfg.Serial, cfg.SerialSpeed, rx, logger.With("transport", "serial"))
		})
	}

	return g.Wait()
}
