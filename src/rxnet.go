package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Receive frames over TCP.
 *
 * Description:	Wait for connections from emitters.  Each connection gets
 *		its own goroutine and sends one or more three line
 *		envelopes; the emitter normally sends one then hangs up.
 *		A bad frame is reported and the connection carries on.
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

/*-------------------------------------------------------------------
 *
 * Name:	serveTCP
 *
 * Purpose:	Accept connections until ctx is cancelled.
 *
 * Returns:	nil after a clean shutdown, otherwise the accept error.
 *		Waits for open connections to finish before returning.
 *
 *--------------------------------------------------------------------*/

// Pause after a failed Accept, doubling up to a second while it keeps failing.
const (
	ACCEPT_RETRY_MIN = 5 * time.Millisecond
	ACCEPT_RETRY_MAX = time.Second
)

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return ACCEPT_RETRY_MIN
	}

	return min(2*d, ACCEPT_RETRY_MAX)
}

func serveTCP(ctx context.Context, ln net.Listener, rx *Receiver, logger *log.Logger) error {
	var stop = context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	logger.Info("ready to accept emitters", "addr", ln.Addr().String())

	var delay time.Duration

	for {
		var conn, err = ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay = nextAcceptDelay(delay)
			logger.Error("accept failed", "err", err, "retry", delay)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}

			continue
		}

		delay = 0

		wg.Add(1)

		go func() {
			defer wg.Done()
			handleTCPConn(ctx, conn, rx, logger)
		}()
	}
}

func handleTCPConn(ctx context.Context, conn net.Conn, rx *Receiver, logger *log.Logger) {
	var peer = conn.RemoteAddr().String()

	var stop = context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	defer conn.Close()

	logger.Debug("attached", "peer", peer)

	var r = bufio.NewReader(conn)

	for {
		var msg, err = ReadLinkMessage(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.Warn("connection dropped", "peer", peer, "err", err)
			}

			return
		}

		rx.Report(peer, msg)
	}
}
