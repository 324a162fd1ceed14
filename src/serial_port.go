package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Receive frames from a serial port.
 *
 * Description:	For emitters wired up with a USB serial adapter or a
 *		Bluetooth rfcomm device instead of a network.  Envelopes
 *		arrive back to back in the same text format as TCP.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
)

/*-------------------------------------------------------------------
 *
 * Name:	serialPortOpen
 *
 * Purpose:	Open serial port in raw mode.
 *
 * Inputs:	devicename	- Usually /dev/tty...
 *				  Could be /dev/rfcomm0 for Bluetooth.
 *
 *		baud		- Speed.  1200, 4800, 9600 bps, etc.
 *				  If 0, leave it alone.
 *
 *---------------------------------------------------------------*/

func serialPortOpen(devicename string, baud int) (*term.Term, error) {
	var fd, err = term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", devicename, err)
	}

	switch baud {
	case 0: /* Leave it alone. */
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := fd.SetSpeed(baud); err != nil {
			fd.Close()
			return nil, fmt.Errorf("serial port %s speed %d: %w", devicename, baud, err)
		}
	default:
		fd.Close()
		return nil, fmt.Errorf("serial port %s: unsupported speed %d", devicename, baud)
	}

	return fd, nil
}

// serveSerial reads envelopes from the device until ctx is cancelled
// or the device goes away.
func serveSerial(ctx context.Context, devicename string, baud int, rx *Receiver, logger *log.Logger) error {
	var fd, err = serialPortOpen(devicename, baud)
	if err != nil {
		return err
	}

	var stop = context.AfterFunc(ctx, func() {
		fd.Close()
	})
	defer stop()
	defer fd.Close()

	logger.Info("listening on serial port", "device", devicename, "baud", baud)

	return readEnvelopes(ctx, fd, "serial:"+devicename, rx, logger)
}

// readEnvelopes handles a byte stream of back to back envelopes.
func readEnvelopes(ctx context.Context, src io.Reader, peer string, rx *Receiver, logger *log.Logger) error {
	var r = bufio.NewReader(src)

	for {
		var msg, err = ReadLinkMessage(r)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}

			logger.Warn("serial read failed", "peer", peer, "err", err)

			return err
		}

		rx.Report(peer, msg)
	}
}
