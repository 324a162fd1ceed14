package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Sending side of the lab link.
 *
 * Description:	text -> bits -> Hamming or CRC-32 -> noise -> envelope,
 *		then out over TCP or WebSocket.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strings"

	"github.com/gorilla/websocket"
)

// Transmission is a frame ready to go plus what went into it.
type Transmission struct {
	Message LinkMessage
	Clean   Bits // Codeword before noise.
	Pad     int  // Hamming padding bits.
	Flips   int  // Bits flipped by the noise.

	Checksum uint32 // CRC32 only.
}

/*------------------------------------------------------------------
 *
 * Name:	BuildTransmission
 *
 * Purpose:	Encode text with the chosen algorithm.
 *
 * Inputs:	text	- Sent byte by byte, 8 bits each.
 *		algo	- ALGO_HAMMING or ALGO_CRC32.
 *		n	- Hamming block length, ignored for CRC32.
 *
 *------------------------------------------------------------------*/

func BuildTransmission(text string, algo string, n int) (*Transmission, error) {
	var data = TextToBits(text)

	switch strings.ToUpper(algo) {
	case ALGO_HAMMING:
		var codeword, pad, err = HammingEncodePadded(data, n)
		if err != nil {
			return nil, err
		}

		return &Transmission{
			Message:  LinkMessage{Algo: ALGO_HAMMING, Params: FormatHammingParams(n, pad), Bits: codeword.String()},
			Clean:    codeword,
			Pad:      pad,
			Flips:    0,
			Checksum: 0,
		}, nil
	case ALGO_CRC32:
		var codeword, err = CRC32Append(data)
		if err != nil {
			return nil, err
		}

		return &Transmission{
			Message:  LinkMessage{Algo: ALGO_CRC32, Params: CRC32_PARAM_PURE, Bits: codeword.String()},
			Clean:    codeword,
			Pad:      0,
			Flips:    0,
			Checksum: CRC32Remainder(data),
		}, nil
	}

	return nil, fmt.Errorf("unknown algorithm %q, use %s or %s", algo, ALGO_HAMMING, ALGO_CRC32)
}

// AddNoise replaces the message bits with a noisy copy of the clean codeword.
func (tx *Transmission) AddNoise(ber float64, rng *rand.Rand) error {
	var noisy, flips, err = ApplyNoise(tx.Clean, ber, rng)
	if err != nil {
		return err
	}

	tx.Message.Bits = noisy.String()
	tx.Flips = flips

	return nil
}

// SendTCP opens a connection, writes one envelope and closes.
func SendTCP(ctx context.Context, addr string, msg LinkMessage) error {
	var d net.Dialer

	var conn, err = d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	if _, err := msg.WriteTo(conn); err != nil {
		return fmt.Errorf("sending to %s: %w", addr, err)
	}

	return nil
}

// SendWebSocket sends one envelope as a single text message.
func SendWebSocket(ctx context.Context, url string, msg LinkMessage) error {
	var conn, _, err = websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending to %s: %w", url, err)
	}

	var closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)

	return nil
}
