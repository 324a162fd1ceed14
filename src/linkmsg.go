package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Text envelope exchanged between emitter and receiver.
 *
 * Description:	One frame is three lines:
 *
 *			ALGO=HAMMING
 *			PARAM=n=7;pad=3
 *			BITS=0110011...
 *
 *		ALGO is HAMMING or CRC32.  PARAM is a ';' separated list
 *		of key=value.  For Hamming, n is the block length and pad
 *		the number of zero bits the sender added, to be removed
 *		after decoding.  CRC32 sends mode=PURE.
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ALGO_HAMMING = "HAMMING"
	ALGO_CRC32   = "CRC32"

	CRC32_PARAM_PURE = "mode=PURE"

	DEFAULT_HAMMING_N = 7
)

type LinkMessage struct {
	Algo   string
	Params string
	Bits   string
}

/*------------------------------------------------------------------
 *
 * Name:	ReadLinkMessage
 *
 * Purpose:	Read one three line message.
 *
 * Description:	Prefixes are optional and whitespace is trimmed.
 *		A stream that ends before the first line gives io.EOF
 *		unchanged.  Ending later gives io.ErrUnexpectedEOF,
 *		except that a last line with no newline is accepted.
 *
 *------------------------------------------------------------------*/

func ReadLinkMessage(r *bufio.Reader) (LinkMessage, error) {
	var fields [3]string
	var prefixes = [3]string{"ALGO=", "PARAM=", "BITS="}

	for i := range fields {
		var line, err = r.ReadString('\n')

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return LinkMessage{}, fmt.Errorf("reading %s line: %w", strings.TrimSuffix(prefixes[i], "="), err) //nolint:exhaustruct
			}

			if line == "" {
				if i == 0 {
					return LinkMessage{}, io.EOF //nolint:exhaustruct
				}

				return LinkMessage{}, io.ErrUnexpectedEOF //nolint:exhaustruct
			}

			if i < len(fields)-1 {
				return LinkMessage{}, io.ErrUnexpectedEOF //nolint:exhaustruct
			}
		}

		fields[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), prefixes[i]))
	}

	return LinkMessage{Algo: fields[0], Params: fields[1], Bits: fields[2]}, nil
}

// ParseLinkMessage reads a message held in a single string, e.g. one
// WebSocket text message.
func ParseLinkMessage(s string) (LinkMessage, error) {
	return ReadLinkMessage(bufio.NewReader(strings.NewReader(s)))
}

// WriteTo writes the three lines.
func (msg LinkMessage) WriteTo(w io.Writer) (int64, error) {
	var n, err = fmt.Fprintf(w, "ALGO=%s\nPARAM=%s\nBITS=%s\n", msg.Algo, msg.Params, msg.Bits)

	return int64(n), err
}

func (msg LinkMessage) String() string {
	var sb strings.Builder
	_, _ = msg.WriteTo(&sb)

	return sb.String()
}

// ParseParamMap splits "k1=v1;k2=v2".  Empty parts and parts without '='
// are skipped.  Later keys win.
func ParseParamMap(s string) map[string]string {
	var params = make(map[string]string)

	for part := range strings.SplitSeq(s, ";") {
		var p = strings.TrimSpace(part)
		if p == "" {
			continue
		}

		var k, v, found = strings.Cut(p, "=")
		if !found {
			continue
		}

		params[k] = v
	}

	return params
}

// HammingParams pulls n and pad out of a parameter map.  Missing or
// non numeric values fall back to defaultN and 0, and so does an n
// below 1.
func HammingParams(params map[string]string, defaultN int) (int, int) {
	var n = defaultN
	var pad = 0

	if v, ok := params["n"]; ok {
		if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && x >= 1 {
			n = x
		}
	}

	if v, ok := params["pad"]; ok {
		if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && x >= 0 {
			pad = x
		}
	}

	return n, pad
}

// FormatHammingParams is the PARAM value the emitter sends.
func FormatHammingParams(n int, pad int) string {
	return fmt.Sprintf("n=%d;pad=%d", n, pad)
}
