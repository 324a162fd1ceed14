package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver side of the link layer.
 *
 * Description:	Takes one LinkMessage, runs the codec named by ALGO,
 *		strips padding, turns the bits back into text and
 *		produces a FrameReport.
 *
 *		Process has no shared state so the transports call it from
 *		as many goroutines as they like.  Report also writes the
 *		result line; that writer is serialized.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

type Outcome int

const (
	OutcomeAccepted    Outcome = iota // Good as received.
	OutcomeCorrected                  // Hamming repaired one or more blocks.
	OutcomeDiscarded                  // Bad CRC or uncorrectable block.
	OutcomeError                      // Malformed frame.
	OutcomeUnsupported                // Unknown ALGO.
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeError:
		return "error"
	case OutcomeUnsupported:
		return "unsupported"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

type FrameReport struct {
	Algo        string
	Outcome     Outcome
	BitsIn      int
	N           int // Hamming block length used.
	Data        Bits
	Text        string
	TextErr     error // Data was fine but is not whole bytes.
	Corrections []Correction
	Checksum    uint32 // CRC bits as received, CRC32 only.
	Err         error  // Why the frame was discarded or rejected.
}

// Delivered reports whether text reached the application.
func (rep FrameReport) Delivered() bool {
	return (rep.Outcome == OutcomeAccepted || rep.Outcome == OutcomeCorrected) && rep.TextErr == nil
}

func formatCorrections(cs []Correction) string {
	var parts = make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("(%d, %d)", c.Block, c.Position))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Line is the one line human readable result.
func (rep FrameReport) Line() string {
	switch rep.Algo {
	case ALGO_CRC32:
		switch rep.Outcome {
		case OutcomeAccepted:
			if rep.TextErr != nil {
				return fmt.Sprintf("CRC valid, but the message is not ASCII: %v", rep.TextErr)
			}

			return fmt.Sprintf("CRC valid. Message: %s", rep.Text)
		case OutcomeDiscarded:
			return "CRC invalid: message discarded"
		default:
			return fmt.Sprintf("CRC error: %v", rep.Err)
		}
	case ALGO_HAMMING:
		switch rep.Outcome {
		case OutcomeAccepted, OutcomeCorrected:
			if rep.TextErr != nil {
				return fmt.Sprintf("Hamming ok, but the message is not ASCII: %v", rep.TextErr)
			}

			if rep.Outcome == OutcomeCorrected {
				return fmt.Sprintf("Hamming: errors corrected at %s. Message: %s", formatCorrections(rep.Corrections), rep.Text)
			}

			return fmt.Sprintf("Hamming: no errors. Message: %s", rep.Text)
		case OutcomeDiscarded:
			return fmt.Sprintf("Hamming: uncorrectable errors, message discarded. %v", rep.Err)
		default:
			return fmt.Sprintf("Hamming error: %v", rep.Err)
		}
	}

	return fmt.Sprintf("Unsupported algorithm: %s", rep.Algo)
}

type Receiver struct {
	defaultN int
	logger   *log.Logger
	stamp    *strftime.Strftime

	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

/*------------------------------------------------------------------
 *
 * Name:	NewReceiver
 *
 * Inputs:	cfg	- DefaultN and TimestampFormat are used here.
 *		out	- Where result lines go.
 *		logger	- May be nil.
 *
 *------------------------------------------------------------------*/

func NewReceiver(cfg *ReceiverConfig, out io.Writer, logger *log.Logger) (*Receiver, error) {
	if _, _, err := HammingLayout(cfg.DefaultN); err != nil {
		return nil, fmt.Errorf("default n: %w", err)
	}

	if logger == nil {
		logger = discardLogger()
	}

	var rx = &Receiver{ //nolint:exhaustruct
		defaultN: cfg.DefaultN,
		logger:   logger,
		out:      out,
		now:      time.Now,
	}

	if cfg.TimestampFormat != "" {
		var stamp, err = strftime.New(cfg.TimestampFormat)
		if err != nil {
			return nil, fmt.Errorf("timestamp format %q: %w", cfg.TimestampFormat, err)
		}

		rx.stamp = stamp
	}

	return rx, nil
}

/*------------------------------------------------------------------
 *
 * Name:	Process
 *
 * Purpose:	Run the codec selected by msg.Algo.
 *
 *------------------------------------------------------------------*/

func (rx *Receiver) Process(msg LinkMessage) FrameReport {
	var rep = FrameReport{Algo: strings.ToUpper(msg.Algo), BitsIn: len(msg.Bits)} //nolint:exhaustruct

	switch rep.Algo {
	case ALGO_CRC32:
		rx.processCRC(msg, &rep)
	case ALGO_HAMMING:
		rx.processHamming(msg, &rep)
	default:
		rep.Algo = msg.Algo
		rep.Outcome = OutcomeUnsupported
	}

	return rep
}

func (rx *Receiver) processCRC(msg LinkMessage, rep *FrameReport) {
	var frame, parseErr = ParseBits(msg.Bits)
	if parseErr != nil {
		rep.Outcome = OutcomeError
		rep.Err = parseErr

		return
	}

	var res, err = CRC32Verify(frame)
	if err != nil {
		rep.Outcome = OutcomeError
		rep.Err = err

		return
	}

	rep.Checksum = bitsToWord(frame[len(frame)-CRC32_BITS:])

	if !res.Valid {
		rep.Outcome = OutcomeDiscarded

		return
	}

	rep.Outcome = OutcomeAccepted
	rep.Data = res.Message
	rep.Text, rep.TextErr = BitsToText(res.Message)
}

func (rx *Receiver) processHamming(msg LinkMessage, rep *FrameReport) {
	var n, pad = HammingParams(ParseParamMap(msg.Params), rx.defaultN)
	rep.N = n

	var res, err = HammingDecodeString(msg.Bits, n)
	if err != nil {
		rep.Err = err
		if errors.Is(err, ErrUncorrectableBlock) {
			rep.Outcome = OutcomeDiscarded
		} else {
			rep.Outcome = OutcomeError
		}

		return
	}

	rep.Outcome = OutcomeAccepted
	if len(res.Corrections) > 0 {
		rep.Outcome = OutcomeCorrected
	}

	rep.Corrections = res.Corrections
	rep.Data = StripPadding(res.Data, pad)
	rep.Text, rep.TextErr = BitsToText(rep.Data)
}

/*------------------------------------------------------------------
 *
 * Name:	Report
 *
 * Purpose:	Process msg, write the result line and log it.
 *
 * Inputs:	peer	- Where the frame came from, for the log.
 *
 *------------------------------------------------------------------*/

func (rx *Receiver) Report(peer string, msg LinkMessage) FrameReport {
	var rep = rx.Process(msg)

	var prefix = ""
	if rx.stamp != nil {
		prefix = rx.stamp.FormatString(rx.now())
	}

	rx.mu.Lock()
	var _, writeErr = fmt.Fprintf(rx.out, "%s%s\n", prefix, rep.Line())
	rx.mu.Unlock()

	if writeErr != nil {
		rx.logger.Error("writing result", "peer", peer, "err", writeErr)
	}

	var keyvals = []any{"peer", peer, "algo", rep.Algo, "bits", rep.BitsIn, "outcome", rep.Outcome}
	if len(rep.Corrections) > 0 {
		keyvals = append(keyvals, "corrections", len(rep.Corrections))
	}

	if rep.Algo == ALGO_CRC32 && rep.Err == nil {
		keyvals = append(keyvals, "crc", fmt.Sprintf("%08X", rep.Checksum))
	}

	switch rep.Outcome {
	case OutcomeAccepted, OutcomeCorrected:
		rx.logger.Info("frame", keyvals...)
	case OutcomeDiscarded:
		rx.logger.Warn("frame", append(keyvals, "reason", rep.Err)...)
	default:
		rx.logger.Error("frame", append(keyvals, "err", rep.Err)...)
	}

	return rep
}
