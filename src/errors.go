package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Error taxonomy shared by the Hamming and CRC-32 codecs.
 *
 * Description:	Every codec failure is a *CodecError.  The Kind field is
 *		one of the sentinel errors below so callers can use
 *		errors.Is(err, ErrShortFrame) without looking at text,
 *		and errors.As for the numeric details.
 *
 *		None of these are fatal.  A receiver reports them and
 *		carries on with the next frame.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCharacter   = errors.New("invalid character")
	ErrLengthMismatch     = errors.New("length mismatch")
	ErrUncorrectableBlock = errors.New("uncorrectable block")
	ErrShortFrame         = errors.New("short frame")
	ErrInvalidBlockLength = errors.New("invalid block length")
)

// CodecError carries the numbers behind a codec failure.
// Fields that do not apply to a Kind are left at zero.
type CodecError struct {
	Kind error

	Block    int  // 1-based block number, 0 when not tied to a block.
	N        int  // Block length, group size or minimum length, depending on Kind.
	Syndrome int  // For ErrUncorrectableBlock.
	Length   int  // Actual input length.
	Position int  // 0-based offset of an invalid character.
	Char     rune // The invalid character.
}

func (e *CodecError) Error() string {
	var msg string

	switch e.Kind {
	case ErrInvalidCharacter:
		msg = fmt.Sprintf("invalid character %q at position %d, only '0' and '1' are accepted", e.Char, e.Position)
	case ErrLengthMismatch:
		msg = fmt.Sprintf("frame length %d is not a multiple of %d", e.Length, e.N)
	case ErrUncorrectableBlock:
		msg = fmt.Sprintf("syndrome %d out of range for n=%d", e.Syndrome, e.N)
	case ErrShortFrame:
		msg = fmt.Sprintf("frame has %d bits, need at least %d (1 data + 32 CRC)", e.Length, e.N)
	case ErrInvalidBlockLength:
		msg = fmt.Sprintf("block length n=%d out of range, need %d <= n <= %d", e.N, HAMMING_MIN_N, HAMMING_MAX_N)
	default:
		msg = fmt.Sprintf("codec error: %v", e.Kind)
	}

	if e.Block > 0 {
		return fmt.Sprintf("block %d invalid: %s", e.Block, msg)
	}

	return msg
}

func (e *CodecError) Unwrap() error {
	return e.Kind
}

// inBlock returns a copy of e tagged with the 1-based block number.
func (e *CodecError) inBlock(block int) *CodecError {
	var tagged = *e
	tagged.Block = block

	return &tagged
}
