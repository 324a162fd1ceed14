package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Bit sequences and their '0'/'1' text form.
 *
 * Description:	Internally a bit sequence is a slice of bytes each holding
 *		0 or 1, the same way the HDLC code handles bits one at a
 *		time.  Text is only parsed and produced at the edges
 *		(network, prompt, command line).
 *
 *------------------------------------------------------------------*/

import "strings"

// Bits is an ordered sequence of 0/1 values.
type Bits []byte

/*------------------------------------------------------------------
 *
 * Name:	ParseBits
 *
 * Purpose:	Convert text of '0' and '1' characters to Bits.
 *
 * Inputs:	s	- Text, no separators or whitespace allowed.
 *
 * Returns:	Bits, or ErrInvalidCharacter naming the first offending
 *		character and its 0-based position.
 *
 *------------------------------------------------------------------*/

func ParseBits(s string) (Bits, error) {
	var out = make(Bits, 0, len(s))

	for i, c := range s {
		switch c {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		default:
			return nil, &CodecError{Kind: ErrInvalidCharacter, Position: i, Char: c, Length: len(s)} //nolint:exhaustruct
		}
	}

	return out, nil
}

// MustParseBits is ParseBits for literals known to be valid.
func MustParseBits(s string) Bits {
	var b, err = ParseBits(s)
	if err != nil {
		panic(err)
	}

	return b
}

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))

	for _, v := range b {
		if v == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Flip returns a copy of b with the bit at 0-based index i inverted.
// Out of range indexes leave the copy untouched.
func (b Bits) Flip(i int) Bits {
	var out = b.Clone()
	if i >= 0 && i < len(out) {
		out[i] ^= 1
	}

	return out
}

func (b Bits) Clone() Bits {
	var out = make(Bits, len(b))
	copy(out, b)

	return out
}

// IsZero reports whether every bit is 0.  An empty sequence is zero.
func (b Bits) IsZero() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}

	return true
}

// Equal reports whether a and b hold the same bits.
func (b Bits) Equal(other Bits) bool {
	if len(b) != len(other) {
		return false
	}

	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}

	return true
}
