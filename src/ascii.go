package linklab

// Presentation layer: text <-> bits, 8 bits per byte, MSB first.

// TextToBits expands each byte of s to 8 bits.
func TextToBits(s string) Bits {
	var out = make(Bits, 0, len(s)*8)

	for i := 0; i < len(s); i++ {
		var c = s[i]
		for k := 7; k >= 0; k-- {
			out = append(out, (c>>k)&1)
		}
	}

	return out
}

// BitsToText groups bits into bytes.  The length must be a multiple of 8.
func BitsToText(b Bits) (string, error) {
	if err := checkBinary(b); err != nil {
		return "", err
	}

	if len(b)%8 != 0 {
		return "", &CodecError{Kind: ErrLengthMismatch, Length: len(b), N: 8} //nolint:exhaustruct
	}

	var out = make([]byte, len(b)/8)
	for i := range out {
		out[i] = byte(bitsToWord(b[i*8 : i*8+8]))
	}

	return string(out), nil
}

// StripPadding removes pad trailing bits.  Nothing is removed unless
// 0 < pad <= len(b).
func StripPadding(b Bits, pad int) Bits {
	if pad > 0 && pad <= len(b) {
		return b[:len(b)-pad]
	}

	return b
}
