package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	CRC-32 error detection by plain polynomial division.
 *
 * Description:	Generator is the usual CRC-32 polynomial 0x04C11DB7 with
 *		the implied x^32 term, written MSB first as 33 bits.
 *
 *		This is the textbook form: no initial value, no bit
 *		reflection, no final XOR.  So the result is not the same
 *		number hash/crc32 gives.  The sender appends 32 zero bits,
 *		divides, and replaces the zeros with the remainder.
 *		A received frame is good when it divides evenly.
 *
 *		A wrong checksum is a normal result (Valid false), not an
 *		error.  Only malformed input is an error.
 *
 * Reference:	https://en.wikipedia.org/wiki/Cyclic_redundancy_check
 *
 *------------------------------------------------------------------*/

const (
	CRC32_POLY      uint32 = 0x04C11DB7
	CRC32_BITS             = 32
	CRC32_MIN_FRAME        = CRC32_BITS + 1 // At least one data bit.
)

// crc32Poly is the generator, x^32 coefficient first.
var crc32Poly = func() Bits {
	var v = make(Bits, 0, CRC32_BITS+1)
	v = append(v, 1)

	for i := CRC32_BITS - 1; i >= 0; i-- {
		v = append(v, byte((CRC32_POLY>>i)&1))
	}

	return v
}()

// CRC32PolyBits returns a copy of the 33 bit generator.
func CRC32PolyBits() Bits {
	return crc32Poly.Clone()
}

// CRCResult is the outcome of checking a frame.
// Message is only set when Valid.
type CRCResult struct {
	Valid   bool
	Message Bits
}

/*------------------------------------------------------------------
 *
 * Name:	mod2Divide
 *
 * Purpose:	GF(2) long division.
 *
 * Inputs:	dividend	- Not modified.
 *		divisor		- Leading bit expected to be 1.
 *
 * Returns:	The last len(divisor)-1 bits of the worked dividend.
 *		When the dividend is shorter than the divisor it is
 *		already the remainder and comes back unchanged.
 *
 *------------------------------------------------------------------*/

func mod2Divide(dividend Bits, divisor Bits) Bits {
	var work = dividend.Clone()
	var n = len(work)
	var m = len(divisor)

	if n < m {
		return work
	}

	for i := 0; i <= n-m; i++ {
		if work[i] == 1 {
			for j := range m {
				work[i+j] ^= divisor[j]
			}
		}
	}

	return work[n-(m-1):]
}

/*------------------------------------------------------------------
 *
 * Name:	CRC32Verify
 *
 * Purpose:	Check a received frame, message followed by 32 CRC bits.
 *
 * Returns:	Valid and the message with the CRC removed, or Valid
 *		false and no message.  The caller discards invalid frames.
 *
 *		ErrShortFrame below 33 bits, ErrInvalidCharacter for
 *		anything other than 0/1.
 *
 *------------------------------------------------------------------*/

func CRC32Verify(frame Bits) (CRCResult, error) {
	if err := checkBinary(frame); err != nil {
		return CRCResult{}, err //nolint:exhaustruct
	}

	if len(frame) < CRC32_MIN_FRAME {
		return CRCResult{}, &CodecError{Kind: ErrShortFrame, Length: len(frame), N: CRC32_MIN_FRAME} //nolint:exhaustruct
	}

	var remainder = mod2Divide(frame, crc32Poly)

	if !remainder.IsZero() {
		return CRCResult{Valid: false, Message: nil}, nil
	}

	return CRCResult{Valid: true, Message: frame[:len(frame)-CRC32_BITS].Clone()}, nil
}

/*------------------------------------------------------------------
 *
 * Name:	CRC32Append
 *
 * Purpose:	Sender side.  Append the 32 bit remainder to message.
 *
 * Returns:	message followed by the remainder.  The result divides
 *		evenly by the generator, so CRC32Verify accepts it.
 *
 *------------------------------------------------------------------*/

func CRC32Append(message Bits) (Bits, error) {
	if err := checkBinary(message); err != nil {
		return nil, err
	}

	var dividend = make(Bits, len(message)+CRC32_BITS)
	copy(dividend, message)

	var remainder = mod2Divide(dividend, crc32Poly)

	var codeword = make(Bits, 0, len(message)+CRC32_BITS)
	codeword = append(codeword, message...)
	codeword = append(codeword, remainder...)

	return codeword, nil
}

// CRC32Remainder computes the same remainder as CRC32Append with a
// 32 bit shift register.  The emitter logs it next to what it sends.
func CRC32Remainder(message Bits) uint32 {
	var reg uint32

	for _, b := range message {
		var top = (reg >> 31) ^ uint32(b&1)
		reg <<= 1

		if top == 1 {
			reg ^= CRC32_POLY
		}
	}

	return reg
}

// bitsToWord packs up to 32 bits, MSB first.
func bitsToWord(b Bits) uint32 {
	var w uint32
	for _, v := range b {
		w = w<<1 | uint32(v&1)
	}

	return w
}

// CRC32VerifyString is CRC32Verify on '0'/'1' text.
func CRC32VerifyString(s string) (CRCResult, error) {
	var bits, err = ParseBits(s)
	if err != nil {
		return CRCResult{}, err //nolint:exhaustruct
	}

	return CRC32Verify(bits)
}

// CRC32AppendString is CRC32Append on '0'/'1' text.
func CRC32AppendString(s string) (string, error) {
	var bits, err = ParseBits(s)
	if err != nil {
		return "", err
	}

	var codeword, appendErr = CRC32Append(bits)
	if appendErr != nil {
		return "", appendErr
	}

	return codeword.String(), nil
}
