package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Hamming single error correcting (SEC) block code.
 *
 * Description:	A stream is a concatenation of blocks of n bits.
 *		Inside a block, positions are numbered from 1.  Positions
 *		that are powers of two (1, 2, 4, 8, ...) carry parity,
 *		everything else carries data, in ascending order.
 *
 *		Parity bit p covers every position whose number has bit p
 *		set.  XOR of the covered positions (parity included) is 0
 *		for a good block.  Collecting the failed checks gives the
 *		syndrome, which is the position of a single flipped bit.
 *
 *		r is the smallest value with 2^r >= n+1 and m = n - r.
 *		Only n = 2^r - 1 (7, 15, 31, ...) is a "perfect" code.
 *		For any other n, two errors can produce a syndrome larger
 *		than n, and the block is rejected rather than guessed at.
 *
 *		No global parity bit, so double errors are not detected
 *		as such; they usually end up as a wrong correction.
 *
 *------------------------------------------------------------------*/

import "errors"

const (
	HAMMING_MIN_N = 3
	HAMMING_MAX_N = 1 << 16
)

// Correction records one repaired bit.
type Correction struct {
	Block    int // 0-based block index within the stream.
	Position int // 1-based bit position within the block.
}

// HammingResult is the outcome of decoding a whole stream.
type HammingResult struct {
	Data        Bits
	Corrections []Correction
}

func isPowerOfTwo(x int) bool {
	return x != 0 && (x&(x-1)) == 0
}

// parityBitsCount returns the smallest r with 2^r >= n+1.
// n must already be within HAMMING_MIN_N..HAMMING_MAX_N.
func parityBitsCount(n int) int {
	var r = 0
	for (1 << r) < n+1 {
		r++
	}

	return r
}

/*------------------------------------------------------------------
 *
 * Name:	HammingLayout
 *
 * Purpose:	Number of parity and data bits for block length n.
 *
 * Returns:	r	- parity bits.
 *		m	- data bits, n - r.
 *
 *		ErrInvalidBlockLength for n < 3 or n > HAMMING_MAX_N.
 *
 *------------------------------------------------------------------*/

func HammingLayout(n int) (int, int, error) {
	if n < HAMMING_MIN_N || n > HAMMING_MAX_N {
		return 0, 0, &CodecError{Kind: ErrInvalidBlockLength, N: n} //nolint:exhaustruct
	}

	var r = parityBitsCount(n)

	return r, n - r, nil
}

// hammingSyndrome runs the r parity checks over a block.
// The block is treated as 1-based: position pos lives at block[pos-1].
func hammingSyndrome(block Bits, r int) int {
	var syndrome = 0

	for i := range r {
		var p = 1 << i
		var parity byte

		for pos := 1; pos <= len(block); pos++ {
			if pos&p != 0 {
				parity ^= block[pos-1]
			}
		}

		if parity == 1 {
			syndrome |= p
		}
	}

	return syndrome
}

/*------------------------------------------------------------------
 *
 * Name:	hammingDecodeBlock
 *
 * Purpose:	Check, correct and strip one block.
 *
 * Inputs:	block	- n bits.  Not modified.
 *
 * Returns:	data	- The m data bits after any correction.
 *		pos	- 1-based position that was flipped, 0 if none.
 *		err	- ErrUncorrectableBlock when the syndrome does not
 *			  name a position inside the block.
 *
 *------------------------------------------------------------------*/

func hammingDecodeBlock(block Bits) (Bits, int, error) {
	var n = len(block)

	var r, m, err = HammingLayout(n)
	if err != nil {
		return nil, 0, err
	}

	var syndrome = hammingSyndrome(block, r)
	var corrected = block
	var pos = 0

	if syndrome != 0 {
		if syndrome > n {
			return nil, 0, &CodecError{Kind: ErrUncorrectableBlock, Syndrome: syndrome, N: n} //nolint:exhaustruct
		}

		corrected = block.Flip(syndrome - 1)
		pos = syndrome
	}

	var data = make(Bits, 0, m)
	for p := 1; p <= n; p++ {
		if !isPowerOfTwo(p) {
			data = append(data, corrected[p-1])
		}
	}

	return data, pos, nil
}

/*------------------------------------------------------------------
 *
 * Name:	hammingEncodeBlock
 *
 * Purpose:	Build one n bit block from m data bits.
 *
 * Description:	Data fills the non power of two positions in order,
 *		then each parity bit is set so its check comes out even.
 *		Uses the same covering rule as hammingSyndrome, so a
 *		fresh block always has syndrome 0.
 *
 *------------------------------------------------------------------*/

func hammingEncodeBlock(data Bits, n int) (Bits, error) {
	var r, m, err = HammingLayout(n)
	if err != nil {
		return nil, err
	}

	if len(data) != m {
		return nil, &CodecError{Kind: ErrLengthMismatch, Length: len(data), N: m} //nolint:exhaustruct
	}

	var block = make(Bits, n)

	var d = 0
	for pos := 1; pos <= n; pos++ {
		if !isPowerOfTwo(pos) {
			block[pos-1] = data[d]
			d++
		}
	}

	for i := range r {
		var p = 1 << i
		var parity byte

		for pos := 1; pos <= n; pos++ {
			if pos&p != 0 {
				parity ^= block[pos-1]
			}
		}

		block[p-1] = parity
	}

	return block, nil
}

// checkBinary rejects Bits built by hand with values other than 0 and 1.
func checkBinary(b Bits) error {
	for i, v := range b {
		if v > 1 {
			return &CodecError{Kind: ErrInvalidCharacter, Position: i, Char: rune('0' + int(v)), Length: len(b)} //nolint:exhaustruct
		}
	}

	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	HammingDecodeStream
 *
 * Purpose:	Decode a concatenation of n bit blocks.
 *
 * Inputs:	bits	- Received stream.  Length must be a multiple of n.
 *		n	- Block length, at least 3.
 *
 * Returns:	Data of all blocks in order and one Correction per
 *		repaired block.
 *
 *		Fail fast: the first bad block aborts the whole decode.
 *		The error carries the 1-based block number.  No partial
 *		result is returned.
 *
 *------------------------------------------------------------------*/

func HammingDecodeStream(bits Bits, n int) (*HammingResult, error) {
	if err := checkBinary(bits); err != nil {
		return nil, err
	}

	var _, m, layoutErr = HammingLayout(n)
	if layoutErr != nil {
		return nil, layoutErr
	}

	if len(bits)%n != 0 {
		return nil, &CodecError{Kind: ErrLengthMismatch, Length: len(bits), N: n} //nolint:exhaustruct
	}

	var numBlocks = len(bits) / n
	var result = &HammingResult{
		Data:        make(Bits, 0, numBlocks*m),
		Corrections: []Correction{},
	}

	for b := range numBlocks {
		var data, pos, err = hammingDecodeBlock(bits[b*n : (b+1)*n])
		if err != nil {
			var ce *CodecError
			if errors.As(err, &ce) {
				return nil, ce.inBlock(b + 1)
			}

			return nil, err
		}

		if pos != 0 {
			result.Corrections = append(result.Corrections, Correction{Block: b, Position: pos})
		}

		result.Data = append(result.Data, data...)
	}

	return result, nil
}

/*------------------------------------------------------------------
 *
 * Name:	HammingEncodeStream
 *
 * Purpose:	Encode data whose length is a multiple of m.
 *
 * Returns:	Concatenated n bit blocks, or ErrLengthMismatch naming
 *		the data length and m.
 *
 *------------------------------------------------------------------*/

func HammingEncodeStream(data Bits, n int) (Bits, error) {
	if err := checkBinary(data); err != nil {
		return nil, err
	}

	var _, m, err = HammingLayout(n)
	if err != nil {
		return nil, err
	}

	if len(data)%m != 0 {
		return nil, &CodecError{Kind: ErrLengthMismatch, Length: len(data), N: m} //nolint:exhaustruct
	}

	var out = make(Bits, 0, len(data)/m*n)

	for i := 0; i < len(data); i += m {
		var block, blockErr = hammingEncodeBlock(data[i:i+m], n)
		if blockErr != nil {
			return nil, blockErr
		}

		out = append(out, block...)
	}

	return out, nil
}

/*------------------------------------------------------------------
 *
 * Name:	HammingEncodePadded
 *
 * Purpose:	Encode data of any length.
 *
 * Description:	Zeros are appended until the length is a multiple of m.
 *		The count is returned so it can be sent along as "pad"
 *		and stripped again by the receiver.
 *
 *------------------------------------------------------------------*/

func HammingEncodePadded(data Bits, n int) (Bits, int, error) {
	var _, m, err = HammingLayout(n)
	if err != nil {
		return nil, 0, err
	}

	var pad = (m - len(data)%m) % m

	var padded = make(Bits, len(data)+pad)
	copy(padded, data)

	var out, encErr = HammingEncodeStream(padded, n)
	if encErr != nil {
		return nil, 0, encErr
	}

	return out, pad, nil
}

// HammingDecodeString is HammingDecodeStream on '0'/'1' text.
func HammingDecodeString(s string, n int) (*HammingResult, error) {
	var bits, err = ParseBits(s)
	if err != nil {
		return nil, err
	}

	return HammingDecodeStream(bits, n)
}

// HammingEncodeString is HammingEncodeStream on '0'/'1' text.
func HammingEncodeString(s string, n int) (string, error) {
	var bits, err = ParseBits(s)
	if err != nil {
		return "", err
	}

	var out, encErr = HammingEncodeStream(bits, n)
	if encErr != nil {
		return "", encErr
	}

	return out.String(), nil
}
