package linklab

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHammingLayout(t *testing.T) {
	var cases = []struct {
		n, r, m int
	}{
		{3, 2, 1},
		{4, 3, 1},
		{7, 3, 4},
		{8, 4, 4},
		{10, 4, 6},
		{12, 4, 8},
		{15, 4, 11},
		{16, 5, 11},
		{31, 5, 26},
		{HAMMING_MAX_N, 17, HAMMING_MAX_N - 17},
	}

	for _, c := range cases {
		var r, m, err = HammingLayout(c.n)
		require.NoError(t, err)
		assert.Equal(t, c.r, r, "r for n=%d", c.n)
		assert.Equal(t, c.m, m, "m for n=%d", c.n)
	}
}

func TestHammingLayoutOutOfRange(t *testing.T) {
	for _, n := range []int{math.MinInt, -1, 0, 1, 2, HAMMING_MAX_N + 1, 1<<62 + 5, math.MaxInt} {
		var _, _, err = HammingLayout(n)
		require.ErrorIs(t, err, ErrInvalidBlockLength)

		var ce *CodecError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, n, ce.N)
	}
}

// Block lengths arrive from the network.  Absurd ones must fail at once,
// not spin in the parity arithmetic.
func TestHammingHugeBlockLength(t *testing.T) {
	for _, n := range []int{1<<62 + 5, math.MaxInt} {
		var done = make(chan error, 1)

		go func() {
			var _, err = HammingDecodeString("1011", n)
			done <- err
		}()

		select {
		case err := <-done:
			require.ErrorIs(t, err, ErrInvalidBlockLength, "n=%d", n)
		case <-time.After(3 * time.Second):
			t.Fatalf("decode with n=%d did not return", n)
		}

		var _, encErr = HammingEncodeString("1011", n)
		require.ErrorIs(t, encErr, ErrInvalidBlockLength, "n=%d", n)
	}
}

func TestHamming74Example(t *testing.T) {
	var codeword, err = HammingEncodeString("1011", 7)
	require.NoError(t, err)
	assert.Equal(t, "0110011", codeword)

	var res, decErr = HammingDecodeString(codeword, 7)
	require.NoError(t, decErr)
	assert.Equal(t, "1011", res.Data.String())
	assert.Empty(t, res.Corrections)

	// Index 3 is position 4, a parity bit.
	var damaged = MustParseBits(codeword).Flip(3)
	res, decErr = HammingDecodeStream(damaged, 7)
	require.NoError(t, decErr)
	assert.Equal(t, "1011", res.Data.String())
	assert.Equal(t, []Correction{{Block: 0, Position: 4}}, res.Corrections)
}

func TestHammingMinimalBlock(t *testing.T) {
	// n=3 is repetition of the single data bit.
	var codeword, err = HammingEncodeString("01", 3)
	require.NoError(t, err)
	assert.Equal(t, "000111", codeword)

	var res, decErr = HammingDecodeString("010011", 3)
	require.NoError(t, decErr)
	assert.Equal(t, "01", res.Data.String())
	assert.Equal(t, []Correction{{Block: 0, Position: 2}, {Block: 1, Position: 1}}, res.Corrections)
}

func TestHammingDecodeEveryPosition(t *testing.T) {
	for _, n := range []int{3, 5, 7, 10, 12, 15, 20} {
		var _, m, _ = HammingLayout(n)
		var data = make(Bits, m)
		for i := range data {
			data[i] = byte(i % 2)
		}

		var codeword, err = HammingEncodeStream(data, n)
		require.NoError(t, err)

		for i := range n {
			var res, decErr = HammingDecodeStream(codeword.Flip(i), n)
			require.NoError(t, decErr, "n=%d flip=%d", n, i)
			assert.Equal(t, data, res.Data, "n=%d flip=%d", n, i)
			assert.Equal(t, []Correction{{Block: 0, Position: i + 1}}, res.Corrections, "n=%d flip=%d", n, i)
		}
	}
}

func TestHammingSyndromeOutOfRange(t *testing.T) {
	// n=10 is not 2^r-1, so errors at 4 and 8 give syndrome 12.
	var codeword, err = HammingEncodeStream(make(Bits, 6), 10)
	require.NoError(t, err)

	var damaged = codeword.Flip(3).Flip(7)

	assert.Equal(t, 12, hammingSyndrome(damaged, 4))

	var good, _ = HammingEncodeStream(MustParseBits("101010"), 10)
	var stream = append(good.Clone(), damaged...)

	var res, decErr = HammingDecodeStream(stream, 10)
	assert.Nil(t, res)
	require.ErrorIs(t, decErr, ErrUncorrectableBlock)

	var ce *CodecError
	require.ErrorAs(t, decErr, &ce)
	assert.Equal(t, 2, ce.Block)
	assert.Equal(t, 12, ce.Syndrome)
	assert.Equal(t, 10, ce.N)
	assert.Equal(t, "block 2 invalid: syndrome 12 out of range for n=10", decErr.Error())
}

func TestHammingFailFast(t *testing.T) {
	// First block bad, second block carries a correctable error.
	var bad, _ = HammingEncodeStream(make(Bits, 6), 10)
	bad = bad.Flip(3).Flip(7)

	var good, _ = HammingEncodeStream(MustParseBits("111111"), 10)
	var stream = append(bad, good.Flip(0)...)

	var res, err = HammingDecodeStream(stream, 10)
	assert.Nil(t, res)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Block)
}

func TestHammingLengthMismatch(t *testing.T) {
	var _, err = HammingDecodeString("01100110", 7)
	require.ErrorIs(t, err, ErrLengthMismatch)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 8, ce.Length)
	assert.Equal(t, 7, ce.N)

	_, err = HammingEncodeString("10110", 7)
	require.ErrorAs(t, err, &ce)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.Equal(t, 5, ce.Length)
	assert.Equal(t, 4, ce.N)
}

func TestHammingInvalidCharacter(t *testing.T) {
	var _, err = HammingDecodeString("0110a11", 7)
	require.ErrorIs(t, err, ErrInvalidCharacter)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 4, ce.Position)
	assert.Equal(t, 'a', ce.Char)

	_, err = HammingEncodeStream(Bits{0, 1, 2, 0}, 7)
	require.ErrorIs(t, err, ErrInvalidCharacter)
}

func TestHammingRejectsSmallN(t *testing.T) {
	var _, err = HammingDecodeString("01", 2)
	require.ErrorIs(t, err, ErrInvalidBlockLength)

	_, err = HammingEncodeString("1", 2)
	require.ErrorIs(t, err, ErrInvalidBlockLength)
}

func TestHammingEmptyStream(t *testing.T) {
	var res, err = HammingDecodeStream(Bits{}, 7)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Empty(t, res.Corrections)
}

func TestHammingEncodePadded(t *testing.T) {
	var out, pad, err = HammingEncodePadded(MustParseBits("10110"), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, pad)
	assert.Len(t, out, 14)

	var res, decErr = HammingDecodeStream(out, 7)
	require.NoError(t, decErr)
	assert.Equal(t, "10110", StripPadding(res.Data, pad).String())

	out, pad, err = HammingEncodePadded(MustParseBits("1011"), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, pad)
	assert.Equal(t, "0110011", out.String())
}

func TestHammingRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(3, 40).Draw(t, "n")
		var _, m, _ = HammingLayout(n)
		var blocks = rapid.IntRange(0, 6).Draw(t, "blocks")
		var data = Bits(rapid.SliceOfN(rapid.ByteRange(0, 1), blocks*m, blocks*m).Draw(t, "data"))

		var codeword, err = HammingEncodeStream(data, n)
		assert.NoError(t, err)
		assert.Len(t, codeword, blocks*n)

		var res, decErr = HammingDecodeStream(codeword, n)
		assert.NoError(t, decErr)
		assert.True(t, data.Equal(res.Data), "data %s decoded %s", data, res.Data)
		assert.Empty(t, res.Corrections)
	})
}

func TestHammingOneErrorPerBlockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(3, 40).Draw(t, "n")
		var _, m, _ = HammingLayout(n)
		var blocks = rapid.IntRange(1, 6).Draw(t, "blocks")
		var data = Bits(rapid.SliceOfN(rapid.ByteRange(0, 1), blocks*m, blocks*m).Draw(t, "data"))

		var codeword, _ = HammingEncodeStream(data, n)

		// Damage a random subset of blocks, one bit each.
		var expected = []Correction{}
		for b := range blocks {
			if !rapid.Bool().Draw(t, "damage") {
				continue
			}

			var pos = rapid.IntRange(1, n).Draw(t, "pos")
			codeword = codeword.Flip(b*n + pos - 1)
			expected = append(expected, Correction{Block: b, Position: pos})
		}

		var res, err = HammingDecodeStream(codeword, n)
		assert.NoError(t, err)
		assert.True(t, data.Equal(res.Data), "data %s decoded %s", data, res.Data)
		assert.Equal(t, expected, res.Corrections)
	})
}
