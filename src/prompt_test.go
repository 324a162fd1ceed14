package linklab

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPrompt(t *testing.T, input string, verbose bool) (string, error) {
	t.Helper()

	var out bytes.Buffer
	var err = RunPrompt(strings.NewReader(input), &out, verbose)

	return out.String(), err
}

func TestPrompt_HammingClean(t *testing.T) {
	var out, err = runPrompt(t, "1\n0110011\n7\n", false)

	require.NoError(t, err)
	assert.Contains(t, out, "Result: no errors detected.")
	assert.Contains(t, out, "Original message (data bits without parity): 1011")
}

func TestPrompt_HammingCorrected(t *testing.T) {
	var out, err = runPrompt(t, "1\n 010011 \n3\n", false)

	require.NoError(t, err)
	assert.Contains(t, out, "errors detected and corrected")
	assert.Contains(t, out, "  Block 1, bit 2\n")
	assert.Contains(t, out, "  Block 2, bit 1\n")
	assert.Contains(t, out, "Corrected message (data bits without parity): 01")
}

func TestPrompt_HammingUncorrectable(t *testing.T) {
	// Bits 4 and 8 flipped in the second block of a clean n=10 stream.
	var clean, encErr = HammingEncodeStream(MustParseBits("000000000000"), 10)
	require.NoError(t, encErr)

	var bad = clean.Flip(13).Flip(17)

	var out, err = runPrompt(t, "1\n"+bad.String()+"\n10\n", false)

	require.NoError(t, err)
	assert.Contains(t, out, "Result: uncorrectable errors detected. Message discarded.")
	assert.Contains(t, out, "Detail: block 2 invalid")
}

func TestPrompt_HammingVerbose(t *testing.T) {
	var out, err = runPrompt(t, "1\n01100110000000\n7\n", true)

	require.NoError(t, err)
	assert.Contains(t, out, "  001: 0110011\n       ppdpddd\n")
	assert.Contains(t, out, "  002: 0000000\n")
}

func TestPrompt_CRC(t *testing.T) {
	var frame, _ = CRC32AppendString("01000001")

	var out, err = runPrompt(t, "2\n"+frame+"\n", false)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: no errors detected (CRC correct).")
	assert.Contains(t, out, "Original message (without the 32 CRC bits): 01000001")

	var flipped = MustParseBits(frame).Flip(3).String()

	out, err = runPrompt(t, "2\n"+flipped+"\n", false)
	require.NoError(t, err)
	assert.Contains(t, out, "errors detected, frame discarded (CRC invalid)")
}

func TestPrompt_BadInput(t *testing.T) {
	var tests = []struct {
		name  string
		input string
		says  string
	}{
		{"not binary", "1\n01201\n7\n", "must contain only '0' and '1'"},
		{"bad n", "1\n0110011\nseven\n", "Invalid value for n."},
		{"small n", "1\n0110011\n2\n", "Invalid value for n."},
		{"huge n", "1\n0110011\n4611686018427387909\n", "Invalid value for n."},
		{"bad choice", "3\n0110011\n", "Invalid choice."},
		{"short crc", "2\n0101\n", "Error verifying CRC-32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, err = runPrompt(t, tt.input, false)

			require.ErrorIs(t, err, ErrPromptInput)
			assert.Contains(t, out, tt.says)
		})
	}
}

func TestPrompt_EOF(t *testing.T) {
	var _, err = runPrompt(t, "1\n", false)

	assert.Error(t, err)
}

// The prompt on a real terminal, in canonical mode, as a person would use it.
func TestPrompt_PseudoTerminal(t *testing.T) {
	var ptmx, tty, err = pty.Open()
	if err != nil {
		t.Skipf("no pseudo terminal: %s", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	var _, writeErr = ptmx.WriteString("1\n0110111\n7\n")
	require.NoError(t, writeErr)

	var out bytes.Buffer
	require.NoError(t, RunPrompt(tty, &out, false))

	assert.Contains(t, out.String(), "  Block 1, bit 5\n")
	assert.Contains(t, out.String(), "Corrected message (data bits without parity): 1011")
}
