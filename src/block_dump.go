package linklab

import (
	"fmt"
	"io"
	"strings"
)

// blockDump lists a Hamming stream one block per line, with a map
// underneath each block showing parity (p) and data (d) positions.
//
//	  001: 0110011
//	       ppdpddd
func blockDump(w io.Writer, b Bits, n int) {
	if n <= 0 {
		return
	}

	var layout strings.Builder
	for pos := 1; pos <= n; pos++ {
		if isPowerOfTwo(pos) {
			layout.WriteByte('p')
		} else {
			layout.WriteByte('d')
		}
	}

	var block = 1

	for len(b) > 0 {
		var k = min(len(b), n)

		fmt.Fprintf(w, "  %03d: %s\n", block, b[:k])
		fmt.Fprintf(w, "       %s\n", layout.String()[:k])

		b = b[k:]
		block++
	}
}
