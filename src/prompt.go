package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Interactive receiver.
 *
 * Description:	Asks for the algorithm, a frame typed in as 0s and 1s
 *		and, for Hamming, the block length.  Then shows what the
 *		link layer would do with it.  Handy for checking an
 *		emitter by hand before wiring up the network.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrPromptInput = errors.New("invalid input")

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}

		return "", io.ErrUnexpectedEOF
	}

	return strings.TrimSpace(p.in.Text()), nil
}

/*------------------------------------------------------------------
 *
 * Name:	RunPrompt
 *
 * Purpose:	One interactive session.
 *
 * Inputs:	in	- Answers, one per line.
 *		out	- Questions and results.
 *		verbose	- Also list the Hamming blocks.
 *
 * Returns:	nil when a result was shown, including a discarded
 *		frame.  An error for bad answers.
 *
 *------------------------------------------------------------------*/

func RunPrompt(in io.Reader, out io.Writer, verbose bool) error {
	var p = &prompter{in: bufio.NewScanner(in), out: out}

	fmt.Fprintf(out, "=== Link layer RECEIVER ===\n")
	fmt.Fprintf(out, "Algorithms:\n")
	fmt.Fprintf(out, "  1) Hamming (error correction)\n")
	fmt.Fprintf(out, "  2) CRC-32 (error detection, plain polynomial)\n")

	var choice, err = p.ask("Select algorithm [1/2]: ")
	if err != nil {
		return err
	}

	var text string

	text, err = p.ask("Frame in binary (0/1 only): ")
	if err != nil {
		return err
	}

	var frame, parseErr = ParseBits(text)
	if parseErr != nil {
		fmt.Fprintf(out, "Error: the frame must contain only '0' and '1'.\n")
		return fmt.Errorf("%w: %w", ErrPromptInput, parseErr)
	}

	switch choice {
	case "1":
		var answer, askErr = p.ask("Hamming: block length n (e.g. 7, 12, 15): ")
		if askErr != nil {
			return askErr
		}

		var n, convErr = strconv.Atoi(answer)
		if convErr != nil || n < HAMMING_MIN_N || n > HAMMING_MAX_N {
			fmt.Fprintf(out, "Invalid value for n.\n")
			return fmt.Errorf("%w: n=%q", ErrPromptInput, answer)
		}

		if verbose {
			blockDump(out, frame, n)
		}

		promptHamming(out, frame, n)
	case "2":
		return promptCRC(out, frame)
	default:
		fmt.Fprintf(out, "Invalid choice.\n")
		return fmt.Errorf("%w: algorithm %q", ErrPromptInput, choice)
	}

	return nil
}

func promptHamming(out io.Writer, frame Bits, n int) {
	var res, err = HammingDecodeStream(frame, n)
	if err != nil {
		fmt.Fprintf(out, "Result: uncorrectable errors detected. Message discarded.\n")
		fmt.Fprintf(out, "Detail: %v\n", err)

		return
	}

	if len(res.Corrections) == 0 {
		fmt.Fprintf(out, "Result: no errors detected.\n")
		fmt.Fprintf(out, "Original message (data bits without parity): %s\n", res.Data)

		return
	}

	fmt.Fprintf(out, "Result: errors detected and corrected.\n")
	fmt.Fprintf(out, "Corrected positions (bit within each block of length n, from 1):\n")

	for _, c := range res.Corrections {
		fmt.Fprintf(out, "  Block %d, bit %d\n", c.Block+1, c.Position)
	}

	fmt.Fprintf(out, "Corrected message (data bits without parity): %s\n", res.Data)
}

func promptCRC(out io.Writer, frame Bits) error {
	var res, err = CRC32Verify(frame)
	if err != nil {
		fmt.Fprintf(out, "Error verifying CRC-32: %v\n", err)
		return fmt.Errorf("%w: %w", ErrPromptInput, err)
	}

	if !res.Valid {
		fmt.Fprintf(out, "Result: errors detected, frame discarded (CRC invalid).\n")
		return nil
	}

	fmt.Fprintf(out, "Result: no errors detected (CRC correct).\n")
	fmt.Fprintf(out, "Original message (without the 32 CRC bits): %s\n", res.Message)

	return nil
}
