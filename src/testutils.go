package linklab

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*------------------------------------------------------------------
 *
 * Name:	AssertOutputContains
 *
 * Purpose:	Run one of the *Main functions in-process and check what
 *		it printed.
 *
 * Inputs:	command			- Called with os.Stdout swapped for
 *					  a pipe.  The log goes to stderr
 *					  and is not captured.
 *		expectedOutputContains	- Substring that must appear.
 *
 * Description:	The pipe is only drained after command returns, so
 *		output larger than the pipe buffer (64 KiB on Linux)
 *		deadlocks.  The bench runs in scripts_test.go are sized
 *		to stay well under that.
 *
 *------------------------------------------------------------------*/

func AssertOutputContains(t *testing.T, command func(), expectedOutputContains string) {
	t.Helper()

	var oldStdout = os.Stdout
	defer func() {
		os.Stdout = oldStdout
	}()

	var r, w, pipeErr = os.Pipe()
	require.NoError(t, pipeErr)

	os.Stdout = w

	command()

	w.Close() //nolint:gosec

	os.Stdout = oldStdout

	var outputBytes, readErr = io.ReadAll(r)

	require.NoError(t, readErr)

	var outputString = string(outputBytes)

	assert.Contains(t, outputString, expectedOutputContains)
}
