package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Version banner shared by receptor, emisor and linkbench.
 *
 * Description:	The release number is stamped in by the linker, e.g.
 *
 *		go build -ldflags "-X 'github.com/XavierLopez25/Lab02-Redes/src.LINKLAB_VERSION=1.2'"
 *
 *		The revision and build time come from the VCS settings
 *		the go tool records in the binary.  A plain `go test`
 *		has neither, so every piece has a fallback.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
)

var LINKLAB_VERSION string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

// buildRevision is the commit, marked when the tree was modified or
// when that can't be told.
func buildRevision(bi *debug.BuildInfo) string {
	var commit = getBuildSettingOrDefault(bi, "vcs.revision", "UNKNOWN")

	var dirty, err = strconv.ParseBool(getBuildSettingOrDefault(bi, "vcs.modified", "INVALID"))

	switch {
	case err != nil:
		return commit + "-UNKNOWNDIRTY"
	case dirty:
		return commit + "-DIRTY"
	}

	return commit
}

// versionLine is the one line banner for tool.
func versionLine(tool string, bi *debug.BuildInfo) string {
	var version = LINKLAB_VERSION
	if version == "" {
		version = "!UNKNOWN!"
	}

	return fmt.Sprintf("%s - Version %s (revision %s, built at %s)",
		tool, version, buildRevision(bi), getBuildSettingOrDefault(bi, "vcs.time", "UNKNOWN"))
}

func printVersion(w io.Writer, tool string, verbose bool) {
	var buildInfo, _ = debug.ReadBuildInfo()

	fmt.Fprintln(w, versionLine(tool, buildInfo))

	if verbose {
		fmt.Fprintf(w, "\nBuildInfo: %+v\n", buildInfo)
	}
}
