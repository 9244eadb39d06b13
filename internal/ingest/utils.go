package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// lockPrefixes mark scratch files office suites and browsers leave next to the real document.
var lockPrefixes = []string{"~$", ".~lock."}

// DocumentFormat returns the analysis format for a tender file path, or "" when the
// file should not be picked up.
func DocumentFormat(path string) string {
	base := filepath.Base(path)
	for _, p := range lockPrefixes {
		if strings.HasPrefix(base, p) {
			return ""
		}
	}
	return constants.MapExtToFormat(filepath.Ext(base))
}

// IsHidden reports whether the last element of path is a dot file or dot directory.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && base[0] == '.' && base != ".."
}
