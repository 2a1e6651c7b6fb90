package slab

import (
	"fmt"
	"os"
)

// Debug flag - set to true to enable page lifecycle logging (compile-time toggle).
const debugPages = false

// Runtime debug flag for page tracing - controlled by SLAB_LOG_PAGES env var.
var logPages = os.Getenv("SLAB_LOG_PAGES") != ""

// debugLogf prints debug messages if either debug switch is enabled.
func debugLogf(format string, args ...any) {
	if debugPages || logPages {
		fmt.Fprintf(os.Stderr, "[SLAB] "+format+"\n", args...)
	}
}
