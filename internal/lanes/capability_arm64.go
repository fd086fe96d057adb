//go:build arm64

package lanes

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func init() {
	available := map[string]bool{
		"neon": cpu.ARM64.HasASIMD,
		"sve2": cpu.ARM64.HasSVE2,
	}

	best := "generic"
	switch {
	// Apple Silicon emulates SVE2; NEON is the faster choice there.
	case available["sve2"] && runtime.GOOS != "darwin":
		best = "sve2"
	case available["neon"]:
		best = "neon"
	}
	initCapabilities(available, best)
}
