//go:build amd64

package lanes

import "golang.org/x/sys/cpu"

func init() {
	available := map[string]bool{
		"avx2":   cpu.X86.HasAVX2 && cpu.X86.HasFMA,
		"avx512": cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW,
	}

	best := "generic"
	switch {
	case available["avx512"]:
		best = "avx512"
	case available["avx2"]:
		best = "avx2"
	}
	initCapabilities(available, best)
}
