package lanes

import (
	"os"
	"strings"
)

// widths maps instruction set names to the number of float32 lanes in one
// register.
var widths = map[string]int{
	"generic": 8,
	"neon":    4,
	"sve2":    8,
	"avx2":    8,
	"avx512":  16,
}

// Set once by the platform init functions.
var (
	activeISA = "generic"
	width     = widths["generic"]
)

// choose picks the instruction set: the override when the CPU supports it,
// best otherwise.
func choose(override string, available map[string]bool, best string) (string, int) {
	name := strings.ToLower(strings.TrimSpace(override))
	if _, known := widths[name]; known && (name == "generic" || available[name]) {
		return name, widths[name]
	}
	return best, widths[best]
}

func initCapabilities(available map[string]bool, best string) {
	activeISA, width = choose(os.Getenv("VECDOT_ISA"), available, best)
}

// ISA returns the name of the selected instruction set.
func ISA() string {
	return activeISA
}

// Width returns the default group width for this process.
func Width() int {
	return width
}

// IsPowerOfTwo reports whether w is a usable group width.
func IsPowerOfTwo(w int) bool {
	return w > 0 && w&(w-1) == 0
}
