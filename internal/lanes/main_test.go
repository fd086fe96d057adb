package lanes

import (
	"fmt"
	"os"
	"runtime"
	"testing"
)

// TestMain prints which group width the tests of this process run with.
func TestMain(m *testing.M) {
	fmt.Printf("=== Lane Diagnostics ===\n")
	fmt.Printf("GOOS=%s GOARCH=%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("VECDOT_ISA=%q\n", os.Getenv("VECDOT_ISA"))
	fmt.Printf("Active ISA: %s (width %d)\n", ISA(), Width())
	fmt.Printf("========================\n\n")

	os.Exit(m.Run())
}
