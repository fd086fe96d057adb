// Package numerics scans reduction inputs for values that poison a sum.
package numerics

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecdot/internal/dot"
)

// Report lists the batch entries holding non-finite or subnormal elements.
type Report struct {
	// Invalid holds entries with at least one NaN or infinite element.
	Invalid *roaring.Bitmap
	// Denormal holds entries with at least one subnormal element.
	Denormal *roaring.Bitmap
	// BadElements counts NaN and infinite elements across all entries.
	BadElements int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Invalid:  roaring.New(),
		Denormal: roaring.New(),
	}
}

// HasInvalid reports whether any entry holds a NaN or infinite element.
func (r *Report) HasInvalid() bool { return r != nil && !r.Invalid.IsEmpty() }

// Merge adds the findings of o to r.
func (r *Report) Merge(o *Report) {
	if o == nil {
		return
	}
	r.Invalid.Or(o.Invalid)
	r.Denormal.Or(o.Denormal)
	r.BadElements += o.BadElements
}

// Scan checks the n logical elements of every batch entry of v.
// bad reports NaN or infinite values; denormal may be nil.
func Scan[T any](n, batch int, v *dot.Vector[T], bad, denormal func(T) bool) *Report {
	r := NewReport()
	if v == nil || n <= 0 || batch <= 0 {
		return r
	}

	shift := v.Shift(n)
	for b := range batch {
		data, base := v.Base(b)
		base += shift

		sub := false
		for i := range n {
			e := data[base+i*v.Inc]
			if bad(e) {
				r.BadElements++
				r.Invalid.Add(uint32(b))
			} else if !sub && denormal != nil && denormal(e) {
				sub = true
			}
		}
		if sub {
			r.Denormal.Add(uint32(b))
		}
	}
	return r
}
