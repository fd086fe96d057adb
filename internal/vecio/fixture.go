package vecio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/vecdot/internal/half"
	"github.com/hupe1980/vecdot/internal/hash"
	"github.com/hupe1980/vecdot/internal/scalar"
)

// Kind identifies the element type of a fixture.
type Kind uint8

const (
	KindFloat32 Kind = iota + 1
	KindFloat64
	KindComplex64
	KindComplex128
	KindFloat16
	KindBFloat16
)

func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindComplex64:
		return "complex64"
	case KindComplex128:
		return "complex128"
	case KindFloat16:
		return "float16"
	case KindBFloat16:
		return "bfloat16"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// KindOf returns the fixture kind of T.
func KindOf[T scalar.Element]() Kind {
	var zero T
	switch any(zero).(type) {
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case complex64:
		return KindComplex64
	case complex128:
		return KindComplex128
	case half.Float16:
		return KindFloat16
	default:
		return KindBFloat16
	}
}

const (
	version    = 1
	headerSize = 16
)

var magic = [4]byte{'V', 'D', 'O', 'T'}

var (
	// ErrBadMagic is returned for files that are not fixtures.
	ErrBadMagic = errors.New("vecio: not a vector fixture")
	// ErrKindMismatch is returned when the fixture holds another element type.
	ErrKindMismatch = errors.New("vecio: element kind mismatch")
	// ErrChecksum is returned when the payload does not match its CRC32C.
	ErrChecksum = errors.New("vecio: checksum mismatch")
)

// Header describes a fixture.
type Header struct {
	Kind        Kind
	Compression Compression
	N           int // elements per entry
	Batch       int // number of entries
}

// Write stores batch entries of n elements, laid out contiguously in data.
func Write[T scalar.Element](w io.Writer, c Compression, n, batch int, data []T) error {
	if n < 0 || batch < 0 || len(data) != n*batch {
		return fmt.Errorf("vecio: %d elements for %d entries of %d", len(data), batch, n)
	}

	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	hdr[4] = version
	hdr[5] = byte(KindOf[T]())
	hdr[6] = byte(c)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(n))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(batch))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	payload, err := binary.Append(nil, binary.LittleEndian, data)
	if err != nil {
		return err
	}

	bw := newBlockWriter(w, c, defaultBlockSize)
	if _, err := bw.Write(payload); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	_, err = w.Write(hash.AppendTrailer(nil, payload))
	return err
}

// ReadHeader decodes the fixed header of a fixture.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, err
	}
	if !bytes.Equal(hdr[:4], magic[:]) || hdr[4] != version {
		return Header{}, ErrBadMagic
	}

	return Header{
		Kind:        Kind(hdr[5]),
		Compression: Compression(hdr[6]),
		N:           int(binary.LittleEndian.Uint32(hdr[8:])),
		Batch:       int(binary.LittleEndian.Uint32(hdr[12:])),
	}, nil
}

// Read loads a fixture of element type T.
func Read[T scalar.Element](r io.Reader) (Header, []T, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return h, nil, err
	}
	if h.Kind != KindOf[T]() {
		return h, nil, fmt.Errorf("%w: file holds %s, want %s", ErrKindMismatch, h.Kind, KindOf[T]())
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return h, nil, err
	}
	body, sum, ok := hash.SplitTrailer(body)
	if !ok {
		return h, nil, errCorruptBlock
	}
	payload, err := readBlocks(body, h.Compression)
	if err != nil {
		return h, nil, err
	}
	if hash.CRC32C(payload) != sum {
		return h, nil, ErrChecksum
	}

	data := make([]T, h.N*h.Batch)
	if _, err := binary.Decode(payload, binary.LittleEndian, data); err != nil {
		return h, nil, fmt.Errorf("%w: %v", errCorruptBlock, err)
	}
	return h, data, nil
}
