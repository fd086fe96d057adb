package vecio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of a fixture.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, errors.New("vecio: unknown compression " + s)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const (
	blockHeaderSize  = 8
	defaultBlockSize = 256 * 1024
)

var errCorruptBlock = errors.New("vecio: corrupt block")

// compressBlock frames one block, storing it raw when compression saves
// less than 10%.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	out := make([]byte, blockHeaderSize, blockHeaderSize+len(data))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return append(out, data...), nil
	}

	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	return append(out, compressed...), nil
}

// blockWriter buffers a payload and writes it as framed blocks.
type blockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	written     int64
}

func newBlockWriter(w io.Writer, c Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &blockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := b.blockSize - b.buffer.Len()
		if space <= 0 {
			if err := b.Flush(); err != nil {
				return total, err
			}
			space = b.blockSize
		}

		n, _ := b.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush frames and writes the buffered block.
func (b *blockWriter) Flush() error {
	if b.buffer.Len() == 0 {
		return nil
	}

	block, err := compressBlock(b.buffer.Bytes(), b.compression)
	if err != nil {
		return err
	}

	n, err := b.w.Write(block)
	b.written += int64(n)
	if err != nil {
		return err
	}
	b.buffer.Reset()
	return nil
}

// readBlocks decodes every framed block of data.
func readBlocks(data []byte, c Compression) ([]byte, error) {
	var out []byte

	for off := 0; off < len(data); {
		if off+blockHeaderSize > len(data) {
			return nil, errCorruptBlock
		}
		raw := int(binary.LittleEndian.Uint32(data[off:]))
		packed := int(binary.LittleEndian.Uint32(data[off+4:]))
		off += blockHeaderSize

		if packed == 0 {
			if off+raw > len(data) {
				return nil, errCorruptBlock
			}
			out = append(out, data[off:off+raw]...)
			off += raw
			continue
		}

		if off+packed > len(data) {
			return nil, errCorruptBlock
		}
		block, err := decompressBlock(data[off:off+packed], raw, c)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		off += packed
	}

	return out, nil
}

func decompressBlock(src []byte, size int, c Compression) ([]byte, error) {
	dst := make([]byte, size)

	switch c {
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(src, dst[:0])
		if err != nil {
			return nil, err
		}
		if len(decoded) != size {
			return nil, errCorruptBlock
		}
		return decoded, nil

	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, err
		}
		if n != size {
			return nil, errCorruptBlock
		}
		return dst, nil

	default:
		return nil, errCorruptBlock
	}
}
