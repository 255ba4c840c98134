package anvil

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zlib"
)

// Compression scheme byte for zlib, the only scheme this writer emits.
const compressionZlib = 2

// RegionWriter emits one 32x32-chunk region file: an 8192-byte header of
// chunk locations and timestamps, then zlib payloads padded to 4096-byte pages.
type RegionWriter struct {
	header [8192]byte
	out    io.WriteSeeker
	start  int64
	// offsetPages is the next free page; the header occupies pages 0 and 1.
	offsetPages uint32
}

// StartRegion writes the header placeholder and positions the writer at the
// first data page.
func StartRegion(out io.WriteSeeker) (*RegionWriter, error) {
	start, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	w := &RegionWriter{out: out, start: start, offsetPages: 2}

	if _, err := out.Write(w.header[:]); err != nil {
		return nil, err
	}

	return w, nil
}

// Compress deflates a chunk payload with zlib.
func Compress(raw []byte) ([]byte, error) {
	var buf writerBuffer

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.data, nil
}

type writerBuffer struct {
	data []byte
}

func (b *writerBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteColumn appends one compressed chunk at slot (x, z), 0..31 each.
func (w *RegionWriter) WriteColumn(x, z uint8, compressed []byte) error {
	if x >= 32 || z >= 32 {
		return fmt.Errorf("anvil: chunk slot (%d, %d) out of region bounds", x, z)
	}

	// 4-byte length (including the scheme byte) + scheme, then the payload.
	payloadLen := uint32(len(compressed)) + 1
	totalLen := uint32(len(compressed)) + 5
	padding := 4096 - totalLen%4096
	if padding == 4096 {
		padding = 0
	}

	lenPages := (totalLen + padding) / 4096

	index := (int(x) | int(z)<<5) * 4
	location := w.offsetPages<<8 | lenPages&0xFF
	binary.BigEndian.PutUint32(w.header[index:], location)
	binary.BigEndian.PutUint32(w.header[4096+index:], uint32(time.Now().Unix()))

	var chunkHeader [5]byte
	binary.BigEndian.PutUint32(chunkHeader[:4], payloadLen)
	chunkHeader[4] = compressionZlib

	if _, err := w.out.Write(chunkHeader[:]); err != nil {
		return err
	}
	if _, err := w.out.Write(compressed); err != nil {
		return err
	}
	if padding > 0 {
		zeros := make([]byte, padding)
		if _, err := w.out.Write(zeros); err != nil {
			return err
		}
	}

	w.offsetPages += lenPages

	return nil
}

// Finish seeks back and writes the real header, leaving the stream positioned
// at the end of the region.
func (w *RegionWriter) Finish() error {
	if _, err := w.out.Seek(w.start, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.out.Write(w.header[:]); err != nil {
		return err
	}
	_, err := w.out.Seek(w.start+int64(w.offsetPages)*4096, io.SeekStart)

	return err
}

// ParseRegionHeader recovers the (offsetPages, lengthPages) table from the
// first 8192 bytes of a region file. Zero entries mean absent chunks.
func ParseRegionHeader(header []byte) ([1024][2]uint32, error) {
	var locations [1024][2]uint32

	if len(header) < 8192 {
		return locations, fmt.Errorf("anvil: region header truncated at %d bytes", len(header))
	}

	for i := 0; i < 1024; i++ {
		raw := binary.BigEndian.Uint32(header[i*4:])
		locations[i] = [2]uint32{raw >> 8, raw & 0xFF}
	}

	return locations, nil
}
