package photon

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// field is one entry of a fixed-layout record.
type field struct {
	name  string
	width int
}

// layout lists the fields of a record in on-disk order.
type layout []field

func (l layout) size() int {
	var n int
	for _, f := range l {
		n += f.width
	}
	return n
}

// offset returns the byte position of the named field, or -1.
func (l layout) offset(name string) int {
	var n int
	for _, f := range l {
		if f.name == name {
			return n
		}
		n += f.width
	}
	return -1
}

// Version 1 of the Photon layouts. All numbers are little-endian.
var (
	headerLayout = layout{
		{"magic", 8},
		{"size_x", 4},
		{"size_y", 4},
		{"size_z", 4},
		{"reserved0", 3 * 4},
		{"layer_height", 4},
		{"exposure_time", 4},
		{"bottom_exposure_time", 4},
		{"off_time", 4},
		{"bottom_layers", 4},
		{"screen_width", 4},
		{"screen_height", 4},
		{"preview_high_res_offset", 4},
		{"layer_defs_offset", 4},
		{"num_layers", 4},
		{"preview_low_res_offset", 4},
		{"unknown", 4},
		{"projection_type", 4},
		{"reserved1", 6 * 4},
	}

	layerDefLayout = layout{
		{"layer_height", 4},
		{"exposure_time", 4},
		{"off_time", 4},
		{"data_offset", 4},
		{"data_length", 4},
		{"reserved", 4 * 4},
	}

	previewLayout = layout{
		{"width", 4},
		{"height", 4},
		{"data_offset", 4},
		{"data_size", 4},
		{"reserved", 16},
	}
)

// Record sizes in bytes. They always equal the sizes of the layouts above.
const (
	HeaderSize   = 108
	LayerDefSize = 36
	previewSize  = 32
)

// decoder is a little-endian cursor over a record that has already been
// read in full.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) bytes(n int) []byte {
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) u32() uint32 {
	return binary.LittleEndian.Uint32(d.bytes(4))
}

func (d *decoder) i32() int32 {
	return int32(d.u32())
}

func (d *decoder) f32() float32 {
	return math.Float32frombits(d.u32())
}

// readRecord reads exactly n bytes from r.
func readRecord(r io.Reader, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%v: %w", what, ErrTruncated)
		}
		return nil, fmt.Errorf("%v: %w", what, err)
	}
	return buf, nil
}

// span returns a reader over [offset, offset+length) of r after checking
// the span lies within size.
func span(r io.ReaderAt, size int64, offset, length int64, what string) (*io.SectionReader, error) {
	if offset < 0 || offset > size {
		return nil, fmt.Errorf("%v at %v (file size %v): %w", what, offset, size, ErrSeekOutOfRange)
	}
	if length < 0 || offset+length > size {
		return nil, fmt.Errorf("%v at %v needs %v bytes, %v available: %w", what, offset, length, size-offset, ErrTruncated)
	}
	return io.NewSectionReader(r, offset, length), nil
}
