package photon

import (
	"bytes"
	"io"
)

// Magic is the tag written by ChiTuBox and the AnyCubic slicer:
// 0x12FD0019 followed by the format version 0x01.
var Magic = [8]byte{0x19, 0x00, 0xfd, 0x12, 0x01, 0x00, 0x00, 0x00}

// Header is the fixed-layout record at the start of a Photon file.
// Offsets are absolute byte positions within the file.
type Header struct {
	Magic [8]byte

	SizeX float32 // print volume in millimeters
	SizeY float32
	SizeZ float32

	Reserved0 [3]uint32

	LayerHeight        float32 // millimeters
	ExposureTime       float32 // seconds
	BottomExposureTime float32
	OffTime            float32
	BottomLayers       int32

	ScreenWidth  int32 // pixels
	ScreenHeight int32

	PreviewHighResOffset int32
	LayerDefsOffset      int32
	NumLayers            int32
	PreviewLowResOffset  int32
	Unknown              int32
	ProjectionType       int32

	Reserved1 [6]uint32
}

// ReadHeader reads a Header from the current position of r, which is
// normally the start of the file. Exactly HeaderSize bytes are consumed.
//
// The magic tag is not checked; use HasMagic for format detection.
func ReadHeader(r io.Reader) (*Header, error) {
	buf, err := readRecord(r, HeaderSize, "header")
	if err != nil {
		return nil, err
	}

	d := &decoder{buf: buf}
	h := &Header{}
	copy(h.Magic[:], d.bytes(8))
	h.SizeX = d.f32()
	h.SizeY = d.f32()
	h.SizeZ = d.f32()
	for i := range h.Reserved0 {
		h.Reserved0[i] = d.u32()
	}
	h.LayerHeight = d.f32()
	h.ExposureTime = d.f32()
	h.BottomExposureTime = d.f32()
	h.OffTime = d.f32()
	h.BottomLayers = d.i32()
	h.ScreenWidth = d.i32()
	h.ScreenHeight = d.i32()
	h.PreviewHighResOffset = d.i32()
	h.LayerDefsOffset = d.i32()
	h.NumLayers = d.i32()
	h.PreviewLowResOffset = d.i32()
	h.Unknown = d.i32()
	h.ProjectionType = d.i32()
	for i := range h.Reserved1 {
		h.Reserved1[i] = d.u32()
	}

	return h, nil
}

// HasMagic reports whether the header starts with the known Photon tag.
func (h *Header) HasMagic() bool {
	return bytes.Equal(h.Magic[:], Magic[:])
}

// PixelCount is the number of pixels a well-formed layer decodes to.
func (h *Header) PixelCount() int {
	return int(h.ScreenWidth) * int(h.ScreenHeight)
}
