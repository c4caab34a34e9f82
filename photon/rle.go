package photon

import (
	"fmt"
	"io"
)

const (
	colorFlag = 0x80
	runMask   = 0x7f
)

// DecodeRLE expands a layer's run-length encoded stream into one byte per
// pixel. The top bit of each byte selects white (255) or black (0) and the
// low 7 bits give the run length, which may be zero.
//
// The output is not padded or truncated to the screen geometry.
func DecodeRLE(data []byte) []byte {
	var n int
	for _, b := range data {
		n += int(b & runMask)
	}

	out := make([]byte, 0, n)
	for _, b := range data {
		var v byte
		if b&colorFlag != 0 {
			v = 255
		}
		for i := byte(0); i < b&runMask; i++ {
			out = append(out, v)
		}
	}
	return out
}

// ReadLayer reads the RLE stream described by def from r and decodes it.
func ReadLayer(r io.ReaderAt, size int64, def LayerDef) ([]byte, error) {
	sr, err := span(r, size, int64(def.DataOffset), int64(def.DataLength), "layer data")
	if err != nil {
		return nil, err
	}

	buf, err := readRecord(sr, int(def.DataLength), "layer data")
	if err != nil {
		return nil, err
	}

	return DecodeRLE(buf), nil
}

// checkLayer reports a layer whose pixel count does not match the screen.
func checkLayer(h *Header, n int, pix []byte) error {
	if want := h.PixelCount(); len(pix) != want {
		return fmt.Errorf("layer %v: decoded %v pixels, want %vx%v=%v: %w",
			n, len(pix), h.ScreenWidth, h.ScreenHeight, want, ErrMalformedLayer)
	}
	return nil
}
