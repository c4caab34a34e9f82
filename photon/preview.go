package photon

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
)

const (
	previewFill   = 0x20  // bit 5: the next word is a repeat count
	previewRepeat = 0xfff // low 12 bits of the repeat word hold count-1

	maxPreviewDim = 1 << 14
)

// PreviewHeader describes one of the two preview images.
type PreviewHeader struct {
	Width      uint32
	Height     uint32
	DataOffset uint32
	DataSize   uint32
}

// ReadPreview decodes the preview image whose header is at offset, which is
// normally Header.PreviewHighResOffset or Header.PreviewLowResOffset.
func ReadPreview(r io.ReaderAt, size int64, offset int32) (*image.RGBA, error) {
	if offset == 0 {
		return nil, ErrNoPreview
	}

	sr, err := span(r, size, int64(offset), int64(previewSize), "preview header")
	if err != nil {
		return nil, err
	}
	buf, err := readRecord(sr, previewSize, "preview header")
	if err != nil {
		return nil, err
	}

	d := &decoder{buf: buf}
	ph := PreviewHeader{
		Width:      d.u32(),
		Height:     d.u32(),
		DataOffset: d.u32(),
		DataSize:   d.u32(),
	}
	if ph.Width == 0 || ph.Height == 0 || ph.Width > maxPreviewDim || ph.Height > maxPreviewDim {
		return nil, fmt.Errorf("preview at %v is %vx%v: %w", offset, ph.Width, ph.Height, ErrMalformedPreview)
	}

	sr, err = span(r, size, int64(ph.DataOffset), int64(ph.DataSize), "preview data")
	if err != nil {
		return nil, err
	}
	data, err := readRecord(sr, int(ph.DataSize), "preview data")
	if err != nil {
		return nil, err
	}

	return decodePreview(int(ph.Width), int(ph.Height), data)
}

// decodePreview expands RGB555 words into an image. A word with the fill
// bit set is followed by a word whose low 12 bits are the extra repeats.
// Pixels beyond w*h are ignored.
func decodePreview(w, h int, data []byte) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	n := w * h

	var px int
	for i := 0; i+1 < len(data) && px < n; {
		v := binary.LittleEndian.Uint16(data[i:])
		i += 2

		repeat := 1
		if v&previewFill != 0 {
			if i+1 >= len(data) {
				return nil, fmt.Errorf("preview repeat at byte %v: %w", i, ErrTruncated)
			}
			repeat += int(binary.LittleEndian.Uint16(data[i:]) & previewRepeat)
			i += 2
		}

		c := color.RGBA{R: expand5(v), G: expand5(v >> 6), B: expand5(v >> 11), A: 0xff}
		for ; repeat > 0 && px < n; repeat-- {
			img.SetRGBA(px%w, px/w, c)
			px++
		}
	}

	return img, nil
}

// expand5 scales the low 5 bits of v to 0-255.
func expand5(v uint16) uint8 {
	x := uint32(v & 0x1f)
	return uint8((x*255 + 15) / 31)
}
