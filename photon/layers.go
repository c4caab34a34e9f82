package photon

import (
	"fmt"
	"io"
)

// LayerDef is one entry of the layer directory.
type LayerDef struct {
	LayerHeight  float32 // absolute height of the layer in millimeters
	ExposureTime float32
	OffTime      float32

	// DataOffset and DataLength locate the layer's RLE stream.
	DataOffset int32
	DataLength int32

	Reserved [4]int32
}

// ReadLayerDefs reads the h.NumLayers entries of the layer directory found
// at h.LayerDefsOffset. The result is in file order, so index i is layer i.
//
// size is the total length of r. The directory is bounds-checked against it
// before anything is allocated.
func ReadLayerDefs(r io.ReaderAt, size int64, h *Header) ([]LayerDef, error) {
	if h.NumLayers < 0 {
		return nil, fmt.Errorf("layer directory: %v layers: %w", h.NumLayers, ErrLayerCount)
	}

	n := int64(h.NumLayers)
	sr, err := span(r, size, int64(h.LayerDefsOffset), n*int64(LayerDefSize), "layer directory")
	if err != nil {
		return nil, err
	}

	defs := make([]LayerDef, 0, n)
	for i := int64(0); i < n; i++ {
		buf, err := readRecord(sr, LayerDefSize, fmt.Sprintf("layer def %v", i))
		if err != nil {
			return nil, err
		}

		d := &decoder{buf: buf}
		def := LayerDef{
			LayerHeight:  d.f32(),
			ExposureTime: d.f32(),
			OffTime:      d.f32(),
			DataOffset:   d.i32(),
			DataLength:   d.i32(),
		}
		for j := range def.Reserved {
			def.Reserved[j] = d.i32()
		}
		defs = append(defs, def)
	}

	return defs, nil
}
