// Package photontest builds synthetic Photon files for tests.
package photontest

import (
	"bytes"
	"encoding/binary"
	"image"
)

// Layer is one layer of a synthetic file. Data is the raw RLE stream.
type Layer struct {
	LayerHeight  float32
	ExposureTime float32
	OffTime      float32
	Reserved     [4]int32

	Data []byte
}

// Builder assembles a Photon file in the same order ChiTuBox writes one:
// header, high-res preview, low-res preview, layer directory, layer data.
type Builder struct {
	Header FileHeader
	Layers []Layer

	Preview   *image.RGBA // optional
	Thumbnail *image.RGBA // optional
}

// Bytes returns the encoded file. The header offsets and layer count are
// computed from the contents of b.
func (b *Builder) Bytes() []byte {
	h := b.Header

	pos := binary.Size(FileHeader{})

	var previewHdr, thumbHdr *previewHeader
	var previewData, thumbData []byte
	if b.Preview != nil {
		previewData = EncodePreview(b.Preview)
		h.PreviewHighResOffset = int32(pos)
		previewHdr, pos = newPreviewHeader(b.Preview, pos, len(previewData))
	}
	if b.Thumbnail != nil {
		thumbData = EncodePreview(b.Thumbnail)
		h.PreviewLowResOffset = int32(pos)
		thumbHdr, pos = newPreviewHeader(b.Thumbnail, pos, len(thumbData))
	}

	h.LayerDefsOffset = int32(pos)
	h.NumLayers = int32(len(b.Layers))
	pos += len(b.Layers) * binary.Size(layerHeader{})

	var layerHeaders []layerHeader
	for _, l := range b.Layers {
		layerHeaders = append(layerHeaders, layerHeader{
			LayerHeight:  l.LayerHeight,
			ExposureTime: l.ExposureTime,
			OffTime:      l.OffTime,
			DataOffset:   int32(pos),
			DataLength:   int32(len(l.Data)),
			Reserved:     l.Reserved,
		})
		pos += len(l.Data)
	}

	var buf bytes.Buffer
	write(&buf, h)
	if previewHdr != nil {
		write(&buf, previewHdr)
		buf.Write(previewData)
	}
	if thumbHdr != nil {
		write(&buf, thumbHdr)
		buf.Write(thumbData)
	}
	if len(layerHeaders) > 0 {
		write(&buf, layerHeaders)
	}
	for _, l := range b.Layers {
		buf.Write(l.Data)
	}

	return buf.Bytes()
}

func newPreviewHeader(img *image.RGBA, pos, dataLen int) (*previewHeader, int) {
	pos += binary.Size(previewHeader{})
	ph := &previewHeader{
		Width:      uint32(img.Bounds().Dx()),
		Height:     uint32(img.Bounds().Dy()),
		DataOffset: uint32(pos),
		DataSize:   uint32(dataLen),
	}
	return ph, pos + dataLen
}

// write panics because a bytes.Buffer only fails on invalid data types.
func write(buf *bytes.Buffer, v interface{}) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}
