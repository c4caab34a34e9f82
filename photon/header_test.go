package photon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayouts(t *testing.T) {
	assert.Equal(t, HeaderSize, headerLayout.size())
	assert.Equal(t, LayerDefSize, layerDefLayout.size())
	assert.Equal(t, previewSize, previewLayout.size())

	// The in-memory structs mirror the on-disk layout.
	assert.Equal(t, HeaderSize, binary.Size(Header{}))
	assert.Equal(t, LayerDefSize, binary.Size(LayerDef{}))

	tests := []struct {
		name string
		want int
	}{
		{name: "size_x", want: 8},
		{name: "layer_height", want: 32},
		{name: "bottom_layers", want: 48},
		{name: "screen_width", want: 52},
		{name: "screen_height", want: 56},
		{name: "preview_high_res_offset", want: 60},
		{name: "layer_defs_offset", want: 64},
		{name: "num_layers", want: 68},
		{name: "preview_low_res_offset", want: 72},
		{name: "projection_type", want: 80},
		{name: "reserved1", want: 84},
		{name: "bogus", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headerLayout.offset(tt.name))
		})
	}

	assert.Equal(t, 12, layerDefLayout.offset("data_offset"))
	assert.Equal(t, 16, layerDefLayout.offset("data_length"))
}

func TestReadHeader(t *testing.T) {
	want := Header{
		Magic:                Magic,
		SizeX:                68.04,
		SizeY:                120.96,
		SizeZ:                150,
		Reserved0:            [3]uint32{1, 2, 0xffffffff},
		LayerHeight:          0.05,
		ExposureTime:         6,
		BottomExposureTime:   50,
		OffTime:              float32(math.Inf(-1)),
		BottomLayers:         8,
		ScreenWidth:          1440,
		ScreenHeight:         2560,
		PreviewHighResOffset: 0x70,
		LayerDefsOffset:      0x1234,
		NumLayers:            -7,
		PreviewLowResOffset:  0x5678,
		Unknown:              -1,
		ProjectionType:       1,
		Reserved1:            [6]uint32{3, 4, 5, 6, 7, 8},
	}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, want))
	buf.Write([]byte{0xaa, 0xbb})

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, math.Float32bits(want.SizeX), math.Float32bits(got.SizeX))
	assert.Equal(t, math.Float32bits(want.LayerHeight), math.Float32bits(got.LayerHeight))
	assert.True(t, got.HasMagic())
	assert.Equal(t, 1440*2560, got.PixelCount())

	// Exactly HeaderSize bytes are consumed.
	assert.Equal(t, []byte{0xaa, 0xbb}, buf.Bytes())
}

// fillLayout writes a distinct little-endian word into every 4-byte slot of
// each field and returns the first word of every field by name.
func fillLayout(l layout) ([]byte, map[string]uint32) {
	buf := make([]byte, l.size())
	first := map[string]uint32{}
	for k, f := range l {
		at := l.offset(f.name)
		first[f.name] = uint32(0x1000*(k+1) + 1)
		for w := 0; w < f.width/4; w++ {
			binary.LittleEndian.PutUint32(buf[at+4*w:], uint32(0x1000*(k+1)+w+1))
		}
	}
	return buf, first
}

func TestReadHeader_FieldOffsets(t *testing.T) {
	buf, want := fillLayout(headerLayout)

	h, err := ReadHeader(bytes.NewReader(buf))
	require.NoError(t, err)

	got := map[string]uint32{
		"magic":                   binary.LittleEndian.Uint32(h.Magic[:]),
		"size_x":                  math.Float32bits(h.SizeX),
		"size_y":                  math.Float32bits(h.SizeY),
		"size_z":                  math.Float32bits(h.SizeZ),
		"reserved0":               h.Reserved0[0],
		"layer_height":            math.Float32bits(h.LayerHeight),
		"exposure_time":           math.Float32bits(h.ExposureTime),
		"bottom_exposure_time":    math.Float32bits(h.BottomExposureTime),
		"off_time":                math.Float32bits(h.OffTime),
		"bottom_layers":           uint32(h.BottomLayers),
		"screen_width":            uint32(h.ScreenWidth),
		"screen_height":           uint32(h.ScreenHeight),
		"preview_high_res_offset": uint32(h.PreviewHighResOffset),
		"layer_defs_offset":       uint32(h.LayerDefsOffset),
		"num_layers":              uint32(h.NumLayers),
		"preview_low_res_offset":  uint32(h.PreviewLowResOffset),
		"unknown":                 uint32(h.Unknown),
		"projection_type":         uint32(h.ProjectionType),
		"reserved1":               h.Reserved1[0],
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want["reserved1"]+5, h.Reserved1[5])
	assert.Equal(t, want["magic"]+1, binary.LittleEndian.Uint32(h.Magic[4:]))
}

func TestReadLayerDefs_FieldOffsets(t *testing.T) {
	rec, want := fillLayout(layerDefLayout)
	src := append(make([]byte, HeaderSize), rec...)
	h := &Header{LayerDefsOffset: HeaderSize, NumLayers: 1}

	defs, err := ReadLayerDefs(bytes.NewReader(src), int64(len(src)), h)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	d := defs[0]
	got := map[string]uint32{
		"layer_height":  math.Float32bits(d.LayerHeight),
		"exposure_time": math.Float32bits(d.ExposureTime),
		"off_time":      math.Float32bits(d.OffTime),
		"data_offset":   uint32(d.DataOffset),
		"data_length":   uint32(d.DataLength),
		"reserved":      uint32(d.Reserved[0]),
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want["reserved"]+3, uint32(d.Reserved[3]))
}

func TestReadHeader_AnyMagic(t *testing.T) {
	src := make([]byte, HeaderSize)
	copy(src, "NOTPHOTN")

	h, err := ReadHeader(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "NOTPHOTN", string(h.Magic[:]))
	assert.False(t, h.HasMagic())
}

func TestReadHeader_Truncated(t *testing.T) {
	for _, n := range []int{0, 1, 8, HeaderSize - 1} {
		t.Run(fmt.Sprintf("%v bytes", n), func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(make([]byte, n)))
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}
