package photon

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// directoryFile returns a file whose directory starts at dirOffset.
func directoryFile(t *testing.T, dirOffset int, defs []LayerDef) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := Header{LayerDefsOffset: int32(dirOffset), NumLayers: int32(len(defs))}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	for buf.Len() < dirOffset {
		buf.WriteByte(0xee)
	}
	if len(defs) > 0 {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, defs))
	}
	return buf.Bytes()
}

func TestReadLayerDefs(t *testing.T) {
	want := []LayerDef{
		{LayerHeight: 0.05, ExposureTime: 50, OffTime: 1, DataOffset: 500, DataLength: 10},
		{LayerHeight: 0.10, ExposureTime: 6, OffTime: 1, DataOffset: 510, DataLength: 20, Reserved: [4]int32{1, 2, 3, 4}},
		{LayerHeight: 0.15, ExposureTime: 6, OffTime: 1, DataOffset: 530, DataLength: 30},
	}
	const dirOffset = 200
	src := directoryFile(t, dirOffset, want)

	h, err := ReadHeader(bytes.NewReader(src))
	require.NoError(t, err)

	got, err := ReadLayerDefs(bytes.NewReader(src), int64(len(src)), h)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, want, got)

	// Record i lives at dirOffset + i*LayerDefSize.
	for i, def := range want {
		at := dirOffset + i*LayerDefSize + layerDefLayout.offset("data_offset")
		assert.Equal(t, uint32(def.DataOffset), binary.LittleEndian.Uint32(src[at:]))
	}

	h.NumLayers = 2
	got, err = ReadLayerDefs(bytes.NewReader(src), int64(len(src)), h)
	require.NoError(t, err)
	assert.Equal(t, want[:2], got)
}

func TestReadLayerDefs_Empty(t *testing.T) {
	src := directoryFile(t, HeaderSize, nil)
	h := &Header{LayerDefsOffset: int32(HeaderSize)}

	got, err := ReadLayerDefs(bytes.NewReader(src), int64(len(src)), h)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadLayerDefs_Errors(t *testing.T) {
	defs := []LayerDef{{DataLength: 1}, {DataLength: 2}}
	src := directoryFile(t, HeaderSize, defs)
	size := int64(len(src))

	tests := []struct {
		name    string
		h       Header
		size    int64
		wantErr error
	}{
		{
			name:    "offset past end",
			h:       Header{LayerDefsOffset: int32(size) + 1, NumLayers: 1},
			size:    size,
			wantErr: ErrSeekOutOfRange,
		},
		{
			name:    "negative offset",
			h:       Header{LayerDefsOffset: -4, NumLayers: 1},
			size:    size,
			wantErr: ErrSeekOutOfRange,
		},
		{
			name:    "negative count",
			h:       Header{LayerDefsOffset: int32(HeaderSize), NumLayers: -1},
			size:    size,
			wantErr: ErrLayerCount,
		},
		{
			name:    "one too many",
			h:       Header{LayerDefsOffset: int32(HeaderSize), NumLayers: 3},
			size:    size,
			wantErr: ErrTruncated,
		},
		{
			name:    "absurd count",
			h:       Header{LayerDefsOffset: int32(HeaderSize), NumLayers: 1 << 30},
			size:    size,
			wantErr: ErrTruncated,
		},
		{
			name:    "source cut mid-record",
			h:       Header{LayerDefsOffset: int32(HeaderSize), NumLayers: 2},
			size:    size - 1,
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLayerDefs(bytes.NewReader(src[:tt.size]), tt.size, &tt.h)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}
