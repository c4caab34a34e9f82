package photontest

// This is based on: github.com/Andoryuuta/photon
// LICENSE: Apache-2.0
// https://github.com/Andoryuuta/photon/blob/master/LICENSE

// FileHeader is the on-disk Photon header. binary.Write of this struct
// produces exactly photon.HeaderSize bytes.
type FileHeader struct {
	Magic              [8]byte
	SizeX              float32
	SizeY              float32
	SizeZ              float32
	Reserved0          [3]uint32
	LayerHeight        float32
	ExposureTime       float32
	BottomExposureTime float32
	OffTime            float32
	BottomLayers       int32
	ScreenWidth        int32
	ScreenHeight       int32

	// The offsets and NumLayers are filled in by Builder.Bytes.
	PreviewHighResOffset int32
	LayerDefsOffset      int32
	NumLayers            int32
	PreviewLowResOffset  int32

	Unknown        int32
	ProjectionType int32
	Reserved1      [6]uint32
}

type layerHeader struct {
	LayerHeight  float32
	ExposureTime float32
	OffTime      float32
	DataOffset   int32
	DataLength   int32
	Reserved     [4]int32
}

type previewHeader struct {
	Width      uint32
	Height     uint32
	DataOffset uint32
	DataSize   uint32
	_          [16]byte
}
