package photon

import "errors"

var (
	// ErrTruncated is returned when the source ends before a fixed-layout
	// record or a layer data span has been fully read.
	ErrTruncated = errors.New("truncated photon file")

	// ErrSeekOutOfRange is returned when an offset stored in the file lies
	// outside of the source.
	ErrSeekOutOfRange = errors.New("offset out of range")

	// ErrMalformedLayer is returned when a decoded layer does not contain
	// exactly screen_width*screen_height pixels.
	ErrMalformedLayer = errors.New("malformed layer")

	// ErrLayerCount is returned when the header declares a negative number of layers.
	ErrLayerCount = errors.New("invalid layer count")

	// ErrLayerIndex is returned when a requested layer does not exist.
	ErrLayerIndex = errors.New("layer index out of range")

	// ErrMalformedPreview is returned when a preview header describes an
	// unusable image.
	ErrMalformedPreview = errors.New("malformed preview")

	// ErrNoPreview is returned when the header has no offset for a preview image.
	ErrNoPreview = errors.New("no preview image")
)
