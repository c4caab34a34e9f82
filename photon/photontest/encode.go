package photontest

import (
	"image"
	"image/color"
	"math"
)

// This is based on: github.com/Andoryuuta/photon
// LICENSE: Apache-2.0
// https://github.com/Andoryuuta/photon/blob/master/LICENSE

const (
	flagSetPixels = 0x80
	maxRun        = 0x7f
)

// Run is a span of identical pixels.
type Run struct {
	White  bool
	Length int
}

// EncodeRuns encodes runs in order. Runs longer than 127 pixels are split.
// A zero-length run is emitted as a single zero-length byte.
func EncodeRuns(runs []Run) []byte {
	var output []byte
	for _, r := range runs {
		var flag byte
		if r.White {
			flag = flagSetPixels
		}
		n := r.Length
		if n == 0 {
			output = append(output, flag)
			continue
		}
		for n > 0 {
			c := n
			if c > maxRun {
				c = maxRun
			}
			output = append(output, byte(c)|flag)
			n -= c
		}
	}
	return output
}

// EncodePixels run-length encodes a row-major layer. Any non-zero pixel is
// treated as set.
func EncodePixels(pix []byte) []byte {
	var output []byte

	var count byte
	var set bool
	flush := func() {
		if count == 0 {
			return
		}
		if set {
			output = append(output, count|flagSetPixels)
		} else {
			output = append(output, count)
		}
		count = 0
	}

	for _, p := range pix {
		if (p != 0) != set {
			flush()
			set = p != 0
		}
		count++
		if count == maxRun {
			flush()
		}
	}
	flush()

	return output
}

// EncodePreview encodes img at its own size as RGB555 words, using a fill
// word plus repeat word for three or more identical pixels in a row.
func EncodePreview(img *image.RGBA) []byte {
	var output []byte

	b := img.Bounds()
	w := b.Dx()
	maxPixelIndex := w * b.Dy()

	pixelAt := func(pi int) (color.RGBA, bool) {
		if pi >= maxPixelIndex {
			return color.RGBA{}, false
		}
		return img.RGBAAt(b.Min.X+pi%w, b.Min.Y+pi/w), true
	}
	same := func(p color.RGBA, pi int) bool {
		q, ok := pixelAt(pi)
		return ok && q == p
	}

	for pixelIndex := 0; pixelIndex < maxPixelIndex; pixelIndex++ {
		p, _ := pixelAt(pixelIndex)

		if !same(p, pixelIndex+1) || !same(p, pixelIndex+2) {
			v := combineRGB5515(p.R, p.G, p.B, false)
			output = append(output, byte(v&0xFF), byte(v>>8))
			continue
		}

		var skipCount uint16 = 3
		for ; skipCount < 0xFFF && same(p, pixelIndex+int(skipCount)); skipCount++ {
		}

		v := combineRGB5515(p.R, p.G, p.B, true)
		output = append(output, byte(v&0xFF), byte(v>>8))

		v = (skipCount - 1) | 0x3000
		output = append(output, byte(v&0xFF), byte(v>>8))

		pixelIndex += int(skipCount - 1)
	}

	return output
}

func changeRange(fromMin, fromMax, toMin, toMax, number uint32) uint32 {
	return uint32(math.Round(float64(number-fromMin)*float64(toMax-toMin)/float64(fromMax-fromMin) + float64(toMin)))
}

func combineRGB5515(r, g, b uint8, isFill bool) uint16 {
	// Scale colors from the range of 0-255 to 0-31
	rBits := uint16(changeRange(0, 255, 0, 31, uint32(r)))
	gBits := uint16(changeRange(0, 255, 0, 31, uint32(g)))
	bBits := uint16(changeRange(0, 255, 0, 31, uint32(b)))

	var fillBit uint16
	if isFill {
		fillBit = 1
	}

	var x uint16
	x |= (rBits & 0x1F) << 0
	x |= (fillBit & 0x1) << 5
	x |= (gBits & 0x1F) << 6
	x |= (bBits & 0x1F) << 11
	return x
}
