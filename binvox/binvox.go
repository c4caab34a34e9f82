// Package binvox stacks the layers of a Photon file into a voxel model
// and writes it as a binvox file.
package binvox

import (
	"errors"
	"fmt"
	"image"

	"github.com/gmlewis/stldice/v4/binvox"

	"github.com/katmatt/slacer/photon"
)

// Slice writes every lit pixel of every layer of f as one voxel. X and Y
// are screen pixels and Z is the layer number.
func Slice(filename string, f *photon.File) error {
	nz := f.NumLayers()
	if nz == 0 {
		return errors.New("binvox: file has no layers")
	}

	h := f.Header
	b := binvox.New(
		int(h.ScreenWidth),
		int(h.ScreenHeight),
		nz,
		0,
		0,
		0,
		scale(h, nz),
		false,
	)

	c := &client{b: b}
	for n := 0; n < nz; n++ {
		img, err := f.Image(n)
		if err != nil {
			return err
		}
		c.processLayer(n, img)
	}

	if err := b.Write(filename, 0, 0, 0, b.NX, b.NY, b.NZ); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	return nil
}

// scale is the longest side of the model in millimeters.
func scale(h *photon.Header, nz int) float64 {
	s := float64(h.LayerHeight) * float64(nz)
	if v := float64(h.SizeX); v > s {
		s = v
	}
	if v := float64(h.SizeY); v > s {
		s = v
	}
	if s <= 0 {
		return 1
	}
	return s
}

// client adds the lit pixels of each layer to a binvox model.
type client struct {
	b *binvox.BinVOX

	voxels int
}

func (c *client) processLayer(z int, img *image.Gray) {
	r := img.Bounds()
	for v := r.Min.Y; v < r.Max.Y; v++ {
		row := img.Pix[(v-r.Min.Y)*img.Stride:]
		for u := r.Min.X; u < r.Max.X; u++ {
			if row[u-r.Min.X] == 0 {
				continue
			}
			c.b.Add(u, v, z)
			c.voxels++
		}
	}
}
