package main

import (
	"image"
	"image/color"
)

func previewImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{A: 255}
			if x > 4 && x < 12 && y > 2 && y < 8 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
