// Package zipper writes the layers of a Photon file to a ZIP file
// containing one PNG image per layer.
package zipper

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/flate"

	"github.com/katmatt/slacer/photon"
)

// Slice writes every layer of f to the ZIP file filename as out%04d.png.
func Slice(filename string, f *photon.File) error {
	zp := &zipper{fmtStr: "out%04d.png"}
	return zp.create(filename, f)
}

// zipper writes layers as PNG files into a ZIP archive.
type zipper struct {
	w *zip.Writer

	fmtStr   string
	manifest bool

	// The previous layer's pixel hash and encoded PNG.
	lastKey uint64
	lastPNG []byte
}

func (zp *zipper) create(filename string, f *photon.File) error {
	zf, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	if err := zp.writeTo(zf, f); err != nil {
		zf.Close()
		return err
	}

	if err := zf.Close(); err != nil {
		return fmt.Errorf("Unable to close ZIP file: %w", err)
	}
	return nil
}

func (zp *zipper) writeTo(out io.Writer, f *photon.File) error {
	zp.w = zip.NewWriter(out)
	zp.w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	zp.lastPNG = nil

	if zp.manifest {
		if err := zp.writeManifest(f); err != nil {
			return err
		}
	}

	for n := 0; n < f.NumLayers(); n++ {
		if err := zp.processLayer(n, f); err != nil {
			return err
		}
	}

	if err := zp.w.Close(); err != nil {
		return fmt.Errorf("Unable to close ZIP writer: %w", err)
	}
	return nil
}

func (zp *zipper) processLayer(n int, f *photon.File) error {
	img, err := f.Image(n)
	if err != nil {
		return err
	}

	key := xxhash.Sum64(img.Pix)
	buf := zp.lastPNG
	if buf == nil || key != zp.lastKey {
		var b bytes.Buffer
		if err := png.Encode(&b, img); err != nil {
			return fmt.Errorf("PNG encode: %w", err)
		}
		buf = b.Bytes()
		zp.lastKey, zp.lastPNG = key, buf
	}

	filename := fmt.Sprintf(zp.fmtStr, n)
	fh := &zip.FileHeader{
		Name:     filename,
		Comment:  fmt.Sprintf("z=%0.2f", f.LayerDefs[n].LayerHeight),
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	w, err := zp.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %w", filename, err)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %q: %w", filename, err)
	}

	return nil
}
