package zipper

import (
	"archive/zip"
	"fmt"
	"time"

	"github.com/katmatt/slacer/photon"
)

// SVXSlice writes every layer of f to an SVX voxel file: a ZIP of
// density slices plus a manifest describing the grid.
func SVXSlice(filename string, f *photon.File) error {
	zp := &zipper{fmtStr: "density/slice%04d.png", manifest: true}
	return zp.create(filename, f)
}

func (zp *zipper) writeManifest(f *photon.File) error {
	fh := &zip.FileHeader{
		Name:     "manifest.xml",
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	w, err := zp.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %w", fh.Name, err)
	}

	h := f.Header
	_, err = fmt.Fprintf(w, manifestFmt,
		h.ScreenWidth,
		h.ScreenHeight,
		f.NumLayers(),
		h.LayerHeight/1000.0, // voxelSize in meters
		h.ExposureTime,
		h.BottomExposureTime,
		h.BottomLayers,
		fh.Modified.Format(time.RFC3339))
	return err
}

var manifestFmt = `<?xml version="1.0"?>

<grid version="1.0" gridSizeX="%v" gridSizeY="%v" gridSizeZ="%v"
   voxelSize="%v" subvoxelBits="8" slicesOrientation="Z" >

    <channels>
        <channel type="DENSITY" bits="8" slices="density/slice%%04d.png" />
    </channels>

    <materials>
        <material id="1" urn="urn:shapeways:materials/1" />
    </materials>

    <metadata>
        <entry key="exposureTime" value="%v" />
        <entry key="bottomExposureTime" value="%v" />
        <entry key="bottomLayers" value="%v" />
        <entry key="creationDate" value=%q />
    </metadata>
</grid>`
