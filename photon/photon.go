// Package photon reads ChiTuBox .cbddlp files (which are identical to
// AnyCubic .photon files) and decodes their layer bitmaps.
//
// A file is a fixed header, a directory of layer definitions and one
// run-length encoded bitmap per layer. Every offset is absolute, so each
// stage reads from an io.ReaderAt and never depends on where a previous
// stage left a cursor.
package photon

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"
)

// File is a fully decoded Photon file. It is not modified after Load returns.
type File struct {
	Header    *Header
	LayerDefs []LayerDef
	Layers    [][]byte // decoded pixels, parallel to LayerDefs
}

// Progress is reported once for every decoded layer.
type Progress struct {
	Layer int // index of the layer just decoded
	Done  int // number of layers decoded so far
	Total int
}

// Options control how Load decodes layers. A nil *Options is valid.
type Options struct {
	// Workers is the number of layers decoded concurrently.
	// Values below 2 decode sequentially in ascending layer order.
	Workers int

	// Progress, if set, is called after each layer is decoded.
	// Calls never overlap.
	Progress func(Progress)

	// Strict fails the load with ErrMalformedLayer when a layer does not
	// decode to exactly ScreenWidth*ScreenHeight pixels.
	Strict bool
}

func (o *Options) workers() int {
	if o == nil || o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// Open opens the named file and loads it.
func Open(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := Load(f, fi.Size(), opts)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return pf, nil
}

// Load reads the header, the layer directory and every layer from r,
// whose total length is size. Any failure aborts the load.
func Load(r io.ReaderAt, size int64, opts *Options) (*File, error) {
	h, err := ReadHeader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}

	defs, err := ReadLayerDefs(r, size, h)
	if err != nil {
		return nil, err
	}

	layers, err := readLayers(r, size, defs, opts)
	if err != nil {
		return nil, err
	}

	pf := &File{Header: h, LayerDefs: defs, Layers: layers}
	if opts != nil && opts.Strict {
		if err := pf.Check(); err != nil {
			return nil, err
		}
	}
	return pf, nil
}

// progress serializes calls to an Options.Progress func.
type progress struct {
	mu    sync.Mutex
	fn    func(Progress)
	done  int
	total int
}

func newProgress(opts *Options, total int) *progress {
	p := &progress{total: total}
	if opts != nil {
		p.fn = opts.Progress
	}
	return p
}

func (p *progress) layerDone(n int) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.fn(Progress{Layer: n, Done: p.done, Total: p.total})
}

func readLayers(r io.ReaderAt, size int64, defs []LayerDef, opts *Options) ([][]byte, error) {
	layers := make([][]byte, len(defs))
	p := newProgress(opts, len(defs))

	workers := opts.workers()
	if workers > len(defs) {
		workers = len(defs)
	}

	if workers <= 1 {
		for i, def := range defs {
			pix, err := ReadLayer(r, size, def)
			if err != nil {
				return nil, fmt.Errorf("layer %v: %w", i, err)
			}
			layers[i] = pix
			p.layerDone(i)
		}
		return layers, nil
	}

	// Each worker writes only to its own slots of layers.
	tasks := make(chan int)
	errs := make(chan error, 1)
	stop := make(chan struct{})
	var once sync.Once

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				pix, err := ReadLayer(r, size, defs[i])
				if err != nil {
					select {
					case errs <- fmt.Errorf("layer %v: %w", i, err):
					default:
					}
					once.Do(func() { close(stop) })
					continue
				}
				layers[i] = pix
				p.layerDone(i)
			}
		}()
	}

feed:
	for i := range defs {
		select {
		case tasks <- i:
		case <-stop:
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	return layers, nil
}

// NumLayers returns the number of layers in the file.
func (f *File) NumLayers() int {
	return len(f.Layers)
}

// Layer returns the decoded pixels of layer n.
func (f *File) Layer(n int) ([]byte, error) {
	if n < 0 || n >= len(f.Layers) {
		return nil, fmt.Errorf("layer %v of %v: %w", n, len(f.Layers), ErrLayerIndex)
	}
	return f.Layers[n], nil
}

// Image returns layer n as an 8-bit grayscale image of the screen size.
// The layer must decode to exactly ScreenWidth*ScreenHeight pixels.
// The image shares its pixels with f and must not be modified.
func (f *File) Image(n int) (*image.Gray, error) {
	pix, err := f.Layer(n)
	if err != nil {
		return nil, err
	}
	if err := checkLayer(f.Header, n, pix); err != nil {
		return nil, err
	}

	w, h := int(f.Header.ScreenWidth), int(f.Header.ScreenHeight)
	return &image.Gray{
		Pix:    pix,
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// Check returns an error for the first layer whose pixel count does not
// match the screen geometry.
func (f *File) Check() error {
	for i, pix := range f.Layers {
		if err := checkLayer(f.Header, i, pix); err != nil {
			return err
		}
	}
	return nil
}
