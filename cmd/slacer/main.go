// slacer decodes the layers of an AnyCubic .photon (ChiTuBox .cbddlp)
// slice file and writes the requested layer as a grayscale PNG.
//
// The whole print can also be exported as a ZIP of PNG slices (-zip),
// as an SVX voxel file (-svx) or as a binvox model (-binvox).
package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katmatt/slacer/binvox"
	"github.com/katmatt/slacer/config"
	"github.com/katmatt/slacer/photon"
	"github.com/katmatt/slacer/zipper"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	if err := cmd.Execute(); err != nil {
		log.Printf("slacer: %v", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	workers    int
	strict     bool
	quiet      bool

	output      string
	checksum    bool
	previewName string
	zipName     string
	svxName     string
	binvoxName  string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:           "slacer [flags] <file.photon> <layer>",
		Short:         "Decode the layers of an AnyCubic .photon / ChiTuBox .cbddlp file",
		Args:          cobra.ExactArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid layer %q: %w", args[1], err)
			}
			if err := o.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			return export(cmd.OutOrStdout(), args[0], layer, o)
		},
	}

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&o.configPath, "config", "", "config file (default is "+config.Path()+")")
	pflags.IntVarP(&o.workers, "workers", "w", runtime.NumCPU(), "number of layers decoded concurrently")
	pflags.BoolVar(&o.strict, "strict", false, "fail when any layer does not match the screen size")
	pflags.BoolVarP(&o.quiet, "quiet", "q", false, "do not log per-layer progress")

	flags := rootCmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "layer.png", "PNG file for the requested layer")
	flags.BoolVar(&o.checksum, "checksum", false, "print the BLAKE3 digest of the requested layer")
	flags.StringVar(&o.previewName, "preview", "", "also write the high resolution preview to this PNG file")
	flags.StringVar(&o.zipName, "zip", "", "also write every layer to this ZIP file")
	flags.StringVar(&o.svxName, "svx", "", "also write every layer to this SVX voxel file")
	flags.StringVar(&o.binvoxName, "binvox", "", "also write the stacked layers to this binvox file")

	rootCmd.AddCommand(newInfoCmd(o))
	return rootCmd
}

// applyConfig fills in options from the config file for flags that were
// not given on the command line.
func (o *options) applyConfig(flags *pflag.FlagSet) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	d := cfg.Defaults
	if d.Workers != nil && !flags.Changed("workers") {
		o.workers = *d.Workers
	}
	if d.Strict != nil && !flags.Changed("strict") {
		o.strict = *d.Strict
	}
	if d.Output != nil && flags.Lookup("output") != nil && !flags.Changed("output") {
		o.output = *d.Output
	}
	return nil
}

func load(name string, o *options) (*photon.File, error) {
	opts := &photon.Options{Workers: o.workers, Strict: o.strict}
	if !o.quiet {
		opts.Progress = func(p photon.Progress) {
			log.Printf("layer: %v/%v", p.Done, p.Total)
		}
	}
	return photon.Open(name, opts)
}

func export(stdout io.Writer, name string, layer int, o *options) error {
	f, err := load(name, o)
	if err != nil {
		return err
	}

	img, err := f.Image(layer)
	if err != nil {
		return err
	}
	if err := writePNG(o.output, img); err != nil {
		return err
	}
	log.Printf("Wrote layer %v (%vx%v) to %v", layer, f.Header.ScreenWidth, f.Header.ScreenHeight, o.output)

	if o.checksum {
		digest, err := f.Digest(layer)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%v  layer %v\n", digest, layer)
	}

	if o.previewName != "" {
		if err := exportPreview(name, f.Header, o.previewName); err != nil {
			return err
		}
		log.Printf("Wrote preview to %v", o.previewName)
	}

	if o.zipName != "" {
		log.Printf("Writing %v layers to %v...", f.NumLayers(), o.zipName)
		if err := zipper.Slice(o.zipName, f); err != nil {
			return fmt.Errorf("zipper.Slice: %w", err)
		}
	}

	if o.svxName != "" {
		log.Printf("Writing %v layers to %v...", f.NumLayers(), o.svxName)
		if err := zipper.SVXSlice(o.svxName, f); err != nil {
			return fmt.Errorf("zipper.SVXSlice: %w", err)
		}
	}

	if o.binvoxName != "" {
		log.Printf("Writing %v layers to %v...", f.NumLayers(), o.binvoxName)
		if err := binvox.Slice(o.binvoxName, f); err != nil {
			return fmt.Errorf("binvox.Slice: %w", err)
		}
	}

	return nil
}

func exportPreview(name string, h *photon.Header, out string) error {
	r, err := os.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	fi, err := r.Stat()
	if err != nil {
		return err
	}

	img, err := photon.ReadPreview(r, fi.Size(), h.PreviewHighResOffset)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return writePNG(out, img)
}

func writePNG(name string, img image.Image) error {
	w, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return fmt.Errorf("PNG encode: %w", err)
	}
	return w.Close()
}
