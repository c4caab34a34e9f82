package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katmatt/slacer/photon"
)

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.photon>",
		Short: "Print the header and layer directory of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			f, err := load(args[0], o)
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), f)
		},
	}
}

func printInfo(out io.Writer, f *photon.File) error {
	h := f.Header

	magic := "unknown"
	if h.HasMagic() {
		magic = "photon"
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "magic:\t% x (%v)\n", h.Magic[:], magic)
	fmt.Fprintf(tw, "volume:\t%v x %v x %v mm\n", h.SizeX, h.SizeY, h.SizeZ)
	fmt.Fprintf(tw, "screen:\t%v x %v px\n", h.ScreenWidth, h.ScreenHeight)
	fmt.Fprintf(tw, "layer height:\t%v mm\n", h.LayerHeight)
	fmt.Fprintf(tw, "exposure:\t%v s\n", h.ExposureTime)
	fmt.Fprintf(tw, "bottom exposure:\t%v s x %v layers\n", h.BottomExposureTime, h.BottomLayers)
	fmt.Fprintf(tw, "off time:\t%v s\n", h.OffTime)
	fmt.Fprintf(tw, "projection type:\t%v\n", h.ProjectionType)
	fmt.Fprintf(tw, "previews:\thigh 0x%x, low 0x%x\n", h.PreviewHighResOffset, h.PreviewLowResOffset)
	fmt.Fprintf(tw, "layers:\t%v at 0x%x\n", h.NumLayers, h.LayerDefsOffset)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "layer\theight\texposure\toff\toffset\tlength\tpixels\t")
	want := h.PixelCount()
	for i, def := range f.LayerDefs {
		status := ""
		if len(f.Layers[i]) != want {
			status = "  malformed"
		}
		fmt.Fprintf(tw, "%v\t%.3f\t%v\t%v\t0x%x\t%v\t%v\t%v\n",
			i, def.LayerHeight, def.ExposureTime, def.OffTime,
			def.DataOffset, def.DataLength, len(f.Layers[i]), status)
	}
	return tw.Flush()
}
