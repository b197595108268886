package cli

import (
	"github.com/spf13/cobra"

	"github.com/optimg/optimg/internal/codec"
)

// codecCommands builds one subcommand per output format. Every
// subcommand shares the batch and pipeline flags; per-codec flags are
// registered next to the factory that reads them.
func codecCommands() []*cobra.Command {
	cmds := []*cobra.Command{
		newMozJpegCommand(),
		newJpegCommand(),
		newPngCommand(),
		newOxiPngCommand(),
		newWebPCommand(),
		newAvifCommand(),
		newJpegXLCommand(),
		newPPMCommand(),
		newQOICommand(),
		newFarbfeldCommand(),
	}
	for _, c := range cmds {
		addSharedFlags(c)
		c.Args = cobra.MinimumNArgs(1)
	}
	return cmds
}

func newMozJpegCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mozjpeg [flags] <files...>",
		Aliases: []string{"moz"},
		Short:   "Encode to JPEG with mozjpeg-style tuning",
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, err := cmd.Flags().GetInt("quality")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewMozJpeg(codec.JpegOptions{Quality: quality}))
		},
	}
	cmd.Flags().IntP("quality", "q", 75, "encoding quality 1-100")
	return cmd
}

func newJpegCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jpeg [flags] <files...>",
		Aliases: []string{"jpg"},
		Short:   "Encode to baseline JPEG",
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, err := cmd.Flags().GetInt("quality")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewJpeg(codec.JpegOptions{Quality: quality}))
		},
	}
	cmd.Flags().IntP("quality", "q", 75, "encoding quality 1-100")
	return cmd
}

func newPngCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "png [flags] <files...>",
		Short: "Encode to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, codec.NewPng())
		},
	}
}

func newOxiPngCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "oxipng [flags] <files...>",
		Aliases: []string{"oxi"},
		Short:   "Encode to size-optimized PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			effort, err := cmd.Flags().GetInt("effort")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewOxiPng(codec.PngOptions{Effort: effort}))
		},
	}
	cmd.Flags().Int("effort", 2, "optimization effort 0-6, higher is slower and smaller")
	return cmd
}

func newWebPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webp [flags] <files...>",
		Short: "Encode to WebP",
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			quality, err := fl.GetInt("quality")
			if err != nil {
				return err
			}
			lossless, err := fl.GetBool("lossless")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewWebP(codec.WebPOptions{Quality: quality, Lossless: lossless}))
		},
	}
	cmd.Flags().IntP("quality", "q", 75, "encoding quality 1-100")
	cmd.Flags().Bool("lossless", false, "encode losslessly, ignoring quality")
	return cmd
}

func newAvifCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avif [flags] <files...>",
		Short: "Encode to AVIF",
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			quality, err := fl.GetInt("quality")
			if err != nil {
				return err
			}
			alphaQuality, err := fl.GetInt("alpha_quality")
			if err != nil {
				return err
			}
			speed, err := fl.GetInt("speed")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewAvif(codec.AvifOptions{
				Quality:      quality,
				AlphaQuality: alphaQuality,
				Speed:        speed,
			}))
		},
	}
	cmd.Flags().IntP("quality", "q", 50, "encoding quality 1-100")
	cmd.Flags().Int("alpha_quality", 0, "alpha channel quality (default: same as quality)")
	cmd.Flags().Int("speed", 6, "encoder speed 0-10, higher is faster")
	return cmd
}

func newJpegXLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jpeg_xl [flags] <files...>",
		Aliases: []string{"jxl"},
		Short:   "Encode to JPEG XL",
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			quality, err := fl.GetInt("quality")
			if err != nil {
				return err
			}
			effort, err := fl.GetInt("effort")
			if err != nil {
				return err
			}
			return runBatch(cmd, args, codec.NewJpegXL(codec.JpegXLOptions{Quality: quality, Effort: effort}))
		},
	}
	cmd.Flags().IntP("quality", "q", 75, "encoding quality 1-100")
	cmd.Flags().Int("effort", 7, "encoding effort 1-10, higher is slower and smaller")
	return cmd
}

func newPPMCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ppm [flags] <files...>",
		Short: "Encode to binary PPM (P6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, codec.NewPPM())
		},
	}
}

func newQOICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "qoi [flags] <files...>",
		Short: "Encode to QOI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, codec.NewQOI())
		},
	}
}

func newFarbfeldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "farbfeld [flags] <files...>",
		Short: "Encode to farbfeld",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, codec.NewFarbfeld())
		},
	}
}
