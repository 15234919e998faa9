package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	watermark "github.com/yyyoichi/watermark_dct"
)

var (
	extractFlags struct {
		Image    string
		Code     string
		CodeFile string
		Force    bool
		Resize   bool
		Out      string
	}
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover the original image and the watermark",
	Long:  `Recovers the host image and the watermark from a watermarked image and its extraction code, and writes image.png and watermark.png into the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if extractFlags.Code != "" && extractFlags.CodeFile != "" {
			log.Fatal().Msg("code and code-file cannot both be provided")
		}
		if extractFlags.Resize && !extractFlags.Force {
			log.Fatal().Msg("resize requires force")
		}
		code := extractFlags.Code
		if extractFlags.CodeFile != "" {
			b, err := os.ReadFile(extractFlags.CodeFile)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read code file")
			}
			code = strings.TrimSpace(string(b))
		}
		if code == "" {
			log.Fatal().Msg("an extraction code is required")
		}

		src, err := loadImage(extractFlags.Image)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load image")
		}

		bar, progress := newProgress(" Extracting")
		res, err := watermark.Extract(cmd.Context(), src, code,
			watermark.WithForce(extractFlags.Force),
			watermark.WithResize(extractFlags.Resize),
			watermark.WithProgress(progress),
			watermark.WithLogger(log.Logger),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to extract watermark")
		}
		_ = bar.Finish()

		if err := res.SaveBundle(extractFlags.Out); err != nil {
			log.Fatal().Err(err).Msg("Failed to save output")
		}
		log.Info().Str("output", extractFlags.Out).Msg("Recovered image and watermark")

		fmt.Printf("Key:                  %d\n", res.Key)
		fmt.Printf("Content consistent:   %t\n", res.Consistent)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.Image, "image-path", "i", "", "Path to watermarked image (required)")
	extractCmd.MarkFlagRequired("image-path")
	extractCmd.Flags().StringVarP(&extractFlags.Code, "code", "c", "", "Extraction code")
	extractCmd.Flags().StringVar(&extractFlags.CodeFile, "code-file", "", "Path to a file holding the extraction code")
	extractCmd.Flags().BoolVarP(&extractFlags.Force, "force", "f", false, "Trust the content checksum stored in the code")
	extractCmd.Flags().BoolVarP(&extractFlags.Resize, "resize", "r", false, "Resize the image to the size stored in the code (requires --force)")
	extractCmd.Flags().StringVarP(&extractFlags.Out, "output", "o", "extracted", "Output directory (replaced if it exists)")
}
