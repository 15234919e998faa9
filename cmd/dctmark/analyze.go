package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	watermark "github.com/yyyoichi/watermark_dct"
)

var (
	analyzeFlags struct {
		Original string
		Other    string
	}
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare two images",
	Long:  `Calculates the PSNR (Peak Signal-to-Noise Ratio) between two images. Identical images report 999999.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := loadImage(analyzeFlags.Original)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load original image")
		}
		b, err := loadImage(analyzeFlags.Other)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load compared image")
		}
		if a.Bounds().Size() != b.Bounds().Size() {
			log.Warn().Stringer("original", a.Bounds().Size()).Stringer("compared", b.Bounds().Size()).Msg("Image sizes differ")
		}

		fmt.Printf("PSNR (Peak Signal-to-Noise):    %.2f dB\n", watermark.DisplayPSNR(watermark.PSNR(a, b)))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.Original, "original", "o", "", "Path to original image (required)")
	analyzeCmd.MarkFlagRequired("original")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Other, "compared", "c", "", "Path to compared image (required)")
	analyzeCmd.MarkFlagRequired("compared")
}
