package main

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	watermark "github.com/yyyoichi/watermark_dct"
	"github.com/yyyoichi/watermark_dct/internal/score"
)

var (
	embedFlags struct {
		Image            string
		Mark             string
		QR               string
		Key              uint64
		Depth            int
		Offset           int
		Out              string
		Workers          int
		Recovered        float64
		MarkWeight       float64
		Imperceptibility float64
		Filter           float64
	}
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a watermark into an image",
	Long:  `Embeds a binary watermark and writes image.png and code.txt into the output directory. The code is required for extraction.`,
	Run: func(cmd *cobra.Command, args []string) {
		if embedFlags.Mark != "" && embedFlags.QR != "" {
			log.Fatal().Msg("mark and qr flags cannot both be provided")
		}
		if embedFlags.Workers < 0 {
			log.Fatal().Msg("number of workers cannot be negative")
		}

		src, err := loadImage(embedFlags.Image)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load image")
		}
		var mark image.Image
		switch {
		case embedFlags.Mark != "":
			if mark, err = loadImage(embedFlags.Mark); err != nil {
				log.Fatal().Err(err).Msg("Failed to load watermark")
			}
		case embedFlags.QR != "":
			if mark, err = qrImage(embedFlags.QR); err != nil {
				log.Fatal().Err(err).Msg("Failed to render QR watermark")
			}
		}

		bar, progress := newProgress(" Embedding")
		w, err := watermark.New(
			watermark.WithKey(embedFlags.Key),
			watermark.WithSearchDepth(embedFlags.Depth),
			watermark.WithBaseOffset(embedFlags.Offset),
			watermark.WithWorkers(embedFlags.Workers),
			watermark.WithWeights(score.Weights{
				Recovered:        embedFlags.Recovered,
				Mark:             embedFlags.MarkWeight,
				Imperceptibility: embedFlags.Imperceptibility,
				Filter:           embedFlags.Filter,
			}),
			watermark.WithProgress(progress),
			watermark.WithLogger(log.Logger),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid options")
		}
		res, err := w.Embed(cmd.Context(), src, mark)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to embed watermark")
		}
		_ = bar.Finish()

		if err := res.SaveBundle(embedFlags.Out); err != nil {
			log.Fatal().Err(err).Msg("Failed to save output")
		}
		log.Info().Str("output", embedFlags.Out).Msg("Embedded watermark into the image")

		fmt.Printf("Extraction code:      %s\n", res.Code)
		fmt.Printf("Channel / filter:     %s / %s\n", res.Channel, res.Filter)
		fmt.Printf("Strength:             %d\n", res.Strength)
		fmt.Printf("PSNR watermarked:     %.2f dB\n", watermark.DisplayPSNR(res.PSNR.Watermarked))
		fmt.Printf("PSNR recovered:       %.2f dB\n", watermark.DisplayPSNR(res.PSNR.Recovered))
		fmt.Printf("PSNR watermark:       %.2f dB\n", watermark.DisplayPSNR(res.PSNR.Mark))
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	weights := score.DefaultWeights()
	embedCmd.Flags().StringVarP(&embedFlags.Image, "image-path", "i", "", "Path to host image (required)")
	embedCmd.MarkFlagRequired("image-path")
	embedCmd.Flags().StringVarP(&embedFlags.Mark, "mark-path", "m", "", "Path to watermark image (default: all white)")
	embedCmd.Flags().StringVar(&embedFlags.QR, "qr", "", "Text rendered as a QR code and used as the watermark")
	embedCmd.Flags().Uint64VarP(&embedFlags.Key, "key", "k", watermark.DefaultKey, "Numeric key seeding the scramble pattern")
	embedCmd.Flags().IntVarP(&embedFlags.Depth, "depth", "d", watermark.DefaultSearchDepth, "Coefficient search depth (2-64)")
	embedCmd.Flags().IntVar(&embedFlags.Offset, "offset", watermark.DefaultBaseOffset, "Offset added to the peak coefficient amplitude")
	embedCmd.Flags().StringVarP(&embedFlags.Out, "output", "o", "embedded", "Output directory (replaced if it exists)")
	embedCmd.Flags().IntVarP(&embedFlags.Workers, "workers", "w", 0, "Number of workers to use for concurrency (default: number of CPUs)")
	embedCmd.Flags().Float64Var(&embedFlags.Recovered, "weight-recovered", weights.Recovered, "Score weight of the recovered image PSNR")
	embedCmd.Flags().Float64Var(&embedFlags.MarkWeight, "weight-mark", weights.Mark, "Score weight of the recovered watermark PSNR")
	embedCmd.Flags().Float64Var(&embedFlags.Imperceptibility, "weight-imperceptibility", weights.Imperceptibility, "Score weight of the watermarked image PSNR")
	embedCmd.Flags().Float64Var(&embedFlags.Filter, "weight-filter", weights.Filter, "Score weight of the filter choice")
}
