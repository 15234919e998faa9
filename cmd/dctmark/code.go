package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	watermark "github.com/yyyoichi/watermark_dct"
)

var codeCmd = &cobra.Command{
	Use:   "code CODE",
	Short: "Decode an extraction code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := watermark.ParseCode(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid extraction code")
		}
		fmt.Printf("Size:                 %dx%d\n", c.Width, c.Height)
		fmt.Printf("Channel:              %s\n", watermark.Channel(c.Channel))
		fmt.Printf("Filter:               %s\n", watermark.Filter(c.Filter))
		fmt.Printf("Coefficient index:    %d\n", c.Raw)
		fmt.Printf("Strength:             %d\n", c.Strength)
		fmt.Printf("Crypted key:          %d\n", c.CryptedKey)
		fmt.Printf("Content checksum:     %d\n", c.ContentKey)
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)
}
