package main

import (
	"os"

	"github.com/menta2k/spritetiler/internal/cli"
)

const desc = `Slices the configured spritesheets into fixed size frames and writes one combined spritesheet.`

func main() {
	flags := cli.Parse("spritetiler", desc)
	log := flags.Logger(os.Stderr)

	tiler, err := flags.Tiler(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	res, err := tiler.BuildSheet()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build spritesheet")
	}
	if res.ImagePath == "" {
		return
	}
	log.Info().
		Str("path", res.ImagePath).
		Int("width", res.Width).
		Int("height", res.Height).
		Msg("spritesheet generated")
}
