package main

import (
	"os"

	"github.com/menta2k/spritetiler/internal/cli"
)

const desc = `Writes the tile source describing the animations of the combined spritesheet.`

func main() {
	flags := cli.Parse("tilesource", desc)
	log := flags.Logger(os.Stderr)

	tiler, err := flags.Tiler(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if _, err := tiler.GenerateTileSource(); err != nil {
		log.Fatal().Err(err).Msg("failed to generate tile source")
	}
}
