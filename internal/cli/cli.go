// Package cli holds the flags and logger setup shared by the commands.
package cli

import (
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/menta2k/spritetiler"
	"github.com/menta2k/spritetiler/internal/config"
)

// Flags are the command line options of every spritetiler command
type Flags struct {
	Config  string           `short:"c" default:"config.toml" type:"path" help:"Path to the TOML configuration."`
	Verbose bool             `short:"v" help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

// Parse parses os.Args into flags for the named command.
func Parse(name, description string) *Flags {
	var f Flags
	kong.Parse(&f,
		kong.Name(name),
		kong.Description(description),
		kong.Vars{"version": spritetiler.GetVersion()},
	)
	return &f
}

// Logger returns a human readable logger on w.
func (f *Flags) Logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if f.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// Tiler loads the configuration and builds a Tiler logging to log.
func (f *Flags) Tiler(log zerolog.Logger) (*spritetiler.Tiler, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", f.Config).Int("sheets", len(cfg.Sheets)).Msg("loaded configuration")
	return spritetiler.New(cfg, spritetiler.WithLogger(log)), nil
}
