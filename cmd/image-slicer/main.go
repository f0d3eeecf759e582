package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	imageslicer "github.com/menta2k/image-slicer"
	"github.com/menta2k/image-slicer/internal/config"
	"github.com/menta2k/image-slicer/internal/utils"
	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/validation"
)

var exampleUsage = strings.TrimSpace(`
  image-slicer slice https://example.com/photo.jpg --grid-size 4 --zoom 1.5
  cat photo.png | image-slicer slice - --sharpen --log-level info
  image-slicer path https://example.com/comics/cover.jpg --strict
  image-slicer serve --addr :8080
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return imageslicer.Version
}

// cli holds the configuration shared by every subcommand
type cli struct {
	cfg      *config.Config
	cfgPath  string
	gridSize float64
	log      zerolog.Logger
}

func newLogger() zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger()
}

func main() {
	c := &cli{cfg: config.Default(), log: newLogger()}

	if err := newRootCommand(c).Execute(); err != nil {
		c.log.Error().Err(err).Msg("image-slicer failed")
		os.Exit(1)
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "image-slicer",
		Short:         "Cut JPEG and PNG images into an N×N grid of segments",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "config file (default "+config.GetConfigPath()+")")
	flags.Float64Var(&c.gridSize, "grid-size", float64(c.cfg.Slicer.GridSize), "number of rows and columns (2-10)")
	flags.IntVar(&c.cfg.Slicer.Concurrency, "concurrency", c.cfg.Slicer.Concurrency, "segments processed in parallel")
	flags.StringVar(&c.cfg.Slicer.LogLevel, "log-level", c.cfg.Slicer.LogLevel, "NONE|ERROR|WARN|INFO|DEBUG|VERBOSE")
	flags.BoolVar(&c.cfg.Slicer.StrictURLs, "strict", c.cfg.Slicer.StrictURLs, "only accept https URLs ending in .jpg, .jpeg or .png")
	flags.Int64Var(&c.cfg.Slicer.MaxPixels, "max-pixels", c.cfg.Slicer.MaxPixels, "largest image accepted, in width*height pixels")
	flags.BoolVar(&c.cfg.Enhance.Sharpen, "sharpen", c.cfg.Enhance.Sharpen, "sharpen every segment")
	flags.Float64Var(&c.cfg.Enhance.Zoom, "zoom", c.cfg.Enhance.Zoom, "resize factor applied to every segment")
	flags.Float64Var(&c.cfg.Enhance.SharpenSigma, "sharpen-sigma", c.cfg.Enhance.SharpenSigma, "sharpen strength")
	flags.IntVar(&c.cfg.Output.JPEGQuality, "jpeg-quality", c.cfg.Output.JPEGQuality, "JPEG segment quality (1-100)")
	flags.DurationVar(&c.cfg.Fetch.Timeout, "timeout", c.cfg.Fetch.Timeout, "HTTP fetch timeout")
	flags.StringVar(&c.cfg.Fetch.UserAgent, "user-agent", c.cfg.Fetch.UserAgent, "User-Agent for URL inputs")
	flags.Int64Var(&c.cfg.Fetch.MaxBytes, "max-bytes", c.cfg.Fetch.MaxBytes, "largest remote image accepted, 0 for no limit")

	root.AddCommand(c.sliceCommand(), c.pathCommand(), c.serveCommand())
	return root
}

// load resolves the configuration: flags win over environment variables,
// which win over the config file, which wins over the defaults.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if changed["grid-size"] {
		n, err := validation.ValidateGridSize(c.gridSize)
		if err != nil {
			return err
		}
		c.cfg.Slicer.GridSize = n
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = config.GetConfigPath()
	}
	if changed["config"] || utils.FileExists(cfgFile) {
		if err := c.cfg.ApplyFile(cfgFile, changed); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if err := c.cfg.ApplyEnv(changed); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return c.cfg.Validate()
}

func (c *cli) newSlicer(opts ...imageslicer.Option) *imageslicer.Slicer {
	base := []imageslicer.Option{
		imageslicer.WithCodec(codec.NewWithConfig(c.cfg.CodecConfig())),
		imageslicer.WithSink(logging.NewZerologSinkWithLogger(c.log)),
		imageslicer.WithConcurrency(c.cfg.Slicer.Concurrency),
		imageslicer.WithResolverConfig(c.cfg.ResolverConfig()),
	}
	return imageslicer.New(append(base, opts...)...)
}
