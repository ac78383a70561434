package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v3"

	"github.com/32bitkid/bak"
	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bak/cache"
	bakimage "github.com/32bitkid/bak/image"
	"github.com/32bitkid/bak/resource"
	"github.com/32bitkid/bak/screen"
)

func main() {
	if err := newCommand(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bakview:", err)
		os.Exit(1)
	}
}

type app struct {
	logger log.Logger
	stdout io.Writer
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	a := &app{logger: log.NewNopLogger(), stdout: stdout}

	return &cli.Command{
		Name:      "bakview",
		Usage:     "inspect and export image archives",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log.level",
				Value:   "info",
				Usage:   "only log messages at or above this level (debug, info, warn, error)",
				Sources: cli.EnvVars("BAK_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "data",
				Usage:   "game data directory that archive names are relative to",
				Sources: cli.EnvVars("BAK_DATA"),
			},
			&cli.IntFlag{
				Name:  "cache.size",
				Value: cache.DefaultSize,
				Usage: "number of decoded archives to keep in memory",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := newLogger(stderr, cmd.String("log.level"))
			if err != nil {
				return ctx, err
			}
			a.logger = logger
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the header and record table of an archive",
				ArgsUsage: "ARCHIVE",
				Action:    a.info,
			},
			{
				Name:      "export",
				Usage:     "write every image of an archive as PNG, or as one animated GIF",
				ArgsUsage: "ARCHIVE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "palette", Usage: "VGA palette file; EGA colours for all-nibble archives, otherwise a grey ramp, when empty"},
					&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
					&cli.BoolFlag{Name: "gif", Usage: "write a single anim.gif instead of one PNG per image"},
					&cli.IntFlag{Name: "scale", Value: 1, Usage: "enlarge every pixel to an N x N block"},
					&cli.FloatFlag{Name: "fade", Usage: "darken the palette towards black, 0 to 1"},
				},
				Action: a.export,
			},
		},
	}
}

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

// open resolves the archive argument against --data, or against its own
// directory when --data is unset.
func (a *app) open(cmd *cli.Command) (*bak.Root, string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return nil, "", fmt.Errorf("missing ARCHIVE argument")
	}

	dir, name := cmd.String("data"), arg
	if dir == "" {
		dir, name = filepath.Split(arg)
		if dir == "" {
			dir = "."
		}
	}

	c, err := cache.New(
		cache.Config{Size: int(cmd.Int("cache.size"))},
		resource.NewLoader(resource.WithLogger(a.logger)),
		nil,
		a.logger,
	)
	if err != nil {
		return nil, "", err
	}

	root, err := bak.NewRoot(dir, bak.WithCache(c), bak.WithLogger(a.logger))
	if err != nil {
		return nil, "", err
	}
	return root, name, nil
}

func (a *app) info(_ context.Context, cmd *cli.Command) error {
	root, name, err := a.open(cmd)
	if err != nil {
		return err
	}

	raw, err := root.ReadFile(name)
	if err != nil {
		return err
	}
	header, err := resource.ParseHeader(buffer.Wrap(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Fprintf(a.stdout, "%s: %s, %d records, %s payload (%s on disk)\n",
		name, header.Method, len(header.Records),
		humanize.Bytes(uint64(header.Size)), humanize.Bytes(uint64(len(raw))),
	)
	for i, rec := range header.Records {
		fmt.Fprintf(a.stdout, "%4d  %4dx%-4d  %-40s %s\n",
			i, rec.Width, rec.Height, rec.Flags, humanize.Bytes(uint64(rec.Size)),
		)
	}

	if _, err := root.Images(name); err != nil {
		return err
	}
	level.Debug(a.logger).Log("msg", "archive decodes cleanly", "archive", name)
	return nil
}

func (a *app) export(_ context.Context, cmd *cli.Command) error {
	root, name, err := a.open(cmd)
	if err != nil {
		return err
	}

	images, err := root.Images(name)
	if err != nil {
		return err
	}

	pal := defaultPalette(images)
	if p := cmd.String("palette"); p != "" {
		if pal, err = root.Palette(p); err != nil {
			return err
		}
	}
	if fade := cmd.Float("fade"); fade > 0 {
		pal = screen.Fade(pal, fade)
	}

	out := cmd.String("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	scale := int(cmd.Int("scale"))
	if cmd.Bool("gif") {
		return a.writeGIF(filepath.Join(out, "anim.gif"), images, pal, scale)
	}

	written := 0
	for i, img := range images {
		if img.Width == 0 || img.Height == 0 {
			level.Warn(a.logger).Log("msg", "skipping empty image", "archive", name, "record", i)
			continue
		}
		fn := filepath.Join(out, fmt.Sprintf("%03d.png", i))
		if err := writePNG(fn, bakimage.Scale(img.Paletted(pal), scale)); err != nil {
			return err
		}
		written++
	}

	level.Info(a.logger).Log("msg", "exported images", "archive", name, "images", written, "dir", out)
	return nil
}

// defaultPalette picks the 16 EGA colours when every image is nibble
// packed, and the grey ramp otherwise.
func defaultPalette(images []*resource.Image) color.Palette {
	if len(images) == 0 {
		return screen.DefaultPalettes.Grey
	}
	for _, img := range images {
		if img.Flags&resource.FlagNibble == 0 {
			return screen.DefaultPalettes.Grey
		}
	}
	return screen.DefaultPalettes.EGA
}

func (a *app) writeGIF(fn string, images []*resource.Image, pal color.Palette, scale int) error {
	anim := resource.Animation(images, pal, 20)
	for i, frame := range anim.Image {
		anim.Image[i] = bakimage.Scale(frame, scale)
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, anim); err != nil {
		return err
	}
	level.Info(a.logger).Log("msg", "exported animation", "frames", len(anim.Image), "file", fn)
	return f.Close()
}

func writePNG(fn string, img *image.Paletted) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}
