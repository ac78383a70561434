// Package bak implements access to the image and palette assets of a
// legacy role-playing game.
//
// Images are stored in multi-record archives: a small header, a table of
// records, and a single compressed payload that holds every record's
// pixels back to back. Palettes are raw 256 color VGA tables.

package bak

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/go-kit/log"

	"github.com/32bitkid/bak/cache"
	"github.com/32bitkid/bak/resource"
	"github.com/32bitkid/bak/screen"
)

// Root is a reference to the data directory of a game.
type Root struct {
	Path string

	cache  *cache.Cache
	logger log.Logger
}

type RootOption func(*Root)

// WithCache shares c between roots instead of creating one per root.
func WithCache(c *cache.Cache) RootOption {
	return func(root *Root) { root.cache = c }
}

func WithLogger(logger log.Logger) RootOption {
	return func(root *Root) { root.logger = logger }
}

func NewRoot(path string, opts ...RootOption) (*Root, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	root := &Root{
		Path:   path,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(root)
	}

	if root.cache == nil {
		loader := resource.NewLoader(resource.WithLogger(root.logger))
		c, err := cache.New(cache.Config{Size: cache.DefaultSize}, loader, nil, root.logger)
		if err != nil {
			return nil, err
		}
		root.cache = c
	}

	return root, nil
}

// ReadFile returns the raw bytes of a file in the data directory.
func (root *Root) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root.Path, filepath.Clean("/"+name)))
}

// Images decodes every image in the named archive.
func (root *Root) Images(name string) ([]*resource.Image, error) {
	raw, err := root.ReadFile(name)
	if err != nil {
		return nil, err
	}
	images, err := root.cache.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return images, nil
}

// Palette decodes the named VGA palette.
func (root *Root) Palette(name string) (color.Palette, error) {
	raw, err := root.ReadFile(name)
	if err != nil {
		return nil, err
	}
	pal, err := screen.NewVGAPalette(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return pal, nil
}
