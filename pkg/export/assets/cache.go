// Package assets memoizes embeddable binary resources for the report
// renderers, currently the institutional logo.
package assets

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Image is an immutable embeddable blob plus the format tag the PDF
// backend needs to register it.
type Image struct {
	Data   []byte
	Format string // "PNG" or "JPG"
}

// LoaderFunc is the platform-specific acquisition strategy.
type LoaderFunc func() ([]byte, error)

// FileLoader loads the asset from a path on disk.
func FileLoader(path string) LoaderFunc {
	return func() ([]byte, error) {
		return os.ReadFile(path)
	}
}

// StaticLoader serves a blob already in memory.
func StaticLoader(data []byte) LoaderFunc {
	return func() ([]byte, error) {
		return data, nil
	}
}

// Cache performs the load once and keeps the result for the process
// lifetime. A failed load is also cached: the renderers fall back to a
// drawn placeholder and the report still ships.
type Cache struct {
	load   LoaderFunc
	logger zerolog.Logger

	once sync.Once
	img  *Image
}

func NewCache(load LoaderFunc, logger zerolog.Logger) *Cache {
	return &Cache{load: load, logger: logger}
}

// Logo returns the cached logo image, or nil when the asset could not be
// acquired. Concurrent first calls coalesce on the internal once.
func (c *Cache) Logo() *Image {
	c.once.Do(func() {
		if c.load == nil {
			return
		}
		data, err := c.load()
		if err != nil {
			c.logger.Warn().Err(err).Msg("logo asset unavailable, reports will use a placeholder")
			return
		}
		format, err := sniffFormat(data)
		if err != nil {
			c.logger.Warn().Err(err).Msg("logo asset not embeddable, reports will use a placeholder")
			return
		}
		c.img = &Image{Data: data, Format: format}
	})
	return c.img
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

func sniffFormat(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "PNG", nil
	case bytes.HasPrefix(data, jpegMagic):
		return "JPG", nil
	default:
		return "", fmt.Errorf("unrecognized image format (%d bytes)", len(data))
	}
}
