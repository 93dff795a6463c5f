// filepath: internal/thumbnail/thumbnail.go
package thumbnail

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strconv"

	// Import decoders for common formats
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxSide is used when a caller asks for size 0.
	DefaultMaxSide = 256
	jpegQuality    = 80
)

// createFile opens a thumbnail file for writing. Tests replace it.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Generator writes JPEG thumbnails into a cache directory, one file per image id.
type Generator struct {
	dir string
}

// NewGenerator creates a generator writing into dir. The directory is created
// on first use.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// PathFor returns the thumbnail location for an image id.
func (g *Generator) PathFor(id int64) string {
	return filepath.Join(g.dir, strconv.FormatInt(id, 10)+".jpg")
}

// Generate decodes the image at path, scales it to fit within size x size
// keeping the aspect ratio, and returns the thumbnail reference.
func (g *Generator) Generate(path string, id int64, size int) (string, error) {
	if size <= 0 {
		size = DefaultMaxSide
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("could not decode image for thumbnail: %w", err)
	}

	newWidth, newHeight, err := fitWithin(img.Bounds().Dx(), img.Bounds().Dy(), size)
	if err != nil {
		return "", err
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Over, nil)

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return "", fmt.Errorf("could not create thumbnail directory: %w", err)
	}

	thumbPath := g.PathFor(id)
	f, err := createFile(thumbPath)
	if err != nil {
		return "", fmt.Errorf("could not create thumbnail file: %w", err)
	}

	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		os.Remove(thumbPath) // Clean up failed write
		return "", fmt.Errorf("failed to encode thumbnail to jpeg: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(thumbPath)
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return thumbPath, nil
}

// Remove deletes a thumbnail reference. Missing files are not an error.
func (g *Generator) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dimensions reads width and height from the image header without decoding
// the pixels.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// fitWithin scales width x height down so the longest side is at most maxSide.
// Images already small enough keep their size.
func fitWithin(width, height, maxSide int) (int, int, error) {
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("cannot create thumbnail for zero-dimension image")
	}

	if width > height {
		if width <= maxSide {
			return width, height, nil
		}
		h := (height * maxSide) / width
		if h == 0 {
			h = 1
		}
		return maxSide, h, nil
	}

	if height <= maxSide {
		return width, height, nil
	}
	w := (width * maxSide) / height
	if w == 0 {
		w = 1
	}
	return w, maxSide, nil
}
