package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNoFile means nothing was selected. Callers treat it as a no-op.
	ErrNoFile = errors.New("no file selected")
	// ErrUndecodable means the selected file is not a readable image.
	ErrUndecodable = errors.New("file cannot be decoded as an image")
)

// Extensions are the file types offered by the file picker.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

type SourceImage struct {
	Image         image.Image
	Path          string
	Format        string
	Size          int64
	NaturalWidth  int
	NaturalHeight int
	AspectRatio   float64
}

type Loader struct {
	logger logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) Load(ctx context.Context, path string) (*SourceImage, error) {
	if path == "" {
		return nil, ErrNoFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return l.Decode(ctx, path, f)
}

// Decode reads an image from r. The name is only used for reporting.
func (l *Loader) Decode(ctx context.Context, name string, r io.Reader) (*SourceImage, error) {
	log := l.logger.WithField("path", name)
	log.Debug("decoding image")

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(name), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUndecodable, filepath.Base(name))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrUndecodable)
	}

	src := &SourceImage{
		Image:         img,
		Path:          name,
		Format:        format,
		Size:          int64(len(data)),
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
		AspectRatio:   float64(b.Dx()) / float64(b.Dy()),
	}

	log.WithFields(logrus.Fields{
		"format": format,
		"width":  src.NaturalWidth,
		"height": src.NaturalHeight,
	}).Info("image loaded")

	return src, nil
}
