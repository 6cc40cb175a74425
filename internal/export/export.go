package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/koki-develop/resizer/internal/dimension"
	"github.com/koki-develop/resizer/internal/resize"
)

var (
	ErrInvalidDimensions = errors.New("invalid export dimensions")
	ErrEncoding          = errors.New("encoding failed")
)

// Qualities maps the reduce-quality toggle to a lossy encoding factor in (0, 1].
type Qualities struct {
	Full    float64
	Reduced float64
}

var DefaultQualities = Qualities{Full: 1.0, Reduced: 0.6}

// Job is a snapshot of the dimension state taken when an export is requested.
type Job struct {
	ID      uuid.UUID
	Width   int
	Height  int
	Quality float64
}

func NewJob(s dimension.State, q Qualities) Job {
	quality := q.Full
	if s.ReduceQuality {
		quality = q.Reduced
	}
	return Job{
		ID:      uuid.New(),
		Width:   s.Width,
		Height:  s.Height,
		Quality: quality,
	}
}

// JPEGQuality converts the job's quality factor to the 1-100 JPEG scale.
func (j Job) JPEGQuality() int {
	q := int(math.Round(j.Quality * 100))
	return min(max(q, 1), 100)
}

type Limits struct {
	MaxSide   int
	MaxPixels int
}

type Exporter struct {
	logger logrus.FieldLogger
	filter string
	limits Limits
}

func NewExporter(logger logrus.FieldLogger, filter string, limits Limits) *Exporter {
	return &Exporter{logger: logger, filter: filter, limits: limits}
}

func (e *Exporter) Validate(job Job) error {
	if job.Width <= 0 || job.Height <= 0 {
		return fmt.Errorf("%w: %dx%d, width and height must be positive", ErrInvalidDimensions, job.Width, job.Height)
	}
	if e.limits.MaxSide > 0 && (job.Width > e.limits.MaxSide || job.Height > e.limits.MaxSide) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrInvalidDimensions, job.Width, job.Height, e.limits.MaxSide)
	}
	if e.limits.MaxPixels > 0 && int64(job.Width)*int64(job.Height) > int64(e.limits.MaxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimensions, job.Width, job.Height, e.limits.MaxPixels)
	}
	return nil
}

// Encode rasterizes img at the job's size and encodes it as JPEG.
func (e *Exporter) Encode(ctx context.Context, img image.Image, job Job) ([]byte, error) {
	if err := e.Validate(job); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: no image loaded", ErrEncoding)
	}

	log := e.logger.WithFields(logrus.Fields{
		"job":     job.ID.String(),
		"width":   job.Width,
		"height":  job.Height,
		"quality": job.JPEGQuality(),
		"filter":  e.filter,
	})
	log.Debug("rasterizing")

	surface, err := resize.Scale(img, job.Width, job.Height, e.filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, surface, imaging.JPEG, imaging.JPEGQuality(job.JPEGQuality())); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	log.WithField("bytes", buf.Len()).Debug("encoded")
	return buf.Bytes(), nil
}
