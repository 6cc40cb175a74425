package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/koki-develop/resizer/internal/notify"
)

const successMessage = "Image successfully downloaded"

type Result struct {
	Job  Job
	Path string
	Size int
}

type PipelineOptions struct {
	// ProgressDelay keeps the in-progress state visible before the encode
	// starts. Zero disables it.
	ProgressDelay time.Duration
	Now           func() time.Time
}

// Pipeline runs one export: wait, encode, save, notify.
type Pipeline struct {
	exporter *Exporter
	saver    Saver
	notifier notify.Notifier
	logger   logrus.FieldLogger
	delay    time.Duration
	now      func() time.Time
}

func NewPipeline(exporter *Exporter, saver Saver, notifier notify.Notifier, logger logrus.FieldLogger, opt PipelineOptions) *Pipeline {
	now := opt.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		exporter: exporter,
		saver:    saver,
		notifier: notifier,
		logger:   logger,
		delay:    opt.ProgressDelay,
		now:      now,
	}
}

// Run exports img according to job. Failures are reported through the
// notifier and returned; nothing is saved when encoding fails.
func (p *Pipeline) Run(ctx context.Context, img image.Image, job Job) (*Result, error) {
	res, err := p.run(ctx, img, job)
	if err != nil {
		p.logger.WithError(err).WithField("job", job.ID.String()).Error("export failed")
		p.notifier.Notify(notify.LevelError, err.Error())
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{
		"job":  job.ID.String(),
		"path": res.Path,
		"size": res.Size,
	}).Info("export saved")
	p.notifier.Notify(notify.LevelSuccess, successMessage)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, img image.Image, job Job) (*Result, error) {
	if err := p.exporter.Validate(job); err != nil {
		return nil, err
	}

	if p.delay > 0 {
		t := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	data, err := p.exporter.Encode(ctx, img, job)
	if err != nil {
		return nil, err
	}

	path, err := p.saver.Save(Filename(p.now()), data)
	if err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}

	return &Result{Job: job, Path: path, Size: len(data)}, nil
}
