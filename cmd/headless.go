package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sirupsen/logrus"

	"github.com/koki-develop/resizer/internal/config"
	"github.com/koki-develop/resizer/internal/dimension"
	"github.com/koki-develop/resizer/internal/export"
	"github.com/koki-develop/resizer/internal/loader"
	"github.com/koki-develop/resizer/internal/notify"
)

type headlessOption struct {
	Path string
	// Width and Height are applied in that order, like edits in the UI; nil
	// means the flag was not given.
	Width    *int
	Height   *int
	Config   *config.Config
	Logger   logrus.FieldLogger
	Loader   *loader.Loader
	Exporter *export.Exporter
	Saver    export.Saver
}

func runHeadless(ctx context.Context, out io.Writer, opt *headlessOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	notifier := notify.Multi{notify.Log{Logger: opt.Logger}, notify.NewConsole(out)}

	src, err := opt.Loader.Load(ctx, opt.Path)
	if err != nil {
		notifier.Notify(notify.LevelError, fmt.Sprintf("Could not load %s: %v", filepath.Base(opt.Path), err))
		return err
	}

	state := dimension.New()
	state.RatioLocked = opt.Config.Resize.LockRatio
	state.ReduceQuality = opt.Config.Resize.ReduceQuality
	state, _ = dimension.Reduce(state, dimension.ImageLoaded{Width: src.NaturalWidth, Height: src.NaturalHeight})
	if opt.Width != nil {
		state, _ = dimension.Reduce(state, dimension.WidthChanged{Width: *opt.Width})
	}
	if opt.Height != nil {
		state, _ = dimension.Reduce(state, dimension.HeightChanged{Height: *opt.Height})
	}
	state, _ = dimension.Reduce(state, dimension.ExportRequested{})

	job := export.NewJob(state, export.Qualities{
		Full:    opt.Config.Export.FullQuality,
		Reduced: opt.Config.Export.ReducedQuality,
	})
	pipeline := export.NewPipeline(opt.Exporter, opt.Saver, notifier, opt.Logger, export.PipelineOptions{})
	res, err := pipeline.Run(ctx, src.Image, job)
	_, _ = dimension.Reduce(state, dimension.ExportFinished{})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderSummary(src, res))
	return nil
}

func renderSummary(src *loader.SourceImage, res *export.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Source", "Result"})
	tw.AppendRows([]table.Row{
		{"File", filepath.Base(src.Path), res.Path},
		{"Format", src.Format, "jpeg"},
		{"Size", fmt.Sprintf("%d×%d", src.NaturalWidth, src.NaturalHeight), fmt.Sprintf("%d×%d", res.Job.Width, res.Job.Height)},
		{"Quality", "", fmt.Sprintf("%d", res.Job.JPEGQuality())},
		{"Bytes", humanize.Bytes(uint64(src.Size)), humanize.Bytes(uint64(res.Size))},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}
