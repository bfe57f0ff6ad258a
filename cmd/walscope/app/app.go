package app

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"walscope/cmd/walscope/app/config"
	"walscope/cmd/walscope/app/options"
	"walscope/pkg/util/app"
	"walscope/pkg/wal/analyzer"
	"walscope/pkg/wal/page"
	"walscope/pkg/wal/report"
)

const commandDesc = `walscope decodes the metadata index and page files of a node's raft log
and reports every entry whose payload does not start where the index says it
does. It never writes to the inspected directory.

Finding padding bugs is not a failure: the exit code is non-zero only when
the root directory or the metadata file cannot be found.`

func New(basename string, out io.Writer) *app.App {
	opts := options.New()
	application := app.NewApp(
		basename,
		app.WithUse(basename+" <root-dir>"),
		app.WithOptions(opts),
		app.WithConfiguration(opts.Appconf),
		app.WithDescription(commandDesc),
		app.WithArgs(cobra.ExactArgs(1)),
		app.WithSilence(),
		app.WithOutput(out),
		app.WithRunFunc(run(opts, out)),
	)
	application.AddCommand(newPagesCommand(out))
	return application
}

func run(opts *options.Options, out io.Writer) app.RunFunc {
	return func(basename string, args []string) error {
		cfg := opts.Appconf
		if cfg.NoColor {
			color.NoColor = true
		}

		l := cfg.Layout(args[0])
		store := page.NewStore(l.DataPath(), cfg.PageSize)
		a := analyzer.New(store,
			analyzer.WithMarker([]byte(cfg.Marker)),
			analyzer.WithSampleSize(cfg.SampleSize))

		klog.V(1).Infof("metadata: %s, pages: %s, page size: %d", l.MetadataPath(), l.DataPath(), cfg.PageSize)
		r, err := report.Build(l, store, a)
		if err != nil {
			return err
		}
		klog.V(1).Infof("analyzed %d entries, %d padding bugs", len(r.Results), r.PaddingBugs)

		switch cfg.Output {
		case config.OutputYAML:
			err = r.WriteYAML(out)
		case config.OutputJSON:
			err = r.WriteJSON(out)
		default:
			err = r.WriteText(out)
		}
		if err != nil {
			return err
		}

		if cfg.MetricsFile != "" {
			return r.WriteMetrics(cfg.MetricsFile)
		}
		return nil
	}
}
