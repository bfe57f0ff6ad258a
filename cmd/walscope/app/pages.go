package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"walscope/cmd/walscope/app/config"
	"walscope/pkg/util/app"
	"walscope/pkg/wal/page"
	"walscope/pkg/wal/report"
)

type pagesOptions struct {
	conf *config.Config
}

func (o *pagesOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.conf.DataDir, "data-dir", o.conf.DataDir,
		"Page file directory, relative to the root directory")
	fs.IntVar(&o.conf.PageSize, "page-size", o.conf.PageSize,
		"Page file size(bytes)")
}

func (o *pagesOptions) Validate() []error {
	if o.conf.PageSize <= 0 {
		return []error{fmt.Errorf("--page-size must be positive, got %d", o.conf.PageSize)}
	}
	return nil
}

// newPagesCommand lists the page files of a node and checks their numbering
// and sizes, without looking at the metadata index.
func newPagesCommand(out io.Writer) *app.Command {
	opts := &pagesOptions{conf: config.Default()}
	return app.NewCommand("pages <root-dir>", "List page files and check their sizes",
		app.WithCommandOptions(opts),
		app.WithCommandArgs(cobra.ExactArgs(1)),
		app.WithCommandRunFunc(func(args []string) error {
			l := opts.conf.Layout(args[0])
			store := page.NewStore(l.DataPath(), opts.conf.PageSize)
			pages, err := store.Pages()
			if err != nil {
				return err
			}
			return report.WritePages(out, pages, store.PageSize())
		}),
	)
}
