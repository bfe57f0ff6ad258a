package options

import (
	"fmt"

	"github.com/spf13/pflag"

	"walscope/cmd/walscope/app/config"
)

type Options struct {
	Appconf *config.Config
}

func New() *Options {
	return &Options{
		Appconf: config.Default(),
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Appconf.MetadataFile, "metadata-file", o.Appconf.MetadataFile,
		"Metadata index file, relative to the root directory")
	fs.StringVar(&o.Appconf.DataDir, "data-dir", o.Appconf.DataDir,
		"Page file directory, relative to the root directory")
	fs.IntVar(&o.Appconf.PageSize, "page-size", o.Appconf.PageSize,
		"Page file size(bytes)")
	fs.IntVar(&o.Appconf.SampleSize, "sample-size", o.Appconf.SampleSize,
		"Bytes sampled from the head of every entry")
	fs.StringVar(&o.Appconf.Marker, "marker", o.Appconf.Marker,
		"Prefix every well-formed entry payload starts with")
	fs.StringVarP(&o.Appconf.Output, "output", "o", o.Appconf.Output,
		"Report format: text, yaml or json")
	fs.StringVar(&o.Appconf.MetricsFile, "metrics-file", o.Appconf.MetricsFile,
		"Also write Prometheus textfile metrics to this path")
	fs.BoolVar(&o.Appconf.NoColor, "no-color", o.Appconf.NoColor,
		"Disable colored status tags")
}

// Validate will check the requirements of options
func (o *Options) Validate() []error {
	var errs []error
	c := o.Appconf
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("--page-size must be positive, got %d", c.PageSize))
	}
	if c.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("--sample-size must be positive, got %d", c.SampleSize))
	}
	if c.Marker == "" {
		errs = append(errs, fmt.Errorf("--marker must not be empty"))
	}
	if c.MetadataFile == "" {
		errs = append(errs, fmt.Errorf("--metadata-file must not be empty"))
	}
	switch c.Output {
	case config.OutputText, config.OutputYAML, config.OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown --output %q", c.Output))
	}
	return errs
}
