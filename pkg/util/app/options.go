package app

import (
	"strings"

	"github.com/spf13/pflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// AddFlags adds flags to the specified FlagSet object.
	AddFlags(fs *pflag.FlagSet)

	// Validate would be called after init flags and configration file
	Validate() []error
}

// ConfigurableOptions abstracts configuration options for reading parameters
// from a configuration file.
type ConfigurableOptions interface {
	// ApplyFlags parsing parameters from the command line or configuration file
	// to the options instance.
	ApplyFlags() []error
}

type aggregate []error

// NewAggregate folds a list of errors into one, nil if the list is empty.
func NewAggregate(errs []error) error {
	var out aggregate
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (agg aggregate) Error() string {
	if len(agg) == 1 {
		return agg[0].Error()
	}
	msgs := make([]string, 0, len(agg))
	for _, err := range agg {
		msgs = append(msgs, err.Error())
	}
	return "[" + strings.Join(msgs, ", ") + "]"
}

func (agg aggregate) Errors() []error {
	return []error(agg)
}
