package config

import (
	"walscope/pkg/wal/analyzer"
	"walscope/pkg/wal/layout"
	"walscope/pkg/wal/page"
)

// Output formats of the analysis report.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// Config is everything walscope reads from flags, WALSCOPE_* variables or
// the --config file. Keys equal the flag names.
type Config struct {
	MetadataFile string `mapstructure:"metadata-file" yaml:"metadata-file"`
	DataDir      string `mapstructure:"data-dir" yaml:"data-dir"`
	PageSize     int    `mapstructure:"page-size" yaml:"page-size"`
	SampleSize   int    `mapstructure:"sample-size" yaml:"sample-size"`
	Marker       string `mapstructure:"marker" yaml:"marker"`
	Output       string `mapstructure:"output" yaml:"output"`
	MetricsFile  string `mapstructure:"metrics-file" yaml:"metrics-file"`
	NoColor      bool   `mapstructure:"no-color" yaml:"no-color"`
}

func Default() *Config {
	return &Config{
		MetadataFile: layout.DefaultMetadataFile,
		DataDir:      layout.DefaultDataDir,
		PageSize:     page.DefaultSize,
		SampleSize:   analyzer.DefaultSampleSize,
		Marker:       analyzer.DefaultMarker,
		Output:       OutputText,
	}
}

// Layout applies the configured relative paths beneath root.
func (c *Config) Layout(root string) *layout.Layout {
	l := layout.New(root)
	l.MetadataFile = c.MetadataFile
	l.DataDir = c.DataDir
	return l
}
