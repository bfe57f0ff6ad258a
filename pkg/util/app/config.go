package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addConfigFlag adds flags for a specific server to the specified FlagSet
// object.
func (a *App) addConfigFlag(basename string, fs *pflag.FlagSet) {
	a.v.SetEnvPrefix(strings.Replace(strings.ToUpper(basename), "-", "_", -1))
	a.v.AutomaticEnv()
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	fs.StringVarP(&a.cfgFile, "config", "C", a.cfgFile,
		"Read configuration from specified `FILE`, support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// loadConfig merges the configuration file, environment and flags into the
// configurable value. Flags set on the command line win over the environment,
// which wins over the file.
func (a *App) loadConfig(fs *pflag.FlagSet) error {
	if err := a.v.BindPFlags(fs); err != nil {
		return err
	}
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read configuration file(%s)", a.cfgFile)
		}
	}
	return a.v.Unmarshal(a.configurable)
}

func printConfig(w io.Writer, v *viper.Viper) {
	keys := v.AllKeys()
	if len(keys) > 0 {
		fmt.Fprintf(w, "%v Configuration items:\n", color.GreenString("==>"))
		table := uitable.New()
		table.Separator = " "
		table.MaxColWidth = 80
		table.RightAlign(0)
		for _, k := range keys {
			table.AddRow(fmt.Sprintf("%s:", k), v.Get(k))
		}
		fmt.Fprintln(w, table)
	}
}
