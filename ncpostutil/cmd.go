/*
Copyright © 2018 the ncpost authors.
This file is part of ncpost.

ncpost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncpost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncpost.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ncpostutil holds the command-line interfaces to ncpost.
package ncpostutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncpost"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Interp is the vertical interpolation command and Concat the
	// concatenation command.
	Interp, Concat *cobra.Command

	// Stdin is read when asking whether to overwrite or append to an
	// existing output file. The question goes to Stdout and log messages
	// go to Stderr.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// CommandLine is recorded in the history attribute of the output.
	CommandLine []string

	now func() time.Time
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands and binds their flags to a new
// configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper:       viper.New(),
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		CommandLine: os.Args,
		now:         time.Now,
	}

	cfg.Interp = &cobra.Command{
		Use:   "interpfield FIELD IN OUT",
		Short: "Interpolate fields onto levels of another field.",
		Long: `interpfield remaps every variable in IN that has the same dimensions as
FIELD from its native vertical coordinate onto the given --levels of FIELD,
and writes the result to OUT. FIELD is typically geopotential height or
pressure; it can be read from a separate file with --f-interp.

IN, OUT and --f-interp can be local paths or blob storage locations
(gs://, s3:// or file://); inputs can also be http(s) URLs.

Options that take several values take them separated by commas or by
repeating the option, for example --levels 2500,5000 or
--levels 2500 --levels 5000. A quoted list such as --levels "2500 5000"
also works for levels.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NCPOST_VAR' where 'VAR' is
the name of the option in upper case, with dashes replaced by underscores.`,
		Args:              cobra.ExactArgs(3),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.RunInterp(context.TODO(), args[0], args[1], args[2])
		},
	}

	cfg.Concat = &cobra.Command{
		Use:   "concatds OUT",
		Short: "Concatenate files along a new dimension.",
		Long: `concatds stacks the datasets in --files along a new outermost dimension
called --dim and writes the result to OUT. The entries of the new dimension
are labeled with --vals, or numbered from 0 if no labels are given.
Several files or labels are given separated by commas or by repeating the
option, for example --files a.nc,b.nc --vals a,b.

Configuration can be changed in the same ways as for interpfield.`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.RunConcat(context.TODO(), args[0])
		},
	}

	both := func() []*pflag.FlagSet {
		return []*pflag.FlagSet{cfg.Interp.Flags(), cfg.Concat.Flags()}
	}

	// options are the configuration options available to the commands.
	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   both(),
		},
		{
			name: "levels",
			usage: `
              levels specifies the values of the interpolation field to
              interpolate to, separated by commas.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.Interp.Flags()},
		},
		{
			name: "f-interp",
			usage: `
              f-interp specifies a file to read the interpolation field
              from, when it isn't in the input file.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Interp.Flags()},
		},
		{
			name: "fields",
			usage: `
              fields specifies the variables to interpolate. By default
              every variable with the same dimensions as the interpolation
              field is interpolated.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.Interp.Flags()},
		},
		{
			name: "vert-dim",
			usage: `
              vert-dim specifies the name of the vertical dimension of
              the interpolation field. By default it is detected from the
              coordinate attributes and dimension names.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Interp.Flags()},
		},
		{
			name: "check-monotonic",
			usage: `
              check-monotonic specifies whether to check that the
              interpolation field is strictly monotonic along the vertical
              dimension before interpolating.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.Interp.Flags()},
		},
		{
			name: "files",
			usage: `
              files specifies the files to concatenate, in order.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.Concat.Flags()},
		},
		{
			name: "vals",
			usage: `
              vals specifies a label for each of the files. Integer labels
              give an integer coordinate; any others give a text one.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.Concat.Flags()},
		},
		{
			name: "dim",
			usage: `
              dim specifies the name of the new dimension.`,
			defaultVal: ncpost.DefaultIndexDim,
			flagsets:   []*pflag.FlagSet{cfg.Concat.Flags()},
		},
		{
			name: "classic",
			usage: `
              classic specifies that the output must be written in the
              NETCDF3_CLASSIC format. Writing fails if the output is too
              large for it.`,
			defaultVal: false,
			flagsets:   both(),
		},
		{
			name: "debug",
			usage: `
              debug turns on debugging messages.`,
			defaultVal: false,
			flagsets:   both(),
		},
		{
			name: "overwrite",
			usage: `
              overwrite specifies that an existing output file should be
              overwritten without asking.`,
			shorthand:  "O",
			defaultVal: false,
			flagsets:   both(),
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("NCPOST")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncpost: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// output returns the writer for the configured output options.
func (cfg *Cfg) output() *Output {
	o := &Output{
		Resolver: PromptResolver{In: cfg.Stdin, Out: cfg.Stdout},
		Format:   ncpost.FormatAuto,
		Log:      cfg.logger(),
	}
	if cfg.GetBool("overwrite") {
		o.Resolver = Fixed(Overwrite)
	}
	if cfg.GetBool("classic") {
		o.Format = ncpost.FormatClassic
	}
	return o
}

func (cfg *Cfg) logger() *logrus.Logger {
	return NewLogger(cfg.Stderr, cfg.GetBool("debug"))
}

// RunInterp interpolates the variables in the file at in onto levels of
// field and writes the result to out.
func (cfg *Cfg) RunInterp(ctx context.Context, field, in, out string) error {
	log := cfg.logger()
	levels, err := parseLevels(cfg.GetStringSlice("levels"))
	if err != nil {
		return err
	}
	out, err = checkOutputFile(ctx, out)
	if err != nil {
		return err
	}

	ds, err := loadInput(ctx, in, log)
	if err != nil {
		return err
	}
	var aux *ncpost.Dataset
	if f := os.ExpandEnv(cfg.GetString("f-interp")); f != "" {
		if aux, err = loadInput(ctx, f, log); err != nil {
			return err
		}
	}

	result, err := ncpost.Interpolate(ds, aux, ncpost.InterpConfig{
		Field:          field,
		Levels:         levels,
		Fields:         expandStringSlice(cfg.GetStringSlice("fields")),
		VerticalDim:    cfg.GetString("vert-dim"),
		CheckMonotonic: cfg.GetBool("check-monotonic"),
		Log:            log,
	})
	if err != nil {
		return err
	}
	ncpost.AppendHistory(result, strings.Join(cfg.CommandLine, " "), cfg.now())
	return cfg.output().Write(ctx, result, out)
}

// RunConcat concatenates the configured files and writes the result to
// out.
func (cfg *Cfg) RunConcat(ctx context.Context, out string) error {
	log := cfg.logger()
	files := expandStringSlice(cfg.GetStringSlice("files"))
	if len(files) == 0 {
		return fmt.Errorf("ncpost: no input files given; use the --files option")
	}
	idx, err := ncpost.BuildIndex(cfg.GetString("dim"), len(files), cfg.GetStringSlice("vals"))
	if err != nil {
		return err
	}
	out, err = checkOutputFile(ctx, out)
	if err != nil {
		return err
	}

	dsets := make([]*ncpost.Dataset, len(files))
	for i, f := range files {
		if dsets[i], err = loadInput(ctx, f, log); err != nil {
			return err
		}
	}
	log.WithField("dim", idx.Name).WithField("labels", idx.Labels).Info("concatenating")
	result, err := ncpost.Concatenate(dsets, idx)
	if err != nil {
		return err
	}
	ncpost.AppendHistory(result, strings.Join(cfg.CommandLine, " "), cfg.now())
	return cfg.output().Write(ctx, result, out)
}
