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

package ncpostutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncpost"
	"github.com/spf13/cast"
)

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// parseLevels converts the interpolation levels to numbers. Each entry
// may hold several levels separated by spaces or commas.
func parseLevels(s []string) ([]float64, error) {
	var o []float64
	for _, ss := range s {
		for _, l := range strings.FieldsFunc(ss, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := cast.ToFloat64E(l)
			if err != nil {
				return nil, fmt.Errorf("ncpost: invalid level %q: %v", l, err)
			}
			o = append(o, v)
		}
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("ncpost: no interpolation levels given; use the --levels option")
	}
	return o, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(ctx context.Context, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("ncpost: you need to specify an output file")
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		bucket, _, err := splitBlob(ctx, f)
		if err != nil {
			return f, fmt.Errorf("ncpost: error when checking output location: %v", err)
		}
		return f, bucket.Close()
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("ncpost: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// loadInput downloads the input file at path if necessary and loads it.
func loadInput(ctx context.Context, path string, log logrus.FieldLogger) (*ncpost.Dataset, error) {
	path = os.ExpandEnv(path)
	local, err := maybeDownload(ctx, path, log)
	if err != nil {
		return nil, err
	}
	if local != path {
		defer os.RemoveAll(filepath.Dir(local))
	}
	log.WithField("path", path).Debug("loading")
	return ncpost.LoadFile(local)
}
