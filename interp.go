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

package ncpost

import (
	"fmt"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// InterpConfig holds the settings for Interpolate.
type InterpConfig struct {
	// Field is the name of the variable whose values are the new
	// vertical coordinate.
	Field string

	// Levels are the values of Field to interpolate to.
	Levels []float64

	// Fields lists the variables to interpolate. If empty, every
	// variable with the same dimensions as Field is used.
	Fields []string

	// VerticalDim is the name of the vertical dimension of Field. If
	// empty it is detected with DetectVerticalDim.
	VerticalDim string

	// CheckMonotonic turns on a check that Field is strictly monotonic
	// along the vertical dimension. Without it, non-monotonic columns
	// give undefined results.
	CheckMonotonic bool

	// Remapper does the interpolation. LinearRemapper is used if nil.
	Remapper Remapper

	// Log receives progress messages. Nothing is logged if nil.
	Log logrus.FieldLogger
}

// Remapped is one interpolated variable.
type Remapped struct {
	Var *Variable

	// CoordUnits are the units of the interpolation field the variable
	// was remapped against.
	CoordUnits string
}

// verticalNames are dimension names that are taken to be vertical when
// no coordinate variable says otherwise.
var verticalNames = []string{"lev", "ilev", "level", "plev", "z", "height", "altitude", "depth"}

// DetectVerticalDim returns the vertical dimension among sig. The first
// dimension whose coordinate variable in ds has axis "Z" or a positive
// attribute is chosen; failing that, the first dimension with a
// conventional vertical name.
func DetectVerticalDim(ds *Dataset, sig Signature) (string, error) {
	for _, d := range sig {
		v := ds.Var(d)
		if v == nil || !v.IsCoord() {
			continue
		}
		if v.Attrs.String(AttrAxis) == "Z" || v.Attrs.Has(AttrPositive) {
			return d, nil
		}
	}
	for _, d := range sig {
		for _, n := range verticalNames {
			if d == n {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("ncpost: dimensions %v: %w", []string(sig), ErrVerticalDim)
}

// Interpolate remaps variables of src onto cfg.Levels of the field
// cfg.Field. The field is looked up in aux if aux is not nil, and in src
// otherwise. The returned dataset holds a new vertical coordinate
// variable named after the field, the coordinate variables of the other
// dimensions, and one interpolated variable per selected field. Global
// attributes are copied from src. Neither src nor aux is modified.
func Interpolate(src, aux *Dataset, cfg InterpConfig) (*Dataset, error) {
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		log = l
	}
	fieldSrc := src
	if aux != nil {
		fieldSrc = aux
	}
	coord := fieldSrc.Var(cfg.Field)
	if coord == nil {
		return nil, fmt.Errorf("ncpost: interpolation field %s: %w", cfg.Field, ErrFieldNotFound)
	}
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("ncpost: no interpolation levels given")
	}

	vdim := cfg.VerticalDim
	if vdim == "" {
		var err error
		if vdim, err = DetectVerticalDim(fieldSrc, coord.Dims); err != nil {
			return nil, err
		}
	}
	axis := coord.Dims.Index(vdim)
	if axis < 0 {
		return nil, fmt.Errorf("ncpost: %s is not a dimension of %s: %w", vdim, cfg.Field, ErrVerticalDim)
	}
	if cfg.CheckMonotonic {
		if err := CheckMonotonic(coord, axis); err != nil {
			return nil, err
		}
	}

	remapper := cfg.Remapper
	if remapper == nil {
		remapper = LinearRemapper{}
	}

	names := SelectFields(src, coord.Dims, cfg.Field, cfg.Fields)
	log.WithFields(logrus.Fields{
		"field":     cfg.Field,
		"vertical":  vdim,
		"variables": names,
	}).Info("interpolating")

	results := make([]Remapped, 0, len(names))
	for _, name := range names {
		v := src.Var(name)
		if v == nil {
			return nil, fmt.Errorf("ncpost: variable %s: %w", name, ErrFieldNotFound)
		}
		r, err := remapper.Remap(v, coord, cfg.Levels, axis)
		if err != nil {
			return nil, err
		}
		r.Attrs = NewAttributes()
		r.Attrs.Set(AttrFillValue, fillNaN(r.Type))
		CopyAttrs(r.Attrs, v.Attrs, AttrFillValue, AttrMissingValue)
		results = append(results, Remapped{Var: r, CoordUnits: coord.Attrs.Units()})
		log.WithField("variable", name).Debug("interpolated")
	}

	vc := levelsVariable(cfg.Field, cfg.Levels)
	if orig := fieldSrc.Var(vdim); orig != nil {
		CopyAttrs(vc.Attrs, orig.Attrs)
	} else if orig := src.Var(vdim); orig != nil {
		CopyAttrs(vc.Attrs, orig.Attrs)
	}
	if err := ReconcileVertical(vc, coord.Attrs.Units(), results); err != nil {
		return nil, err
	}

	out := NewDataset()
	out.Attrs = src.Attrs.Clone()
	if err := out.AddVariable(vc); err != nil {
		return nil, err
	}
	for i, d := range coord.Dims {
		if i == axis {
			continue
		}
		cv := src.Var(d)
		if cv == nil || !cv.IsCoord() {
			cv = fieldSrc.Var(d)
		}
		if cv == nil || !cv.IsCoord() {
			continue
		}
		if err := out.AddVariable(cv.Clone()); err != nil {
			return nil, err
		}
	}
	for _, r := range results {
		if err := out.AddVariable(r.Var); err != nil {
			return nil, err
		}
	}
	if _, ok := out.Dim(src.Unlimited); ok {
		out.Unlimited = src.Unlimited
	}
	return out, nil
}

// ReconcileVertical makes coord describe the remapped vertical axis of
// results: its units are set to units, the units of the interpolation
// field, or removed if the field has none, and attributes that described
// the original vertical coordinate are removed. It is an error if any
// result was remapped against a field with other units.
func ReconcileVertical(coord *Variable, units string, results []Remapped) error {
	for _, r := range results {
		if r.CoordUnits != units {
			return fmt.Errorf("ncpost: variable %s was interpolated against units %q, want %q",
				r.Var.Name, r.CoordUnits, units)
		}
	}
	coord.Attrs.Delete(AttrStandardName, AttrFormula, AttrFormulaTerms, AttrPositive)
	if units == "" {
		coord.Attrs.Delete(AttrUnits)
		return nil
	}
	return coord.Attrs.Set(AttrUnits, units)
}
