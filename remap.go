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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// A Remapper maps the values of src from its native vertical levels onto
// levels of coord, which has the same dimensions as src. axis is the
// position of the vertical dimension. The returned variable has the same
// dimensions as src except that the vertical dimension is replaced by one
// named after coord with len(levels) elements.
//
// Remappers may assume that coord is monotonic along axis; results are
// undefined otherwise.
type Remapper interface {
	Remap(src, coord *Variable, levels []float64, axis int) (*Variable, error)
}

// LinearRemapper interpolates each vertical column linearly in the
// coordinate value. Levels outside of a column's coordinate range, and
// levels bracketed by a missing source value, are set to NaN.
type LinearRemapper struct{}

// Remap implements Remapper.
func (LinearRemapper) Remap(src, coord *Variable, levels []float64, axis int) (*Variable, error) {
	shape := src.Shape()
	if !sameShape(shape, coord.Shape()) {
		return nil, fmt.Errorf("ncpost: variable %s has shape %v but interpolation field %s has shape %v",
			src.Name, shape, coord.Name, coord.Shape())
	}
	if axis < 0 || axis >= len(shape) {
		return nil, fmt.Errorf("ncpost: vertical axis %d out of range for variable %s", axis, src.Name)
	}

	outShape := append([]int(nil), shape...)
	outShape[axis] = len(levels)
	dims := append(Signature(nil), src.Dims...)
	dims[axis] = coord.Name
	t := Double
	if src.Type == Float {
		t = Float
	}
	out := NewVariable(src.Name, dims, t, outShape...)

	srcMissing := missingValues(src)
	coordMissing := missingValues(coord)

	nz := shape[axis]
	c := make([]float64, nz)
	d := make([]float64, nz)
	valid := make([]float64, 0, nz)
	forEachColumn(shape, axis, func(in, inStride int) {
		outBase := columnOut(in, inStride, nz, len(levels))
		valid = valid[:0]
		for k := 0; k < nz; k++ {
			c[k] = coord.Data.Elements[in+k*inStride]
			d[k] = src.Data.Elements[in+k*inStride]
			if coordMissing(c[k]) {
				c[k] = math.NaN()
			} else {
				valid = append(valid, c[k])
			}
			if srcMissing(d[k]) {
				d[k] = math.NaN()
			}
		}
		lo, hi := math.NaN(), math.NaN()
		if len(valid) > 0 {
			lo, hi = floats.Min(valid), floats.Max(valid)
		}
		for l, level := range levels {
			v := math.NaN()
			if level >= lo && level <= hi {
				v = interpColumn(c, d, level)
			}
			out.Data.Elements[outBase+l*inStride] = v
		}
	})
	return out, nil
}

// interpColumn returns the value of d at coordinate value x, using the
// first pair of adjacent points in c that bracket x.
func interpColumn(c, d []float64, x float64) float64 {
	for k := 0; k < len(c)-1; k++ {
		c0, c1 := c[k], c[k+1]
		if !(c0 <= x && x <= c1) && !(c1 <= x && x <= c0) {
			continue
		}
		if c0 == c1 || x == c0 {
			return d[k]
		}
		if x == c1 {
			return d[k+1]
		}
		w := (x - c0) / (c1 - c0)
		return d[k] + w*(d[k+1]-d[k])
	}
	if len(c) == 1 && c[0] == x {
		return d[0]
	}
	return math.NaN()
}

// CheckMonotonic returns ErrNonMonotonic if any column of coord along
// axis is not strictly increasing or strictly decreasing.
func CheckMonotonic(coord *Variable, axis int) error {
	shape := coord.Shape()
	if axis < 0 || axis >= len(shape) {
		return fmt.Errorf("ncpost: vertical axis %d out of range for %s", axis, coord.Name)
	}
	nz := shape[axis]
	var err error
	forEachColumn(shape, axis, func(in, stride int) {
		if err != nil || nz < 2 {
			return
		}
		e := coord.Data.Elements
		up := e[in+stride] > e[in]
		for k := 1; k < nz; k++ {
			prev, cur := e[in+(k-1)*stride], e[in+k*stride]
			if (up && !(cur > prev)) || (!up && !(cur < prev)) {
				err = fmt.Errorf("ncpost: %s at column offset %d: %w", coord.Name, in, ErrNonMonotonic)
				return
			}
		}
	})
	return err
}

// forEachColumn calls f with the flat offset of the first element of
// every column along axis of an array with the given shape, and the
// distance between consecutive column elements.
func forEachColumn(shape []int, axis int, f func(offset, stride int)) {
	outer, inner := 1, 1
	for _, s := range shape[:axis] {
		outer *= s
	}
	for _, s := range shape[axis+1:] {
		inner *= s
	}
	nz := shape[axis]
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			f(o*nz*inner+i, inner)
		}
	}
}

// columnOut converts a column offset in an array with nz vertical
// elements to the offset of the same column in an array with nl.
func columnOut(in, stride, nz, nl int) int {
	block := nz * stride
	o, i := in/block, in%block
	return o*nl*stride + i
}

// missingValues returns a function reporting whether a value of v
// should be treated as missing.
func missingValues(v *Variable) func(float64) bool {
	var fills []float64
	for _, a := range []string{AttrFillValue, AttrMissingValue} {
		if f, ok := numericAttr(v.Attrs, a); ok {
			fills = append(fills, f)
		}
	}
	return func(x float64) bool {
		if math.IsNaN(x) {
			return true
		}
		for _, f := range fills {
			if x == f {
				return true
			}
		}
		return false
	}
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// levelsVariable returns a one-dimensional coordinate variable holding
// levels.
func levelsVariable(name string, levels []float64) *Variable {
	v := &Variable{
		Name:  name,
		Dims:  Signature{name},
		Type:  Double,
		Attrs: NewAttributes(),
		Data:  sparse.ZerosDense(len(levels)),
	}
	copy(v.Data.Elements, levels)
	return v
}
