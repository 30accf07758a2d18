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
	"strconv"
)

// DefaultIndexDim is the name of the concatenation dimension when none
// is given.
const DefaultIndexDim = "record"

// Index labels the entries of a concatenation dimension.
type Index struct {
	// Name is the name of the dimension and its coordinate variable.
	Name string

	// Labels holds the label of each entry as text.
	Labels []string

	// ints is set when every label is a decimal integer that fits in
	// a NetCDF int.
	ints []int
}

// BuildIndex returns an index called name with n entries. If labels is
// empty the entries are labeled 0 through n-1; otherwise there must be
// exactly n labels. An empty name means DefaultIndexDim.
func BuildIndex(name string, n int, labels []string) (*Index, error) {
	if name == "" {
		name = DefaultIndexDim
	}
	if len(labels) == 0 {
		idx := &Index{Name: name, Labels: make([]string, n), ints: make([]int, n)}
		for i := range idx.ints {
			idx.ints[i] = i
			idx.Labels[i] = fmt.Sprint(i)
		}
		return idx, nil
	}
	if len(labels) != n {
		return nil, fmt.Errorf("ncpost: %d labels for %d files: %w", len(labels), n, ErrLabelCount)
	}
	idx := &Index{Name: name, Labels: append([]string(nil), labels...)}
	ints := make([]int, n)
	for i, l := range labels {
		v, ok := intLabel(l)
		if !ok {
			return idx, nil
		}
		ints[i] = v
	}
	idx.ints = ints
	return idx, nil
}

// intLabel returns the value of l if it is a decimal integer that fits
// in a NetCDF int and prints back as l.
func intLabel(l string) (int, bool) {
	v, err := strconv.ParseInt(l, 10, 32)
	if err != nil || strconv.Itoa(int(v)) != l {
		return 0, false
	}
	return int(v), true
}

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.Labels) }

// IsInt returns whether the labels are integers.
func (idx *Index) IsInt() bool { return idx.ints != nil }

// Variable returns the coordinate variable of the index. Integer labels
// give an int variable; any other labels give a char variable with an
// extra "<Name>_strlen" dimension.
func (idx *Index) Variable() *Variable {
	if idx.IsInt() {
		v := NewVariable(idx.Name, Signature{idx.Name}, Int, len(idx.ints))
		for i, l := range idx.ints {
			v.Data.Elements[i] = float64(l)
		}
		return v
	}
	strlen := 1
	for _, l := range idx.Labels {
		if len(l) > strlen {
			strlen = len(l)
		}
	}
	v := NewVariable(idx.Name, Signature{idx.Name, idx.Name + "_strlen"}, Char, len(idx.Labels), strlen)
	for i, l := range idx.Labels {
		for j := 0; j < len(l); j++ {
			v.Data.Elements[i*strlen+j] = float64(l[j])
		}
	}
	return v
}

// Strings returns the rows of a two-dimensional char variable as
// strings, with trailing NUL padding removed.
func Strings(v *Variable) ([]string, error) {
	shape := v.Shape()
	if v.Type != Char || len(shape) != 2 {
		return nil, fmt.Errorf("ncpost: %s is not a two-dimensional char variable", v.Name)
	}
	o := make([]string, shape[0])
	for i := range o {
		b := make([]byte, 0, shape[1])
		for j := 0; j < shape[1]; j++ {
			c := byte(v.Data.Elements[i*shape[1]+j])
			if c == 0 {
				break
			}
			b = append(b, c)
		}
		o[i] = string(b)
	}
	return o, nil
}
