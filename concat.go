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

	"github.com/ctessum/sparse"
)

// Concatenate stacks dsets along a new outermost dimension described by
// idx. Every input must hold the same variables with the same dimensions
// and shapes. Dimension coordinates that are identical in all inputs are
// shared; every other variable gains the idx dimension as its first
// dimension. Variable attributes are taken from the first input and
// global attributes from the last one.
func Concatenate(dsets []*Dataset, idx *Index) (*Dataset, error) {
	if len(dsets) == 0 {
		return nil, fmt.Errorf("ncpost: nothing to concatenate")
	}
	if len(dsets) != idx.Len() {
		return nil, fmt.Errorf("ncpost: %d labels for %d datasets: %w", idx.Len(), len(dsets), ErrLabelCount)
	}
	first := dsets[0]
	if _, ok := first.Dim(idx.Name); ok {
		return nil, fmt.Errorf("ncpost: concatenation dimension %s already exists", idx.Name)
	}
	for i, ds := range dsets[1:] {
		if len(ds.Vars) != len(first.Vars) {
			return nil, fmt.Errorf("ncpost: dataset %d has %d variables but dataset 0 has %d",
				i+1, len(ds.Vars), len(first.Vars))
		}
	}

	out := NewDataset()
	out.Attrs = dsets[len(dsets)-1].Attrs.Clone()
	if err := out.AddVariable(idx.Variable()); err != nil {
		return nil, err
	}

	for _, v := range first.Vars {
		members := make([]*Variable, len(dsets))
		for i, ds := range dsets {
			m := ds.Var(v.Name)
			if m == nil {
				return nil, fmt.Errorf("ncpost: variable %s is missing from dataset %d", v.Name, i)
			}
			if !m.Dims.Equal(v.Dims) || !sameShape(m.Shape(), v.Shape()) {
				return nil, fmt.Errorf("ncpost: variable %s has dimensions %v%v in dataset %d but %v%v in dataset 0",
					v.Name, []string(m.Dims), m.Shape(), i, []string(v.Dims), v.Shape())
			}
			members[i] = m
		}
		if v.IsCoord() && allEqual(members) {
			if err := out.AddVariable(v.Clone()); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.AddVariable(stack(idx.Name, members)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// stack returns a variable holding the data of vars one after the other
// along a new first dimension called dim.
func stack(dim string, vars []*Variable) *Variable {
	v := vars[0]
	shape := append([]int{len(vars)}, v.Shape()...)
	o := &Variable{
		Name:  v.Name,
		Dims:  append(Signature{dim}, v.Dims...),
		Type:  v.Type,
		Attrs: v.Attrs.Clone(),
		Data:  sparse.ZerosDense(shape...),
	}
	n := len(v.Data.Elements)
	for i, m := range vars {
		copy(o.Data.Elements[i*n:(i+1)*n], m.Data.Elements)
	}
	return o
}

func allEqual(vars []*Variable) bool {
	for _, m := range vars[1:] {
		for i, e := range m.Data.Elements {
			if e != vars[0].Data.Elements[i] {
				return false
			}
		}
	}
	return true
}
