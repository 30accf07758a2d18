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

// DataType is the NetCDF external type of a variable.
type DataType int

// These are the NetCDF classic data types.
const (
	Byte DataType = iota + 1
	Char
	Short
	Int
	Float
	Double
)

func (t DataType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// Signature is the ordered list of dimension names of a variable.
type Signature []string

// Equal returns whether s and o name the same dimensions in the same order.
func (s Signature) Equal(o Signature) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Index returns the position of dimension dim in s, or -1.
func (s Signature) Index(dim string) int {
	for i, d := range s {
		if d == dim {
			return i
		}
	}
	return -1
}

// Dim is a named dimension.
type Dim struct {
	Name string
	Len  int
}

// Variable is a named, typed n-dimensional array. Char data are held as
// byte codes in Data so every type can be handled the same way.
type Variable struct {
	Name  string
	Dims  Signature
	Type  DataType
	Attrs *Attributes
	Data  *sparse.DenseArray
}

// NewVariable returns a variable of type t with zeroed data of the
// given shape.
func NewVariable(name string, dims Signature, t DataType, shape ...int) *Variable {
	return &Variable{
		Name:  name,
		Dims:  dims,
		Type:  t,
		Attrs: NewAttributes(),
		Data:  sparse.ZerosDense(shape...),
	}
}

// Shape returns the dimension lengths of v.
func (v *Variable) Shape() []int { return v.Data.Shape }

// IsCoord returns whether v is a dimension coordinate, i.e. a
// one-dimensional variable named after its dimension.
func (v *Variable) IsCoord() bool {
	return len(v.Dims) == 1 && v.Dims[0] == v.Name
}

// Clone returns a deep copy of v.
func (v *Variable) Clone() *Variable {
	return &Variable{
		Name:  v.Name,
		Dims:  append(Signature(nil), v.Dims...),
		Type:  v.Type,
		Attrs: v.Attrs.Clone(),
		Data:  v.Data.Copy(),
	}
}

// Dataset is a set of variables sharing a dimension namespace, plus
// global attributes. Dimensions and variables keep their insertion order.
type Dataset struct {
	Dims  []Dim
	Vars  []*Variable
	Attrs *Attributes

	// Unlimited is the name of the record dimension, if any.
	Unlimited string
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{Attrs: NewAttributes()}
}

// Dim returns the dimension called name.
func (d *Dataset) Dim(name string) (Dim, bool) {
	for _, dim := range d.Dims {
		if dim.Name == name {
			return dim, true
		}
	}
	return Dim{}, false
}

// AddDim adds a dimension. Adding an existing dimension with the same
// length is a no-op.
func (d *Dataset) AddDim(name string, length int) error {
	if dim, ok := d.Dim(name); ok {
		if dim.Len != length {
			return fmt.Errorf("ncpost: dimension %s has length %d, not %d", name, dim.Len, length)
		}
		return nil
	}
	if length < 0 {
		return fmt.Errorf("ncpost: dimension %s has negative length %d", name, length)
	}
	d.Dims = append(d.Dims, Dim{Name: name, Len: length})
	return nil
}

// Var returns the variable called name, or nil.
func (d *Dataset) Var(name string) *Variable {
	for _, v := range d.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// VariableNames returns the variable names in insertion order.
func (d *Dataset) VariableNames() []string {
	o := make([]string, len(d.Vars))
	for i, v := range d.Vars {
		o[i] = v.Name
	}
	return o
}

// AddVariable adds v to d, registering any dimension of v that d does not
// have yet. It is an error if v's shape disagrees with d's dimensions or
// if the name is already taken.
func (d *Dataset) AddVariable(v *Variable) error {
	if d.Var(v.Name) != nil {
		return fmt.Errorf("ncpost: variable %s already exists", v.Name)
	}
	shape := v.Shape()
	if len(shape) != len(v.Dims) {
		return fmt.Errorf("ncpost: variable %s has %d dimensions but shape %v", v.Name, len(v.Dims), shape)
	}
	for i, name := range v.Dims {
		if err := d.AddDim(name, shape[i]); err != nil {
			return fmt.Errorf("ncpost: adding variable %s: %v", v.Name, err)
		}
	}
	if v.Attrs == nil {
		v.Attrs = NewAttributes()
	}
	d.Vars = append(d.Vars, v)
	return nil
}

// ReplaceVariable adds v, replacing any variable with the same name in
// place.
func (d *Dataset) ReplaceVariable(v *Variable) error {
	for i, old := range d.Vars {
		if old.Name != v.Name {
			continue
		}
		shape := v.Shape()
		for j, name := range v.Dims {
			if err := d.AddDim(name, shape[j]); err != nil {
				return fmt.Errorf("ncpost: replacing variable %s: %v", v.Name, err)
			}
		}
		d.Vars[i] = v
		return nil
	}
	return d.AddVariable(v)
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	o := &Dataset{
		Dims:      append([]Dim(nil), d.Dims...),
		Attrs:     d.Attrs.Clone(),
		Unlimited: d.Unlimited,
	}
	for _, v := range d.Vars {
		o.Vars = append(o.Vars, v.Clone())
	}
	return o
}
