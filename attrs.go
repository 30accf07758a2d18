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
)

// These are the attribute names that ncpost reads or rewrites.
// Any other attribute is carried through untouched.
const (
	AttrUnits        = "units"
	AttrFillValue    = "_FillValue"
	AttrMissingValue = "missing_value"
	AttrStandardName = "standard_name"
	AttrFormula      = "formula"
	AttrFormulaTerms = "formula_terms"
	AttrPositive     = "positive"
	AttrAxis         = "axis"
	AttrHistory      = "history"
)

// Attributes is an ordered set of NetCDF attributes. Values must be
// one of the types the classic format can store: string, []uint8,
// []int16, []int32, []float32 or []float64.
type Attributes struct {
	names  []string
	values map[string]interface{}
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]interface{})}
}

// Names returns the attribute names in insertion order.
func (a *Attributes) Names() []string {
	if a == nil {
		return nil
	}
	o := make([]string, len(a.names))
	copy(o, a.names)
	return o
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// Get returns the value of attribute name.
func (a *Attributes) Get(name string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// Has returns whether attribute name is set.
func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Set sets attribute name to val. An existing attribute keeps its
// position; a new one is added at the end.
func (a *Attributes) Set(name string, val interface{}) error {
	if err := checkAttrType(val); err != nil {
		return fmt.Errorf("ncpost: attribute %s: %v", name, err)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = val
	return nil
}

// Delete removes the named attributes. Names that are not set are ignored.
func (a *Attributes) Delete(names ...string) {
	for _, name := range names {
		if _, ok := a.values[name]; !ok {
			continue
		}
		delete(a.values, name)
		for i, n := range a.names {
			if n == name {
				a.names = append(a.names[:i], a.names[i+1:]...)
				break
			}
		}
	}
}

// String returns the value of a text attribute, or "" if name is not
// set or is not text.
func (a *Attributes) String(name string) string {
	v, _ := a.Get(name)
	s, _ := v.(string)
	return s
}

// Units returns the units attribute.
func (a *Attributes) Units() string { return a.String(AttrUnits) }

// History returns the history attribute.
func (a *Attributes) History() string { return a.String(AttrHistory) }

// Clone returns a deep copy of a.
func (a *Attributes) Clone() *Attributes {
	o := NewAttributes()
	if a == nil {
		return o
	}
	for _, n := range a.names {
		o.names = append(o.names, n)
		o.values[n] = cloneAttrValue(a.values[n])
	}
	return o
}

// CopyAttrs copies every attribute of src onto dst, overwriting attributes
// with the same name. The history attribute and any names in exclude are
// skipped.
func CopyAttrs(dst, src *Attributes, exclude ...string) {
	skip := map[string]bool{AttrHistory: true}
	for _, e := range exclude {
		skip[e] = true
	}
	for _, n := range src.Names() {
		if skip[n] {
			continue
		}
		dst.Set(n, cloneAttrValue(src.values[n]))
	}
}

// fillNaN returns a NaN fill value matching data type t.
func fillNaN(t DataType) interface{} {
	if t == Float {
		return []float32{float32(math.NaN())}
	}
	return []float64{math.NaN()}
}

// numericAttr returns the first element of a numeric attribute.
func numericAttr(a *Attributes, name string) (float64, bool) {
	v, ok := a.Get(name)
	if !ok {
		return 0, false
	}
	switch vv := v.(type) {
	case []uint8:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []int16:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []int32:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []float32:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []float64:
		if len(vv) > 0 {
			return vv[0], true
		}
	}
	return 0, false
}

func checkAttrType(val interface{}) error {
	switch val.(type) {
	case string, []uint8, []int16, []int32, []float32, []float64:
		return nil
	}
	return fmt.Errorf("unsupported attribute type %T", val)
}

func cloneAttrValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case []uint8:
		return append([]uint8(nil), vv...)
	case []int16:
		return append([]int16(nil), vv...)
	case []int32:
		return append([]int32(nil), vv...)
	case []float32:
		return append([]float32(nil), vv...)
	case []float64:
		return append([]float64(nil), vv...)
	}
	return v
}
