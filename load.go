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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// LoadFile reads the NetCDF file at path fully into memory.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncpost: opening %s: %v", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ncpost: opening %s: %v", path, err)
	}
	ds, err := Load(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("ncpost: loading %s: %v", path, err)
	}
	return ds, nil
}

// Load reads a NetCDF classic or 64-bit offset file of the given size
// fully into memory. Values are kept as stored: no scaling, fill value
// masking, or time decoding is done.
func Load(rw cdf.ReaderWriterAt, size int64) (*Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("ncpost.Load: %v", err)
	}
	h := f.Header
	nrec := int(h.NumRecs(size))

	ds := NewDataset()
	dimNames := h.Dimensions("")
	for i, l := range h.Lengths("") {
		if l == 0 {
			ds.Unlimited = dimNames[i]
			l = nrec
		}
		ds.Dims = append(ds.Dims, Dim{Name: dimNames[i], Len: l})
	}
	for _, a := range h.Attributes("") {
		if err := ds.Attrs.Set(a, cloneAttrValue(h.GetAttribute("", a))); err != nil {
			return nil, fmt.Errorf("ncpost.Load: %v", err)
		}
	}

	for _, name := range h.Variables() {
		v, err := readVariable(f, name, nrec)
		if err != nil {
			return nil, fmt.Errorf("ncpost.Load: variable %s: %v", name, err)
		}
		ds.Vars = append(ds.Vars, v)
	}
	return ds, nil
}

func readVariable(f *cdf.File, name string, nrec int) (*Variable, error) {
	h := f.Header
	lengths := append([]int(nil), h.Lengths(name)...)
	if h.IsRecordVariable(name) {
		lengths[0] = nrec
	}
	t, err := headerType(h, name)
	if err != nil {
		return nil, err
	}

	v := &Variable{
		Name:  name,
		Dims:  Signature(h.Dimensions(name)),
		Type:  t,
		Attrs: NewAttributes(),
		Data:  sparse.ZerosDense(lengths...),
	}
	for _, a := range h.Attributes(name) {
		if err := v.Attrs.Set(a, cloneAttrValue(h.GetAttribute(name, a))); err != nil {
			return nil, err
		}
	}

	n := len(v.Data.Elements)
	if n == 0 {
		return v, nil
	}
	end := make([]int, len(lengths))
	for i, l := range lengths {
		end[i] = l - 1
	}
	r := f.Reader(name, nil, end)

	switch t {
	case Byte, Char:
		buf := make([]uint8, n)
		if _, err := r.Read(buf); err != nil {
			return nil, err
		}
		for i, b := range buf {
			if t == Byte {
				v.Data.Elements[i] = float64(int8(b))
			} else {
				v.Data.Elements[i] = float64(b)
			}
		}
	case Short:
		buf := make([]int16, n)
		if _, err := r.Read(buf); err != nil {
			return nil, err
		}
		for i, val := range buf {
			v.Data.Elements[i] = float64(val)
		}
	case Int:
		buf := make([]int32, n)
		if _, err := r.Read(buf); err != nil {
			return nil, err
		}
		for i, val := range buf {
			v.Data.Elements[i] = float64(val)
		}
	case Float:
		buf := make([]float32, n)
		if _, err := r.Read(buf); err != nil {
			return nil, err
		}
		for i, val := range buf {
			v.Data.Elements[i] = float64(val)
		}
	case Double:
		buf := make([]float64, n)
		if _, err := r.Read(buf); err != nil {
			return nil, err
		}
		copy(v.Data.Elements, buf)
	}
	return v, nil
}

// headerType returns the data type of variable name in h.
func headerType(h *cdf.Header, name string) (DataType, error) {
	switch h.ZeroValue(name, 0).(type) {
	case []uint8:
		return Byte, nil
	case string:
		return Char, nil
	case []int16:
		return Short, nil
	case []int32:
		return Int, nil
	case []float32:
		return Float, nil
	case []float64:
		return Double, nil
	}
	return 0, fmt.Errorf("unsupported data type")
}
