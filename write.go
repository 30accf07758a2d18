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
	"io"
	"os"

	"github.com/ctessum/cdf"
)

// Format selects the on-disk NetCDF variant.
type Format int

const (
	// FormatAuto writes the classic format when the data fit in it and
	// the 64-bit offset format otherwise.
	FormatAuto Format = iota

	// FormatClassic only allows the classic (CDF-1) format.
	FormatClassic
)

func (f Format) String() string {
	if f == FormatClassic {
		return "NETCDF3_CLASSIC"
	}
	return "NETCDF3_64BIT_OFFSET"
}

// WriteFile creates (or truncates) the file at path and writes ds to it.
func WriteFile(path string, ds *Dataset, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ncpost: creating %s: %v", path, err)
	}
	if err := Write(f, ds, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes ds to w in the given format.
func Write(w *os.File, ds *Dataset, format Format) error {
	h, err := header(ds)
	if err != nil {
		return err
	}
	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("ncpost.Write: %v", err)
	}
	if format == FormatClassic {
		if err := checkClassic(w); err != nil {
			return err
		}
	}

	for _, v := range ds.Vars {
		if err := writeVariable(f, v); err != nil {
			return fmt.Errorf("ncpost: writing variable %s to netcdf file: %v", v.Name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("ncpost.Write: %v", err)
	}
	return nil
}

// recordDim returns the name of the dimension that can be written as the
// record dimension: the dataset's unlimited dimension, as long as it is
// the outermost dimension of every variable that uses it.
func recordDim(ds *Dataset) string {
	if ds.Unlimited == "" {
		return ""
	}
	for _, v := range ds.Vars {
		if i := v.Dims.Index(ds.Unlimited); i > 0 {
			return ""
		}
	}
	return ds.Unlimited
}

func header(ds *Dataset) (*cdf.Header, error) {
	rec := recordDim(ds)
	names := make([]string, len(ds.Dims))
	lengths := make([]int, len(ds.Dims))
	for i, d := range ds.Dims {
		names[i] = d.Name
		switch {
		case d.Name == rec:
			lengths[i] = 0
		case d.Len == 0:
			return nil, fmt.Errorf("ncpost: dimension %s has zero length", d.Name)
		default:
			lengths[i] = d.Len
		}
		for j := 0; j < i; j++ {
			if names[j] == d.Name {
				return nil, fmt.Errorf("ncpost: duplicate dimension %s", d.Name)
			}
		}
	}
	h := cdf.NewHeader(names, lengths)

	for _, a := range ds.Attrs.Names() {
		val, _ := ds.Attrs.Get(a)
		h.AddAttribute("", a, val)
	}
	for _, v := range ds.Vars {
		for _, d := range v.Dims {
			if _, ok := ds.Dim(d); !ok {
				return nil, fmt.Errorf("ncpost: variable %s uses unknown dimension %s", v.Name, d)
			}
		}
		h.AddVariable(v.Name, v.Dims, zeroValue(v.Type))
		for _, a := range v.Attrs.Names() {
			val, _ := v.Attrs.Get(a)
			h.AddAttribute(v.Name, a, val)
		}
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("ncpost: invalid header: %v", errs[0])
	}
	return h, nil
}

// checkClassic returns ErrClassicTooLarge if the header already written
// to r is not a classic (CDF-1) header.
func checkClassic(r io.ReaderAt) error {
	var magic [4]byte
	if _, err := r.ReadAt(magic[:], 0); err != nil {
		return fmt.Errorf("ncpost: reading header: %v", err)
	}
	if magic[3] != 1 {
		return ErrClassicTooLarge
	}
	return nil
}

func zeroValue(t DataType) interface{} {
	switch t {
	case Byte:
		return []uint8{}
	case Char:
		return ""
	case Short:
		return []int16{}
	case Int:
		return []int32{}
	case Float:
		return []float32{}
	}
	return []float64{}
}

func writeVariable(f *cdf.File, v *Variable) error {
	elems := v.Data.Elements
	n := 1
	for _, l := range v.Shape() {
		n *= l
	}
	if len(elems) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(elems))
	}
	if n == 0 {
		return nil
	}

	var buf interface{}
	switch v.Type {
	case Byte:
		b := make([]uint8, n)
		for i, e := range elems {
			b[i] = uint8(int8(e))
		}
		buf = b
	case Char:
		b := make([]uint8, n)
		for i, e := range elems {
			b[i] = uint8(e)
		}
		buf = b
	case Short:
		b := make([]int16, n)
		for i, e := range elems {
			b[i] = int16(e)
		}
		buf = b
	case Int:
		b := make([]int32, n)
		for i, e := range elems {
			b[i] = int32(e)
		}
		buf = b
	case Float:
		b := make([]float32, n)
		for i, e := range elems {
			b[i] = float32(e)
		}
		buf = b
	default:
		buf = elems
	}
	w := f.Writer(v.Name, nil, nil)
	nw, err := w.Write(buf)
	if err == io.EOF && nw == n {
		// Fixed-size variables report EOF once the last element is written.
		return nil
	}
	return err
}
