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
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "ncpost")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// roundTrip writes ds to a file and reads it back.
func roundTrip(t *testing.T, ds *Dataset, format Format) *Dataset {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "test.nc")
	if err := WriteFile(path, ds, format); err != nil {
		t.Fatal(err)
	}
	ds2, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return ds2
}

func TestWriteLoad(t *testing.T) {
	ds := testDataset()
	ds2 := roundTrip(t, ds, FormatAuto)

	if !reflect.DeepEqual(ds2.Dims, ds.Dims) {
		t.Errorf("dims: have %v, want %v", ds2.Dims, ds.Dims)
	}
	if ds2.Unlimited != "time" {
		t.Errorf("unlimited: have %q, want time", ds2.Unlimited)
	}
	if !reflect.DeepEqual(ds2.VariableNames(), ds.VariableNames()) {
		t.Errorf("variables: have %v, want %v", ds2.VariableNames(), ds.VariableNames())
	}
	if ds2.Attrs.Len() != ds.Attrs.Len() {
		t.Errorf("global attributes: have %v, want %v", ds2.Attrs.Names(), ds.Attrs.Names())
	}
	for _, a := range ds.Attrs.Names() {
		if ds2.Attrs.String(a) != ds.Attrs.String(a) {
			t.Errorf("global attribute %s: have %q, want %q", a, ds2.Attrs.String(a), ds.Attrs.String(a))
		}
	}
	for _, want := range ds.Vars {
		have := ds2.Var(want.Name)
		t.Run(want.Name, func(t *testing.T) {
			if have.Type != want.Type {
				t.Errorf("type: have %v, want %v", have.Type, want.Type)
			}
			if !have.Dims.Equal(want.Dims) {
				t.Errorf("dims: have %v, want %v", have.Dims, want.Dims)
			}
			if !reflect.DeepEqual(have.Shape(), want.Shape()) {
				t.Errorf("shape: have %v, want %v", have.Shape(), want.Shape())
			}
			if !reflect.DeepEqual(have.Data.Elements, want.Data.Elements) {
				t.Errorf("data: have %v, want %v", have.Data.Elements, want.Data.Elements)
			}
			for _, a := range want.Attrs.Names() {
				hv, _ := have.Attrs.Get(a)
				wv, _ := want.Attrs.Get(a)
				if !reflect.DeepEqual(hv, wv) {
					t.Errorf("attribute %s: have %v, want %v", a, hv, wv)
				}
			}
		})
	}
}

func TestWriteLoadTypes(t *testing.T) {
	ds := NewDataset()
	b := NewVariable("b", Signature{"x"}, Byte, 3)
	b.Data.Elements = []float64{-128, 0, 127}
	s := NewVariable("s", Signature{"x"}, Short, 3)
	s.Data.Elements = []float64{-300, 0, 300}
	i := NewVariable("i", Signature{"x"}, Int, 3)
	i.Data.Elements = []float64{-70000, 1, 70000}
	mustAdd(ds, b)
	mustAdd(ds, s)
	mustAdd(ds, i)
	idx, err := BuildIndex("case", 2, []string{"control", "pert"})
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(ds, idx.Variable())

	ds2 := roundTrip(t, ds, FormatClassic)
	for _, v := range []*Variable{b, s, i} {
		have := ds2.Var(v.Name)
		if have.Type != v.Type {
			t.Errorf("%s: have type %v, want %v", v.Name, have.Type, v.Type)
		}
		if !reflect.DeepEqual(have.Data.Elements, v.Data.Elements) {
			t.Errorf("%s: have %v, want %v", v.Name, have.Data.Elements, v.Data.Elements)
		}
	}
	labels, err := Strings(ds2.Var("case"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"control", "pert"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("have %v, want %v", labels, want)
	}
}

func TestCheckClassic(t *testing.T) {
	if err := checkClassic(bytes.NewReader([]byte("CDF\x01"))); err != nil {
		t.Errorf("CDF-1: %v", err)
	}
	if err := checkClassic(bytes.NewReader([]byte("CDF\x02"))); err != ErrClassicTooLarge {
		t.Errorf("CDF-2: have %v, want %v", err, ErrClassicTooLarge)
	}
}

func TestWriteClassicMagic(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "classic.nc")
	if err := WriteFile(path, testDataset(), FormatClassic); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b[:4], []byte("CDF\x01")) {
		t.Errorf("have magic %q, want CDF\\x01", b[:4])
	}
}

func TestWriteZeroLengthDim(t *testing.T) {
	ds := NewDataset()
	mustAdd(ds, NewVariable("x", Signature{"x"}, Double, 0))
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	if err := WriteFile(filepath.Join(dir, "x.nc"), ds, FormatAuto); err == nil {
		t.Error("expected an error for a fixed dimension of length zero")
	}
}
