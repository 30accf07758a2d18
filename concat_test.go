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
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// caseDataset returns a single-time dataset for case i, where
// T(lat) = 10i + j.
func caseDataset(i int) *Dataset {
	ds := NewDataset()
	ds.Unlimited = "time"
	ds.Attrs.Set("title", fmt.Sprintf("case %d", i))
	time := NewVariable("time", Signature{"time"}, Double, 1)
	time.Data.Elements[0] = float64(i)
	mustAdd(ds, time)
	lat := NewVariable("lat", Signature{"lat"}, Double, 2)
	lat.Data.Elements = []float64{-45, 45}
	mustAdd(ds, lat)
	t := NewVariable("T", Signature{"time", "lat"}, Float, 1, 2)
	t.Data.Elements = []float64{float64(10 * i), float64(10*i + 1)}
	t.Attrs.Set(AttrUnits, fmt.Sprintf("K%d", i))
	mustAdd(ds, t)
	return ds
}

func caseDatasets(n int) []*Dataset {
	o := make([]*Dataset, n)
	for i := range o {
		o[i] = caseDataset(i)
	}
	return o
}

func TestBuildIndex(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		idx, err := BuildIndex("", 4, nil)
		if err != nil {
			t.Fatal(err)
		}
		v := idx.Variable()
		if v.Name != DefaultIndexDim || v.Type != Int {
			t.Errorf("have %s %v, want %s int", v.Name, v.Type, DefaultIndexDim)
		}
		if want := []float64{0, 1, 2, 3}; !reflect.DeepEqual(v.Data.Elements, want) {
			t.Errorf("have %v, want %v", v.Data.Elements, want)
		}
	})
	t.Run("int labels", func(t *testing.T) {
		idx, err := BuildIndex("year", 2, []string{"1990", "2000"})
		if err != nil {
			t.Fatal(err)
		}
		if !idx.IsInt() {
			t.Fatal("labels should be integers")
		}
		if want := []float64{1990, 2000}; !reflect.DeepEqual(idx.Variable().Data.Elements, want) {
			t.Errorf("have %v, want %v", idx.Variable().Data.Elements, want)
		}
	})
	t.Run("string labels", func(t *testing.T) {
		idx, err := BuildIndex("letter", 3, []string{"a", "bb", "1"})
		if err != nil {
			t.Fatal(err)
		}
		v := idx.Variable()
		if !v.Dims.Equal(Signature{"letter", "letter_strlen"}) {
			t.Errorf("dims: have %v", v.Dims)
		}
		labels, err := Strings(v)
		if err != nil {
			t.Fatal(err)
		}
		if want := []string{"a", "bb", "1"}; !reflect.DeepEqual(labels, want) {
			t.Errorf("have %v, want %v", labels, want)
		}
	})
	t.Run("not int", func(t *testing.T) {
		for _, labels := range [][]string{
			{"010", "2000"},
			{"0x10", "2000"},
			{"3000000000", "2000"},
			{"+5", "2000"},
			{"20180101000000", "20180102000000"},
		} {
			idx, err := BuildIndex("x", 2, labels)
			if err != nil {
				t.Fatal(err)
			}
			if idx.IsInt() {
				t.Errorf("%v: labels should not be integers", labels)
			}
			have, err := Strings(idx.Variable())
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(have, labels) {
				t.Errorf("have %v, want %v", have, labels)
			}
		}
	})
	t.Run("negative int", func(t *testing.T) {
		idx, err := BuildIndex("x", 2, []string{"-5", "2147483647"})
		if err != nil {
			t.Fatal(err)
		}
		if want := []float64{-5, 2147483647}; !idx.IsInt() || !reflect.DeepEqual(idx.Variable().Data.Elements, want) {
			t.Errorf("have %v, want %v", idx.Variable().Data.Elements, want)
		}
	})
	t.Run("count mismatch", func(t *testing.T) {
		if _, err := BuildIndex("x", 2, []string{"1"}); !errors.Is(err, ErrLabelCount) {
			t.Errorf("have %v, want %v", err, ErrLabelCount)
		}
	})
}

func TestConcatenateLabels(t *testing.T) {
	idx, err := BuildIndex("letter", 4, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Concatenate(caseDatasets(4), idx)
	if err != nil {
		t.Fatal(err)
	}

	d, ok := out.Dim("letter")
	if !ok || d.Len != 4 {
		t.Errorf("letter dimension: have %v", d)
	}
	labels, err := Strings(out.Var("letter"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels: have %v, want %v", labels, want)
	}
	if want := []string{"letter", "time", "lat", "T"}; !reflect.DeepEqual(out.VariableNames(), want) {
		t.Errorf("variables: have %v, want %v", out.VariableNames(), want)
	}

	tv := out.Var("T")
	if !tv.Dims.Equal(Signature{"letter", "time", "lat"}) {
		t.Errorf("T dims: have %v", tv.Dims)
	}
	if want := []float64{0, 1, 10, 11, 20, 21, 30, 31}; !reflect.DeepEqual(tv.Data.Elements, want) {
		t.Errorf("T: have %v, want %v", tv.Data.Elements, want)
	}
	if tv.Attrs.Units() != "K0" {
		t.Errorf("variable attributes should come from the first input, have units %q", tv.Attrs.Units())
	}
	if !out.Var("time").Dims.Equal(Signature{"letter", "time"}) {
		t.Errorf("time differs between inputs and should be stacked, have dims %v", out.Var("time").Dims)
	}
	if !out.Var("lat").Dims.Equal(Signature{"lat"}) {
		t.Errorf("lat is the same in all inputs and should be shared, have dims %v", out.Var("lat").Dims)
	}
	if out.Attrs.String("title") != "case 3" {
		t.Errorf("global attributes should come from the last input, have title %q", out.Attrs.String("title"))
	}
	if out.Unlimited != "" {
		t.Errorf("unlimited: have %q, want none", out.Unlimited)
	}
}

func TestConcatenateDefault(t *testing.T) {
	idx, err := BuildIndex(DefaultIndexDim, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Concatenate(caseDatasets(4), idx)
	if err != nil {
		t.Fatal(err)
	}
	r := out.Var("record")
	if want := []float64{0, 1, 2, 3}; r == nil || !reflect.DeepEqual(r.Data.Elements, want) {
		t.Errorf("record: have %v, want %v", r, want)
	}
	if !out.Var("T").Dims.Equal(Signature{"record", "time", "lat"}) {
		t.Errorf("T dims: have %v", out.Var("T").Dims)
	}
}

func TestConcatenateMismatch(t *testing.T) {
	idx, _ := BuildIndex("", 2, nil)

	t.Run("shape", func(t *testing.T) {
		dsets := caseDatasets(2)
		dsets[1].Var("T").Data.Shape = []int{2, 1}
		if _, err := Concatenate(dsets, idx); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("variables", func(t *testing.T) {
		dsets := caseDatasets(2)
		dsets[1].Vars = dsets[1].Vars[:2]
		if _, err := Concatenate(dsets, idx); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("count", func(t *testing.T) {
		if _, err := Concatenate(caseDatasets(3), idx); !errors.Is(err, ErrLabelCount) {
			t.Errorf("have %v, want %v", err, ErrLabelCount)
		}
	})
}

func TestConcatenateWrite(t *testing.T) {
	idx, _ := BuildIndex("letter", 4, []string{"a", "b", "c", "d"})
	out, err := Concatenate(caseDatasets(4), idx)
	if err != nil {
		t.Fatal(err)
	}
	ds := roundTrip(t, out, FormatAuto)
	labels, err := Strings(ds.Var("letter"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("have %v, want %v", labels, want)
	}
	if want := []float64{0, 1, 10, 11, 20, 21, 30, 31}; !reflect.DeepEqual(ds.Var("T").Data.Elements, want) {
		t.Errorf("T: have %v, want %v", ds.Var("T").Data.Elements, want)
	}
}

func TestConcatenateWriteLongLabels(t *testing.T) {
	labels := []string{"20180101000000", "20180102000000", "010", "0x10"}
	idx, err := BuildIndex("date", 4, labels)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Concatenate(caseDatasets(4), idx)
	if err != nil {
		t.Fatal(err)
	}
	ds := roundTrip(t, out, FormatAuto)
	have, err := Strings(ds.Var("date"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have, labels) {
		t.Errorf("have %v, want %v", have, labels)
	}
}
