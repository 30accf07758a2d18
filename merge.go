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
	"strings"
)

// Merge returns the result of appending update to existing, as when
// writing to an output file that is already there. Variables of existing
// are kept; variables of update replace same-named ones or are added at
// the end. Global attributes of update override those of existing,
// except that the history of existing is kept as it is and the new
// lines of update are added after it.
// It is an error if a dimension has different lengths in the two
// datasets.
func Merge(existing, update *Dataset) (*Dataset, error) {
	out := existing.Clone()
	for _, d := range update.Dims {
		if err := out.AddDim(d.Name, d.Len); err != nil {
			return nil, fmt.Errorf("ncpost: merging: %v", err)
		}
	}
	for _, v := range update.Vars {
		if err := out.ReplaceVariable(v.Clone()); err != nil {
			return nil, fmt.Errorf("ncpost: merging: %v", err)
		}
	}
	history := mergeHistory(existing.Attrs.History(), update.Attrs.History())
	CopyAttrs(out.Attrs, update.Attrs)
	if history != "" {
		out.Attrs.Set(AttrHistory, history)
	}
	if out.Unlimited == "" {
		out.Unlimited = update.Unlimited
	}
	return out, nil
}

// mergeHistory returns a unchanged, followed by the lines of b that
// come after a. b usually starts with a when it was produced from the
// same file; otherwise the lines of b that a doesn't have are added.
func mergeHistory(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || b == a:
		return a
	case strings.HasPrefix(b, a+"\n"):
		return a + b[len(a):]
	}
	old := make(map[string]bool)
	for _, l := range strings.Split(a, "\n") {
		old[l] = true
	}
	out := a
	for _, l := range strings.Split(b, "\n") {
		if l == "" || old[l] {
			continue
		}
		out += "\n" + l
	}
	return out
}
