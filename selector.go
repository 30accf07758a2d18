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

// SelectFields returns the names of the variables in ds that should be
// interpolated. If explicit is not empty it is returned as is, without
// checking it against sig. Otherwise every variable whose dimensions
// equal sig, other than field itself, is returned in dataset order.
func SelectFields(ds *Dataset, sig Signature, field string, explicit []string) []string {
	if len(explicit) > 0 {
		return append([]string(nil), explicit...)
	}
	var o []string
	for _, v := range ds.Vars {
		if v.Name == field {
			continue
		}
		if v.Dims.Equal(sig) {
			o = append(o, v.Name)
		}
	}
	return o
}
