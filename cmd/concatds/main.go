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

// Command concatds concatenates NetCDF files along a new, labeled dimension.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/ncpost/ncpostutil"
)

func main() {
	if err := ncpostutil.InitializeConfig().Concat.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
