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

// Package ncpost post-processes gridded climate model output stored in
// NetCDF files. It can remap fields from a model's native vertical
// coordinate onto levels of another field (for example geopotential
// height or pressure), and it can stack a set of files along a new,
// labeled dimension.
//
// Datasets are loaded fully into memory and values are kept exactly as
// they are stored on disk: no unit, calendar or fill value decoding is
// done.
package ncpost

import "errors"

// Version gives the version number.
const Version = "0.3.0"

var (
	// ErrFieldNotFound is returned when the interpolation field is not
	// in the dataset it is expected in.
	ErrFieldNotFound = errors.New("field not found")

	// ErrLabelCount is returned when the number of concatenation labels
	// differs from the number of input files.
	ErrLabelCount = errors.New("number of labels does not match number of files")

	// ErrNonMonotonic is returned by the optional monotonicity check when
	// a column of the interpolation field is not strictly monotonic.
	ErrNonMonotonic = errors.New("interpolation coordinate is not monotonic")

	// ErrVerticalDim is returned when the vertical dimension of the
	// interpolation field can't be determined.
	ErrVerticalDim = errors.New("can't determine vertical dimension")

	// ErrClassicTooLarge is returned when a dataset needs 64-bit offsets
	// but the classic format was requested.
	ErrClassicTooLarge = errors.New("dataset is too large for the classic format")
)
