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
	"strings"
	"time"
)

// HistoryTimeFormat is the time stamp layout of history lines.
const HistoryTimeFormat = "Mon Jan 02 15:04:05 2006"

// AppendHistory adds one line recording command to the history attribute
// of ds, creating the attribute if needed. Existing lines are kept as
// they are.
func AppendHistory(ds *Dataset, command string, now time.Time) {
	command = strings.Replace(strings.TrimSpace(command), "\n", " ", -1)
	line := now.Format(HistoryTimeFormat) + ": " + command
	history := ds.Attrs.History()
	switch {
	case history == "":
		history = line
	case strings.HasSuffix(history, "\n"):
		history += line
	default:
		history += "\n" + line
	}
	ds.Attrs.Set(AttrHistory, history)
}
