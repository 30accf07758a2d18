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

package ncpostutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncpost"
)

// Mode says what to do with an output file that already exists.
type Mode int

const (
	// Overwrite replaces the existing file.
	Overwrite Mode = iota

	// Append merges the new variables into the existing file.
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "overwrite"
}

// A ConflictResolver decides what to do when an output file exists.
type ConflictResolver interface {
	Resolve(path string) (Mode, error)
}

// Fixed is a ConflictResolver that always gives the same answer.
type Fixed Mode

// Resolve implements ConflictResolver.
func (f Fixed) Resolve(string) (Mode, error) { return Mode(f), nil }

// PromptResolver asks the user, repeating the question until it gets a
// valid answer.
type PromptResolver struct {
	In  io.Reader
	Out io.Writer
}

// Resolve implements ConflictResolver.
func (p PromptResolver) Resolve(path string) (Mode, error) {
	s := bufio.NewScanner(p.In)
	for {
		fmt.Fprintf(p.Out, "%s exists: [o]verwrite or [a]ppend? ", path)
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return Overwrite, fmt.Errorf("ncpostutil: reading answer: %v", err)
			}
			return Overwrite, fmt.Errorf("ncpostutil: no answer given for existing file %s", path)
		}
		switch strings.ToLower(strings.TrimSpace(s.Text())) {
		case "o", "overwrite":
			return Overwrite, nil
		case "a", "append":
			return Append, nil
		}
	}
}

// Output writes datasets to local or blob storage paths.
type Output struct {
	// Resolver is asked what to do when the output exists. If nil the
	// user is asked on standard input.
	Resolver ConflictResolver

	Format ncpost.Format
	Log    logrus.FieldLogger
}

// Write writes ds to path. If path exists the Resolver decides whether
// to replace it or to merge ds into it. Local files are written to a
// temporary file first and then renamed, so an error leaves any
// existing file untouched.
func (o *Output) Write(ctx context.Context, ds *ncpost.Dataset, path string) error {
	up := new(uploader)
	defer up.cleanup()
	local := up.maybeUpload(path)
	if up.err != nil {
		return fmt.Errorf("ncpostutil: preparing upload of %s: %v", path, up.err)
	}

	exists, err := o.exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		resolver := o.Resolver
		if resolver == nil {
			resolver = PromptResolver{In: os.Stdin, Out: os.Stdout}
		}
		mode, err := resolver.Resolve(path)
		if err != nil {
			return err
		}
		o.log().WithFields(logrus.Fields{"path": path, "mode": mode}).Info("output exists")
		if mode == Append {
			if ds, err = o.merge(ctx, path, ds); err != nil {
				return err
			}
		}
	}

	if err := writeAtomic(local, ds, o.Format); err != nil {
		return err
	}
	if err := up.uploadOutput(ctx); err != nil {
		return err
	}
	o.log().WithFields(logrus.Fields{"path": path, "format": o.Format}).Info("wrote output")
	return nil
}

func (o *Output) log() logrus.FieldLogger {
	if o.Log == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		return l
	}
	return o.Log
}

func (o *Output) exists(ctx context.Context, path string) (bool, error) {
	if IsBlob(path) {
		ok, err := blobExists(ctx, path)
		if err != nil {
			return false, fmt.Errorf("ncpostutil: checking %s: %v", path, err)
		}
		return ok, nil
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ncpostutil: checking %s: %v", path, err)
	}
	return true, nil
}

// merge loads the existing output and merges ds into it.
func (o *Output) merge(ctx context.Context, path string, ds *ncpost.Dataset) (*ncpost.Dataset, error) {
	local := path
	if IsBlob(path) {
		var err error
		if local, err = downloadBlob(ctx, path); err != nil {
			return nil, err
		}
		defer os.RemoveAll(filepath.Dir(local))
	}
	existing, err := ncpost.LoadFile(local)
	if err != nil {
		return nil, err
	}
	return ncpost.Merge(existing, ds)
}

// writeAtomic writes ds to a temporary file in the directory of path
// and renames it to path.
func writeAtomic(path string, ds *ncpost.Dataset, format ncpost.Format) error {
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("ncpostutil: creating output file: %v", err)
	}
	if err := ncpost.Write(f, ds, format); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("ncpostutil: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("ncpostutil: writing %s: %v", path, err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("ncpostutil: writing %s: %v", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("ncpostutil: writing %s: %v", path, err)
	}
	return nil
}
