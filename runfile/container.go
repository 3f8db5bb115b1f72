// This file is part of tasplayer.
//
// tasplayer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tasplayer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tasplayer.  If not, see <https://www.gnu.org/licenses/>.

package runfile

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jetsetilly/tasplayer/curated"
)

// ContainerError is the sentinal pattern for all errors reading or writing a
// run container.
const ContainerError = "runfile: %v"

// DescriptorFile is the name of the descriptor in the container.
const DescriptorFile = "run.json"

// Extensions recognised as run containers.
var Extensions = []string{".tas", ".zip"}

// IsContainer returns true if the filename has the extension of a run
// container.
func IsContainer(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Read a run container. The movie is empty if the descriptor does not name a
// movie.
func Read(r io.ReaderAt, size int64) (*Descriptor, []byte, error) {
	z, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, err)
	}

	b, err := readEntry(z, DescriptorFile)
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, err)
	}

	d := &Descriptor{}
	err = json.Unmarshal(b, d)
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, fmt.Errorf("%s: %w", DescriptorFile, err))
	}

	if d.Movie == "" {
		return d, []byte{}, nil
	}

	mv, err := readEntry(z, d.Movie)
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, err)
	}

	return d, mv, nil
}

func readEntry(z *zip.Reader, name string) ([]byte, error) {
	f, err := z.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Load a run container from disk.
func Load(filename string) (*Descriptor, []byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, curated.Errorf(ContainerError, err)
	}

	return Read(f, st.Size())
}

// Write a run container. The version field of the descriptor is filled in if
// it is empty.
func Write(w io.Writer, d *Descriptor, movie []byte) error {
	if d.Movie == "" && len(movie) > 0 {
		return curated.Errorf(ContainerError, fmt.Errorf("movie data has no name"))
	}
	if d.Movie != "" && (d.Movie == DescriptorFile || d.Movie != path.Base(d.Movie)) {
		return curated.Errorf(ContainerError, fmt.Errorf("invalid movie name (%s)", d.Movie))
	}
	if d.Version == "" {
		d.Version = DescriptorVersion
	}

	b, err := json.Marshal(d)
	if err != nil {
		return curated.Errorf(ContainerError, err)
	}

	z := zip.NewWriter(w)

	err = writeEntry(z, DescriptorFile, b)
	if err != nil {
		return curated.Errorf(ContainerError, err)
	}

	if d.Movie != "" {
		err = writeEntry(z, d.Movie, movie)
		if err != nil {
			return curated.Errorf(ContainerError, err)
		}
	}

	err = z.Close()
	if err != nil {
		return curated.Errorf(ContainerError, err)
	}

	return nil
}

func writeEntry(z *zip.Writer, name string, data []byte) error {
	f, err := z.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// Save a run container to disk. An existing file is overwritten.
func Save(filename string, d *Descriptor, movie []byte) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(ContainerError, err)
	}
	defer func() {
		err := f.Close()
		if rerr == nil && err != nil {
			rerr = curated.Errorf(ContainerError, err)
		}
	}()

	return Write(f, d, movie)
}

// Find returns the run containers found anywhere under the directory, sorted
// by path. A missing directory is not an error.
func Find(dir string) ([]string, error) {
	var runs []string

	err := filepath.WalkDir(dir, func(pth string, e fs.DirEntry, err error) error {
		if err != nil {
			if pth == dir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if !e.IsDir() && IsContainer(pth) {
			runs = append(runs, pth)
		}
		return nil
	})
	if err != nil {
		return nil, curated.Errorf(ContainerError, err)
	}

	sort.Strings(runs)
	return runs, nil
}
