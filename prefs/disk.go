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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/tasplayer/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file while tasplayer is running ***"

// separator between key and value in the preferences file.
const keySep = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile  = "prefs: no preferences file (%s)"
	DiskError    = "prefs: %v"
	DuplicateKey = "prefs: key already added (%s)"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	crit sync.Mutex

	path    string
	entries map[string]pref
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	s := strings.Builder{}
	for _, k := range dsk.keys() {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the preferences file.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p

	return nil
}

func (dsk *Disk) keys() []string {
	k := make([]string, 0, len(dsk.entries))
	for key := range dsk.entries {
		k = append(k, key)
	}
	sort.Strings(k)
	return k
}

// Reset all preference values to their zero value.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}

	return nil
}

// Save current preference values to disk. Entries in the file that have not
// been added to this Disk instance are preserved.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	// start with the entries already on disk
	data, err := dsk.read()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	// update/add entries belonging to this instance
	for k, p := range dsk.entries {
		data[k] = p.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, data[k])
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return curated.Errorf(DiskError, err)
	}
	if err := f.Close(); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load preference values from disk. If saveOnFail is true then the current
// values are saved when a preference in the file cannot be set, repairing
// the file.
func (dsk *Disk) Load(saveOnFail bool) error {
	dsk.crit.Lock()

	data, err := dsk.read()
	if err != nil {
		dsk.crit.Unlock()
		return err
	}

	var failed error
	for k, v := range data {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil && failed == nil {
				failed = curated.Errorf(DiskError, fmt.Errorf("%s: %w", k, err))
			}
		}
	}

	dsk.crit.Unlock()

	if failed != nil {
		if saveOnFail {
			return dsk.Save()
		}
		return failed
	}

	return nil
}

// read the preferences file into a map of key/value strings.
func (dsk *Disk) read() (map[string]string, error) {
	data := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return data, curated.Errorf(DiskError, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// first line is the boilerplate warning
	if scanner.Scan() && scanner.Text() != WarningBoilerPlate {
		return data, curated.Errorf(DiskError, fmt.Errorf("not a valid preferences file (%s)", dsk.path))
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), keySep)
		if !ok {
			continue
		}
		data[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if err := scanner.Err(); err != nil {
		return data, curated.Errorf(DiskError, err)
	}

	return data, nil
}
