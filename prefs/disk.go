// This file is part of c64io.
//
// c64io is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64io is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64io.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/c64io/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// Sentinal error patterns.
const (
	NoPrefsFile      = "prefs: no prefs file (%s)"
	PrefsFileCorrupt = "prefs: file corrupt (%s)"
	PrefsFileError   = "prefs: %v"
)

// the separator between key and value in the prefs file.
const keySep = " :: "

// Disk represents preference values as stored on disk.
type Disk struct {
	crit    sync.Mutex
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// argument specifies the label under which the value is stored.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if strings.Contains(key, keySep) || strings.TrimSpace(key) != key || key == "" {
		return curated.Errorf(PrefsFileError, fmt.Sprintf("illegal key (%q)", key))
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(PrefsFileError, fmt.Sprintf("duplicate key (%s)", key))
	}
	dsk.entries[key] = p

	return nil
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	keys := dsk.sortedKeys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) sortedKeys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset all entries to their default values.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for _, v := range dsk.entries {
		if err := v.Reset(); err != nil {
			return curated.Errorf(PrefsFileError, err)
		}
	}
	return nil
}

// Save current preference values to disk. Values in the existing prefs file
// that are not known to this Disk instance are preserved.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	// load the existing file. it may contain values for keys that we do not
	// know about
	data, err := dsk.read()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}
	if data == nil {
		data = make(map[string]string)
	}

	for k, v := range dsk.entries {
		data[k] = v.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf(PrefsFileError, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, data[k])
	}
	if err := w.Flush(); err != nil {
		return curated.Errorf(PrefsFileError, err)
	}

	return nil
}

// Load preference values from disk. If saveOnFail is true and the prefs file
// does not exist then the current values are saved to create the file. Note
// that the NoPrefsFile error is still returned in that case.
//
// Command line overrides (see PushCommandLineStack()) are applied after the
// values on disk.
func (dsk *Disk) Load(saveOnFail bool) error {
	dsk.crit.Lock()
	data, err := dsk.read()
	dsk.crit.Unlock()

	if err != nil {
		if curated.Is(err, NoPrefsFile) && saveOnFail {
			if serr := dsk.Save(); serr != nil {
				return serr
			}
		}
		dsk.applyCommandLine()
		return err
	}

	dsk.crit.Lock()
	for k, v := range data {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				dsk.crit.Unlock()
				return curated.Errorf(PrefsFileError, err)
			}
		}
	}
	dsk.crit.Unlock()

	dsk.applyCommandLine()

	return nil
}

func (dsk *Disk) applyCommandLine() {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for k, p := range dsk.entries {
		if ok, v := GetCommandLinePref(k); ok {
			_ = p.Set(v)
		}
	}
}

// read the prefs file into a map of strings. the lock must be held by the
// caller.
func (dsk *Disk) read() (map[string]string, error) {
	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return nil, curated.Errorf(PrefsFileError, err)
	}
	defer f.Close()

	return parse(f, dsk.path)
}

func parse(r io.Reader, path string) (map[string]string, error) {
	data := make(map[string]string)

	scanner := bufio.NewScanner(r)

	// the first line must be the warning boilerplate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Errorf(PrefsFileCorrupt, path)
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), keySep)
		if !ok {
			continue
		}
		data[k] = v
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(PrefsFileError, err)
	}

	return data, nil
}
