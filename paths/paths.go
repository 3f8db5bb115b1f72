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

package paths

import (
	"os"
	"path/filepath"
)

const localConfigDir = ".tasplayer"
const userConfigDir = "tasplayer"

// ResourcePath returns the path to a resource in the config directory. The
// subPth argument names a directory inside the config directory (and can be
// empty) and the file argument names the resource (which can also be empty,
// in which case the path to the directory is returned).
func ResourcePath(subPth string, file string) (string, error) {
	base, err := basePath(subPth)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, file), nil
}

func basePath(subPth string) (string, error) {
	var pth string

	if st, err := os.Stat(localConfigDir); err == nil && st.IsDir() {
		pth = filepath.Join(localConfigDir, subPth)
	} else {
		cnf, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		pth = filepath.Join(cnf, userConfigDir, subPth)
	}

	if err := os.MkdirAll(pth, 0o700); err != nil {
		return "", err
	}

	return pth, nil
}
