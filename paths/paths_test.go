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

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/tasplayer/paths"
	"github.com/jetsetilly/tasplayer/test"
)

func TestPaths(t *testing.T) {
	// run the test with a local config directory in a temporary working
	// directory
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".tasplayer", 0o700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".tasplayer", "foo", "bar", "baz"))

	pth, err = paths.ResourcePath("foo/bar", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".tasplayer", "foo", "bar"))

	pth, err = paths.ResourcePath("", "preferences")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".tasplayer", "preferences"))

	// the sub-path directory has been created
	st, err := os.Stat(filepath.Join(".tasplayer", "foo", "bar"))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, st.IsDir())
}
