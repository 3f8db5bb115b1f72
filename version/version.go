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

// Package version reports the version of the program. The version number is
// set at link time with:
//
//	go build -ldflags "-X github.com/jetsetilly/tasplayer/version.number=v0.1.0"
//
// Without a version number the version is "unreleased" when VCS information
// is available in the build and "local" when it is not.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name used in banners and in the run container
// descriptor written by the PACK mode.
const ApplicationName = "tasplayer"

// set by the linker.
var number string

var revision string
var version string

// Version returns the version string, the revision string and whether this
// is a numbered release.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

func init() {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	if vcsRevision == "" {
		revision = "no revision information"
	} else {
		revision = vcsRevision
		if vcsModified {
			revision = fmt.Sprintf("%s+dirty", revision)
		}
	}

	switch {
	case number != "":
		version = number
	case vcs:
		version = "unreleased"
	default:
		version = "local"
	}
}
