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

//go:build windows
// +build windows

package realtime

import (
	"golang.org/x/sys/windows"
)

// raisePriority moves the process into the realtime priority class.
func raisePriority() (func() error, error) {
	proc, err := windows.GetCurrentProcess()
	if err != nil {
		return nil, err
	}

	prev, err := windows.GetPriorityClass(proc)
	if err != nil {
		return nil, err
	}

	err = windows.SetPriorityClass(proc, windows.REALTIME_PRIORITY_CLASS)
	if err != nil {
		return nil, err
	}

	return func() error {
		return windows.SetPriorityClass(proc, prev)
	}, nil
}
