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

//go:build linux
// +build linux

package realtime

import (
	"golang.org/x/sys/unix"
)

// the most favourable nice value
const highestPriority = -20

// raisePriority sets the nice value of the calling thread to the most
// favourable value. The thread must be locked.
func raisePriority() (func() error, error) {
	prev, err := nice()
	if err != nil {
		return nil, err
	}

	err = unix.Setpriority(unix.PRIO_PROCESS, 0, highestPriority)
	if err != nil {
		return nil, err
	}

	return func() error {
		return unix.Setpriority(unix.PRIO_PROCESS, 0, prev)
	}, nil
}

// nice returns the nice value of the calling thread. the getpriority system
// call on linux returns 20 minus the nice value.
func nice() (int, error) {
	p, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return 0, err
	}
	return 20 - p, nil
}
