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

package realtime

import (
	"runtime"
	"runtime/debug"

	"github.com/jetsetilly/tasplayer/logger"
)

// PriorityUnsupported is the sentinal error pattern returned on platforms
// where the scheduling priority cannot be changed.
const PriorityUnsupported = "realtime: scheduling priority not supported on %s"

// State records what was changed by Enter().
type State struct {
	gcPercent int

	// restores the scheduling priority. nil if the priority was not raised
	restore func() error

	exited bool
}

// Enter realtime mode for the calling goroutine. The returned State must be
// used to Exit() from the same goroutine.
func Enter() *State {
	runtime.LockOSThread()

	st := &State{
		gcPercent: debug.SetGCPercent(-1),
	}

	restore, err := raisePriority()
	if err != nil {
		logger.Logf(logger.Allow, "realtime", "priority unchanged: %v", err)
	} else {
		st.restore = restore
		logger.Log(logger.Allow, "realtime", "priority raised")
	}

	logger.Log(logger.Allow, "realtime", "garbage collection suspended")

	return st
}

// Exit realtime mode. The priority and garbage collector are restored and the
// goroutine is unlocked from its thread. Calling Exit() more than once has no
// effect.
func (st *State) Exit() {
	if st.exited {
		return
	}
	st.exited = true

	if st.restore != nil {
		if err := st.restore(); err != nil {
			logger.Logf(logger.Allow, "realtime", "priority not restored: %v", err)
		}
	}

	debug.SetGCPercent(st.gcPercent)
	runtime.UnlockOSThread()

	logger.Log(logger.Allow, "realtime", "garbage collection resumed")
}
