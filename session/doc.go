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

// Package session assembles and runs a replay of a movie on the replay
// device. A Session moves through the following states, never backwards:
//
//	Configured -> Reset -> Primed -> Streaming -> Exhausted
//	                                           -> Cancelled
//	                                           -> Failed
//
// The Reset state is only entered if a power action was requested. A
// session can be run only once. A new Session is needed to try again.
//
// The movie is decoded before anything is sent to the device. A movie that
// cannot be decoded means the device is never touched.
//
// Stopping a session is not an error. Nothing is sent to the device when a
// session is stopped and the console is left powered on.
package session
