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

// Package pump primes the replay device's input buffer and feeds it for the
// rest of the run.
//
// Priming writes the blank frames followed by as many movie frames as will
// fit in the device's buffer. Each write is optimistic: the device does not
// acknowledge frames. Instead, once priming is complete, a single read of the
// feedback is made and every overflow sentinal in it is counted. The cursor
// is moved back by that count, on the assumption that the frames that were
// not accepted are the most recently sent. The correction is position blind.
//
// The position of the cursor is an index into the priming sequence, which is
// the blank frames followed by the movie. A cursor of n therefore means that
// n frames of the sequence have been accepted by the device.
//
// After priming, the RunState is handed to a Feeder. HostFeeder is the Feeder
// that answers the device's requests for more frames from the host.
package pump
