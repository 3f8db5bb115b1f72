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

// Package runfile reads and writes run containers. A run container is a zip
// archive holding a run.json descriptor and the movie file named by the
// descriptor:
//
//	run.tas
//	  run.json
//	  movie.r16m
//
// The descriptor holds everything needed to replay the movie on a console
// except the choice of serial port. Transitions and latch trains are stored
// in the descriptor as text and are parsed with ParseTransitions() and
// ParseLatchTrain().
//
// Transitions text is a whitespace delimited list of frame/mode pairs:
//
//	1500 A 2400 N
//
// A mode code that is not recognised (or is missing) is kept as the invalid
// marker 'X' so that a descriptor can be opened, inspected and saved without
// losing information. Replaying a run with an invalid transition is refused
// later, when the session options are validated.
//
// Latch train text is a comma separated list of latch indices:
//
//	5,10,15
package runfile
