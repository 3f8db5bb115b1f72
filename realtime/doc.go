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

// Package realtime reduces interruptions to the goroutine that feeds the
// replay device. Enter() locks the goroutine to its OS thread, suspends the
// garbage collector and raises the scheduling priority of the thread where
// the platform allows it. Exit() puts everything back.
//
// Raising the priority usually requires elevated privileges. Failure to do so
// is logged and is not an error.
package realtime
