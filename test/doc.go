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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions test for simple
// equality. The ExpectSuccess() and ExpectFailure() functions test for
// "success" values, where success is true for a bool and nil for an error.
// The Demand*() variants stop the test immediately on failure.
//
// The optional tags argument of every function is prefixed to the failure
// message. Useful when a test is run in a loop.
package test
