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

package test

import "testing"

// DemandEquality is used to test equality between one value and another. If
// the test fails it is a testing fatality.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
	}
}

// DemandSuccess tests argument v for a success condition suitable for its
// type. If the test fails it is a testing fatality.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !expect(t, v, tags...) {
		if err, ok := v.(error); ok {
			t.Fatalf("%sa success value is demanded (error: %v)", id(tags...), err)
		}
		t.Fatalf("%sa success value is demanded for type %T", id(tags...), v)
	}
}

// DemandFailure tests argument v for a failure condition suitable for its
// type. If the test fails it is a testing fatality.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if expect(t, v, tags...) {
		t.Fatalf("%sa failure value is demanded for type %T", id(tags...), v)
	}
}
