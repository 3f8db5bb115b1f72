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

package curated_test

import (
	"errors"
	"io"
	"testing"

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/test"
)

const (
	testError  = "test error: %s"
	testErrorB = "test error B: %s"
)

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectEquality(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testError, e)
	test.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	test.ExpectFailure(t, curated.Has(e, testErrorB))

	// packing errors of different types
	f := curated.Errorf(testErrorB, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Is(f, testErrorB))

	// Has() should succeed now because testError is in the chain
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testErrorB))
}

func TestPlainErrors(t *testing.T) {
	// a plain error is not curated
	e := errors.New("plain error")
	test.ExpectFailure(t, curated.IsAny(e))
	test.ExpectFailure(t, curated.Is(e, testError))
	test.ExpectFailure(t, curated.Has(e, testError))

	// a curated error wrapping a plain error is curated
	f := curated.Errorf(testError, e)
	test.ExpectSuccess(t, curated.IsAny(f))
	test.ExpectEquality(t, f.Error(), "test error: plain error")

	// nil is never curated
	test.ExpectFailure(t, curated.IsAny(nil))
}

func TestUnwrap(t *testing.T) {
	e := curated.Errorf("device: %v", io.ErrUnexpectedEOF)
	test.ExpectSuccess(t, errors.Is(e, io.ErrUnexpectedEOF))

	f := curated.Errorf("session: %v", e)
	test.ExpectSuccess(t, errors.Is(f, io.ErrUnexpectedEOF))
}
