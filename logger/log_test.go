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

package logger_test

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	// clear the test.Writer buffer before continuing, makes comparisons easier
	// to manage
	w.Reset()

	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for exactly the correct number of entries is okay
	w.Reset()
	log.Tail(w, 2)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	// and no entries
	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeatedEntries(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "pump", "buffer overflow x1")
	log.Log(logger.Allow, "pump", "buffer overflow x1")
	log.Log(logger.Allow, "pump", "buffer overflow x1")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "pump: buffer overflow x1 (repeat x3)\n")
}

func TestMaximumEntries(t *testing.T) {
	log := logger.NewLogger(3)
	w := &strings.Builder{}

	for _, s := range []string{"a", "b", "c", "d", "e"} {
		log.Log(logger.Allow, "tag", s)
	}
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: c\ntag: d\ntag: e\n")
}

func TestWriteRecent(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", "one")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "tag: one\n")

	w.Reset()
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "tag", "two")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "tag: two\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", "before echo")
	log.SetEcho(w, false)
	log.Log(logger.Allow, "tag", "after echo")
	test.ExpectEquality(t, w.String(), "tag: after echo\n")

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "tag", "echo off")
	test.ExpectEquality(t, w.String(), "tag: after echo\n")
}

type prohibitLogging struct {
	allow int
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow > 50
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	var p prohibitLogging

	for range 100 {
		p.allow = rand.IntN(100)
		log.Clear()
		w.Reset()
		log.Log(p, "tag", "detail")
		log.Write(w)
		if p.AllowLogging() {
			test.ExpectEquality(t, w.String(), "tag: detail\n")
		} else {
			test.ExpectEquality(t, w.String(), "")
		}
	}

	log.Clear()
	w.Reset()
	log.Log(logger.Verbosity(false), "tag", "quiet")
	log.Log(logger.Verbosity(true), "tag", "loud")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: loud\n")
}

func TestErrorLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	err := errors.New("test error")

	log.Log(logger.Allow, "tag", err)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\n")

	log.Clear()
	w.Reset()

	// test "wrapping" of errors using the %v verb
	log.Logf(logger.Allow, "tag", "wrapped: %v", err)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: wrapped: test error\n")
}

type stringerTest struct{}

func (_ stringerTest) String() string {
	return "stringer test"
}

func TestStringerLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", stringerTest{})
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: stringer test\n")
}

func TestIntLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", 100)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: 100\n")
}

func TestColorizer(t *testing.T) {
	w := &strings.Builder{}
	c := logger.NewColorizer(w, "overflow")

	n, err := c.Write([]byte("pump: sending latch 100\n"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, len("pump: sending latch 100\n"))

	// whatever the styling, the text content survives
	test.ExpectSuccess(t, strings.Contains(w.String(), "pump:"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "sending latch 100"))
}
