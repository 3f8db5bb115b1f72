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

package prefs_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/prefs"
	"github.com/jetsetilly/tasplayer/test"
)

const tempFile = "tasplayer_prefs_test"

func getTmpPrefFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), tempFile)
}

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	if err != nil {
		t.Errorf("error reading tmp file: %v", err)
		return
	}

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var w prefs.Bool
	var x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("true"))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestString(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("serial.device", &v))
	test.ExpectSuccess(t, v.Set("/dev/ttyACM0"))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "serial.device :: /dev/ttyACM0\n")
}

func TestInt(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	var w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))

	// test string conversion to int
	test.ExpectSuccess(t, w.Set("99"))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	// while we have a prefs.Int instance set up we'll test some
	// failure conditions
	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
}

func TestDuration(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Duration
	test.ExpectSuccess(t, dsk.Add("reset.hard.settle", &v))
	test.ExpectSuccess(t, v.Set(2*time.Second))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "reset.hard.settle :: 2s\n")

	test.ExpectSuccess(t, v.Set("150ms"))
	test.ExpectEquality(t, v.Get().(time.Duration), 150*time.Millisecond)

	test.ExpectFailure(t, v.Set("soon"))
	test.ExpectFailure(t, v.Set("-1s"))
}

func TestGeneric(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var latches, packets int

	v := prefs.NewGeneric(
		func(s string) error {
			_, err := fmt.Sscanf(s, "%d,%d", &latches, &packets)
			return err
		},
		func() string {
			return fmt.Sprintf("%d,%d", latches, packets)
		},
	)
	test.ExpectSuccess(t, dsk.Add("generic", v))

	latches = 28
	packets = 4
	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "generic :: 28,4\n")

	// change values and reload from disk
	latches = 1
	packets = 1
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, latches, 28)
	test.ExpectEquality(t, packets, 4)
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var post int

	v.SetHookPre(func(value prefs.Value) error {
		if value.(int) > 1024 {
			return fmt.Errorf("too large")
		}
		return nil
	})
	v.SetHookPost(func(value prefs.Value) error {
		post = value.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(512))
	test.ExpectEquality(t, post, 512)

	// the pre hook vetoes the change
	test.ExpectFailure(t, v.Set(2048))
	test.ExpectEquality(t, v.Get().(int), 512)
	test.ExpectEquality(t, post, 512)
}

func TestLoadPreservesUnknownKeys(t *testing.T) {
	fn := getTmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	// missing file is reported with a sentinal pattern
	err = dsk.Load(false)
	test.ExpectSuccess(t, curated.Is(err, prefs.NoPrefsFile))

	var a prefs.Int
	test.ExpectSuccess(t, dsk.Add("a", &a))
	test.ExpectSuccess(t, a.Set(1))
	test.DemandSuccess(t, dsk.Save())

	// a second disk instance with a different key
	dskB, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var b prefs.Int
	test.ExpectSuccess(t, dskB.Add("b", &b))
	test.ExpectSuccess(t, b.Set(2))
	test.DemandSuccess(t, dskB.Save())

	cmpTmpFile(t, fn, "a :: 1\nb :: 2\n")

	// adding the same key twice is an error
	test.ExpectFailure(t, dskB.Add("b", &b))
}
