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

package serial_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/jetsetilly/tasplayer/serial"
	"github.com/jetsetilly/tasplayer/test"
	"go.bug.st/serial/enumerator"
)

func TestPort(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo terminal not available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	port, err := serial.Open(tty.Name(), serial.Config{Baud: 115200, Poll: 50 * time.Millisecond})
	test.DemandSuccess(t, err)
	defer port.Close()

	// host to device
	n, err := port.Write([]byte{'R'})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 1)

	b := make([]byte, 4)
	n, err = ptmx.Read(b)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, b[0], byte('R'))

	// device to host. raw mode means that the bytes are passed unchanged
	_, err = ptmx.Write([]byte{0x01, 'R'})
	test.DemandSuccess(t, err)

	got := []byte{}
	deadline := time.Now().Add(time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		n, err = port.Read(b)
		test.DemandSuccess(t, err)
		got = append(got, b[:n]...)
	}
	test.DemandEquality(t, len(got), 2)
	test.ExpectEquality(t, got[0], byte(0x01))
	test.ExpectEquality(t, got[1], byte('R'))

	// nothing to read. the poll timeout expires without an error
	n, err = port.Read(b)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 0)
}

func TestOpenFailure(t *testing.T) {
	_, err := serial.Open(filepath.Join(t.TempDir(), "ttyNone"), serial.DefaultConfig)
	test.ExpectFailure(t, err)

	_, err = serial.Open("/dev/null", serial.Config{Baud: 0})
	test.ExpectFailure(t, err)
}

func TestDiscover(t *testing.T) {
	list := func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyACM1", IsUSB: true, VID: "0b07", PID: "07a5"},
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "0B07", PID: "07A5"},
			{Name: "/dev/ttyACM2", IsUSB: true, VID: "2341", PID: "0043"},
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "", PID: ""},
		}, nil
	}

	ports, err := serial.DiscoverWith(list)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(ports), 2)
	test.ExpectEquality(t, ports[0], "/dev/ttyACM0")
	test.ExpectEquality(t, ports[1], "/dev/ttyACM1")

	// no ports at all
	ports, err = serial.DiscoverWith(func() ([]*enumerator.PortDetails, error) {
		return nil, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(ports), 0)

	// enumeration errors are passed on
	fail := errors.New("enumeration not supported")
	_, err = serial.DiscoverWith(func() ([]*enumerator.PortDetails, error) {
		return nil, fail
	})
	test.ExpectSuccess(t, errors.Is(err, fail))
}
