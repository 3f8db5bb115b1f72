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

package device_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/pump"
	"github.com/jetsetilly/tasplayer/runfile"
	"github.com/jetsetilly/tasplayer/test"
)

// scripted stands in for the serial port. Configuration commands are
// acknowledged if ack is true. Bytes in trailing are sent immediately after
// the acknowledgement of the keyed command.
type scripted struct {
	written  bytes.Buffer
	replies  bytes.Buffer
	ack      bool
	trailing map[byte][]byte
	fail     error
}

func (s *scripted) Write(b []byte) (int, error) {
	if s.fail != nil {
		return 0, s.fail
	}
	s.written.Write(b)
	if s.ack {
		switch b[0] {
		case 'R', 'S', 'T', 'U', 'Q':
			s.replies.Write([]byte{0x01, b[0]})
			s.replies.Write(s.trailing[b[0]])
		}
	}
	return len(b), nil
}

func (s *scripted) Read(b []byte) (int, error) {
	if s.replies.Len() == 0 {
		return 0, nil
	}
	return s.replies.Read(b)
}

// written returns and clears the bytes written so far.
func (s *scripted) take() []byte {
	b := bytes.Clone(s.written.Bytes())
	s.written.Reset()
	return b
}

func newDevice() (*device.Device, *scripted) {
	s := &scripted{ack: true}
	return device.NewDevice(s, device.Config{AckTimeout: 100 * time.Millisecond}), s
}

func TestSetupRun(t *testing.T) {
	dev, s := newDevice()

	test.DemandSuccess(t, dev.Reset())
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'R'}))

	id, err := dev.SetupRun(console.SNES, []int{1, 2}, device.SetupOptions{LatchFilter: true, Clock: 6})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, device.RunID('A'))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'S', 'A', 'S', 0x03, 0x80, 6}))

	id, err = dev.SetupRun(console.N64, []int{1}, device.SetupOptions{Overread: true})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, device.RunID('B'))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'S', 'B', 'M', 0x01, 0x40, 0}))

	_, err = dev.SetupRun(console.NES, []int{1}, device.SetupOptions{Clock: 64})
	test.ExpectSuccess(t, curated.Is(err, device.SetupFailed))
	test.ExpectEquality(t, s.written.Len(), 0)
}

func TestRunIDs(t *testing.T) {
	dev, _ := newDevice()

	for i := range 4 {
		id, err := dev.SetupRun(console.NES, []int{1}, device.SetupOptions{})
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, id, device.FirstRunID+device.RunID(i))
		test.ExpectSuccess(t, id.Valid())
	}

	_, err := dev.SetupRun(console.NES, []int{1}, device.SetupOptions{})
	test.ExpectSuccess(t, curated.Is(err, device.SetupFailed))

	dev.ReleaseRun('B')
	id, err := dev.SetupRun(console.NES, []int{1}, device.SetupOptions{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, id, device.RunID('B'))
	test.ExpectEquality(t, id.Bulk(), byte('b'))

	// device reset frees all IDs
	test.DemandSuccess(t, dev.Reset())
	id, err = dev.SetupRun(console.NES, []int{1}, device.SetupOptions{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, id, device.RunID('A'))
}

func TestClaim(t *testing.T) {
	dev, _ := newDevice()
	test.DemandSuccess(t, dev.Claim())
	test.ExpectSuccess(t, curated.Is(dev.Claim(), device.DeviceBusy))
	dev.Release()
	test.ExpectSuccess(t, dev.Claim())
}

func TestAckTimeout(t *testing.T) {
	dev, s := newDevice()
	s.ack = false

	err := dev.Reset()
	test.ExpectSuccess(t, curated.Is(err, device.LinkFailure))
	test.ExpectSuccess(t, curated.Has(err, device.LinkTimeout))

	_, err = dev.SetupRun(console.NES, []int{1}, device.SetupOptions{})
	test.ExpectSuccess(t, curated.Is(err, device.SetupFailed))
	test.ExpectSuccess(t, curated.Has(err, device.LinkTimeout))
}

func TestUnexpectedAck(t *testing.T) {
	dev, s := newDevice()
	s.ack = false
	s.replies.Write([]byte{0x01, 'Q'})
	test.ExpectSuccess(t, curated.Is(dev.Reset(), device.LinkFailure))
}

func TestLinkFailure(t *testing.T) {
	dev, s := newDevice()
	s.fail = errors.New("unplugged")

	err := dev.Write('A', movie.Frame{0x00})
	test.ExpectSuccess(t, curated.Is(err, device.LinkFailure))
	test.ExpectSuccess(t, errors.Is(err, s.fail))
	test.ExpectFailure(t, dev.PowerOn())
}

func TestFeedbackBeforeAck(t *testing.T) {
	dev, s := newDevice()

	// overflow sentinals waiting in the link when the command is sent
	s.replies.Write([]byte{device.FeedbackOverflow, device.FeedbackOverflow})
	test.DemandSuccess(t, dev.SetBulkDataMode('A', true))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'Q', 'A', '1'}))

	fb, err := dev.ReadFeedback(1)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(fb, []byte{0xb0}))

	// remaining cached feedback is followed by whatever is in the link
	s.replies.Write([]byte{'A'})
	fb, err = dev.ReadFeedback(10)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(fb, []byte{0xb0, 'A'}))

	fb, err = dev.ReadFeedback(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(fb), 0)
}

func TestFeedbackAfterAck(t *testing.T) {
	dev, s := newDevice()

	// the device reports an empty buffer straight after acknowledging the
	// transition. the overflows from priming arrive later
	s.trailing = map[byte][]byte{'T': {device.FeedbackEmpty}}
	test.DemandSuccess(t, dev.SendTransition('A', 10, runfile.ModeHardReset))
	s.take()
	s.replies.Write([]byte{device.FeedbackOverflow, device.FeedbackOverflow})

	plan := pump.Plan{
		Blank: movie.Frame{0x00},
		Movie: []movie.Frame{{0x01}, {0x02}, {0x03}, {0x04}},
	}
	cfg := pump.DefaultConfig
	cfg.Capacity = 4
	cfg.Bulk = false

	rs, rep, err := pump.Prime(context.Background(), dev, 'A', plan, cfg, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rep.Attempted, 4)
	test.ExpectEquality(t, rep.Overflow, 2)
	test.ExpectEquality(t, rs.Cursor, 2)
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'A', 0x01, 'A', 0x02, 'A', 0x03, 'A', 0x04, 'P', '1'}))
}

func TestWrite(t *testing.T) {
	dev, s := newDevice()

	test.DemandSuccess(t, dev.Write('A', movie.Frame{0x01, 0x02}))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'A', 0x01, 0x02}))

	// a batch is one transmission with every frame prefixed by the ID
	test.DemandSuccess(t, dev.Write('C', movie.Frame{0x01}, movie.Frame{0x02}, movie.Frame{0x03}))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'C', 0x01, 'C', 0x02, 'C', 0x03}))

	test.DemandSuccess(t, dev.Write('A'))
	test.ExpectEquality(t, s.written.Len(), 0)
}

func TestRegistration(t *testing.T) {
	dev, s := newDevice()

	test.DemandSuccess(t, dev.SendTransition('A', 10000, runfile.ModeHardReset))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'T', 'A', 'H', 0x10, 0x27, 0x00, 0x00}))

	err := dev.SendTransition('A', 10, runfile.ModeInvalid)
	test.ExpectSuccess(t, curated.Is(err, device.SetupFailed))
	test.ExpectEquality(t, s.written.Len(), 0)

	test.DemandSuccess(t, dev.SendLatchTrain('A', []uint16{5, 10, 15}))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'U', 'A', 3, 0, 5, 0, 10, 0, 15, 0}))

	test.DemandSuccess(t, dev.SetBulkDataMode('B', false))
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte{'Q', 'B', '0'}))
}

func TestPower(t *testing.T) {
	dev, s := newDevice()

	test.DemandSuccess(t, dev.PowerOff())
	test.DemandSuccess(t, dev.PowerReset(device.SoftReset))
	test.DemandSuccess(t, dev.PowerReset(device.HardReset))
	test.DemandSuccess(t, dev.PowerOn())
	test.ExpectSuccess(t, bytes.Equal(s.take(), []byte("P0PSPHP1")))

	test.ExpectFailure(t, dev.PowerReset(device.ResetKind(99)))
}
