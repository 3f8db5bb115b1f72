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

package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/runfile"
)

const ack = 0x01

// Device implements the Link interface over an io.ReadWriter.
type Device struct {
	rw  io.ReadWriter
	cfg Config

	// claimed and runs are accessed by the owning session and by anyone
	// trying to claim the device
	crit    sync.Mutex
	claimed bool
	runs    map[RunID]bool

	// feedback bytes that arrived while waiting for an acknowledgement.
	// returned by the next call to ReadFeedback()
	pending []byte

	// scratch buffer for reads
	rbuf []byte
}

// NewDevice is the preferred method of initialisation for the Device type.
func NewDevice(rw io.ReadWriter, cfg Config) *Device {
	return &Device{
		rw:   rw,
		cfg:  cfg,
		runs: make(map[RunID]bool),
		rbuf: make([]byte, 64),
	}
}

// Claim exclusive use of the device. Fails with DeviceBusy if the device is
// already claimed.
func (dev *Device) Claim() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if dev.claimed {
		return curated.Errorf(DeviceBusy)
	}
	dev.claimed = true
	return nil
}

// Release the claim on the device. All run IDs are freed.
func (dev *Device) Release() {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.claimed = false
	clear(dev.runs)
	dev.pending = dev.pending[:0]
}

// ReleaseRun frees the run ID so that it can be returned by a future call
// to SetupRun().
func (dev *Device) ReleaseRun(id RunID) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	delete(dev.runs, id)
}

func (dev *Device) allocate() (RunID, bool) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	for id := FirstRunID; id <= LastRunID; id++ {
		if !dev.runs[id] {
			dev.runs[id] = true
			return id, true
		}
	}
	return 0, false
}

func (dev *Device) write(b []byte) error {
	_, err := dev.rw.Write(b)
	if err != nil {
		return curated.Errorf(LinkFailure, err)
	}
	return nil
}

// command sends the command and waits for the acknowledgement.
func (dev *Device) command(b []byte) error {
	err := dev.write(b)
	if err != nil {
		return err
	}
	return dev.waitAck(b[0])
}

// waitAck reads until the acknowledgement for the command letter is seen.
// Any other bytes are feedback and are kept for ReadFeedback().
func (dev *Device) waitAck(cmd byte) error {
	var deadline time.Time
	if dev.cfg.AckTimeout > 0 {
		deadline = time.Now().Add(dev.cfg.AckTimeout)
	}

	marker := false
	for {
		n, err := dev.rw.Read(dev.rbuf)
		if err != nil {
			return curated.Errorf(LinkFailure, err)
		}

		for i, b := range dev.rbuf[:n] {
			if marker {
				if b != cmd {
					return curated.Errorf(LinkFailure, fmt.Errorf("unexpected acknowledgement (%#02x) for %c command", b, cmd))
				}

				// bytes after the acknowledgement are more feedback
				dev.pending = append(dev.pending, dev.rbuf[i+1:n]...)
				return nil
			}
			if b == ack {
				marker = true
				continue
			}
			dev.pending = append(dev.pending, b)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return curated.Errorf(LinkFailure, curated.Errorf(LinkTimeout, cmd))
		}
	}
}

// Reset implements the Link interface.
func (dev *Device) Reset() error {
	err := dev.command([]byte{'R'})
	if err != nil {
		return err
	}
	dev.crit.Lock()
	clear(dev.runs)
	dev.crit.Unlock()
	logger.Log(logger.Allow, "device", "reset")
	return nil
}

// SetupRun implements the Link interface.
func (dev *Device) SetupRun(c console.Console, players []int, opts SetupOptions) (RunID, error) {
	code := console.Code(c)
	if code == 0 {
		return 0, curated.Errorf(SetupFailed, fmt.Errorf("unsupported console (%s)", c))
	}
	if len(players) == 0 {
		return 0, curated.Errorf(SetupFailed, fmt.Errorf("no players"))
	}
	if opts.Clock > MaxClock {
		return 0, curated.Errorf(SetupFailed, fmt.Errorf("clock filter out of range (%d)", opts.Clock))
	}

	id, ok := dev.allocate()
	if !ok {
		return 0, curated.Errorf(SetupFailed, fmt.Errorf("no free run IDs"))
	}

	err := dev.command([]byte{'S', byte(id), code, console.PlayerMask(players), opts.Settings(), opts.Clock})
	if err != nil {
		dev.ReleaseRun(id)
		return 0, curated.Errorf(SetupFailed, err)
	}

	logger.Logf(logger.Allow, "device", "run %s: %s players %s", id, c, console.FormatPlayers(players))
	return id, nil
}

func (dev *Device) power(p byte) error {
	return dev.write([]byte{'P', p})
}

// PowerOff implements the Link interface.
func (dev *Device) PowerOff() error {
	return dev.power('0')
}

// PowerOn implements the Link interface.
func (dev *Device) PowerOn() error {
	return dev.power('1')
}

// PowerReset implements the Link interface.
func (dev *Device) PowerReset(kind ResetKind) error {
	switch kind {
	case SoftReset:
		return dev.power('S')
	case HardReset:
		return dev.power('H')
	}
	return curated.Errorf(LinkFailure, fmt.Errorf("unknown reset kind (%d)", kind))
}

// Write implements the Link interface.
func (dev *Device) Write(id RunID, frames ...movie.Frame) error {
	if len(frames) == 0 {
		return nil
	}

	n := 0
	for _, f := range frames {
		n += len(f) + 1
	}

	b := make([]byte, 0, n)
	for _, f := range frames {
		b = append(b, byte(id))
		b = append(b, f...)
	}

	return dev.write(b)
}

// ReadFeedback implements the Link interface. Any feedback that arrived
// while waiting for an acknowledgement is returned first, followed by the
// result of a single read from the link for the remaining space.
func (dev *Device) ReadFeedback(max int) ([]byte, error) {
	if max <= 0 {
		return []byte{}, nil
	}

	fb := make([]byte, 0, max)

	if len(dev.pending) > 0 {
		n := min(max, len(dev.pending))
		fb = append(fb, dev.pending[:n]...)
		dev.pending = append(dev.pending[:0], dev.pending[n:]...)
		if len(fb) == max {
			return fb, nil
		}
	}

	n, err := dev.rw.Read(fb[len(fb):max])
	if err != nil {
		return nil, curated.Errorf(LinkFailure, err)
	}
	return fb[:len(fb)+n], nil
}

// SendTransition implements the Link interface.
func (dev *Device) SendTransition(id RunID, frame uint32, mode runfile.TransitionMode) error {
	if !mode.Valid() {
		return curated.Errorf(SetupFailed, fmt.Errorf("invalid transition mode at frame %d", frame))
	}
	b := []byte{'T', byte(id), byte(mode)}
	b = binary.LittleEndian.AppendUint32(b, frame)
	return dev.command(b)
}

// SendLatchTrain implements the Link interface.
func (dev *Device) SendLatchTrain(id RunID, train []uint16) error {
	if len(train) > math.MaxUint16 {
		return curated.Errorf(SetupFailed, fmt.Errorf("latch train too long (%d)", len(train)))
	}
	b := []byte{'U', byte(id)}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(train)))
	for _, l := range train {
		b = binary.LittleEndian.AppendUint16(b, l)
	}
	return dev.command(b)
}

// SetBulkDataMode implements the Link interface.
func (dev *Device) SetBulkDataMode(id RunID, enabled bool) error {
	v := byte('0')
	if enabled {
		v = '1'
	}
	return dev.command([]byte{'Q', byte(id), v})
}
