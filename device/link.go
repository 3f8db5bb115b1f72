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
	"fmt"
	"time"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/runfile"
)

// Sentinal error patterns. A LinkTimeout is always wrapped in a LinkFailure.
const (
	LinkFailure = "device: link: %v"
	LinkTimeout = "timeout waiting for acknowledgement of %c command"
	SetupFailed = "device: setup: %v"
	DeviceBusy  = "device: busy"
)

// Feedback byte values that are not run IDs.
const (
	FeedbackOverflow byte = 0xb0
	FeedbackEmpty    byte = 0xb2
)

// RunID is the identifier returned by the device when a run is set up.
type RunID byte

// The range of run IDs.
const (
	FirstRunID RunID = 'A'
	LastRunID  RunID = 'D'
)

func (id RunID) String() string {
	return string(rune(id))
}

// Valid returns true if the ID is in the range of run IDs.
func (id RunID) Valid() bool {
	return id >= FirstRunID && id <= LastRunID
}

// Bulk returns the feedback byte used by the device to request a bulk batch
// for the run.
func (id RunID) Bulk() byte {
	return byte(id) + ('a' - 'A')
}

// ResetKind is the kind of reset performed by PowerReset().
type ResetKind int

// List of valid ResetKind values.
const (
	SoftReset ResetKind = iota
	HardReset
)

func (k ResetKind) String() string {
	switch k {
	case SoftReset:
		return "soft reset"
	case HardReset:
		return "hard reset"
	}
	return fmt.Sprintf("reset(%d)", int(k))
}

// SetupOptions are the console specific settings sent with the setup
// command.
type SetupOptions struct {
	// filter spurious latches caused by DPCM on the NES
	LatchFilter bool

	// hold the data line high after the last bit has been clocked
	Overread bool

	// the clock filter in quarter microseconds (0 to 63)
	Clock byte
}

// Settings returns the settings byte of the setup command.
func (o SetupOptions) Settings() byte {
	var s byte
	if o.LatchFilter {
		s |= 0x80
	}
	if o.Overread {
		s |= 0x40
	}
	return s
}

// MaxClock is the largest value of SetupOptions.Clock.
const MaxClock = 63

// Link is the command interface to the replay device.
type Link interface {
	// Reset clears all runs on the device
	Reset() error

	// SetupRun configures a new run. The returned ID prefixes all further
	// commands for the run
	SetupRun(c console.Console, players []int, opts SetupOptions) (RunID, error)

	PowerOff() error
	PowerOn() error
	PowerReset(kind ResetKind) error

	// Write sends frames for the run. More than one frame is sent as a single
	// transmission
	Write(id RunID, frames ...movie.Frame) error

	// ReadFeedback returns between zero and max bytes of feedback
	ReadFeedback(max int) ([]byte, error)

	SendTransition(id RunID, frame uint32, mode runfile.TransitionMode) error
	SendLatchTrain(id RunID, train []uint16) error
	SetBulkDataMode(id RunID, enabled bool) error
}

// Config for a Device.
type Config struct {
	// the longest time to wait for an acknowledgement. zero means wait
	// forever. the timeout is only checked when a read returns, so the
	// underlying reader should have a read timeout of its own
	AckTimeout time.Duration
}

// DefaultConfig is a reasonable configuration for a serial link.
var DefaultConfig = Config{
	AckTimeout: 2 * time.Second,
}
