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

package pump

import (
	"fmt"
	"time"

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/movie"
)

// Sentinal error patterns.
const (
	InvalidConfig = "pump: %v"
	LinkStalled   = "pump: no feedback from device for %v"
)

// Config for priming and feeding.
type Config struct {
	// the size of the device's input buffer in frames
	Capacity int

	// latch train sent to the device after priming. may be empty
	LatchTrain []uint16

	// whether to put the device into bulk data mode after priming
	Bulk bool

	// the number of frames in one bulk batch and the number of transmissions
	// the batch is split into
	BulkLatches int
	BulkPackets int

	// the longest time without feedback before the feeder gives up. zero
	// means wait forever
	StallTimeout time.Duration

	// log every progress notice
	Verbose bool
}

// DefaultConfig matches the TAStm32 firmware.
var DefaultConfig = Config{
	Capacity:    1024,
	Bulk:        true,
	BulkLatches: 28,
	BulkPackets: 4,
}

// Validate the configuration.
func (cfg Config) Validate() error {
	if cfg.Capacity <= 0 {
		return curated.Errorf(InvalidConfig, fmt.Errorf("capacity must be positive (%d)", cfg.Capacity))
	}
	if cfg.BulkLatches <= 0 || cfg.BulkPackets <= 0 {
		return curated.Errorf(InvalidConfig, fmt.Errorf("invalid bulk geometry (%d latches in %d packets)", cfg.BulkLatches, cfg.BulkPackets))
	}
	if cfg.BulkLatches%cfg.BulkPackets != 0 {
		return curated.Errorf(InvalidConfig, fmt.Errorf("%d latches cannot be split evenly into %d packets", cfg.BulkLatches, cfg.BulkPackets))
	}
	if cfg.StallTimeout < 0 {
		return curated.Errorf(InvalidConfig, fmt.Errorf("negative stall timeout"))
	}
	return nil
}

// Plan is what is to be sent to the device.
type Plan struct {
	// the number of copies of the blank frame sent before the movie
	Blanks int
	Blank  movie.Frame

	Movie []movie.Frame
}

// Len is the number of frames in the priming sequence.
func (p Plan) Len() int {
	return p.Blanks + len(p.Movie)
}

// RunState is the state of a primed run. It belongs to the feeder once
// priming is complete.
type RunState struct {
	RunID device.RunID
	Plan  Plan

	// index of the next frame in the priming sequence to send
	Cursor int
}

// Frame returns the frame at position i in the priming sequence.
func (rs *RunState) Frame(i int) movie.Frame {
	if i < rs.Plan.Blanks {
		return rs.Plan.Blank
	}
	return rs.Plan.Movie[i-rs.Plan.Blanks]
}

// Len is the number of frames in the priming sequence.
func (rs *RunState) Len() int {
	return rs.Plan.Len()
}

// Exhausted returns true if every frame has been sent.
func (rs *RunState) Exhausted() bool {
	return rs.Cursor >= rs.Plan.Len()
}

// rewind moves the cursor back. It never goes below zero.
func (rs *RunState) rewind(n int) {
	rs.Cursor = max(0, rs.Cursor-n)
}

func (rs *RunState) String() string {
	return fmt.Sprintf("run %s: %d of %d", rs.RunID, rs.Cursor, rs.Len())
}

// PrimeReport summarises priming.
type PrimeReport struct {
	// number of blank frames sent
	Blanks int

	// total number of frames written, including the blank frames
	Attempted int

	// number of overflow sentinals in the feedback
	Overflow int

	// cursor after correction
	Cursor int
}

func (r PrimeReport) String() string {
	return fmt.Sprintf("%d frames attempted (%d blank), %d overflow, cursor %d", r.Attempted, r.Blanks, r.Overflow, r.Cursor)
}
