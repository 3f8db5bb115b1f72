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

package session

import (
	"fmt"
	"time"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/pump"
	"github.com/jetsetilly/tasplayer/runfile"
)

// Sentinal error patterns.
const (
	InvalidOptions = "session: invalid options: %v"
	SessionUsed    = "session: already used (%s)"
)

// PowerAction is what happens to the console's power before the device is
// configured.
type PowerAction int

// List of valid PowerAction values.
const (
	PowerNone PowerAction = iota
	PowerSoftReset
	PowerHardReset
)

func (p PowerAction) String() string {
	switch p {
	case PowerNone:
		return "none"
	case PowerSoftReset:
		return "soft reset"
	case PowerHardReset:
		return "hard reset"
	}
	return fmt.Sprintf("power(%d)", int(p))
}

// Options for a Session.
type Options struct {
	Console console.Console
	Players []int

	// the undecoded movie data
	Movie []byte

	// number of blank frames sent before the movie
	Blanks int

	Power PowerAction

	// time to wait after the console is powered off, for each kind of reset
	SoftSettle time.Duration
	HardSettle time.Duration

	Setup       device.SetupOptions
	Transitions []runfile.Transition
	LatchTrain  runfile.LatchTrain

	// use bulk data mode after priming
	Bulk bool

	// capacity, bulk geometry and stall timeout. the latch train and bulk
	// fields are ignored and are taken from the fields above
	Pump pump.Config

	// suspend garbage collection and raise the thread priority while the
	// device is being primed and fed
	Realtime bool
}

// DefaultOptions returns options with the default settle times and pump
// configuration. Only the console, players and movie need to be filled in.
func DefaultOptions() Options {
	return Options{
		Players:    []int{1},
		HardSettle: 2 * time.Second,
		Bulk:       true,
		Pump:       pump.DefaultConfig,
		Realtime:   true,
	}
}

// Settle returns the settle time for the power action.
func (o Options) Settle() time.Duration {
	switch o.Power {
	case PowerSoftReset:
		return o.SoftSettle
	case PowerHardReset:
		return o.HardSettle
	}
	return 0
}

// Validate the options. The movie is not decoded.
func (o Options) Validate() error {
	if console.SlotWidth(o.Console) == 0 {
		return curated.Errorf(InvalidOptions, fmt.Errorf("unknown console (%d)", int(o.Console)))
	}
	if len(o.Players) == 0 {
		return curated.Errorf(InvalidOptions, fmt.Errorf("no players"))
	}
	if o.Blanks < 0 {
		return curated.Errorf(InvalidOptions, fmt.Errorf("negative blank frames (%d)", o.Blanks))
	}
	switch o.Power {
	case PowerNone, PowerSoftReset, PowerHardReset:
	default:
		return curated.Errorf(InvalidOptions, fmt.Errorf("unknown power action (%d)", int(o.Power)))
	}
	if o.SoftSettle < 0 || o.HardSettle < 0 {
		return curated.Errorf(InvalidOptions, fmt.Errorf("negative settle time"))
	}
	if o.Setup.Clock > device.MaxClock {
		return curated.Errorf(InvalidOptions, fmt.Errorf("clock filter out of range (%d)", o.Setup.Clock))
	}
	for _, t := range o.Transitions {
		if !t.Mode.Valid() {
			return curated.Errorf(InvalidOptions, fmt.Errorf("transition at frame %d has no valid mode", t.Frame))
		}
	}
	if err := o.Pump.Validate(); err != nil {
		return curated.Errorf(InvalidOptions, err)
	}
	return nil
}

// pumpConfig returns the pump configuration with the latch train and bulk
// settings from the options.
func (o Options) pumpConfig() pump.Config {
	cfg := o.Pump
	cfg.LatchTrain = o.LatchTrain
	cfg.Bulk = o.Bulk
	return cfg
}

// FromDescriptor fills in the options from a run descriptor and the movie
// data from the run container. Options not covered by the descriptor are
// left unchanged.
func (o *Options) FromDescriptor(d *runfile.Descriptor, mv []byte) error {
	c, err := console.Parse(d.Console)
	if err != nil {
		return curated.Errorf(InvalidOptions, err)
	}
	players, err := console.ParsePlayers(c, d.Controllers)
	if err != nil {
		return curated.Errorf(InvalidOptions, err)
	}
	trs, err := runfile.ParseTransitions(d.Transitions)
	if err != nil {
		return curated.Errorf(InvalidOptions, err)
	}
	lt, err := runfile.ParseLatchTrain(d.LatchTrain)
	if err != nil {
		return curated.Errorf(InvalidOptions, err)
	}
	clock, err := d.Options.ClockCode()
	if err != nil {
		return curated.Errorf(InvalidOptions, err)
	}

	var power PowerAction
	switch d.InitialPower {
	case runfile.PowerNone, "":
		power = PowerNone
	case runfile.PowerSoftReset:
		power = PowerSoftReset
	case runfile.PowerHardReset:
		power = PowerHardReset
	default:
		return curated.Errorf(InvalidOptions, fmt.Errorf("initial power setting (%s)", d.InitialPower))
	}

	o.Console = c
	o.Players = players
	o.Movie = mv
	o.Blanks = d.BlankFrames
	o.Power = power
	o.Setup = device.SetupOptions{
		LatchFilter: d.Options.LatchFilter,
		Overread:    d.Options.Overread,
		Clock:       clock,
	}
	o.Transitions = trs
	o.LatchTrain = lt
	o.Bulk = d.BulkData

	return nil
}
