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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/modalflag"
	"github.com/jetsetilly/tasplayer/runfile"
)

// transitionsFlag collects every -transition flag in the order given.
type transitionsFlag []runfile.Transition

func (f *transitionsFlag) String() string {
	return runfile.FormatTransitions(*f)
}

func (f *transitionsFlag) Set(s string) error {
	t, err := runfile.ParseTransition(s)
	if err != nil {
		return err
	}
	*f = append(*f, t)
	return nil
}

// runFlags are the flags shared by the RUN and PACK modes. Each flag that is
// set on the command line overrides the equivalent field in a descriptor.
type runFlags struct {
	console     *string
	players     *string
	blank       *int
	dpcm        *bool
	clock       *int
	overread    *bool
	transitions transitionsFlag
	latchtrain  *string
	nobulk      *bool
	softreset   *bool
	hardreset   *bool
}

func addRunFlags(md *modalflag.Modes) *runFlags {
	rf := &runFlags{}
	rf.console = md.AddString("console", "", "console: nes, snes, n64, gc, genesis (default from movie extension)")
	rf.players = md.AddString("players", "1", "comma separated list of player slots")
	rf.blank = md.AddInt("blank", 0, "number of blank frames before the movie")
	rf.dpcm = md.AddBool("dpcm", false, "filter spurious latches (DPCM fix)")
	rf.clock = md.AddInt("clock", 0, fmt.Sprintf("clock filter in quarter microseconds (0 to %d)", device.MaxClock))
	rf.overread = md.AddBool("overread", false, "hold the data line high after the last bit")
	md.AddVar(&rf.transitions, "transition", "transition as frame:mode. modes are A, N, S, H. may be repeated")
	rf.latchtrain = md.AddString("latchtrain", "", "comma separated list of latch indices")
	rf.nobulk = md.AddBool("nobulk", false, "do not use bulk data mode")
	rf.softreset = md.AddBool("softreset", false, "soft reset the console before the run")
	rf.hardreset = md.AddBool("hardreset", false, "power cycle the console before the run")
	return rf
}

// apply flags that were set on the command line to the descriptor.
func (rf *runFlags) apply(md *modalflag.Modes, d *runfile.Descriptor) error {
	if md.IsSet("console") {
		d.Console = *rf.console
	}
	if md.IsSet("players") {
		d.Controllers = *rf.players
	}
	if md.IsSet("blank") {
		d.BlankFrames = *rf.blank
	}
	if md.IsSet("dpcm") {
		d.Options.LatchFilter = *rf.dpcm
	}
	if md.IsSet("clock") {
		if *rf.clock < 0 || *rf.clock > device.MaxClock {
			return fmt.Errorf("clock filter must be between 0 and %d", device.MaxClock)
		}
		d.Options.ClockFilter = float64(*rf.clock) / 4
	}
	if md.IsSet("overread") {
		d.Options.Overread = *rf.overread
	}
	if md.IsSet("transition") {
		d.Transitions = runfile.FormatTransitions(rf.transitions)
	}
	if md.IsSet("latchtrain") {
		if _, err := runfile.ParseLatchTrain(*rf.latchtrain); err != nil {
			return err
		}
		d.LatchTrain = *rf.latchtrain
	}
	if md.IsSet("nobulk") {
		d.BulkData = !*rf.nobulk
	}

	switch {
	case *rf.softreset && *rf.hardreset:
		return fmt.Errorf("-softreset and -hardreset cannot be used together")
	case *rf.softreset:
		d.InitialPower = runfile.PowerSoftReset
	case *rf.hardreset:
		d.InitialPower = runfile.PowerHardReset
	}

	return nil
}

// loadRun returns the descriptor and movie data for a run container or a
// plain movie file. A plain movie gets a descriptor with default values and
// the console implied by the file extension.
func loadRun(filename string) (*runfile.Descriptor, []byte, error) {
	if runfile.IsContainer(filename) {
		return runfile.Load(filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}

	d := &runfile.Descriptor{
		Name:         strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		Controllers:  "1",
		InitialPower: runfile.PowerNone,
		BulkData:     true,
		Movie:        filepath.Base(filename),
	}

	// an unknown extension leaves the console for the -console flag
	if c, err := console.FromExtension(filepath.Ext(filename)); err == nil {
		d.Console = strings.ToLower(c.String())
	}

	return d, data, nil
}
