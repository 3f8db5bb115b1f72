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

package runfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
)

// DescriptorVersion is written to every new descriptor.
const DescriptorVersion = "1.1"

// InvalidDescriptor is the sentinal pattern for descriptors that can be read
// but not replayed.
const InvalidDescriptor = "descriptor: %v"

// PowerSetting is the power action taken before the device is configured.
type PowerSetting string

// List of valid PowerSetting values.
const (
	PowerNone      PowerSetting = "none"
	PowerSoftReset PowerSetting = "soft reset"
	PowerHardReset PowerSetting = "hard reset"
)

// ConsoleOptions are the settings that only have meaning for some consoles.
type ConsoleOptions struct {
	LatchFilter bool    `json:"latch filter" jsonschema:"description=filter spurious latches (DPCM fix)"`
	ClockFilter float64 `json:"clock filter" jsonschema:"minimum=0,description=clock filter in microseconds in steps of 0.25"`
	Overread    bool    `json:"overread" jsonschema:"description=hold the data line high after the last bit"`
}

// ClockCode returns the clock filter in the units understood by the device
// (quarter microseconds).
func (o ConsoleOptions) ClockCode() (byte, error) {
	q := o.ClockFilter * 4
	if q < 0 || q > 63 || q != math.Trunc(q) {
		return 0, fmt.Errorf("clock filter (%.2f) must be a multiple of 0.25 between 0 and 15.75", o.ClockFilter)
	}
	return byte(q), nil
}

// Descriptor is the content of the run.json file in a run container.
type Descriptor struct {
	Name         string         `json:"name" jsonschema:"title=name"`
	Console      string         `json:"console" jsonschema:"enum=nes,enum=snes,enum=n64,enum=gc,enum=gamecube,enum=genesis"`
	Authors      string         `json:"authors"`
	Description  string         `json:"description"`
	Options      ConsoleOptions `json:"console specific options"`
	Controllers  string         `json:"controllers" jsonschema:"description=comma separated list of player slots"`
	BlankFrames  int            `json:"blank frames" jsonschema:"minimum=0"`
	InitialPower PowerSetting   `json:"initial power setting" jsonschema:"enum=none,enum=soft reset,enum=hard reset"`
	BulkData     bool           `json:"bulk data mode"`
	Transitions  string         `json:"transitions" jsonschema:"description=whitespace separated frame and mode pairs"`
	LatchTrain   string         `json:"latch train" jsonschema:"description=comma separated list of latch indices"`
	Movie        string         `json:"movie" jsonschema:"description=name of the movie file in the container"`
	Version      string         `json:"version"`
}

func (d *Descriptor) String() string {
	if d.Name == "" {
		return fmt.Sprintf("unnamed %s run", d.Console)
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Console)
}

// Validate checks that the descriptor describes a run that can be replayed.
// The first problem found is returned.
func (d *Descriptor) Validate() error {
	c, err := console.Parse(d.Console)
	if err != nil {
		return curated.Errorf(InvalidDescriptor, err)
	}
	if _, err := console.ParsePlayers(c, d.Controllers); err != nil {
		return curated.Errorf(InvalidDescriptor, err)
	}
	if d.BlankFrames < 0 {
		return curated.Errorf(InvalidDescriptor, fmt.Errorf("negative blank frames (%d)", d.BlankFrames))
	}
	switch d.InitialPower {
	case "", PowerNone, PowerSoftReset, PowerHardReset:
	default:
		return curated.Errorf(InvalidDescriptor, fmt.Errorf("initial power setting (%s)", d.InitialPower))
	}
	if _, err := d.Options.ClockCode(); err != nil {
		return curated.Errorf(InvalidDescriptor, err)
	}

	trs, err := ParseTransitions(d.Transitions)
	if err != nil {
		return curated.Errorf(InvalidDescriptor, err)
	}
	for _, t := range trs {
		if !t.Mode.Valid() {
			return curated.Errorf(InvalidDescriptor, fmt.Errorf("transition at frame %d has no valid mode", t.Frame))
		}
	}
	if _, err := ParseLatchTrain(d.LatchTrain); err != nil {
		return curated.Errorf(InvalidDescriptor, err)
	}

	if d.Movie == "" {
		return curated.Errorf(InvalidDescriptor, fmt.Errorf("no movie"))
	}

	return nil
}

// Args returns the arguments for the RUN mode that replay the run with the
// movie file named by the descriptor. The serial port is not included.
func (d *Descriptor) Args() []string {
	args := []string{"-console", d.Console}

	if d.Controllers != "" && d.Controllers != "1" {
		args = append(args, "-players", d.Controllers)
	}
	if d.BlankFrames > 0 {
		args = append(args, "-blank", strconv.Itoa(d.BlankFrames))
	}
	if d.Options.LatchFilter {
		args = append(args, "-dpcm")
	}
	switch d.InitialPower {
	case PowerHardReset:
		args = append(args, "-hardreset")
	case PowerSoftReset:
		args = append(args, "-softreset")
	}
	if d.Options.ClockFilter > 0 {
		if c, err := d.Options.ClockCode(); err == nil {
			args = append(args, "-clock", strconv.Itoa(int(c)))
		}
	}
	if trs, err := ParseTransitions(d.Transitions); err == nil {
		for _, t := range trs {
			args = append(args, "-transition", fmt.Sprintf("%d:%s", t.Frame, t.Mode))
		}
	}
	if d.Options.Overread {
		args = append(args, "-overread")
	}
	if d.LatchTrain != "" {
		args = append(args, "-latchtrain", d.LatchTrain)
	}
	if !d.BulkData {
		args = append(args, "-nobulk")
	}

	return append(args, d.Movie)
}

// Schema returns the JSON schema of the run.json file.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Descriptor{})
	schema.Title = "tasplayer run descriptor"
	schema.Description = "The run.json file found in a run container"
	return schema
}
