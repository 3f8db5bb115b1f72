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

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/paths"
	"github.com/jetsetilly/tasplayer/prefs"
	"github.com/jetsetilly/tasplayer/pump"
	"github.com/jetsetilly/tasplayer/serial"
)

// Preferences are the settings that rarely change between runs. They are
// stored in the preferences file and can be overridden on the command line.
type Preferences struct {
	dsk *prefs.Disk

	Baud prefs.Int
	Poll prefs.Duration

	AckTimeout   prefs.Duration
	StallTimeout prefs.Duration

	Capacity    prefs.Int
	BulkLatches prefs.Int
	BulkPackets prefs.Int

	SoftSettle prefs.Duration
	HardSettle prefs.Duration

	Realtime prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values in the preferences file replace the defaults. A
// missing preferences file is not an error.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}

	positive := func(v prefs.Value) error {
		switch v := v.(type) {
		case int:
			if v <= 0 {
				return fmt.Errorf("value must be positive (%d)", v)
			}
		case time.Duration:
			if v <= 0 {
				return fmt.Errorf("value must be positive (%v)", v)
			}
		}
		return nil
	}
	p.Baud.SetHookPre(positive)
	p.Poll.SetHookPre(positive)
	p.Capacity.SetHookPre(positive)
	p.BulkLatches.SetHookPre(positive)
	p.BulkPackets.SetHookPre(positive)

	p.SetDefaults()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]prefsValue{
		"serial.baud":       &p.Baud,
		"serial.poll":       &p.Poll,
		"link.timeout":      &p.AckTimeout,
		"link.stall":        &p.StallTimeout,
		"pump.capacity":     &p.Capacity,
		"pump.bulk.latches": &p.BulkLatches,
		"pump.bulk.packets": &p.BulkPackets,
		"reset.soft.settle": &p.SoftSettle,
		"reset.hard.settle": &p.HardSettle,
		"session.realtime":  &p.Realtime,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load(true)
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return nil, err
	}

	return p, nil
}

// prefsValue is the set of methods shared by the prefs types added to the
// preferences disk.
type prefsValue interface {
	String() string
	Set(prefs.Value) error
	Get() prefs.Value
	Reset() error
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.Baud.Set(serial.DefaultConfig.Baud)
	_ = p.Poll.Set(serial.DefaultConfig.Poll)
	_ = p.AckTimeout.Set(device.DefaultConfig.AckTimeout)
	_ = p.StallTimeout.Set(5 * time.Second)
	_ = p.Capacity.Set(pump.DefaultConfig.Capacity)
	_ = p.BulkLatches.Set(pump.DefaultConfig.BulkLatches)
	_ = p.BulkPackets.Set(pump.DefaultConfig.BulkPackets)
	_ = p.SoftSettle.Set(time.Duration(0))
	_ = p.HardSettle.Set(2 * time.Second)
	_ = p.Realtime.Set(true)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// SerialConfig returns the configuration for the serial port.
func (p *Preferences) SerialConfig() serial.Config {
	return serial.Config{
		Baud: p.Baud.Get().(int),
		Poll: p.Poll.Get().(time.Duration),
	}
}

// DeviceConfig returns the configuration for the device.
func (p *Preferences) DeviceConfig() device.Config {
	return device.Config{
		AckTimeout: p.AckTimeout.Get().(time.Duration),
	}
}

// Apply the preferences to session options.
func (p *Preferences) Apply(opts *Options) {
	opts.Pump.Capacity = p.Capacity.Get().(int)
	opts.Pump.BulkLatches = p.BulkLatches.Get().(int)
	opts.Pump.BulkPackets = p.BulkPackets.Get().(int)
	opts.Pump.StallTimeout = p.StallTimeout.Get().(time.Duration)
	opts.SoftSettle = p.SoftSettle.Get().(time.Duration)
	opts.HardSettle = p.HardSettle.Get().(time.Duration)
	opts.Realtime = p.Realtime.Get().(bool)
}
