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

package modalflag

import (
	"flag"
	"io"
	"os"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes provides an easy way of handling command line arguments. The Output
// field should be set before calling Parse().
type Modes struct {
	// where to print help messages. os.Stdout if nil
	Output io.Writer

	// a new flagset is created on every call to NewArgs() and NewMode()
	flags *flag.FlagSet

	// the argument list given to NewArgs()
	args    []string
	argsIdx int

	// the sub-modes added since the last call to NewMode()
	subModes []string

	// the series of modes selected by calls to Parse(). never reset
	path []string

	// printed after the flag and sub-mode information in help messages
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the most recently selected mode. Empty if no mode has been
// selected.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode selected so far, separated by a slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs starts processing of a new argument list. It implies a call to
// NewMode().
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode clears the flags and sub-modes of the previous mode.
func (md *Modes) NewMode() {
	md.subModes = []string{}
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.additionalHelp = ""
}

// AdditionalHelp sets text to print after the flag and sub-mode information
// when help is requested.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing. if sub-modes were added then
	// Mode() says which was selected
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// the error is returned as the second return value
	ParseError
)

// Parse the arguments for the current mode.
func (md *Modes) Parse() (ParseResult, error) {
	output := md.Output
	if output == nil {
		output = os.Stdout
	}

	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			hw.Help(output, md.Path(), md.subModes, md.additionalHelp)
			hw.Clear()
			return ParseHelp, nil
		}
		return ParseError, err
	}

	// flags for this mode have been consumed
	md.argsIdx = len(md.args) - md.flags.NArg()

	if len(md.subModes) > 0 {
		mode := md.subModes[0]
		arg := strings.ToUpper(md.flags.Arg(0))
		for _, m := range md.subModes {
			if m == arg {
				mode = m
				md.argsIdx++
				break // for loop
			}
		}
		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

// RemainingArgs returns the arguments after the flags and any selected
// sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.args[md.argsIdx:]
}

// GetArg returns the remaining argument at index i. Empty if there is no
// such argument.
func (md *Modes) GetArg(i int) string {
	args := md.RemainingArgs()
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

// AddSubModes adds the names of sub-modes for the current mode. The first
// sub-mode added is the default unless AddDefaultSubMode() is called.
func (md *Modes) AddSubModes(submodes ...string) {
	for _, m := range submodes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AddDefaultSubMode adds a sub-mode to the front of the list.
func (md *Modes) AddDefaultSubMode(defSubMode string) {
	md.subModes = append([]string{strings.ToUpper(defSubMode)}, md.subModes...)
}

func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

func (md *Modes) AddFloat64(name string, value float64, usage string) *float64 {
	return md.flags.Float64(name, value, usage)
}

func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddVar adds a flag with a value of any type implementing flag.Value. The
// value's Set() function is called for every occurrence of the flag.
func (md *Modes) AddVar(value flag.Value, name string, usage string) {
	md.flags.Var(value, name, usage)
}

// Visit calls fn with the name of every flag that was set on the command
// line, in lexicographical order.
func (md *Modes) Visit(fn func(flag string)) {
	md.flags.Visit(func(f *flag.Flag) {
		fn(f.Name)
	})
}

// IsSet returns true if the named flag was set on the command line.
func (md *Modes) IsSet(name string) bool {
	var set bool
	md.flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
