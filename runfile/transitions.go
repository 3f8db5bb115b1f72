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
	"strconv"
	"strings"

	"github.com/jetsetilly/tasplayer/curated"
)

// Sentinal error patterns.
const (
	TransitionsError = "transitions: %v"
	LatchTrainError  = "latch train: %v"
)

// TransitionMode is the mode the device switches to when a transition is
// reached.
type TransitionMode byte

// List of valid TransitionMode values. ModeInvalid is the marker for a mode
// code that was not recognised.
const (
	ModeACE       TransitionMode = 'A'
	ModeNormal    TransitionMode = 'N'
	ModeSoftReset TransitionMode = 'S'
	ModeHardReset TransitionMode = 'H'
	ModeInvalid   TransitionMode = 'X'
)

// ParseTransitionMode never fails. Unrecognised mode codes are returned as
// ModeInvalid.
func ParseTransitionMode(s string) TransitionMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "ACE":
		return ModeACE
	case "N", "NORMAL":
		return ModeNormal
	case "S", "SOFT":
		return ModeSoftReset
	case "H", "HARD":
		return ModeHardReset
	}
	return ModeInvalid
}

// Valid returns false for ModeInvalid and for any value not in the list of
// modes.
func (m TransitionMode) Valid() bool {
	switch m {
	case ModeACE, ModeNormal, ModeSoftReset, ModeHardReset:
		return true
	}
	return false
}

func (m TransitionMode) String() string {
	if !m.Valid() {
		return string(ModeInvalid)
	}
	return string(m)
}

// Transition is a change of mode at a latch. The device decides when the
// frame has been reached.
type Transition struct {
	Frame uint32
	Mode  TransitionMode
}

func (t Transition) String() string {
	return fmt.Sprintf("%d %s", t.Frame, t.Mode)
}

// ParseTransition parses a single transition in the "frame:mode" form used on
// the command line.
func ParseTransition(s string) (Transition, error) {
	frame, mode, _ := strings.Cut(s, ":")
	f, err := strconv.ParseUint(strings.TrimSpace(frame), 10, 32)
	if err != nil {
		return Transition{}, curated.Errorf(TransitionsError, fmt.Errorf("frame number (%s)", frame))
	}
	return Transition{Frame: uint32(f), Mode: ParseTransitionMode(mode)}, nil
}

// ParseTransitions parses transitions text. The order of the transitions is
// preserved.
func ParseTransitions(s string) ([]Transition, error) {
	fields := strings.Fields(s)
	trs := make([]Transition, 0, (len(fields)+1)/2)

	for i := 0; i < len(fields); i += 2 {
		f, err := strconv.ParseUint(fields[i], 10, 32)
		if err != nil {
			return nil, curated.Errorf(TransitionsError, fmt.Errorf("frame number (%s)", fields[i]))
		}

		// a missing mode at the end of the list is an invalid mode
		m := ModeInvalid
		if i+1 < len(fields) {
			m = ParseTransitionMode(fields[i+1])
		}

		trs = append(trs, Transition{Frame: uint32(f), Mode: m})
	}

	return trs, nil
}

// FormatTransitions is the inverse of ParseTransitions().
func FormatTransitions(trs []Transition) string {
	s := make([]string, len(trs))
	for i, t := range trs {
		s[i] = t.String()
	}
	return strings.Join(s, " ")
}

// LatchTrain is the ordered list of latch indices the device replays without
// link traffic.
type LatchTrain []uint16

func (lt LatchTrain) String() string {
	s := make([]string, len(lt))
	for i, v := range lt {
		s[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(s, ",")
}

// ParseLatchTrain parses latch train text. An empty string is an empty latch
// train.
func ParseLatchTrain(s string) (LatchTrain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LatchTrain{}, nil
	}

	fields := strings.Split(s, ",")
	lt := make(LatchTrain, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 16)
		if err != nil {
			return nil, curated.Errorf(LatchTrainError, fmt.Errorf("latch index (%s)", strings.TrimSpace(f)))
		}
		lt = append(lt, uint16(v))
	}

	return lt, nil
}
