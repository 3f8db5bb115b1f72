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

// Package movie decodes recorded movie files into the sequence of frames sent
// to the replay device. Each console has exactly one movie format:
//
//	NES       .r08    2 bytes per tick, one byte for each controller port
//	SNES      .r16m   16 bytes per tick, two bytes for each of eight slots
//	N64       .m64    Mupen64 movie, four bytes per controller per tick
//	GameCube  .dtm    Dolphin movie, eight bytes per controller per tick
//	Genesis   .rgen   4 bytes per tick, two bytes for each controller port
//
// A decoded frame contains only the bytes of the active players, in slot
// order. The width of every frame in a movie is the same.
//
// Decoding never partially succeeds. A payload that is inconsistent with the
// format is rejected as a whole so that nothing is ever sent to the device
// for a malformed movie.
package movie

import (
	"fmt"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
)

// DecodeError is the sentinal pattern for all decoding failures.
const DecodeError = "movie: %v"

// Frame is the input for all active players for one console tick.
type Frame []byte

// Movie is the decoded movie. It should be treated as immutable once
// returned by Decode().
type Movie struct {
	Console console.Console
	Players []int

	// the sequence of frames in playback order
	Frames []Frame

	// a frame of the same width as every other frame with all bits clear
	Blank Frame

	// the width of every frame in bytes
	Width int
}

func (m *Movie) String() string {
	return fmt.Sprintf("%s movie: %d frames of %d bytes (players %s)",
		m.Console, len(m.Frames), m.Width, console.FormatPlayers(m.Players))
}

// Len returns the number of frames in the movie.
func (m *Movie) Len() int {
	return len(m.Frames)
}

// Decode movie data for the console and the list of active players. The list
// of players must be a subset of console.ValidPlayers().
func Decode(c console.Console, data []byte, players []int) (*Movie, error) {
	if len(players) == 0 {
		return nil, curated.Errorf(DecodeError, fmt.Errorf("no active players"))
	}

	valid := make(map[int]bool)
	for _, p := range console.ValidPlayers(c) {
		valid[p] = true
	}
	for i, p := range players {
		if !valid[p] {
			return nil, curated.Errorf(DecodeError, fmt.Errorf("player %d is not available on the %s", p, c))
		}
		if i > 0 && p <= players[i-1] {
			return nil, curated.Errorf(DecodeError, fmt.Errorf("players must be listed in slot order"))
		}
	}

	width := console.FrameWidth(c, len(players))
	m := &Movie{
		Console: c,
		Players: players,
		Blank:   make(Frame, width),
		Width:   width,
	}

	// an empty payload is an empty movie whatever the console
	if len(data) == 0 {
		m.Frames = []Frame{}
		return m, nil
	}

	var l layout
	var err error

	switch c {
	case console.NES:
		l, err = portLayout(data, 1)
	case console.SNES:
		l, err = snesLayout(data)
	case console.N64:
		l, err = m64Layout(data)
	case console.GameCube:
		l, err = dtmLayout(data)
	case console.Genesis:
		l, err = portLayout(data, 2)
	default:
		err = fmt.Errorf("no movie format for %s", c)
	}
	if err != nil {
		return nil, curated.Errorf(DecodeError, err)
	}

	m.Frames, err = l.extract(players, console.SlotWidth(c))
	if err != nil {
		return nil, curated.Errorf(DecodeError, err)
	}

	return m, nil
}
