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

package movie

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// layout describes where the input for each player is found in the movie
// payload.
type layout struct {
	// the input section of the movie file. any header has been removed
	payload []byte

	// the number of bytes used by one console tick in the payload
	tick int

	// offset of the player's input within a tick
	offset func(player int) (int, error)
}

// extract creates a frame for every tick in the payload. the frames share a
// single backing array.
func (l layout) extract(players []int, slotWidth int) ([]Frame, error) {
	if l.tick <= 0 {
		return nil, fmt.Errorf("invalid tick size (%d)", l.tick)
	}
	if len(l.payload)%l.tick != 0 {
		return nil, fmt.Errorf("input length (%d bytes) is not a multiple of the tick size (%d bytes)", len(l.payload), l.tick)
	}

	offsets := make([]int, len(players))
	for i, p := range players {
		o, err := l.offset(p)
		if err != nil {
			return nil, err
		}
		if o+slotWidth > l.tick {
			return nil, fmt.Errorf("player %d is not present in the movie", p)
		}
		offsets[i] = o
	}

	width := slotWidth * len(players)
	numTicks := len(l.payload) / l.tick
	backing := make([]byte, numTicks*width)
	frames := make([]Frame, numTicks)

	for t := range numTicks {
		tick := l.payload[t*l.tick : (t+1)*l.tick]
		f := backing[t*width : (t+1)*width : (t+1)*width]
		for i, o := range offsets {
			copy(f[i*slotWidth:], tick[o:o+slotWidth])
		}
		frames[t] = Frame(f)
	}

	return frames, nil
}

// portLayout is the layout of the r08 and rgen formats. each tick has input
// for two controller ports. slots 1 to 4 are port one and slots 5 to 8 are
// port two.
func portLayout(data []byte, slotWidth int) (layout, error) {
	return layout{
		payload: data,
		tick:    slotWidth * 2,
		offset: func(player int) (int, error) {
			switch {
			case player >= 1 && player <= 4:
				return 0, nil
			case player >= 5 && player <= 8:
				return slotWidth, nil
			}
			return 0, fmt.Errorf("no controller port for player %d", player)
		},
	}, nil
}

// snesLayout is the layout of the r16m format. each tick has two bytes for
// each of the eight slots.
func snesLayout(data []byte) (layout, error) {
	return layout{
		payload: data,
		tick:    16,
		offset: func(player int) (int, error) {
			if player < 1 || player > 8 {
				return 0, fmt.Errorf("no slot for player %d", player)
			}
			return (player - 1) * 2, nil
		},
	}, nil
}

// offsets into the m64 header.
const (
	m64Signature       = "M64\x1a"
	m64VersionOffset   = 0x004
	m64ControllersByte = 0x015
	m64HeaderV1        = 0x200
	m64HeaderV3        = 0x400
)

// m64Layout is the layout of Mupen64 movies. the input section follows the
// header and has four bytes for each connected controller per tick.
func m64Layout(data []byte) (layout, error) {
	if len(data) < m64HeaderV1 || !bytes.HasPrefix(data, []byte(m64Signature)) {
		return layout{}, fmt.Errorf("not an m64 file")
	}

	hdr := m64HeaderV3
	switch binary.LittleEndian.Uint32(data[m64VersionOffset:]) {
	case 1, 2:
		hdr = m64HeaderV1
	}
	if len(data) < hdr {
		return layout{}, fmt.Errorf("m64 header is truncated")
	}

	controllers := int(data[m64ControllersByte])
	if controllers == 0 {
		return layout{}, fmt.Errorf("m64 file has no controllers")
	}

	return layout{
		payload: data[hdr:],
		tick:    4 * controllers,
		offset: func(player int) (int, error) {
			// player one is the first controller in each tick
			if player != 1 {
				return 0, fmt.Errorf("m64 playback supports player 1 only")
			}
			return 0, nil
		},
	}, nil
}

// offsets into the dtm header.
const (
	dtmSignature       = "DTM\x1a"
	dtmControllersByte = 0x00b
	dtmHeader          = 0x100
)

// dtmLayout is the layout of Dolphin movies. the input section follows the
// header and has eight bytes for each connected GameCube controller per
// tick.
func dtmLayout(data []byte) (layout, error) {
	if len(data) < dtmHeader || !bytes.HasPrefix(data, []byte(dtmSignature)) {
		return layout{}, fmt.Errorf("not a dtm file")
	}

	// the low nibble of the controllers byte has a bit for each GameCube
	// controller port
	controllers := bits.OnesCount8(data[dtmControllersByte] & 0x0f)
	if controllers == 0 {
		return layout{}, fmt.Errorf("dtm file has no GameCube controllers")
	}

	return layout{
		payload: data[dtmHeader:],
		tick:    8 * controllers,
		offset: func(player int) (int, error) {
			if player != 1 {
				return 0, fmt.Errorf("dtm playback supports player 1 only")
			}
			return 0, nil
		},
	}, nil
}
