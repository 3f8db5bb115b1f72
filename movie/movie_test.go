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

package movie_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/test"
)

func TestNES(t *testing.T) {
	// three ticks of r08 data. port one then port two
	data := []byte{0x01, 0x10, 0x02, 0x20, 0x03, 0x30}

	m, err := movie.Decode(console.NES, data, []int{1, 5})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 3)
	test.ExpectEquality(t, m.Width, 2)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[0], []byte{0x01, 0x10}))
	test.ExpectSuccess(t, bytes.Equal(m.Frames[2], []byte{0x03, 0x30}))
	test.ExpectSuccess(t, bytes.Equal(m.Blank, []byte{0x00, 0x00}))

	// player five only
	m, err = movie.Decode(console.NES, data, []int{5})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Width, 1)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[1], []byte{0x20}))

	// odd number of bytes is not a whole number of ticks
	_, err = movie.Decode(console.NES, data[:5], []int{1})
	test.ExpectSuccess(t, curated.Is(err, movie.DecodeError))
}

func TestSNES(t *testing.T) {
	tick := make([]byte, 16)
	for i := range tick {
		tick[i] = byte(i)
	}
	data := append(append([]byte{}, tick...), tick...)

	m, err := movie.Decode(console.SNES, data, []int{1, 2, 3})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 2)
	test.ExpectEquality(t, m.Width, 6)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[1], []byte{0, 1, 2, 3, 4, 5}))

	m, err = movie.Decode(console.SNES, data, []int{8})
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[0], []byte{14, 15}))

	_, err = movie.Decode(console.SNES, data[:20], []int{1})
	test.ExpectFailure(t, err)
}

func TestGenesis(t *testing.T) {
	data := []byte{0xaa, 0xab, 0xba, 0xbb}

	m, err := movie.Decode(console.Genesis, data, []int{1, 5})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 1)
	test.ExpectEquality(t, m.Width, 4)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[0], data))

	m, err = movie.Decode(console.Genesis, data, []int{5})
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[0], []byte{0xba, 0xbb}))
}

func m64(version uint32, controllers byte, input []byte) []byte {
	hdr := 0x400
	if version < 3 {
		hdr = 0x200
	}
	data := make([]byte, hdr)
	copy(data, "M64\x1a")
	binary.LittleEndian.PutUint32(data[4:], version)
	data[0x15] = controllers
	return append(data, input...)
}

func TestN64(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	m, err := movie.Decode(console.N64, m64(3, 1, input), []int{1})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 2)
	test.ExpectEquality(t, m.Width, 4)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[1], []byte{5, 6, 7, 8}))

	// older versions have a shorter header
	m, err = movie.Decode(console.N64, m64(1, 1, input), []int{1})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 2)

	// two controllers in the movie. only the first is played
	m, err = movie.Decode(console.N64, m64(3, 2, input), []int{1})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 1)
	test.ExpectSuccess(t, bytes.Equal(m.Frames[0], []byte{1, 2, 3, 4}))

	// bad signature
	bad := m64(3, 1, input)
	bad[0] = 'X'
	_, err = movie.Decode(console.N64, bad, []int{1})
	test.ExpectSuccess(t, curated.Is(err, movie.DecodeError))

	// truncated input
	_, err = movie.Decode(console.N64, m64(3, 1, input[:6]), []int{1})
	test.ExpectFailure(t, err)
}

func TestGameCube(t *testing.T) {
	data := make([]byte, 0x100)
	copy(data, "DTM\x1a")
	data[0x0b] = 0x01
	data = append(data, []byte{1, 2, 3, 4, 5, 6, 7, 8}...)

	m, err := movie.Decode(console.GameCube, data, []int{1})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Len(), 1)
	test.ExpectEquality(t, m.Width, 8)

	// no gamecube controllers
	data[0x0b] = 0x10
	_, err = movie.Decode(console.GameCube, data, []int{1})
	test.ExpectFailure(t, err)
}

func TestEmptyMovie(t *testing.T) {
	for _, c := range console.Consoles {
		m, err := movie.Decode(c, []byte{}, []int{1})
		test.ExpectSuccess(t, err, c)
		test.ExpectEquality(t, m.Len(), 0, c)
		test.ExpectEquality(t, len(m.Blank), console.SlotWidth(c), c)
	}
}

func TestInvalidPlayers(t *testing.T) {
	_, err := movie.Decode(console.NES, []byte{0, 0}, []int{2})
	test.ExpectSuccess(t, curated.Is(err, movie.DecodeError))

	_, err = movie.Decode(console.SNES, make([]byte, 16), []int{2, 1})
	test.ExpectFailure(t, err)

	_, err = movie.Decode(console.SNES, make([]byte, 16), nil)
	test.ExpectFailure(t, err)
}

func TestFramesAreIndependent(t *testing.T) {
	data := []byte{0x01, 0x10, 0x02, 0x20}
	m, err := movie.Decode(console.NES, data, []int{1})
	test.DemandSuccess(t, err)

	// appending to one frame must not overwrite the next frame
	_ = append(m.Frames[0], 0xff)
	test.ExpectEquality(t, m.Frames[1][0], byte(0x02))
}
