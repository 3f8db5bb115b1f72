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

package console_test

import (
	"testing"

	"github.com/jetsetilly/tasplayer/console"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/test"
)

func TestFrameWidth(t *testing.T) {
	test.ExpectEquality(t, console.FrameWidth(console.NES, 2), 2)
	test.ExpectEquality(t, console.FrameWidth(console.SNES, 3), 6)
	test.ExpectEquality(t, console.FrameWidth(console.N64, 1), 4)
	test.ExpectEquality(t, console.FrameWidth(console.GameCube, 1), 8)
	test.ExpectEquality(t, console.FrameWidth(console.Genesis, 2), 4)
}

func TestParse(t *testing.T) {
	for _, c := range console.Consoles {
		p, err := console.Parse(c.String())
		test.ExpectSuccess(t, err, c)
		test.ExpectEquality(t, p, c, c)
	}

	c, err := console.Parse("gc")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, console.GameCube)

	_, err = console.Parse("atari2600")
	test.ExpectSuccess(t, curated.Is(err, console.UnknownConsole))
}

func TestFromExtension(t *testing.T) {
	for _, c := range console.Consoles {
		p, err := console.FromExtension(console.MovieExtension(c))
		test.ExpectSuccess(t, err, c)
		test.ExpectEquality(t, p, c, c)
	}

	c, err := console.FromExtension(".R16M")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, console.SNES)

	_, err = console.FromExtension(".bk2")
	test.ExpectFailure(t, err)
}

func TestParsePlayers(t *testing.T) {
	p, err := console.ParsePlayers(console.NES, "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, console.FormatPlayers(p), "1")

	p, err = console.ParsePlayers(console.NES, "5, 1,5")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, console.FormatPlayers(p), "1,5")

	p, err = console.ParsePlayers(console.SNES, "3,1,2")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, console.FormatPlayers(p), "1,2,3")

	// slot 2 is not available on the NES
	_, err = console.ParsePlayers(console.NES, "1,2")
	test.ExpectSuccess(t, curated.Is(err, console.InvalidPlayers))

	// N64 is single player only
	_, err = console.ParsePlayers(console.N64, "1,5")
	test.ExpectFailure(t, err)

	_, err = console.ParsePlayers(console.SNES, "one")
	test.ExpectFailure(t, err)
}

func TestPlayerMask(t *testing.T) {
	test.ExpectEquality(t, console.PlayerMask([]int{1}), byte(0x01))
	test.ExpectEquality(t, console.PlayerMask([]int{1, 5}), byte(0x11))
	test.ExpectEquality(t, console.PlayerMask([]int{1, 2, 3, 4, 5, 6, 7, 8}), byte(0xff))
}
