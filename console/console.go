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

// Package console describes the consoles supported by the replay device. The
// set of consoles is closed and every property of a console is answered by a
// switch over the Console type.
//
// Player slots are numbered 1 to 8. On consoles with two controller ports,
// slots 1 to 4 belong to port one and slots 5 to 8 belong to port two (the
// extra slots in each port being multitap lines). A console only accepts the
// slots returned by ValidPlayers().
package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jetsetilly/tasplayer/curated"
)

// Console identifies one of the supported consoles.
type Console int

// List of valid Console values.
const (
	NES Console = iota
	SNES
	N64
	GameCube
	Genesis
)

// Consoles is the list of all supported consoles in display order.
var Consoles = []Console{NES, SNES, N64, GameCube, Genesis}

// Sentinal error patterns.
const (
	UnknownConsole = "console: unknown console (%s)"
	InvalidPlayers = "console: invalid players for %s (%s)"
)

// MaxPlayers is the number of player slots known to the replay device.
const MaxPlayers = 8

func (c Console) String() string {
	switch c {
	case NES:
		return "NES"
	case SNES:
		return "SNES"
	case N64:
		return "N64"
	case GameCube:
		return "GameCube"
	case Genesis:
		return "Genesis"
	}
	return fmt.Sprintf("console(%d)", int(c))
}

// Parse a console name. Names are case insensitive and include the short
// forms used on the command line and in run descriptors.
func Parse(s string) (Console, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nes":
		return NES, nil
	case "snes":
		return SNES, nil
	case "n64":
		return N64, nil
	case "gc", "gamecube":
		return GameCube, nil
	case "genesis", "megadrive":
		return Genesis, nil
	}
	return NES, curated.Errorf(UnknownConsole, s)
}

// SlotWidth returns the number of bytes of input for one player in one frame.
func SlotWidth(c Console) int {
	switch c {
	case NES:
		return 1
	case SNES:
		return 2
	case N64:
		return 4
	case GameCube:
		return 8
	case Genesis:
		return 2
	}
	return 0
}

// FrameWidth returns the number of bytes in a frame for the number of active
// players.
func FrameWidth(c Console, numPlayers int) int {
	return SlotWidth(c) * numPlayers
}

// ValidPlayers returns the player slots the replay device supports for the
// console.
func ValidPlayers(c Console) []int {
	switch c {
	case NES, Genesis:
		return []int{1, 5}
	case SNES:
		return []int{1, 2, 3, 4, 5, 6, 7, 8}
	case N64, GameCube:
		return []int{1}
	}
	return nil
}

// Code returns the byte identifying the console in the device's setup
// command.
func Code(c Console) byte {
	switch c {
	case NES:
		return 'N'
	case SNES:
		return 'S'
	case N64:
		return 'M'
	case GameCube:
		return 'G'
	case Genesis:
		return 'J'
	}
	return 0
}

// MovieExtension returns the file extension of the movie format decoded for
// the console.
func MovieExtension(c Console) string {
	switch c {
	case NES:
		return ".r08"
	case SNES:
		return ".r16m"
	case N64:
		return ".m64"
	case GameCube:
		return ".dtm"
	case Genesis:
		return ".rgen"
	}
	return ""
}

// FromExtension returns the console for a movie filename extension.
func FromExtension(ext string) (Console, error) {
	ext = strings.ToLower(ext)
	for _, c := range Consoles {
		if MovieExtension(c) == ext {
			return c, nil
		}
	}
	return NES, curated.Errorf(UnknownConsole, ext)
}

// ParsePlayers parses a comma separated list of player slots. The returned
// list is sorted and has no duplicates. An empty string means player 1 only.
func ParsePlayers(c Console, s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{1}, nil
	}

	valid := make(map[int]bool)
	for _, p := range ValidPlayers(c) {
		valid[p] = true
	}

	seen := make(map[int]bool)
	players := make([]int, 0, MaxPlayers)
	for _, f := range strings.Split(s, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, curated.Errorf(InvalidPlayers, c, s)
		}
		if !valid[p] {
			return nil, curated.Errorf(InvalidPlayers, c, s)
		}
		if !seen[p] {
			seen[p] = true
			players = append(players, p)
		}
	}
	sort.Ints(players)

	return players, nil
}

// FormatPlayers is the inverse of ParsePlayers().
func FormatPlayers(players []int) string {
	s := make([]string, len(players))
	for i, p := range players {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ",")
}

// PlayerMask returns the player slots as a bit mask. Slot 1 is bit 0.
func PlayerMask(players []int) byte {
	var m byte
	for _, p := range players {
		if p >= 1 && p <= MaxPlayers {
			m |= 1 << (p - 1)
		}
	}
	return m
}
