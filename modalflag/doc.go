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

// Package modalflag wraps the flag package in the Go standard library. It
// handles program modes (and sub-modes) with different flags for each mode.
//
// Arguments are given to NewArgs() and then Parse() is called with no
// arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "VERIFY", "PORTS")
//	_, _ = md.Parse()
//
// When sub-modes have been added, Parse() checks the first argument after
// the flags against the list. A match is removed from the argument list and
// becomes the current Mode(). No match selects the first sub-mode in the
// list, the default. Comparisons are case insensitive.
//
// Each mode then starts afresh with NewMode(), adds its own flags and calls
// Parse() again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		serial := md.AddString("serial", "", "serial device")
//		p, err := md.Parse()
//		switch p {
//		case modalflag.ParseError:
//			return err
//		case modalflag.ParseHelp:
//			return nil
//		}
//		return run(*serial, md.RemainingArgs())
//	}
//
// Flags that can be given more than once are added with AddVar() and a type
// implementing flag.Value.
package modalflag
