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

// Package device implements the command set of the TAStm32 replay device.
// The Link interface is the boundary used by the streaming engine. Device is
// the implementation of Link that talks to the replay device over any
// io.ReadWriter, usually a serial.Port.
//
// Commands are a single letter followed by arguments. Integers are little
// endian. Configuration commands are acknowledged by the device with the
// byte 0x01 followed by the command letter:
//
//	reset         R                               01 R
//	setup run     S id console players settings clock  01 S
//	transition    T id mode frame(uint32)          01 T
//	latch train   U id count(uint16) latch(uint16)...  01 U
//	bulk mode     Q id 1|0                         01 Q
//	power         P 0|1|S|H                        (none)
//	frame         id frame-bytes                   (none)
//
// While a run is active the device sends feedback bytes. Feedback is
// aggregate and never says which frame it refers to:
//
//	0xb0       a frame was not accepted because the input buffer was full
//	id         the device wants one more frame
//	lower(id)  the device wants one more bulk batch
//	0xb2       the device latched with nothing in the input buffer
//
// A run ID is one of the letters 'A' to 'D' and prefixes every command for
// that run. Only one session may use the device at a time. Claim() and
// Release() enforce this.
package device
