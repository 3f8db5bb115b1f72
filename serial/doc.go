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

// Package serial opens the USB serial port of the replay device. The port is
// put into raw mode at the configured baud rate and reads return after the
// poll duration even if no data has arrived, so that a reader can notice
// cancellation.
//
// Discover() lists the ports that belong to a replay device, identified by the
// USB vendor and product IDs reported by the platform's port enumerator.
// Choosing between more than one device is left to the caller.
package serial
