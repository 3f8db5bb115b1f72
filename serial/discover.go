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

package serial

import (
	"sort"
	"strconv"

	"go.bug.st/serial/enumerator"
)

// USB identifiers of the replay device.
const (
	VendorID  = 0x0b07
	ProductID = 0x07a5
)

// Discover returns the names of all serial ports belonging to a replay
// device. An empty list is not an error.
func Discover() ([]string, error) {
	return discover(enumerator.GetDetailedPortsList)
}

// discover filters the list of ports for those with the replay device's
// vendor and product IDs.
func discover(list func() ([]*enumerator.PortDetails, error)) ([]string, error) {
	details, err := list()
	if err != nil {
		return nil, err
	}

	ports := []string{}
	for _, d := range details {
		if !d.IsUSB {
			continue
		}
		if matchID(d.VID, VendorID) && matchID(d.PID, ProductID) {
			ports = append(ports, d.Name)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

// matchID compares a hexadecimal USB identifier with the expected value.
func matchID(s string, id uint64) bool {
	v, err := strconv.ParseUint(s, 16, 16)
	return err == nil && v == id
}
