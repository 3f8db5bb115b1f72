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

package notifications

// Notice describes an event in the life of a run.
type Notice string

// List of defined notifications.
const (
	// the console has been powered off before the run is configured
	NotifyReset Notice = "reset"

	// priming has finished and the device has been powered on
	NotifyPrimed Notice = "primed"

	// the device reported frames that did not fit in its input buffer
	NotifyOverflow Notice = "overflow"

	// steady state streaming has started
	NotifyStreaming Notice = "streaming"

	// sent every hundred frames
	NotifyProgress Notice = "progress"

	// the run has ended. the state says how
	NotifyEnded Notice = "ended"
)

// Status accompanies every notice. Fields that have no meaning for a notice
// are left as the zero value.
type Status struct {
	Session string `json:"session"`
	State   string `json:"state"`

	// the position of the next frame to send and the total number of frames
	// in the run (including blank frames)
	Cursor int `json:"cursor"`
	Frames int `json:"frames"`

	// number of overflow sentinals in the feedback that prompted the notice
	Overflow int `json:"overflow"`

	// set for NotifyEnded when the run failed
	Error string `json:"error,omitempty"`
}

// Notify is implemented by anything that wants to be told about run events.
type Notify interface {
	Notify(notice Notice, status Status) error
}

// Fanout sends every notice to each Notify in the list, in order. Nil entries
// are skipped. The first error is returned after all have been notified.
type Fanout []Notify

// Notify implements the Notify interface.
func (f Fanout) Notify(notice Notice, status Status) error {
	var first error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(notice, status); err != nil && first == nil {
			first = err
		}
	}
	return first
}
