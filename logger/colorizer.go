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

package logger

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colorizer is an io.Writer that styles log entries before passing them on
// to the underlying writer. The tag of each line is drawn in bold and lines
// from the tags listed as alert tags are drawn in the alert colour.
type Colorizer struct {
	out    io.Writer
	tag    lipgloss.Style
	alert  lipgloss.Style
	alerts map[string]bool
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type. The alert tags are tags whose entries should stand out, for example
// "overflow".
func NewColorizer(out io.Writer, alertTags ...string) Colorizer {
	c := Colorizer{
		out:    out,
		tag:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		alert:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(1)),
		alerts: make(map[string]bool),
	}
	for _, t := range alertTags {
		c.alerts[t] = true
	}
	return c
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimRight(string(p), "\n"), "\n")

	for _, l := range lines {
		tag, detail, found := strings.Cut(l, ": ")

		var s string
		if !found {
			s = l
		} else if c.alerts[tag] {
			s = c.alert.Render(tag+":") + " " + c.alert.Render(detail)
		} else {
			s = c.tag.Render(tag+":") + " " + detail
		}

		if _, err := io.WriteString(c.out, s+"\n"); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
