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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jetsetilly/tasplayer/runfile"
)

type inspectStyles struct {
	title lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
	warn  lipgloss.Style
	box   lipgloss.Style
}

func newInspectStyles() inspectStyles {
	return inspectStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		key:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)).Width(22),
		value: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)),
		warn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// inspectRun writes a styled summary of the descriptor to output. The size of
// the movie data is included and the descriptor is validated.
func inspectRun(output io.Writer, d *runfile.Descriptor, movieSize int) {
	st := newInspectStyles()

	var lines []string
	field := func(key string, value string) {
		if value == "" {
			value = "-"
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, st.key.Render(key), st.value.Render(value)))
	}

	lines = append(lines, st.title.Render(d.String()), "")
	field("authors", d.Authors)
	field("description", d.Description)
	field("console", d.Console)
	field("controllers", d.Controllers)
	field("blank frames", strconv.Itoa(d.BlankFrames))
	field("initial power", string(d.InitialPower))
	field("bulk data mode", strconv.FormatBool(d.BulkData))
	field("latch filter", strconv.FormatBool(d.Options.LatchFilter))
	field("clock filter", fmt.Sprintf("%.2f", d.Options.ClockFilter))
	field("overread", strconv.FormatBool(d.Options.Overread))
	field("transitions", d.Transitions)
	field("latch train", d.LatchTrain)
	field("movie", fmt.Sprintf("%s (%d bytes)", d.Movie, movieSize))
	field("version", d.Version)

	if err := d.Validate(); err != nil {
		lines = append(lines, "", st.warn.Render(err.Error()))
	}

	fmt.Fprintln(output, st.box.Render(strings.Join(lines, "\n")))
	fmt.Fprintf(output, "RUN %s\n", strings.Join(d.Args(), " "))
}
