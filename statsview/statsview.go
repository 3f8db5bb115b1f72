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

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is used by Launch() when the address is empty.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"

// Launch a new goroutine running the statsview. The viewer runs for the
// lifetime of the program.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	if output != nil {
		fmt.Fprintf(output, "stats server available at %s%s\n", addr, url)
	}
}
