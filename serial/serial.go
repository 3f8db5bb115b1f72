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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/pkg/term"
)

// OpenError is the sentinal pattern for failures when opening a serial port.
const OpenError = "serial: %v"

// Config for a serial port.
type Config struct {
	Baud int

	// the longest time a call to Read() will wait for data. a poll of zero
	// means that Read() blocks until data arrives
	Poll time.Duration
}

// DefaultConfig is the configuration used by the replay device.
var DefaultConfig = Config{
	Baud: 115200,
	Poll: 100 * time.Millisecond,
}

// Port is an open serial port. It implements io.ReadWriteCloser.
type Port struct {
	name string
	t    *term.Term
}

// Open the named serial port.
func Open(name string, cfg Config) (*Port, error) {
	if cfg.Baud <= 0 {
		return nil, curated.Errorf(OpenError, fmt.Errorf("invalid baud rate (%d)", cfg.Baud))
	}

	opts := []func(*term.Term) error{term.Speed(cfg.Baud), term.RawMode}
	if cfg.Poll > 0 {
		opts = append(opts, term.ReadTimeout(cfg.Poll))
	}

	t, err := term.Open(name, opts...)
	if err != nil {
		return nil, curated.Errorf(OpenError, err)
	}

	// anything left over from a previous session is discarded
	err = t.Flush()
	if err != nil {
		_ = t.Close()
		return nil, curated.Errorf(OpenError, err)
	}

	return &Port{name: name, t: t}, nil
}

func (p *Port) String() string {
	return p.name
}

// Read implements the io.Reader interface. A timeout returns zero bytes and
// no error.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.t.Read(b)

	// the term package reports an expired read timeout as EOF
	if errors.Is(err, io.EOF) {
		return n, nil
	}

	return n, err
}

// Write implements the io.Writer interface.
func (p *Port) Write(b []byte) (int, error) {
	return p.t.Write(b)
}

// Close implements the io.Closer interface.
func (p *Port) Close() error {
	return p.t.Close()
}
