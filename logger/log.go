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
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Logger is a bounded list of log entries. Most code should use the package
// level functions, which log to the central logger. NewLogger() is useful for
// tests and for components that want a private log.
type Logger struct {
	crit sync.Mutex

	maxEntries int
	entries    []Entry

	// the index of the first entry not yet seen by writeRecent
	recentStart int

	echo       io.Writer
	echoRecent bool
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger(maxEntries int) *Logger {
	return &Logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

// Log adds an entry to the logger. The detail argument can be a string, an
// error, a fmt.Stringer or any other value that can be formatted with %v.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}

	var d string
	switch v := detail.(type) {
	case string:
		d = v
	case error:
		d = v.Error()
	case fmt.Stringer:
		d = v.String()
	default:
		d = fmt.Sprintf("%v", v)
	}

	l.log(tag, d)
}

// Logf adds a formatted entry to the logger.
func (l *Logger) Logf(perm Permission, tag string, detail string, args ...any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}
	l.log(tag, fmt.Sprintf(detail, args...))
}

func (l *Logger) log(tag, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// remove all newline characters from tag and detail string
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var e *Entry
	if len(l.entries) > 0 {
		e = &l.entries[len(l.entries)-1]
	}

	if e != nil && detail == e.Detail && tag == e.Tag {
		e.repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		e = &l.entries[len(l.entries)-1]
	}

	// maintain maximum length
	if len(l.entries) > l.maxEntries {
		drop := len(l.entries) - l.maxEntries
		l.entries = l.entries[drop:]
		l.recentStart = max(0, l.recentStart-drop)
		e = &l.entries[len(l.entries)-1]
	}

	if l.echo != nil {
		if l.echoRecent {
			l.writeRecent(l.echo)
		} else {
			io.WriteString(l.echo, e.String())
		}
	}
}

// Clear all entries from the logger.
func (l *Logger) Clear() {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.entries = l.entries[:0]
	l.recentStart = 0
}

// Write contents of the logger to io.Writer.
func (l *Logger) Write(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	for _, e := range l.entries {
		io.WriteString(output, e.String())
	}
}

// WriteRecent writes the entries added since the last call to WriteRecent.
func (l *Logger) WriteRecent(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.writeRecent(output)
}

func (l *Logger) writeRecent(output io.Writer) {
	if l.recentStart > len(l.entries) {
		l.recentStart = len(l.entries)
	}
	for _, e := range l.entries[l.recentStart:] {
		io.WriteString(output, e.String())
	}
	l.recentStart = len(l.entries)
}

// Tail writes the last N entries to io.Writer.
func (l *Logger) Tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// cap number to the number of entries
	number = min(number, len(l.entries))

	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho prints new log entries to io.Writer as they are made. A nil writer
// turns echoing off. If writeRecent is true then entries that were made
// before echoing started and not yet written are also written.
func (l *Logger) SetEcho(output io.Writer, writeRecent bool) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.echo = output
	l.echoRecent = writeRecent
	if !writeRecent {
		l.recentStart = len(l.entries)
	}
}

// BorrowLog gives the provided function the critical section and access to
// the list of log entries.
func (l *Logger) BorrowLog(f func([]Entry)) {
	l.crit.Lock()
	defer l.crit.Unlock()
	f(l.entries)
}
