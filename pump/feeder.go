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

package pump

import (
	"context"
	"time"

	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/notifications"
)

// Outcome is how a Feeder finished without error.
type Outcome int

// List of valid Outcome values.
const (
	// every frame was sent and accepted
	Exhausted Outcome = iota

	// the context was cancelled
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	}
	return "unknown outcome"
}

// Feeder continues a run from a primed RunState.
type Feeder interface {
	Feed(ctx context.Context, rs *RunState) (Outcome, error)
}

// the most feedback read in one go by the HostFeeder.
const feedbackSize = 256

// HostFeeder answers the device's requests for frames. It implements the
// Feeder interface.
//
// Overflow sentinals move the cursor back by one frame each. A request with
// the upper case run ID is answered with one frame and a request with the
// lower case run ID is answered with a bulk batch. Frames past the end of the
// run are never sent.
type HostFeeder struct {
	link   device.Link
	cfg    Config
	notify notifications.Notify
}

// NewHostFeeder is the preferred method of initialisation for the HostFeeder
// type.
func NewHostFeeder(link device.Link, cfg Config, notify notifications.Notify) *HostFeeder {
	return &HostFeeder{
		link:   link,
		cfg:    cfg,
		notify: notify,
	}
}

// Feed implements the Feeder interface. Feeding ends with Exhausted when a
// read of the feedback, made after the cursor has reached the end of the run,
// shows no overflow. Cancelling the context ends feeding immediately with Cancelled.
// Nothing is sent to the device on cancellation.
func (hf *HostFeeder) Feed(ctx context.Context, rs *RunState) (Outcome, error) {
	if err := hf.cfg.Validate(); err != nil {
		return Exhausted, err
	}

	batch := make([]movie.Frame, 0, hf.cfg.BulkLatches/hf.cfg.BulkPackets)
	bulk := rs.RunID.Bulk()
	last := time.Now()
	progress := rs.Cursor / progressInterval

	send(hf.notify, notifications.NotifyStreaming, rs, 0)

	for {
		if ctx.Err() != nil {
			return Cancelled, nil
		}

		// the run only ends after a read that started with every frame sent
		atEnd := rs.Exhausted()

		fb, err := hf.link.ReadFeedback(feedbackSize)
		if err != nil {
			return Exhausted, err
		}

		if len(fb) == 0 {
			if hf.cfg.StallTimeout > 0 && time.Since(last) > hf.cfg.StallTimeout {
				return Exhausted, curated.Errorf(LinkStalled, hf.cfg.StallTimeout)
			}
		} else {
			last = time.Now()
		}

		overflow := 0
		for _, b := range fb {
			if ctx.Err() != nil {
				return Cancelled, nil
			}

			switch b {
			case device.FeedbackOverflow:
				overflow++
				rs.rewind(1)
			case byte(rs.RunID):
				if !rs.Exhausted() {
					if err := hf.link.Write(rs.RunID, rs.Frame(rs.Cursor)); err != nil {
						return Exhausted, err
					}
					rs.Cursor++
				}
			case bulk:
				for range hf.cfg.BulkPackets {
					batch = batch[:0]
					for range hf.cfg.BulkLatches / hf.cfg.BulkPackets {
						if rs.Exhausted() {
							break
						}
						batch = append(batch, rs.Frame(rs.Cursor))
						rs.Cursor++
					}
					if len(batch) == 0 {
						break
					}
					if err := hf.link.Write(rs.RunID, batch...); err != nil {
						return Exhausted, err
					}
				}
			case device.FeedbackEmpty:
				logger.Logf(logger.Verbosity(hf.cfg.Verbose), "pump", "device input buffer empty at frame %d", rs.Cursor)
			}
		}

		if overflow > 0 {
			logger.Logf(logger.Allow, "pump", "buffer overflow x%d", overflow)
			send(hf.notify, notifications.NotifyOverflow, rs, overflow)
		}

		if p := rs.Cursor / progressInterval; p != progress {
			progress = p
			logger.Logf(logger.Verbosity(hf.cfg.Verbose), "pump", "sent frame %d", rs.Cursor)
			send(hf.notify, notifications.NotifyProgress, rs, 0)
		}

		if atEnd && overflow == 0 {
			return Exhausted, nil
		}
	}
}
