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
	"bytes"
	"context"

	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/notifications"
)

// frames between progress notices.
const progressInterval = 100

// Prime the device's input buffer with the plan. The returned RunState is
// ready for a Feeder.
//
// The blank frames are always sent in full, even if there are more of them
// than the capacity of the device. Movie frames are then sent until the movie
// is exhausted or the total number of frames sent reaches the capacity.
//
// Once the device has been primed, the latch train is sent (if there is one),
// bulk data mode is set if configured, and the console is powered on.
//
// Cancelling the context stops priming between writes. The context error is
// returned in that case.
func Prime(ctx context.Context, link device.Link, id device.RunID, plan Plan, cfg Config, notify notifications.Notify) (*RunState, PrimeReport, error) {
	var rep PrimeReport

	if err := cfg.Validate(); err != nil {
		return nil, rep, err
	}

	rs := &RunState{
		RunID: id,
		Plan:  plan,
	}

	for range plan.Blanks {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		if err := link.Write(id, plan.Blank); err != nil {
			return nil, rep, err
		}
		rep.Blanks++
		rep.Attempted++
	}
	logger.Logf(logger.Allow, "pump", "sent %d blank frames", rep.Blanks)

	for fn := 0; fn < len(plan.Movie) && rep.Attempted < cfg.Capacity; fn++ {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		if err := link.Write(id, plan.Movie[fn]); err != nil {
			return nil, rep, err
		}
		if fn%progressInterval == 0 {
			logger.Logf(logger.Verbosity(cfg.Verbose), "pump", "sending frame %d", fn)
		}
		rep.Attempted++
	}

	// one read of the feedback for the entire burst of writes
	fb, err := link.ReadFeedback(cfg.Capacity)
	if err != nil {
		return nil, rep, err
	}
	rep.Overflow = bytes.Count(fb, []byte{device.FeedbackOverflow})

	rs.Cursor = rep.Attempted
	rs.rewind(rep.Overflow)
	rep.Cursor = rs.Cursor

	if rep.Overflow > 0 {
		logger.Logf(logger.Allow, "pump", "buffer overflow x%d", rep.Overflow)
		send(notify, notifications.NotifyOverflow, rs, rep.Overflow)
	}

	if len(cfg.LatchTrain) > 0 {
		if err := link.SendLatchTrain(id, cfg.LatchTrain); err != nil {
			return nil, rep, err
		}
		logger.Logf(logger.Allow, "pump", "latch train of %d latches", len(cfg.LatchTrain))
	}

	if cfg.Bulk {
		if err := link.SetBulkDataMode(id, true); err != nil {
			return nil, rep, err
		}
	}

	if err := link.PowerOn(); err != nil {
		return nil, rep, err
	}

	logger.Logf(logger.Allow, "pump", "primed: %s", rep)
	send(notify, notifications.NotifyPrimed, rs, rep.Overflow)

	return rs, rep, nil
}

// send a notice. errors are logged and otherwise ignored.
func send(notify notifications.Notify, notice notifications.Notice, rs *RunState, overflow int) {
	if notify == nil {
		return
	}
	err := notify.Notify(notice, notifications.Status{
		Cursor:   rs.Cursor,
		Frames:   rs.Len(),
		Overflow: overflow,
	})
	if err != nil {
		logger.Log(logger.Allow, "pump", err)
	}
}
