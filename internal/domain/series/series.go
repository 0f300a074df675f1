// Package series folds an ordered kick event stream into closed juggling
// series. A series opens on the first upward kick after a ground touch (or
// after the start of the stream), accumulates subsequent upward kicks, and
// closes on the next ground touch. Runs still open when the stream ends are
// discarded: without a terminating ground touch there is no end bound.
package series

import (
	"github.com/okian/ballmaster/internal/domain/model"
)

// Fold walks events in order and returns every closed series. Ground
// touches with no open series are ignored. The input is not mutated.
func Fold(events []model.KickEvent) []model.Series {
	var (
		out       []model.Series
		open      bool
		start     model.KickEvent
		kickCount int
	)
	for _, ev := range events {
		switch ev.Kind {
		case model.KindUp:
			if !open {
				open = true
				start = ev
				kickCount = 0
			}
			kickCount++
		case model.KindGround:
			if !open {
				continue
			}
			out = append(out, model.Series{
				StartFrame: start.FrameNumber,
				EndFrame:   ev.FrameNumber,
				KickCount:  kickCount,
				Duration:   ev.Timestamp - start.Timestamp,
			})
			open = false
		}
	}
	return out
}
