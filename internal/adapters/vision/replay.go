package vision

import (
	"context"
	"os"

	"github.com/okian/ballmaster/internal/domain/geometry"
	"github.com/okian/ballmaster/internal/domain/vision"
)

// replaySession replays a recorded detection log frame by frame. Frames
// absent from the log count as detection misses, matching what a live
// detector would report for them.
type replaySession struct {
	meta    vision.Meta
	records map[int]FrameRecord
	cursor  int
}

// OpenReplay reads a detection log from disk and returns a session over it.
func OpenReplay(path string) (vision.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, err
	}
	return NewReplay(doc), nil
}

// NewReplay builds a session over an already-decoded detection log.
func NewReplay(doc Document) vision.Session {
	records := make(map[int]FrameRecord, len(doc.Frames))
	for _, fr := range doc.Frames {
		records[fr.Frame] = fr
	}
	return &replaySession{
		meta: vision.Meta{
			FPS:         doc.FPS,
			FrameCount:  doc.FrameCount,
			FrameHeight: doc.FrameHeight,
		},
		records: records,
	}
}

func (s *replaySession) Meta() vision.Meta {
	return s.meta
}

func (s *replaySession) Next(ctx context.Context) (vision.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return vision.Frame{}, false, err
	}
	if s.cursor >= s.meta.FrameCount {
		return vision.Frame{}, false, nil
	}
	f := vision.Frame{Number: s.cursor}
	s.cursor++
	return f, true, nil
}

func (s *replaySession) DetectBall(ctx context.Context, frame vision.Frame) (vision.Detection, bool, error) {
	rec, ok := s.records[frame.Number]
	if !ok || rec.Ball == nil {
		return vision.Detection{}, false, nil
	}
	return vision.Detection{
		Position:   geometry.Point{X: rec.Ball.X, Y: rec.Ball.Y},
		Confidence: rec.Ball.Confidence,
	}, true, nil
}

func (s *replaySession) DetectFeet(ctx context.Context, frame vision.Frame) ([]geometry.Point, error) {
	rec, ok := s.records[frame.Number]
	if !ok {
		return nil, nil
	}
	feet := make([]geometry.Point, 0, len(rec.Feet))
	for _, p := range rec.Feet {
		feet = append(feet, geometry.Point{X: p.X, Y: p.Y})
	}
	return feet, nil
}

func (s *replaySession) Close() error {
	return nil
}
