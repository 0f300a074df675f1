// Package vision provides the concrete detection sources behind the
// domain vision contracts: a JSON replay source for recorded detection
// logs and an HTTP client for the inference sidecar, routed by a
// dispatcher keyed on file extension.
package vision

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/ballmaster/internal/domain/vision"
)

// Document is the on-disk detection log format. Replay documents carry
// the pre-computed per-frame detections of one video.
type Document struct {
	VideoID     string        `json:"video_id"`
	FPS         float64       `json:"fps"`
	FrameCount  int           `json:"frame_count"`
	FrameHeight int           `json:"frame_height"`
	Frames      []FrameRecord `json:"frames"`
}

// FrameRecord is one frame's detections. A nil Ball means no detection.
type FrameRecord struct {
	Frame int           `json:"frame"`
	Ball  *BallRecord   `json:"ball"`
	Feet  []PointRecord `json:"feet,omitempty"`
}

// BallRecord is a located ball in pixel coordinates.
type BallRecord struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// PointRecord is a pixel coordinate pair.
type PointRecord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeDocument parses and validates a detection log.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", vision.ErrDecode, err)
	}
	if doc.FPS <= 0 {
		return Document{}, fmt.Errorf("%w: non-positive fps %v", vision.ErrDecode, doc.FPS)
	}
	if doc.FrameCount < 0 {
		return Document{}, fmt.Errorf("%w: negative frame count %d", vision.ErrDecode, doc.FrameCount)
	}
	if doc.FrameHeight <= 0 {
		return Document{}, fmt.Errorf("%w: non-positive frame height %d", vision.ErrDecode, doc.FrameHeight)
	}
	for _, fr := range doc.Frames {
		if fr.Frame < 0 || fr.Frame >= doc.FrameCount {
			return Document{}, fmt.Errorf("%w: frame %d outside [0,%d)", vision.ErrDecode, fr.Frame, doc.FrameCount)
		}
	}
	return doc, nil
}

// EncodeDocument writes a detection log as indented JSON.
func EncodeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode detection log: %w", err)
	}
	return nil
}
