package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/ballmaster/internal/domain/geometry"
	"github.com/okian/ballmaster/internal/domain/vision"
	"github.com/okian/ballmaster/pkg/metrics"
)

// Client talks to the inference sidecar, which decodes videos and runs
// the ball and pose models. One sidecar session maps to one video.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds an inference client for the given sidecar base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openRequest struct {
	Path string `json:"path"`
}

type openResponse struct {
	SessionID   string  `json:"session_id"`
	FPS         float64 `json:"fps"`
	FrameCount  int     `json:"frame_count"`
	FrameHeight int     `json:"frame_height"`
}

type frameResponse struct {
	Ball *BallRecord   `json:"ball"`
	Feet []PointRecord `json:"feet"`
}

// Open asks the sidecar to decode the video at path. Videos the sidecar
// cannot decode surface as ErrDecode so callers can distinguish bad
// uploads from sidecar outages.
func (c *Client) Open(ctx context.Context, path string) (vision.Session, error) {
	body, err := json.Marshal(openRequest{Path: path})
	if err != nil {
		return nil, fmt.Errorf("marshal open request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build open request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RecordInferenceError()
		return nil, fmt.Errorf("open inference session: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return nil, fmt.Errorf("%w: sidecar rejected %q", vision.ErrDecode, path)
	default:
		metrics.RecordInferenceError()
		return nil, fmt.Errorf("open inference session: unexpected status %d", resp.StatusCode)
	}

	var or openResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("decode open response: %w", err)
	}
	if or.FPS <= 0 || or.FrameHeight <= 0 {
		return nil, fmt.Errorf("%w: sidecar reported fps=%v height=%d", vision.ErrDecode, or.FPS, or.FrameHeight)
	}

	return &clientSession{
		client:    c,
		sessionID: or.SessionID,
		meta: vision.Meta{
			FPS:         or.FPS,
			FrameCount:  or.FrameCount,
			FrameHeight: or.FrameHeight,
		},
	}, nil
}

// clientSession streams one sidecar session. The last fetched frame is
// cached so DetectBall and DetectFeet on the same frame cost one request.
type clientSession struct {
	client    *Client
	sessionID string
	meta      vision.Meta
	cursor    int

	cachedFrame int
	cached      *frameResponse
}

func (s *clientSession) Meta() vision.Meta {
	return s.meta
}

func (s *clientSession) Next(ctx context.Context) (vision.Frame, bool, error) {
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

func (s *clientSession) DetectBall(ctx context.Context, frame vision.Frame) (vision.Detection, bool, error) {
	fr, err := s.fetch(ctx, frame.Number)
	if err != nil {
		return vision.Detection{}, false, err
	}
	if fr.Ball == nil {
		return vision.Detection{}, false, nil
	}
	return vision.Detection{
		Position:   geometry.Point{X: fr.Ball.X, Y: fr.Ball.Y},
		Confidence: fr.Ball.Confidence,
	}, true, nil
}

func (s *clientSession) DetectFeet(ctx context.Context, frame vision.Frame) ([]geometry.Point, error) {
	fr, err := s.fetch(ctx, frame.Number)
	if err != nil {
		return nil, err
	}
	feet := make([]geometry.Point, 0, len(fr.Feet))
	for _, p := range fr.Feet {
		feet = append(feet, geometry.Point{X: p.X, Y: p.Y})
	}
	return feet, nil
}

func (s *clientSession) fetch(ctx context.Context, frame int) (*frameResponse, error) {
	if s.cached != nil && s.cachedFrame == frame {
		return s.cached, nil
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/frames/%d", s.client.baseURL, s.sessionID, frame)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build frame request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.httpc.Do(req)
	metrics.RecordInferenceLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordInferenceError()
		return nil, fmt.Errorf("fetch frame %d: %w", frame, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordInferenceError()
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch frame %d: unexpected status %d", frame, resp.StatusCode)
	}

	var fr frameResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", frame, err)
	}
	s.cachedFrame = frame
	s.cached = &fr
	return &fr, nil
}

// Close releases the sidecar session. Best effort: the sidecar expires
// idle sessions on its own.
func (s *clientSession) Close() error {
	url := fmt.Sprintf("%s/v1/sessions/%s", s.client.baseURL, s.sessionID)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build close request: %w", err)
	}
	resp, err := s.client.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("close inference session: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
