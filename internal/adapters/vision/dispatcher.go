package vision

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/ballmaster/internal/domain/vision"
)

// videoExtensions lists the container formats the sidecar accepts.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".mkv":  {},
	".webm": {},
}

// Dispatcher routes a path to the right session opener: detection logs
// replay locally, video files go through the inference sidecar.
type Dispatcher struct {
	client *Client
}

// NewDispatcher builds a dispatcher over the given inference client.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// IsSupported reports whether the extension of name maps to an opener.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".json" {
		return true
	}
	_, ok := videoExtensions[ext]
	return ok
}

// Open opens a session for the file at path.
func (d *Dispatcher) Open(ctx context.Context, path string) (vision.Session, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return OpenReplay(path)
	}
	if _, ok := videoExtensions[ext]; ok {
		return d.client.Open(ctx, path)
	}
	return nil, fmt.Errorf("%w: unsupported extension %q", vision.ErrDecode, ext)
}
