package animation

import (
	"context"

	"github.com/roach88/pdscatter/internal/projection"
)

// Renderer consumes frames. Render is called on the session goroutine
// after every selection change.
type Renderer interface {
	Render(ctx context.Context, frame *projection.Frame) error
}

// FrameRecorder persists rendered frames in order.
type FrameRecorder interface {
	RecordFrame(ctx context.Context, sessionID string, seq int64, frame *projection.Frame) error
}
