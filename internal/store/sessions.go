package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pdscatter/internal/projection"
)

// ErrSessionNotFound is returned when a session id is not stored.
var ErrSessionNotFound = errors.New("session not found")

// Session is a stored playback session.
type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FrameRecord is the stored summary of one rendered frame.
type FrameRecord struct {
	SessionID    string  `json:"session_id"`
	Seq          int64   `json:"seq"`
	Year         int     `json:"year"`
	Country      string  `json:"country"`
	Category     string  `json:"category"`
	PointCount   int     `json:"point_count"`
	OverlayCount int     `json:"overlay_count"`
	XStart       float64 `json:"x_start"`
	XEnd         float64 `json:"x_end"`
}

// CreateSession inserts a session. Uses ON CONFLICT(id) DO NOTHING, so
// creating the same id twice is a no-op.
func (s *Store) CreateSession(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, name)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// ReadSession returns the session with id.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return sess, fmt.Errorf("read session: %w", err)
	}
	return sess, nil
}

// RecordFrame stores the summary of frame under (sessionID, seq).
// The session must exist (foreign key). A repeated (sessionID, seq) is
// silently ignored.
func (s *Store) RecordFrame(ctx context.Context, sessionID string, seq int64, frame *projection.Frame) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO frames
		(session_id, seq, year, country, category, point_count, overlay_count, x_start, x_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sessionID,
		seq,
		frame.Selection.Year,
		frame.Selection.Country,
		frame.Selection.Category,
		frame.PointCount(),
		frame.OverlayCount(),
		frame.XRange.Start,
		frame.XRange.End,
	)
	if err != nil {
		return fmt.Errorf("record frame %d: %w", seq, err)
	}
	return nil
}

// ReadFrames returns the frames of a session ordered by seq.
// Returns an empty slice (not nil) if the session has no frames.
func (s *Store) ReadFrames(ctx context.Context, sessionID string) ([]FrameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, year, country, category, point_count, overlay_count, x_start, x_end
		FROM frames
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	frames := []FrameRecord{}
	for rows.Next() {
		var f FrameRecord
		if err := rows.Scan(&f.SessionID, &f.Seq, &f.Year, &f.Country, &f.Category,
			&f.PointCount, &f.OverlayCount, &f.XStart, &f.XEnd); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}
	return frames, nil
}

// LastSeq returns the highest recorded seq of a session, or 0.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM frames WHERE session_id = ?
	`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}
