package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/projection"
)

func TestCreateSession_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, "sess-1", "demo"))
	require.NoError(t, s.CreateSession(ctx, "sess-1", "ignored"))

	got, err := s.ReadSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, Session{ID: "sess-1", Name: "demo"}, got)
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)
}

func TestRecordFrame_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tab := sampleTable(t)
	require.NoError(t, s.CreateSession(ctx, "sess-1", ""))

	for _, tc := range []struct {
		seq  int64
		year int
	}{{2, 2005}, {1, 1990}, {3, 2006}} {
		frame, err := projection.Project(tab, projection.Selection{Year: tc.year, Country: "Japan", Category: "Smoking"})
		require.NoError(t, err)
		require.NoError(t, s.RecordFrame(ctx, "sess-1", tc.seq, frame))
	}

	frames, err := s.ReadFrames(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{frames[0].Seq, frames[1].Seq, frames[2].Seq})

	assert.Equal(t, FrameRecord{
		SessionID:    "sess-1",
		Seq:          2,
		Year:         2005,
		Country:      "Japan",
		Category:     "Smoking",
		PointCount:   2,
		OverlayCount: 2,
		XStart:       frames[1].XStart,
		XEnd:         frames[1].XEnd,
	}, frames[1])
	assert.Equal(t, 1, frames[0].PointCount)
	assert.Equal(t, 0, frames[0].OverlayCount)
	assert.Equal(t, 0, frames[2].PointCount)

	last, err := s.LastSeq(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
}

func TestRecordFrame_DuplicateSeqIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tab := sampleTable(t)
	require.NoError(t, s.CreateSession(ctx, "sess-1", ""))

	f1, err := projection.Project(tab, projection.Selection{Year: 2005, Country: projection.NoCountry, Category: "Smoking"})
	require.NoError(t, err)
	f2, err := projection.Project(tab, projection.Selection{Year: 1990, Country: projection.NoCountry, Category: "Smoking"})
	require.NoError(t, err)

	require.NoError(t, s.RecordFrame(ctx, "sess-1", 1, f1))
	require.NoError(t, s.RecordFrame(ctx, "sess-1", 1, f2))

	frames, err := s.ReadFrames(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 2005, frames[0].Year)
}

func TestReadFrames_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	frames, err := s.ReadFrames(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, frames)
	assert.Empty(t, frames)

	last, err := s.LastSeq(context.Background(), "none")
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)
}
