package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simtrace/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("top.core0.rob", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("top.core0.lsu", 0xfedcba0987654321))

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.False(t, tracker.Collided(0x1234567890abcdef))
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("top.a", 0x1))
	require.NoError(t, tracker.Track("top.b", 0x1))

	require.True(t, tracker.HasCollision())
	require.True(t, tracker.Collided(0x1))
	require.False(t, tracker.Collided(0x2))
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_DuplicatePath(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("top.a", 0x1))
	err := tracker.Track("top.a", 0x1)

	require.ErrorIs(t, err, errs.ErrPathCollision)
	require.Equal(t, 1, tracker.Count())
	require.False(t, tracker.HasCollision())
}
