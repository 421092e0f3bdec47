package pose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAngleBetween(t *testing.T) {
	angle, ok := AngleBetween(Vec2{X: 1, Y: 0}, Vec2{X: 0, Y: 1})
	require.True(t, ok)
	require.InDelta(t, 90, float64(angle), 0.001)

	angle, ok = AngleBetween(Vec2{X: 1, Y: 0}, Vec2{X: 1, Y: 0})
	require.True(t, ok)
	require.InDelta(t, 0, float64(angle), 0.001)

	angle, ok = AngleBetween(Vec2{X: 1, Y: 0}, Vec2{X: -1, Y: 0})
	require.True(t, ok)
	require.InDelta(t, 180, float64(angle), 0.001)

	// Parallel vectors of different length must not blow past acos' domain
	angle, ok = AngleBetween(Vec2{X: 0.1, Y: 0.1}, Vec2{X: 0.3, Y: 0.3})
	require.True(t, ok)
	require.InDelta(t, 0, float64(angle), 0.001)
}

func TestAngleBetweenZeroVector(t *testing.T) {
	_, ok := AngleBetween(Vec2{}, Vec2{X: 1, Y: 0})
	require.False(t, ok)
	_, ok = AngleBetween(Vec2{X: 1, Y: 0}, Vec2{})
	require.False(t, ok)
}

func TestMakeFrame(t *testing.T) {
	f := MakeFrame(3, map[int]Landmark{
		LeftShoulder: {Visibility: 0.8},
		RightHip:     {Visibility: 0.4},
	})
	require.Equal(t, 3, f.Index)
	require.InDelta(t, 0.6, float64(f.MeanVisibility), 0.001)
	require.True(t, f.Has(LeftShoulder, RightHip))
	require.False(t, f.Has(LeftShoulder, LeftKnee))
	_, ok := f.Landmark(LeftKnee)
	require.False(t, ok)
}

func TestLandmarkNames(t *testing.T) {
	require.Len(t, LandmarkNames, NumLandmarks)
	require.Equal(t, "left shoulder", LandmarkNames[LeftShoulder])
	require.Equal(t, "right foot index", LandmarkNames[RightFootIndex])
	for _, pair := range Skeleton {
		require.Less(t, pair[0], NumLandmarks)
		require.Less(t, pair[1], NumLandmarks)
	}
}
