package voc2yolo

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToYOLO(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		box           Box
		classID       int
		want          string
	}{
		{
			name:  "reference example",
			width: 640, height: 480,
			box:  Box{XMin: 100, YMin: 50, XMax: 200, YMax: 150},
			want: "0 0.234375 0.208333 0.156250 0.208333\n",
		},
		{
			name:  "whole image",
			width: 100, height: 50,
			box:     Box{XMin: 0, YMin: 0, XMax: 100, YMax: 50},
			classID: 3,
			want:    "3 0.500000 0.500000 1.000000 1.000000\n",
		},
		{
			name:  "degenerate box",
			width: 10, height: 10,
			box:  Box{XMin: 5, YMin: 5, XMax: 5, YMax: 5},
			want: "0 0.500000 0.500000 0.000000 0.000000\n",
		},
		{
			name:  "extreme coordinates do not overflow",
			width: 1, height: 1,
			box:  Box{XMin: math.MaxInt32, YMin: math.MinInt32, XMax: math.MaxInt32, YMax: math.MaxInt32},
			want: "0 2147483647.000000 -0.500000 0.000000 4294967295.000000\n",
		},
		{
			name:  "out of bounds is not clamped",
			width: 100, height: 100,
			box:  Box{XMin: -50, YMin: 0, XMax: 150, YMax: 100},
			want: "0 0.500000 0.500000 2.000000 1.000000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToYOLO(tt.width, tt.height, tt.box).Line(tt.classID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToYOLO_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		w := 1 + rng.Intn(4000)
		h := 1 + rng.Intn(4000)
		x1, x2 := rng.Intn(w+1), rng.Intn(w+1)
		y1, y2 := rng.Intn(h+1), rng.Intn(h+1)
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		box := Box{XMin: x1, YMin: y1, XMax: x2, YMax: y2}

		// Parse the formatted line so that the six decimal rounding is part of the round trip.
		var id int
		var y YOLOBox
		_, err := fmt.Sscanf(ToYOLO(w, h, box).Line(7), "%d %f %f %f %f\n",
			&id, &y.XCenter, &y.YCenter, &y.Width, &y.Height)
		require.NoError(t, err)
		require.Equal(t, 7, id)

		for _, v := range []float64{y.XCenter, y.YCenter, y.Width, y.Height} {
			require.GreaterOrEqual(t, v, 0.0, "box %+v in %dx%d", box, w, h)
			require.LessOrEqual(t, v, 1.0, "box %+v in %dx%d", box, w, h)
		}

		got := y.Expand(w, h)
		deltaX := 1e-6 * float64(w)
		deltaY := 1e-6 * float64(h)
		assert.InDelta(t, float64(x1), got[0], deltaX)
		assert.InDelta(t, float64(y1), got[1], deltaY)
		assert.InDelta(t, float64(x2), got[2], deltaX)
		assert.InDelta(t, float64(y2), got[3], deltaY)
	}
}

func TestBox(t *testing.T) {
	b := Box{XMin: 10, YMin: 20, XMax: 30, YMax: 60}
	assert.Equal(t, 20, b.Width())
	assert.Equal(t, 40, b.Height())
	assert.False(t, b.Inverted())
	assert.True(t, b.Within(30, 60))
	assert.False(t, b.Within(29, 60))

	assert.True(t, Box{XMin: 5, XMax: 4}.Inverted())
	assert.True(t, Box{YMin: 5, YMax: 4}.Inverted())
	assert.False(t, Box{XMin: -1, XMax: 4, YMax: 4}.Within(10, 10))
}
