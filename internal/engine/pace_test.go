package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexis-sammut/fittrack/internal/engine"
)

func TestFormatPace(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"whole minutes", 6, "6:00"},
		{"half minute", 5.5, "5:30"},
		{"quarter minute", 4.25, "4:15"},
		{"pads seconds", 0.1, "0:06"},
		{"carries rounded sixty", 5.9999, "6:00"},
		{"nan", math.NaN(), "--:--"},
		{"positive infinity", math.Inf(1), "--:--"},
		{"negative infinity", math.Inf(-1), "--:--"},
		{"beyond int64 minutes", 1e300, "--:--"},
		{"beyond int64 negative", -1e300, "--:--"},
		{"largest float", math.MaxFloat64, "--:--"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.FormatPace(tc.in))
		})
	}
}

func TestPaceFromRawRoundTrip(t *testing.T) {
	t.Parallel()

	pace, ok := engine.PaceFromRaw(30, 5)
	require.True(t, ok)
	require.InDelta(t, 6.0, pace, 1e-9)
	require.Equal(t, "6:00", engine.FormatPace(pace))

	pace, ok = engine.PaceFromRaw(26, 4)
	require.True(t, ok)
	require.Equal(t, "6:30", engine.FormatPace(pace))
}

func TestPaceFromRawNotApplicable(t *testing.T) {
	t.Parallel()

	for _, in := range [][2]float64{{30, 0}, {0, 5}, {-10, 5}, {30, -1}, {math.NaN(), 5}} {
		_, ok := engine.PaceFromRaw(in[0], in[1])
		assert.False(t, ok, "duration=%v distance=%v", in[0], in[1])
	}
}
