package prettycolors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Color
		want float64
	}{
		{Color{0, 0, 0}, Color{0, 0, 0}, 0},
		{Color{0, 0, 0}, Color{3, 4, 0}, 5},
		{Color{10, 0, 0}, Color{0, 0, 0}, 10},
		{Color{0, 0, 0}, Color{255, 255, 255}, math.Sqrt(3 * 255 * 255)},
		{Color{1, 2, 3}, Color{3, 2, 1}, math.Sqrt(8)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%v-%v", tt.a, tt.b)
		assert.Equal(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a))
	}
}

func TestDistancePermutationsTie(t *testing.T) {
	c := Color{100, 100, 100}
	assert.Equal(t, Distance(c, Color{101, 102, 103}), Distance(c, Color{103, 101, 102}))
}

func TestHexRoundTrip(t *testing.T) {
	c := Color{0x12, 0xab, 0xff}
	assert.Equal(t, "#12abff", c.Hex())

	got, err := ParseHex(c.Hex())
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, c, FromColorful(c.Colorful()))

	_, err = ParseHex("not-a-color")
	assert.True(t, IsCode(err, ErrCodeConfig))
}
