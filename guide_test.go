package autograph

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuide_Layer(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGuide(300, 120)
	require.NoError(t, err)

	layer := g.Layer()
	assert.Equal(image.Rect(0, 0, 300, 120), layer.Bounds())

	bounds, ok := InkBounds(layer)
	require.True(t, ok)
	// The baseline spans most of the width.
	assert.Less(bounds.Min.X, 30)
	assert.Greater(bounds.Max.X, 270)

	// The corners stay empty.
	assert.Zero(layer.NRGBAAt(0, 0).A)
	assert.Zero(layer.NRGBAAt(299, 119).A)

	_, err = NewGuide(0, 10)
	assert.ErrorIs(err, ErrInvalidSurface)
}

func TestGuide_Compose(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGuide(300, 120)
	require.NoError(t, err)

	red := color.NRGBA{R: 0xff, A: 0xff}
	ink := image.NewNRGBA(image.Rect(0, 0, 300, 120))
	for x := 0; x < 300; x++ {
		for y := 80; y < 95; y++ {
			ink.SetNRGBA(x, y, red)
		}
	}
	res := g.Compose(ink)

	// The ink covers the baseline drawn at 72% of the height.
	assert.Equal(red, res.NRGBAAt(150, 86))
	// The layer is left untouched.
	assert.NotEqual(red, g.Layer().NRGBAAt(150, 86))
}
