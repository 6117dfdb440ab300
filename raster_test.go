package autograph

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ink = color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}

func inkedImage(w, h int, r image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, r, &image.Uniform{ink}, image.Point{}, draw.Src)
	return img
}

func TestRaster_InkBounds(t *testing.T) {
	assert := assert.New(t)

	_, ok := InkBounds(image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	assert.False(ok)

	bbox, ok := InkBounds(inkedImage(100, 80, image.Rect(30, 20, 50, 35)))
	assert.True(ok)
	assert.Equal(image.Rect(30, 20, 50, 35), bbox)

	// Generic image types go through the color model.
	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(4, 6, color.RGBA{A: 1})
	bbox, ok = InkBounds(rgba)
	assert.True(ok)
	assert.Equal(image.Rect(4, 6, 5, 7), bbox)
}

func TestRaster_Trim(t *testing.T) {
	assert := assert.New(t)

	src := inkedImage(200, 100, image.Rect(60, 40, 100, 60))
	res := Trim(src)

	assert.Equal(image.Rect(0, 0, 40+2*TrimPadding, 20+2*TrimPadding), res.Bounds())
	bbox, ok := InkBounds(res)
	assert.True(ok)
	assert.Equal(image.Rect(TrimPadding, TrimPadding, TrimPadding+40, TrimPadding+20), bbox)
	assert.Equal(color.NRGBAModel.Convert(ink), color.NRGBAModel.Convert(res.At(TrimPadding, TrimPadding)))

	// The source is never mutated.
	bbox, _ = InkBounds(src)
	assert.Equal(image.Rect(60, 40, 100, 60), bbox)
}

func TestRaster_TrimIdempotent(t *testing.T) {
	assert := assert.New(t)

	for _, r := range []image.Rectangle{
		image.Rect(60, 40, 100, 60),
		image.Rect(0, 0, 5, 5),       // padding outside of the source
		image.Rect(190, 90, 200, 100), // bottom right corner
	} {
		once := Trim(inkedImage(200, 100, r))
		twice := Trim(once)

		assert.Equal(once.Bounds(), twice.Bounds())
		b1, _ := InkBounds(once)
		b2, _ := InkBounds(twice)
		assert.Equal(b1, b2)
		assert.Equal(once.(*image.NRGBA).Pix, twice.(*image.NRGBA).Pix)
	}
}

func TestRaster_TrimEmpty(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	assert.Same(t, src, Trim(src))
}

func TestRaster_TrimPaddingOutsideSource(t *testing.T) {
	assert := assert.New(t)

	res := Trim(inkedImage(200, 100, image.Rect(0, 0, 5, 5)))
	assert.Equal(image.Rect(0, 0, 5+2*TrimPadding, 5+2*TrimPadding), res.Bounds())

	// The padding falls outside of the source and stays transparent.
	_, _, _, a := res.At(0, 0).RGBA()
	assert.Equal(uint32(0), a)
	_, _, _, a = res.At(TrimPadding, TrimPadding).RGBA()
	assert.Equal(uint32(0xffff), a)
}

func TestRaster_CompositeTransparentIdentity(t *testing.T) {
	assert := assert.New(t)

	src := inkedImage(50, 50, image.Rect(10, 10, 20, 20))
	for _, bg := range []string{Transparent, ""} {
		res, err := CompositeBackground(src, bg)
		assert.NoError(err)
		assert.Same(src, res)
	}
}

func TestRaster_CompositeBackground(t *testing.T) {
	assert := assert.New(t)

	src := inkedImage(50, 50, image.Rect(10, 10, 20, 20))
	src.SetNRGBA(30, 30, color.NRGBA{R: 0xff, A: 0x80})

	res, err := CompositeBackground(src, "#ffffff")
	require.NoError(t, err)

	out := res.(*image.NRGBA)
	assert.Equal(src.Bounds(), out.Bounds())
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, out.NRGBAAt(0, 0))
	assert.Equal(ink, out.NRGBAAt(15, 15))

	blended := out.NRGBAAt(30, 30)
	assert.Equal(uint8(0xff), blended.A)
	assert.Equal(uint8(0xff), blended.R)
	assert.InDelta(0x7f, int(blended.G), 2)

	// The source keeps its transparency.
	assert.Equal(uint8(0), src.NRGBAAt(0, 0).A)

	_, err = CompositeBackground(src, "#zzzzzz")
	assert.Error(err)
}

func TestRaster_PostProcess(t *testing.T) {
	assert := assert.New(t)

	src := inkedImage(200, 100, image.Rect(60, 40, 100, 60))
	res, err := PostProcess(src, Style{Trim: true, Background: "#000000"})
	require.NoError(t, err)

	// Trimmed first, then filled.
	assert.Equal(image.Rect(0, 0, 80, 60), res.Bounds())
	_, _, _, a := res.At(0, 0).RGBA()
	assert.Equal(uint32(0xffff), a)

	res, err = PostProcess(src, Style{Background: Transparent})
	require.NoError(t, err)
	assert.Same(src, res)
}
