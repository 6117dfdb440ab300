package autograph

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/autograph/utils"
)

// Transparent is the background value which leaves the exported raster untouched.
const Transparent = "transparent"

// TrimPadding is the transparent margin kept around the inked area by Trim.
const TrimPadding = 20

// InkBounds returns the bounding box of every pixel with non-zero alpha.
// The second value is false when the image holds no ink at all.
func InkBounds(src image.Image) (image.Rectangle, bool) {
	b := src.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1

	alphaAt := func(x, y int) uint32 {
		_, _, _, a := src.At(x, y).RGBA()
		return a
	}
	if img, ok := src.(*image.NRGBA); ok {
		alphaAt = func(x, y int) uint32 {
			return uint32(img.Pix[img.PixOffset(x, y)+3])
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if alphaAt(x, y) == 0 {
				continue
			}
			minX, maxX = utils.Min(minX, x), utils.Max(maxX, x)
			minY, maxY = utils.Min(minY, y), utils.Max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Trim crops the image to its inked area grown by TrimPadding on every edge.
// The padded region is placed at the origin of a new image; padding falling
// outside of src stays transparent. An image without ink is returned as is.
func Trim(src image.Image) image.Image {
	bbox, ok := InkBounds(src)
	if !ok {
		return src
	}
	padded := bbox.Inset(-TrimPadding)

	dst := imaging.New(padded.Dx(), padded.Dy(), color.NRGBA{})
	return imaging.Paste(dst, imaging.Crop(src, bbox), bbox.Min.Sub(padded.Min))
}

// CompositeBackground lays src over an opaque background of the given color.
// The transparent (or empty) background returns src unchanged.
func CompositeBackground(src image.Image, bg string) (image.Image, error) {
	if bg == "" || bg == Transparent {
		return src, nil
	}
	c, err := utils.HexToRGBA(bg)
	if err != nil {
		return nil, err
	}
	c.A = 0xff

	b := src.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), c)
	return imaging.Overlay(dst, src, image.Point{}, 1.0), nil
}

// PostProcess applies the export pipeline: optional trim, then the background.
func PostProcess(src image.Image, style Style) (image.Image, error) {
	img := src
	if style.Trim {
		img = Trim(img)
	}
	return CompositeBackground(img, style.Background)
}
