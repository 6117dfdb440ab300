package autograph

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/autograph/utils"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// GuideLabel is the hint printed under the signing baseline.
const GuideLabel = "Sign here"

var guideColor = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}

var (
	labelFont    *truetype.Font
	labelFontErr error
	parseFont    sync.Once
)

// Guide is the signing baseline drawn on its own layer. It is shown under
// the ink on screen and never becomes part of an exported artifact.
type Guide struct {
	layer *image.NRGBA
}

// NewGuide renders the guide layer for a surface of the given size.
func NewGuide(width, height int) (*Guide, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSurface
	}
	dc := gg.NewContext(width, height)

	w, h := float64(width), float64(height)
	x0, x1 := w*0.08, w*0.92
	y := h * 0.72

	dc.SetColor(guideColor)
	dc.SetLineWidth(1.5)
	dc.SetLineCapRound()
	dc.DrawLine(x0, y, x1, y)
	dc.Stroke()

	// End markers.
	marker := utils.Clamp(h*0.04, 4, 10)
	dc.DrawLine(x0, y-marker, x0, y+marker)
	dc.DrawLine(x1, y-marker, x1, y+marker)
	dc.Stroke()

	// Cross above the start of the line.
	cx, cy, cs := x0+marker*1.5, y-marker*2, marker*0.8
	dc.DrawLine(cx-cs, cy-cs, cx+cs, cy+cs)
	dc.DrawLine(cx-cs, cy+cs, cx+cs, cy-cs)
	dc.Stroke()

	face, err := labelFace(utils.Clamp(h*0.05, 10, 16))
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.DrawStringAnchored(GuideLabel, w/2, y+marker*2.5, 0.5, 0.5)

	return &Guide{layer: imaging.Clone(dc.Image())}, nil
}

// Layer returns the rendered guide.
func (g *Guide) Layer() *image.NRGBA {
	return g.layer
}

// Compose places the ink over the guide layer and returns the result as a new image.
func (g *Guide) Compose(ink image.Image) *image.NRGBA {
	return imaging.Overlay(g.layer, ink, image.Point{}, 1.0)
}

func labelFace(size float64) (font.Face, error) {
	parseFont.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
	})
	if labelFontErr != nil {
		return nil, labelFontErr
	}
	return truetype.NewFace(labelFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
