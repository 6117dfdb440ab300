package autograph

import (
	"io"

	"github.com/esimov/autograph/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// ToPDF writes a single page PDF document of the given size (1px = 1pt)
// holding the strokes as vector paths. The same strokes as in the SVG
// exports are included.
func ToPDF(w io.Writer, strokes []Stroke, width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSurface
	}
	// The portrait orientation keeps the custom page size as given.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, s := range strokes {
		if !exportable(s) {
			continue
		}
		c, err := utils.HexToRGBA(s.Color)
		if err != nil {
			return errors.Wrapf(err, "stroke %s", s.ID)
		}
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetAlpha(float64(c.A)/255, "Normal")
		pdf.SetLineWidth(s.BaseWidth)

		for _, op := range StrokeOps(s, true) {
			switch op.Kind {
			case OpLine:
				pdf.Line(op.P0.X, op.P0.Y, op.P1.X, op.P1.Y)
			case OpQuad:
				pdf.Curve(op.P0.X, op.P0.Y, op.C.X, op.C.Y, op.P1.X, op.P1.Y, "D")
			}
		}
	}
	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "could not write the pdf document")
	}
	return nil
}
