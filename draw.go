package autograph

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// statusHeight is the height of the status bar in dp.
const statusHeight = 28

var (
	padColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	statusColor = color.NRGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	textColor   = color.NRGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
)

// draw lays out the drawing area above the status bar.
func (p *Pad) draw(gtx C) {
	key.InputOp{Tag: p, Keys: shortcuts}.Add(gtx.Ops)
	key.FocusOp{Tag: p}.Add(gtx.Ops)

	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, p.drawCanvas),
		layout.Rigid(p.drawStatus),
	)
}

// drawCanvas resizes the session to the available area, routes the pointer
// events to it and paints the displayed image.
func (p *Pad) drawCanvas(gtx C) D {
	size := surfaceSize(gtx)
	if err := p.session.Resize(size.X, size.Y); err != nil {
		p.status = err.Error()
	}
	p.handlePointer(gtx)

	rect := image.Rectangle{Max: size}
	defer clip.Rect(rect).Push(gtx.Ops).Pop()

	paint.ColorOp{Color: padColor}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	pointer.InputOp{
		Tag:   p.session,
		Grab:  p.grab,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)
	pointer.CursorCrosshair.Add(gtx.Ops)

	paint.NewImageOp(p.session.Display()).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	return D{Size: size}
}

// drawStatus shows the active tool, the history state and the last message.
func (p *Pad) drawStatus(gtx C) D {
	height := int(statusHeight * gtx.Metric.PxPerDp)
	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	defer clip.Rect(rect).Push(gtx.Ops).Pop()

	paint.ColorOp{Color: statusColor}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	st := p.session.Style()
	txt := fmt.Sprintf("%s %s · width %v · undo %s · redo %s",
		st.Tool, st.Color, st.BaseWidth, yesNo(p.session.CanUndo()), yesNo(p.session.CanRedo()),
	)
	if p.status != "" {
		txt += " · " + p.status
	}

	gtx.Constraints = layout.Exact(rect.Max)
	layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx C) D {
		lbl := material.Label(p.theme, unit.Sp(13), txt)
		lbl.Color = textColor
		return lbl.Layout(gtx)
	})
	return D{Size: rect.Max}
}

func yesNo(ok bool) string {
	if ok {
		return "on"
	}
	return "off"
}
