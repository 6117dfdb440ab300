package autograph

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/atotto/clipboard"
	"github.com/esimov/autograph/utils"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	maxScreenX = 1366
	maxScreenY = 768
)

// shortcuts lists the keys handled by the drawing pad.
const shortcuts = key.Set("Short-Z|Short-Y|Short-Shift-Z|⌫|⌦|⎋|E|P|G|S|V|A|F|K")

// Pad is the drawing pad window. It feeds the pointer events to the
// session and shows the guide and the ink.
type Pad struct {
	cfg struct {
		window struct {
			w     float32
			h     float32
			title string
		}
		outDir string
	}
	session *Session
	theme   *material.Theme
	logger  *log.Logger

	status  string
	grab    bool
	saved   chan string
	started time.Time
}

// NewPad creates the drawing pad. Saved exports go to outDir.
func NewPad(cfg Config, outDir string, recent *RecentStore, logger *log.Logger) (*Pad, error) {
	s, err := NewSession(cfg.Width, cfg.Height, cfg.Style(), logger)
	if err != nil {
		return nil, err
	}
	s.Recent = recent

	p := &Pad{
		session: s,
		theme:   material.NewTheme(gofont.Collection()),
		logger:  logger,
		saved:   make(chan string, 1),
		started: time.Now(),
	}
	p.cfg.outDir = outDir
	p.initWindow(cfg.Width, cfg.Height)

	// The canvas grabs the pointer for as long as a stroke is captured.
	s.Sampler().OnCapture = func(captured bool) {
		p.grab = captured
	}

	return p, nil
}

// initWindow computes the window size, keeping the aspect ratio when the
// pad is larger than the screen.
func (p *Pad) initWindow(w, h int) {
	ww, wh := float32(w), float32(h)
	r := getRatio(ww, wh)
	p.cfg.window.w, p.cfg.window.h = ww*r, wh*r+statusHeight
	p.cfg.window.title = "Autograph"
}

// Session returns the authoring session behind the pad.
func (p *Pad) Session() *Session {
	return p.session
}

// Run is the core method of the Gio GUI application. It returns when the window is closed.
func (p *Pad) Run() error {
	w := app.NewWindow(
		app.Title(p.cfg.window.title),
		app.Size(unit.Dp(p.cfg.window.w), unit.Dp(p.cfg.window.h)),
	)
	p.session.Invalidate = w.Invalidate

	var ops op.Ops
	for {
		select {
		case e := <-w.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, e)
				if p.handleKeys(gtx, w) {
					continue
				}
				p.draw(gtx)
				e.Frame(gtx.Ops)
			case system.DestroyEvent:
				if p.logger != nil {
					p.logger.Printf("%s %s",
						utils.DecorateText("⚡ AUTOGRAPH", utils.StatusMessage),
						utils.DecorateText("⇢ pad closed after "+utils.FormatTime(time.Since(p.started)), utils.DefaultMessage),
					)
				}
				return e.Err
			}
		case msg := <-p.saved:
			p.status = msg
			w.Invalidate()
		}
	}
}

// handleKeys processes the keyboard shortcuts. It reports true when the window was closed.
func (p *Pad) handleKeys(gtx C, w *app.Window) bool {
	for _, ev := range gtx.Events(p) {
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		short := e.Modifiers.Contain(key.ModShortcut)

		switch {
		case e.Name == key.NameEscape:
			w.Perform(system.ActionClose)
			return true
		case short && e.Name == "Z" && e.Modifiers.Contain(key.ModShift), short && e.Name == "Y":
			p.session.Redo()
		case short && e.Name == "Z":
			p.session.Undo()
		case e.Name == key.NameDeleteBackward || e.Name == key.NameDeleteForward:
			p.session.Clear()
		case e.Name == "E":
			p.session.SetTool(Eraser)
		case e.Name == "P":
			p.session.SetTool(Pen)
		case e.Name == "G":
			st := p.session.Style()
			st.Guide = !st.Guide
			p.session.SetStyle(st)
		case e.Name == "S":
			p.save(RasterPNG)
		case e.Name == "V":
			p.save(StaticSVG)
		case e.Name == "A":
			p.save(AnimatedSVG)
		case e.Name == "F":
			p.save(VectorPDF)
		case e.Name == "K":
			p.copySVG()
		}
	}
	return false
}

// handlePointer translates the Gio pointer events into session events.
func (p *Pad) handlePointer(gtx C) {
	for _, ev := range gtx.Events(p.session) {
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pe := PointerEvent{
			X:    float64(e.Position.X),
			Y:    float64(e.Position.Y),
			Time: float64(e.Time) / float64(time.Millisecond),
		}
		switch e.Type {
		case pointer.Press:
			pe.Kind = Down
		case pointer.Drag:
			pe.Kind = Move
		case pointer.Release:
			pe.Kind = Up
		case pointer.Leave:
			pe.Kind = Leave
		case pointer.Cancel:
			pe.Kind = Cancel
		default:
			continue
		}
		p.session.HandlePointer(pe)
	}
}

// save exports the artifact in the background into the output directory.
func (p *Pad) save(kind ExportKind) {
	name := fmt.Sprintf("signature-%s%s", time.Now().Format("20060102-150405"), kind.Ext())
	path := filepath.Join(p.cfg.outDir, name)

	err := p.session.ExportAsync(kind, func(data []byte) error {
		return os.WriteFile(path, data, 0o644)
	}, func(err error) {
		msg := "saved " + path
		if err != nil {
			msg = err.Error()
		}
		select {
		case p.saved <- msg:
		default:
		}
	})
	if err != nil {
		p.status = err.Error()
		return
	}
	p.status = fmt.Sprintf("saving %s...", kind)
	if p.logger != nil {
		p.logger.Printf("%s %s",
			utils.DecorateText("⚡ AUTOGRAPH", utils.StatusMessage),
			utils.DecorateText("⇢ exporting "+path, utils.DefaultMessage),
		)
	}
}

// copySVG puts the static SVG of the signature on the system clipboard.
func (p *Pad) copySVG() {
	svg, err := p.session.ExportStaticSVG()
	if err != nil {
		p.status = err.Error()
		return
	}
	if err := clipboard.WriteAll(svg); err != nil {
		p.status = "clipboard unavailable: " + err.Error()
		return
	}
	p.status = "SVG copied to the clipboard"
}

// surfaceSize returns the pixel size of the drawing area.
func surfaceSize(gtx C) image.Point {
	size := gtx.Constraints.Max
	if size.X < 1 {
		size.X = 1
	}
	if size.Y < 1 {
		size.Y = 1
	}
	return size
}

// getRatio returns the scale factor fitting the pad on the screen.
func getRatio(w, h float32) float32 {
	var r float32 = 1
	if w > maxScreenX || h > maxScreenY {
		wr := maxScreenX / w // width ratio
		hr := maxScreenY / h // height ratio

		r = utils.Min(wr, hr)
	}
	return r
}
