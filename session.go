package autograph

import (
	"bytes"
	"errors"
	"image"
	"log"
	"sync/atomic"

	"github.com/esimov/autograph/utils"
)

var (
	// ErrNothingToExport is returned when exporting a session without visible strokes.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrExportInFlight is returned when an export of the same kind has not completed yet.
	ErrExportInFlight = errors.New("export already in progress")
)

const exportKinds = int(VectorPDF) + 1

// Session is a signature authoring session. It routes pointer events to the
// sampler, paints the in-progress stroke incrementally, records finished
// strokes in the history and serves the exports. All methods except the
// export guard are expected to be called from a single goroutine.
type Session struct {
	// Invalidate is called whenever the displayed content needs a new frame.
	Invalidate func()
	// Recent receives the exported PNG data URIs when set.
	Recent *RecentStore

	style    Style
	history  *History
	sampler  *Sampler
	renderer *Renderer
	guide    *Guide
	logger   *log.Logger

	dirty     bool
	exporting [exportKinds]atomic.Bool
}

// NewSession creates a session with a blank surface of the given size.
// The logger is optional.
func NewSession(width, height int, style Style, logger *log.Logger) (*Session, error) {
	r, err := NewRenderer(width, height)
	if err != nil {
		return nil, err
	}
	g, err := NewGuide(width, height)
	if err != nil {
		return nil, err
	}
	return &Session{
		style:    style,
		history:  NewHistory(),
		sampler:  NewSampler(),
		renderer: r,
		guide:    g,
		logger:   logger,
	}, nil
}

// Sampler returns the input sampler, e.g. to hook the pointer capture.
func (s *Session) Sampler() *Sampler { return s.sampler }

// Style returns the current style.
func (s *Session) Style() Style { return s.style }

// SetStyle changes the style applied to the next strokes and exports.
// The stroke being captured keeps its style.
func (s *Session) SetStyle(st Style) {
	guideChanged := st.Guide != s.style.Guide
	s.style = st
	if guideChanged {
		s.invalidate()
	}
}

// SetTool switches between pen and eraser.
func (s *Session) SetTool(t Tool) {
	s.style.Tool = t
}

// Size returns the surface dimensions.
func (s *Session) Size() (int, int) {
	return s.renderer.Size()
}

// HandlePointer feeds a pointer event to the session.
func (s *Session) HandlePointer(ev PointerEvent) {
	stroke, status := s.sampler.Handle(ev, s.style)
	switch status {
	case Started, Extended:
		if !s.dirty {
			s.renderer.Extend(stroke)
		}
		s.invalidate()
	case Finished:
		if !s.dirty {
			s.renderer.Finish(stroke)
		}
		s.history.Append(stroke)
		s.invalidate()
	}
}

// Undo hides the last visible stroke.
func (s *Session) Undo() bool {
	if !s.history.Undo() {
		return false
	}
	s.scheduleRedraw()
	return true
}

// Redo restores the last undone stroke.
func (s *Session) Redo() bool {
	if !s.history.Redo() {
		return false
	}
	s.scheduleRedraw()
	return true
}

// Clear removes every stroke, including the one being captured.
func (s *Session) Clear() {
	s.sampler.Abort()
	s.history.Clear()
	s.scheduleRedraw()
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Strokes returns copies of the visible strokes.
func (s *Session) Strokes() []Stroke {
	return s.history.Visible()
}

// Resize changes the surface dimensions. The content is redrawn from the
// history at the next frame; resizing to the current size keeps the surface.
func (s *Session) Resize(width, height int) error {
	changed, err := s.renderer.Resize(width, height)
	if err != nil || !changed {
		return err
	}
	if s.guide, err = NewGuide(width, height); err != nil {
		return err
	}
	s.logf("surface resized to %dx%d", width, height)
	s.scheduleRedraw()
	return nil
}

// Frame performs the pending full redraw, if any. It reports whether the surface was repainted.
func (s *Session) Frame() bool {
	if !s.dirty {
		return false
	}
	s.renderer.Redraw(s.history.Visible(), s.sampler.Active())
	s.dirty = false
	return true
}

// Display returns the image shown on screen: the guide, when enabled, under the ink.
func (s *Session) Display() image.Image {
	s.Frame()
	if !s.style.Guide {
		return s.renderer.Surface()
	}
	return s.guide.Compose(s.renderer.Surface())
}

// Recording returns the visible strokes with the surface size.
func (s *Session) Recording() *Recording {
	w, h := s.Size()
	return &Recording{Width: w, Height: h, Strokes: s.Strokes()}
}

// Load replaces the history with the recorded strokes. The surface keeps its size.
func (s *Session) Load(rec *Recording) {
	s.sampler.Abort()
	s.history.Clear()
	for _, st := range rec.Strokes {
		s.history.Append(st)
	}
	s.scheduleRedraw()
}

// ExportRaster returns the post-processed raster of the visible strokes.
func (s *Session) ExportRaster() (image.Image, error) {
	if err := s.acquire(RasterPNG); err != nil {
		return nil, err
	}
	defer s.release(RasterPNG)

	return s.raster()
}

// ExportPNGDataURI returns the exported raster as a PNG data URI and adds it to the recent tray.
func (s *Session) ExportPNGDataURI() (string, error) {
	if err := s.acquire(RasterPNG); err != nil {
		return "", err
	}
	defer s.release(RasterPNG)

	img, err := s.raster()
	if err != nil {
		return "", err
	}
	uri, err := EncodePNGDataURI(img)
	if err != nil {
		return "", err
	}
	s.addRecent(uri)
	return uri, nil
}

// ExportStaticSVG returns the visible strokes as an SVG document.
func (s *Session) ExportStaticSVG() (string, error) {
	data, err := s.Export(StaticSVG)
	return string(data), err
}

// ExportAnimatedSVG returns the visible strokes as a self drawing SVG document.
func (s *Session) ExportAnimatedSVG() (string, error) {
	data, err := s.Export(AnimatedSVG)
	return string(data), err
}

// Export returns the encoded artifact of the given kind.
func (s *Session) Export(kind ExportKind) ([]byte, error) {
	if err := s.acquire(kind); err != nil {
		return nil, err
	}
	defer s.release(kind)

	return s.artifact(kind)
}

// ExportAsync encodes the artifact and hands it to save on a new goroutine.
// Another export of the same kind is refused until save returns.
// The done callback, if any, receives the outcome.
func (s *Session) ExportAsync(kind ExportKind, save func([]byte) error, done func(error)) error {
	if err := s.acquire(kind); err != nil {
		return err
	}
	data, err := s.artifact(kind)
	if err != nil {
		s.release(kind)
		return err
	}
	go func() {
		err := save(data)
		s.release(kind)
		if err != nil {
			s.logf(utils.DecorateText("saving the %s export failed: %v", utils.ErrorMessage), kind, err)
		}
		if done != nil {
			done(err)
		}
	}()
	return nil
}

func (s *Session) artifact(kind ExportKind) ([]byte, error) {
	strokes := s.history.Visible()
	if len(strokes) == 0 {
		return nil, ErrNothingToExport
	}
	w, h := s.Size()

	switch kind {
	case RasterPNG:
		img, err := s.raster()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := EncodeImageExt(&buf, img, ".png"); err != nil {
			return nil, err
		}
		if uri, err := EncodePNGDataURI(img); err == nil {
			s.addRecent(uri)
		}
		return buf.Bytes(), nil
	case StaticSVG:
		return []byte(ToStaticSVG(strokes, w, h)), nil
	case AnimatedSVG:
		return []byte(ToAnimatedSVG(strokes, w, h)), nil
	case VectorPDF:
		var buf bytes.Buffer
		if err := ToPDF(&buf, strokes, w, h); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, ErrUnsupportedFormat
}

// raster renders the visible strokes on a fresh surface and applies the export pipeline.
func (s *Session) raster() (image.Image, error) {
	strokes := s.history.Visible()
	if len(strokes) == 0 {
		return nil, ErrNothingToExport
	}
	w, h := s.Size()
	img, err := RenderStrokes(strokes, w, h)
	if err != nil {
		return nil, err
	}
	return PostProcess(img, s.style)
}

func (s *Session) acquire(kind ExportKind) error {
	if kind < 0 || int(kind) >= exportKinds {
		return ErrUnsupportedFormat
	}
	if !s.exporting[kind].CompareAndSwap(false, true) {
		return ErrExportInFlight
	}
	return nil
}

func (s *Session) release(kind ExportKind) {
	s.exporting[kind].Store(false)
}

func (s *Session) addRecent(uri string) {
	if s.Recent == nil {
		return
	}
	s.Recent.Add(uri)
	if err := s.Recent.Save(); err != nil {
		s.logf(utils.DecorateText("could not save the recent items: %v", utils.ErrorMessage), err)
	}
}

func (s *Session) scheduleRedraw() {
	s.dirty = true
	s.invalidate()
}

func (s *Session) invalidate() {
	if s.Invalidate != nil {
		s.Invalidate()
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
