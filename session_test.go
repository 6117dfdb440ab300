package autograph

import (
	"bytes"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	style := DefaultStyle()
	style.Guide = false
	style.Trim = false
	style.BaseWidth = 6

	s, err := NewSession(surfaceWidth, surfaceHeight, style, nil)
	require.NoError(t, err)
	return s
}

// drawStroke feeds a complete gesture to the session.
func drawStroke(s *Session, pts ...Sample) {
	for i, p := range pts {
		kind := Move
		if i == 0 {
			kind = Down
		}
		s.HandlePointer(PointerEvent{Kind: kind, X: p.X, Y: p.Y, Pressure: p.Pressure, Time: p.Time})
	}
	s.HandlePointer(PointerEvent{Kind: Up, Time: pts[len(pts)-1].Time})
}

func snapshot(s *Session) *image.NRGBA {
	return imaging.Clone(s.Display())
}

func TestSession_InvalidSurface(t *testing.T) {
	_, err := NewSession(0, 100, DefaultStyle(), nil)
	assert.ErrorIs(t, err, ErrInvalidSurface)
}

// Stroke A is crossed by the eraser stroke B.
func TestSession_EraserScenario(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 50, Time: 1}, Sample{X: 190, Y: 50, Time: 181})
	s.SetTool(Eraser)
	drawStroke(s, Sample{X: 100, Y: 10, Time: 300}, Sample{X: 100, Y: 90, Time: 380})

	svg, err := s.ExportStaticSVG()
	require.NoError(t, err)
	assert.Equal(1, strings.Count(svg, "<path"))

	uri, err := s.ExportPNGDataURI()
	require.NoError(t, err)
	img, err := DecodePNGDataURI(uri)
	require.NoError(t, err)

	alpha := func(x, y int) uint32 {
		_, _, _, a := img.At(x, y).RGBA()
		return a
	}
	assert.Equal(uint32(0), alpha(100, 50), "the eraser leaves a gap")
	assert.Equal(uint32(0xffff), alpha(40, 50))
	assert.Equal(uint32(0xffff), alpha(160, 50))
}

func TestSession_UndoRedoPixelIdentity(t *testing.T) {
	assert := assert.New(t)

	var invalidations int
	s := newTestSession(t)
	s.Invalidate = func() { invalidations++ }

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 40, Time: 20}, Sample{X: 120, Y: 20, Time: 40})
	drawStroke(s, Sample{X: 20, Y: 80, Time: 100}, Sample{X: 180, Y: 70, Time: 160})
	assert.Positive(invalidations)
	assert.False(s.Frame(), "incremental painting leaves nothing to redraw")

	before := snapshot(s)
	strokes := s.Strokes()

	assert.True(s.CanUndo())
	assert.True(s.Undo())
	assert.True(s.Frame())
	assert.NotEqual(before.Pix, snapshot(s).Pix)
	assert.Len(s.Strokes(), 1)

	assert.True(s.CanRedo())
	assert.True(s.Redo())
	assert.True(s.Frame())
	assert.Equal(before.Pix, snapshot(s).Pix)
	assert.Equal(strokes, s.Strokes())
	assert.False(s.Redo())
}

func TestSession_NewStrokeDiscardsRedo(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 40, Time: 20})
	drawStroke(s, Sample{X: 20, Y: 80, Time: 100}, Sample{X: 180, Y: 70, Time: 160})
	s.Undo()
	s.Undo()
	drawStroke(s, Sample{X: 30, Y: 30, Time: 200}, Sample{X: 40, Y: 60, Time: 220})

	assert.False(s.CanRedo())
	assert.False(s.Redo())
	assert.Len(s.Strokes(), 1)
}

func TestSession_IncrementalMatchesFullRedraw(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 40, Time: 20}, Sample{X: 120, Y: 20, Time: 40}, Sample{X: 150, Y: 90, Time: 45})
	s.SetTool(Eraser)
	drawStroke(s, Sample{X: 50, Y: 0, Time: 100}, Sample{X: 70, Y: 100, Time: 130})
	s.SetTool(Pen)
	drawStroke(s, Sample{X: 5, Y: 95, Time: 200})

	incremental := snapshot(s)
	s.scheduleRedraw()
	assert.True(s.Frame())
	assert.Equal(incremental.Pix, snapshot(s).Pix)
}

func TestSession_Clear(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 40, Time: 20})
	s.HandlePointer(PointerEvent{Kind: Down, X: 100, Y: 50, Time: 50})
	s.Clear()

	assert.Equal(Idle, s.Sampler().State())
	assert.Empty(s.Strokes())
	assert.False(s.CanUndo())

	// The release of the aborted stroke is a stray event.
	s.HandlePointer(PointerEvent{Kind: Up, Time: 60})
	assert.Empty(s.Strokes())

	_, ok := InkBounds(s.Display())
	assert.False(ok)
}

func TestSession_Resize(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 40, Time: 20})
	before := snapshot(s)

	assert.NoError(s.Resize(surfaceWidth, surfaceHeight))
	assert.False(s.Frame())
	assert.Equal(before.Pix, snapshot(s).Pix)

	assert.NoError(s.Resize(300, 200))
	assert.True(s.Frame())
	w, h := s.Size()
	assert.Equal(300, w)
	assert.Equal(200, h)
	bbox, ok := InkBounds(s.Display())
	assert.True(ok)
	assert.Less(bbox.Max.X, 100)

	assert.ErrorIs(s.Resize(0, 10), ErrInvalidSurface)
}

func TestSession_ResizeDuringCapture(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	s.HandlePointer(PointerEvent{Kind: Down, X: 10, Y: 10, Time: 1})
	s.HandlePointer(PointerEvent{Kind: Move, X: 30, Y: 20, Time: 10})
	assert.NoError(s.Resize(250, 120))
	s.HandlePointer(PointerEvent{Kind: Move, X: 60, Y: 40, Time: 20})
	s.HandlePointer(PointerEvent{Kind: Up, Time: 30})

	live := snapshot(s)
	full, err := RenderStrokes(s.Strokes(), 250, 120)
	require.NoError(t, err)
	assert.Equal(full.Pix, live.Pix)
}

func TestSession_GuideIsNotExported(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	st := s.Style()
	st.Guide = true
	s.SetStyle(st)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})

	shown, ok := InkBounds(s.Display())
	assert.True(ok)
	exported, err := s.ExportRaster()
	require.NoError(t, err)
	inked, ok := InkBounds(exported)
	assert.True(ok)

	// The guide spans most of the width, the ink does not.
	assert.Greater(shown.Dx(), inked.Dx())
	assert.Less(inked.Max.Y, surfaceHeight/2)
}

func TestSession_NothingToExport(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	_, err := s.ExportStaticSVG()
	assert.ErrorIs(err, ErrNothingToExport)
	_, err = s.ExportAnimatedSVG()
	assert.ErrorIs(err, ErrNothingToExport)
	_, err = s.ExportRaster()
	assert.ErrorIs(err, ErrNothingToExport)
	_, err = s.ExportPNGDataURI()
	assert.ErrorIs(err, ErrNothingToExport)
	_, err = s.Export(VectorPDF)
	assert.ErrorIs(err, ErrNothingToExport)

	// Undone strokes are not visible.
	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})
	s.Undo()
	_, err = s.ExportStaticSVG()
	assert.ErrorIs(err, ErrNothingToExport)
}

func TestSession_ExportGuard(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)
	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})

	var (
		release = make(chan struct{})
		wg      sync.WaitGroup
		saved   bytes.Buffer
	)
	wg.Add(1)
	err := s.ExportAsync(StaticSVG, func(data []byte) error {
		<-release
		saved.Write(data)
		return nil
	}, func(err error) {
		assert.NoError(err)
		wg.Done()
	})
	require.NoError(t, err)

	// The same artifact kind is refused while in flight, other kinds are not.
	_, err = s.ExportStaticSVG()
	assert.ErrorIs(err, ErrExportInFlight)
	assert.ErrorIs(s.ExportAsync(StaticSVG, func([]byte) error { return nil }, nil), ErrExportInFlight)
	_, err = s.ExportAnimatedSVG()
	assert.NoError(err)

	close(release)
	wg.Wait()

	assert.Contains(saved.String(), "<path")
	_, err = s.ExportStaticSVG()
	assert.NoError(err)
}

func TestSession_ExportKinds(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)
	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})

	data, err := s.Export(RasterPNG)
	require.NoError(t, err)
	assert.True(bytes.HasPrefix(data, []byte("\x89PNG")))

	data, err = s.Export(VectorPDF)
	require.NoError(t, err)
	assert.True(bytes.HasPrefix(data, []byte("%PDF-")))

	data, err = s.Export(AnimatedSVG)
	require.NoError(t, err)
	assert.Contains(string(data), "@keyframes")
}

func TestSession_RecentTray(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)
	s.Recent = NewRecentStore("", 2)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})
	for i := 0; i < 3; i++ {
		_, err := s.ExportPNGDataURI()
		require.NoError(t, err)
	}
	items := s.Recent.Items()
	assert.Len(items, 2)
	assert.True(strings.HasPrefix(items[0].DataURI, "data:image/png;base64,"))
}

func TestSession_RecordingRoundTrip(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})
	drawStroke(s, Sample{X: 90, Y: 10, Time: 40})
	before := snapshot(s)

	var buf bytes.Buffer
	require.NoError(t, WriteRecording(&buf, s.Recording()))
	rec, err := ReadRecording(&buf)
	require.NoError(t, err)

	other := newTestSession(t)
	other.Load(rec)
	assert.Equal(s.Strokes(), other.Strokes())
	assert.Equal(before.Pix, snapshot(other).Pix)
}

func TestSession_UnknownExportKind(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)
	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})

	for _, kind := range []ExportKind{ExportKind(7), ExportKind(-1)} {
		_, err := s.Export(kind)
		assert.ErrorIs(err, ErrUnsupportedFormat)
		assert.ErrorIs(s.ExportAsync(kind, func([]byte) error { return nil }, nil), ErrUnsupportedFormat)
	}
	_, err := s.Export(StaticSVG)
	assert.NoError(err)
}

func TestSession_CaptureHook(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	var captures []bool
	s.Sampler().OnCapture = func(captured bool) {
		captures = append(captures, captured)
	}

	drawStroke(s, Sample{X: 10, Y: 10, Time: 1}, Sample{X: 60, Y: 20, Time: 20})
	assert.Equal([]bool{true, false}, captures)

	// Clearing in the middle of a stroke releases the capture too.
	s.HandlePointer(PointerEvent{Kind: Down, X: 5, Y: 5, Time: 30})
	s.HandlePointer(PointerEvent{Kind: Move, X: 15, Y: 5, Time: 40})
	s.Clear()
	assert.Equal([]bool{true, false, true, false}, captures)
	assert.Equal(Idle, s.Sampler().State())
	assert.Equal(0, s.history.Len())
}
