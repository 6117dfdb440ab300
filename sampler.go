package autograph

import "time"

// EventKind identifies a pointer event.
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
	Leave
	Cancel
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	case Cancel:
		return "cancel"
	}
	return "unknown"
}

// PointerEvent is a raw pointer reading with coordinates relative to the
// surface origin. A zero Time means the event carries no timestamp.
type PointerEvent struct {
	Kind     EventKind
	X, Y     float64
	Pressure float64
	Time     float64
}

// CaptureState is the state of the sampler's capture state machine.
type CaptureState int

const (
	Idle CaptureState = iota
	Capturing
)

// Status reports what a handled event did to the current stroke.
type Status int

const (
	Ignored Status = iota
	Started
	Extended
	Finished
)

// Sampler converts pointer events into strokes. While a stroke is being
// captured the sampler holds the pointer capture; it is released on every
// path ending the stroke.
type Sampler struct {
	// Now returns the clock used for events without a timestamp, in milliseconds.
	Now func() float64
	// OnCapture is notified whenever the pointer capture is acquired or released.
	OnCapture func(captured bool)

	stroke *Stroke
}

// NewSampler creates an idle sampler using the wall clock.
func NewSampler() *Sampler {
	return &Sampler{
		Now: func() float64 {
			return float64(time.Now().UnixNano()) / float64(time.Millisecond)
		},
	}
}

// State returns the capture state.
func (s *Sampler) State() CaptureState {
	if s.stroke != nil {
		return Capturing
	}
	return Idle
}

// Active returns the stroke being captured, or nil when idle.
// The returned stroke must not be modified.
func (s *Sampler) Active() *Stroke {
	return s.stroke
}

// Handle feeds a pointer event to the state machine. The returned stroke is
// the in-progress stroke for Started and Extended, and the completed one,
// owned by the caller, for Finished.
func (s *Sampler) Handle(ev PointerEvent, style Style) (Stroke, Status) {
	switch ev.Kind {
	case Down:
		if s.stroke != nil {
			// A second press without release closes the stroke first.
			return s.finish(), Finished
		}
		s.stroke = newStroke(style, s.sample(ev))
		s.capture(true)
		return *s.stroke, Started
	case Move:
		if s.stroke == nil {
			return Stroke{}, Ignored
		}
		s.stroke.Points = append(s.stroke.Points, s.sample(ev))
		return *s.stroke, Extended
	case Up, Leave, Cancel:
		if s.stroke == nil {
			return Stroke{}, Ignored
		}
		return s.finish(), Finished
	}
	return Stroke{}, Ignored
}

// Abort drops the stroke being captured and releases the capture.
func (s *Sampler) Abort() {
	if s.stroke == nil {
		return
	}
	s.stroke = nil
	s.capture(false)
}

func (s *Sampler) finish() Stroke {
	defer s.capture(false)

	st := *s.stroke
	s.stroke = nil
	return st
}

func (s *Sampler) capture(captured bool) {
	if s.OnCapture != nil {
		s.OnCapture(captured)
	}
}

// sample normalizes the event's pressure and time into a Sample.
func (s *Sampler) sample(ev PointerEvent) Sample {
	t := ev.Time
	if t == 0 && s.Now != nil {
		t = s.Now()
	}
	if s.stroke != nil {
		if last := s.stroke.Points[len(s.stroke.Points)-1]; t < last.Time {
			t = last.Time
		}
	}
	return Sample{
		X:        ev.X,
		Y:        ev.Y,
		Pressure: NormalizePressure(ev.Pressure),
		Time:     t,
	}
}

// NormalizePressure maps raw pressure readings into (0, 1]. Missing readings
// and the ambiguous 0.5 default reported by devices without pressure support
// become the neutral pressure.
func NormalizePressure(p float64) float64 {
	switch {
	case p <= 0 || p == NeutralPressure:
		return NeutralPressure
	case p > 1:
		return 1
	}
	return p
}
