package autograph

// History is a linear undo/redo stack of completed strokes. The strokes
// below the cursor are visible, the ones at and above it can be redone.
type History struct {
	strokes []Stroke
	cursor  int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append discards the redo tail and adds the stroke on top of the history.
func (h *History) Append(s Stroke) {
	h.strokes = append(h.strokes[:h.cursor], s.Clone())
	h.cursor = len(h.strokes)
}

// Undo hides the most recent visible stroke. It reports false if there was nothing to undo.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo restores the next stroke of the redo tail. It reports false if there was nothing to redo.
func (h *History) Redo() bool {
	if h.cursor == len(h.strokes) {
		return false
	}
	h.cursor++
	return true
}

// Clear drops every stroke.
func (h *History) Clear() {
	h.strokes = nil
	h.cursor = 0
}

// Visible returns a copy of the visible strokes in drawing order.
func (h *History) Visible() []Stroke {
	return cloneStrokes(h.strokes[:h.cursor])
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.strokes) }
func (h *History) Len() int      { return len(h.strokes) }
func (h *History) Cursor() int   { return h.cursor }
