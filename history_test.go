package autograph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strokeAt(x float64) Stroke {
	return Stroke{
		Color:     "#000000",
		BaseWidth: 3,
		Points: []Sample{
			{X: x, Y: 10, Pressure: NeutralPressure, Time: 1},
			{X: x + 20, Y: 30, Pressure: NeutralPressure, Time: 20},
		},
	}
}

func TestHistory_UndoRedo(t *testing.T) {
	assert := assert.New(t)

	h := NewHistory()
	assert.False(h.CanUndo())
	assert.False(h.CanRedo())
	assert.False(h.Undo())
	assert.False(h.Redo())

	h.Append(strokeAt(0))
	h.Append(strokeAt(50))
	assert.Equal(2, h.Len())
	assert.Equal(2, h.Cursor())

	before := h.Visible()
	assert.True(h.Undo())
	assert.Equal(1, h.Cursor())
	assert.Len(h.Visible(), 1)
	assert.True(h.CanRedo())

	assert.True(h.Redo())
	assert.Equal(2, h.Cursor())
	assert.Equal(before, h.Visible())
	assert.False(h.Redo())
}

func TestHistory_AppendDiscardsRedo(t *testing.T) {
	assert := assert.New(t)

	h := NewHistory()
	h.Append(strokeAt(0))
	h.Append(strokeAt(50))
	h.Append(strokeAt(100))

	assert.True(h.Undo())
	assert.True(h.Undo())
	h.Append(strokeAt(200))

	assert.Equal(2, h.Len())
	assert.False(h.CanRedo())
	assert.False(h.Redo())

	visible := h.Visible()
	assert.Equal(0.0, visible[0].Points[0].X)
	assert.Equal(200.0, visible[1].Points[0].X)
}

func TestHistory_Clear(t *testing.T) {
	assert := assert.New(t)

	h := NewHistory()
	h.Append(strokeAt(0))
	h.Undo()
	h.Clear()

	assert.Equal(0, h.Len())
	assert.Equal(0, h.Cursor())
	assert.False(h.CanUndo())
	assert.False(h.CanRedo())
	assert.Empty(h.Visible())
}

func TestHistory_NoAliasing(t *testing.T) {
	assert := assert.New(t)

	s := strokeAt(0)
	h := NewHistory()
	h.Append(s)

	// Mutating the appended value or a returned copy leaves the history intact.
	s.Points[0].X = 999
	visible := h.Visible()
	visible[0].Points[0].X = 555

	assert.Equal(0.0, h.Visible()[0].Points[0].X)
}
