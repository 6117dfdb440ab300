package autograph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Recording is a serialized signature: the surface size and its strokes.
type Recording struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Strokes []Stroke `json:"strokes"`
}

// Validate checks that the recording can be rendered.
func (r *Recording) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidSurface
	}
	for i, s := range r.Strokes {
		if len(s.Points) == 0 {
			return fmt.Errorf("stroke %d has no points", i)
		}
		if s.BaseWidth < 0 {
			return fmt.Errorf("stroke %d has a negative width", i)
		}
	}
	return nil
}

// ReadRecording decodes and validates a JSON recording.
func ReadRecording(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "could not decode the recording")
	}
	if err := rec.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid recording")
	}
	return &rec, nil
}

// WriteRecording encodes the recording as indented JSON.
func WriteRecording(w io.Writer, rec *Recording) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// LoadRecording reads a recording file.
func LoadRecording(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the recording")
	}
	defer f.Close()

	return ReadRecording(f)
}

// SaveRecording writes the recording to a file.
func SaveRecording(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create the recording")
	}
	defer f.Close()

	return WriteRecording(f, rec)
}
