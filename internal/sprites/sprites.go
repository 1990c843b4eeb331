// Package sprites loads the pet's ASCII art and decides which animation
// set matches the pet's current memory.
package sprites

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sprites.yaml
var defaultSheet []byte

// Idle set names.
const (
	Happy     = "happy"
	Neutral   = "neutral"
	Sad       = "sad"
	Forgotten = "forgotten"
)

// Frame is one drawing, stored line by line.
type Frame []string

// Text joins the frame into a printable block.
func (f Frame) Text() string {
	return strings.Join(f, "\n")
}

// Sheet is a parsed sprite file.
type Sheet struct {
	Idle    map[string][]Frame `yaml:"idle"`
	Actions map[string][]Frame `yaml:"actions"`
}

// Default parses the embedded sheet.
func Default() (*Sheet, error) {
	return Parse(defaultSheet)
}

// Load reads a sheet from path, falling back to the embedded sheet when the
// file does not exist.
func Load(path string) (*Sheet, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default()
		}
		return nil, fmt.Errorf("sprites: read %s: %w", path, err)
	}
	sheet, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sprites: %s: %w", path, err)
	}
	return sheet, nil
}

// Parse decodes and validates a YAML sprite sheet.
func Parse(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parse sprite sheet: %w", err)
	}
	if err := sheet.validate(); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (s *Sheet) validate() error {
	for _, name := range []string{Happy, Neutral, Sad, Forgotten} {
		if len(s.Idle[name]) == 0 {
			return fmt.Errorf("idle set %q has no frames", name)
		}
	}
	for name, frames := range s.Actions {
		if len(frames) == 0 {
			return fmt.Errorf("action set %q has no frames", name)
		}
	}
	return nil
}

// Mood picks the idle set. Heavy corruption wins over a strong bond: a pet
// that has lost its memories looks lost no matter how close it was.
func Mood(bond, corruption int) string {
	switch {
	case corruption > 80:
		return Forgotten
	case bond > 70:
		return Happy
	case bond > 40:
		return Neutral
	default:
		return Sad
	}
}

// IdleFrames returns the idle set for the given levels.
func (s *Sheet) IdleFrames(bond, corruption int) []Frame {
	return s.Idle[Mood(bond, corruption)]
}

// ActionFrames returns the animation for action, if the sheet has one.
func (s *Sheet) ActionFrames(action string) ([]Frame, bool) {
	frames, ok := s.Actions[action]
	return frames, ok && len(frames) > 0
}

// Pick returns frames[index] wrapping modulo the set length.
func Pick(frames []Frame, index int) Frame {
	if len(frames) == 0 {
		return nil
	}
	if index < 0 {
		index = -index
	}
	return frames[index%len(frames)]
}
