// Package replay parses recorded match logs and plays them back
// frame-by-frame on a cancellable timer loop.
package replay

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrLogUnavailable is returned when a match has no game log to load.
var ErrLogUnavailable = errors.New("game log unavailable")

// ErrEmptyLog is returned when the log text has no data rows.
var ErrEmptyLog = errors.New("game log is empty or has no data rows")

// Numeric column names of the game log format. Every other column keeps
// its raw textual form.
const (
	FieldStep      = "step"
	FieldBallX     = "ball_x"
	FieldBallY     = "ball_y"
	FieldPaddle1X  = "paddle1_x"
	FieldPaddle2X  = "paddle2_x"
	FieldScoreBot1 = "score_bot1"
	FieldScoreBot2 = "score_bot2"
)

// Value is one numeric cell of a frame. Empty cells in the log are absent
// (Set is false); malformed numeric text yields Set true with a NaN value,
// so one bad cell never fails the whole parse.
type Value struct {
	Set bool
	V   float64
}

// Valid reports whether the cell holds a usable number.
func (v Value) Valid() bool {
	return v.Set && !math.IsNaN(v.V)
}

// String renders the cell for overlays: absent cells become a placeholder,
// matching what the scoreboard shows for truncated rows.
func (v Value) String() string {
	if !v.Set {
		return "--"
	}
	return strconv.FormatFloat(v.V, 'f', -1, 64)
}

// Frame is one parsed row of the log: the simulation state at one step.
type Frame struct {
	Step      Value
	BallX     Value
	BallY     Value
	Paddle1X  Value
	Paddle2X  Value
	ScoreBot1 Value
	ScoreBot2 Value

	// Text holds the non-numeric columns by header name.
	Text map[string]string
}

// Log is an immutable, finite frame sequence in file row order.
type Log struct {
	Headers []string
	Frames  []Frame
}

// Len returns the number of frames.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Frames)
}

func numericField(f *Frame, name string) *Value {
	switch name {
	case FieldStep:
		return &f.Step
	case FieldBallX:
		return &f.BallX
	case FieldBallY:
		return &f.BallY
	case FieldPaddle1X:
		return &f.Paddle1X
	case FieldPaddle2X:
		return &f.Paddle2X
	case FieldScoreBot1:
		return &f.ScoreBot1
	case FieldScoreBot2:
		return &f.ScoreBot2
	}
	return nil
}

// ParseLog parses comma-delimited log text: first line is the header,
// each further line one frame. Cells are zipped positionally against the
// header; rows shorter than the header leave the trailing cells absent.
func ParseLog(text string) (*Log, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if len(lines) < 2 {
		return nil, ErrEmptyLog
	}

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	frames := make([]Frame, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		frame := Frame{Text: make(map[string]string)}
		for i, header := range headers {
			var cell string
			if i < len(values) {
				cell = strings.TrimSpace(values[i])
			}
			num := numericField(&frame, header)
			if num == nil {
				frame.Text[header] = cell
				continue
			}
			if cell == "" {
				continue
			}
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				f = math.NaN()
			}
			*num = Value{Set: true, V: f}
		}
		frames = append(frames, frame)
	}

	return &Log{Headers: headers, Frames: frames}, nil
}
