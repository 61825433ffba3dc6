package replay

import "math"

// Game-space dimensions of the simulation, in game units. The log reports
// positions in this coordinate system; Scale maps it onto a display.
const (
	GameUnitWidth  = 30.0
	GameUnitHeight = 30.0
	PaddleWidth    = 2.0
	PaddleHeight   = 1.0
	BallRadius     = 0.75

	paddle1Y = 0.0
	paddle2Y = GameUnitHeight - PaddleHeight
)

// Default element colors, carried from the platform's web player.
const (
	ColorBackground = "#222"
	ColorDivider    = "rgba(255,255,255,0.2)"
	ColorPaddle1    = "#3498db"
	ColorPaddle2    = "#e74c3c"
	ColorBall       = "#f1c40f"
)

// Scale maps game units to display units on each axis.
type Scale struct {
	X float64
	Y float64
}

// ScaleFor returns the scale that fits the game space into a display of
// the given size.
func ScaleFor(width, height float64) Scale {
	return Scale{X: width / GameUnitWidth, Y: height / GameUnitHeight}
}

// Rect is an axis-aligned rectangle in display units.
type Rect struct {
	X, Y, W, H float64
	Color      string
}

// Circle is a filled circle in display units.
type Circle struct {
	X, Y, R float64
	Color   string
}

// Scene is the fully laid-out picture of one frame. It carries no engine
// state; rendering the same frame at the same scale always yields the
// same scene.
type Scene struct {
	Width      float64
	Height     float64
	Background string
	DividerX   float64

	// Paddles holds up to two paddles; a paddle whose x cell is absent
	// or malformed is omitted entirely.
	Paddles []Rect

	// Ball is nil unless both coordinates are usable numbers.
	Ball *Circle

	// Overlay text. Missing cells render as a placeholder, never an
	// error.
	ScoreBot1 string
	ScoreBot2 string
	Step      string
}

// Render lays out one frame at the given scale. Pure: it reads nothing
// but its arguments and mutates nothing.
func Render(frame Frame, sc Scale) Scene {
	s := Scene{
		Width:      GameUnitWidth * sc.X,
		Height:     GameUnitHeight * sc.Y,
		Background: ColorBackground,
		DividerX:   GameUnitWidth * sc.X / 2,
		ScoreBot1:  frame.ScoreBot1.String(),
		ScoreBot2:  frame.ScoreBot2.String(),
		Step:       frame.Step.String(),
	}

	if frame.Paddle1X.Valid() {
		s.Paddles = append(s.Paddles, Rect{
			X:     frame.Paddle1X.V * sc.X,
			Y:     paddle1Y * sc.Y,
			W:     PaddleWidth * sc.X,
			H:     PaddleHeight * sc.Y,
			Color: ColorPaddle1,
		})
	}
	if frame.Paddle2X.Valid() {
		s.Paddles = append(s.Paddles, Rect{
			X:     frame.Paddle2X.V * sc.X,
			Y:     paddle2Y * sc.Y,
			W:     PaddleWidth * sc.X,
			H:     PaddleHeight * sc.Y,
			Color: ColorPaddle2,
		})
	}

	if frame.BallX.Valid() && frame.BallY.Valid() {
		s.Ball = &Circle{
			X:     (frame.BallX.V + 0.5) * sc.X,
			Y:     (frame.BallY.V + 0.5) * sc.Y,
			R:     BallRadius * math.Min(sc.X, sc.Y),
			Color: ColorBall,
		}
	}

	return s
}
