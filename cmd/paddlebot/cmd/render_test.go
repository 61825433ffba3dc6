package cmd

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorse/paddlebot/replay"
)

func val(v float64) replay.Value {
	return replay.Value{Set: true, V: v}
}

func TestSceneLinesLayout(t *testing.T) {
	frame := replay.Frame{
		Step:      val(7),
		BallX:     val(10),
		BallY:     val(15),
		Paddle1X:  val(5),
		Paddle2X:  val(20),
		ScoreBot1: val(3),
		ScoreBot2: val(2),
	}

	cols, rows := 60, 30
	scene := replay.Render(frame, replay.ScaleFor(float64(cols), float64(rows)))
	lines := sceneLines(scene, cols, rows)

	// Header, top border, one line per row, bottom border.
	require.Len(t, lines, rows+3)
	assert.Contains(t, lines[0], "step 7")
	assert.Contains(t, lines[0], "3 : 2")
	for _, line := range lines[1:] {
		assert.Len(t, line, cols+2)
	}

	// Court rows start at lines[2]; the border column shifts x by one.
	court := lines[2 : 2+rows]

	// Paddle 1 spans two game units at the top, at double width.
	assert.Equal(t, "====", court[0][1+10:1+14])
	// Paddle 2 sits on the bottom row.
	assert.Equal(t, "====", court[rows-1][1+40:1+44])
	// Ball center lands at ((10+0.5)*2, (15+0.5)*1), rounded to (21, 16).
	assert.Equal(t, byte('o'), court[16][1+21])
}

func TestSceneLinesMissingBall(t *testing.T) {
	frame := replay.Frame{
		Step:     val(0),
		BallX:    val(4),
		BallY:    replay.Value{Set: true, V: math.NaN()},
		Paddle1X: val(5),
	}

	cols, rows := 60, 30
	scene := replay.Render(frame, replay.ScaleFor(float64(cols), float64(rows)))
	lines := sceneLines(scene, cols, rows)

	for _, line := range lines {
		assert.NotContains(t, line, "o")
	}
}

func TestSceneLinesPlaceholders(t *testing.T) {
	cols, rows := 30, 30
	scene := replay.Render(replay.Frame{}, replay.ScaleFor(float64(cols), float64(rows)))
	lines := sceneLines(scene, cols, rows)

	assert.Equal(t, "step --    -- : --", lines[0])
	joined := strings.Join(lines[1:], "\n")
	assert.NotContains(t, joined, string(cellPaddle))
	assert.NotContains(t, joined, string(cellBall))
}

func TestSceneLinesRoundsBallToNearestCell(t *testing.T) {
	frame := replay.Frame{
		BallX: val(20.4),
		BallY: val(5),
	}

	// At 1:1 scale the ball center sits at (20.9, 5.5); it belongs to
	// cell (21, 6), not the truncated (20, 5).
	cols, rows := 30, 30
	scene := replay.Render(frame, replay.ScaleFor(float64(cols), float64(rows)))
	lines := sceneLines(scene, cols, rows)
	court := lines[2 : 2+rows]

	assert.Equal(t, byte('o'), court[6][1+21])
	assert.NotEqual(t, byte('o'), court[5][1+20])
}

func TestSceneLinesClampsOutOfRangePositions(t *testing.T) {
	frame := replay.Frame{
		BallX:    val(500),
		BallY:    val(-40),
		Paddle1X: val(-3),
	}

	cols, rows := 30, 30
	scene := replay.Render(frame, replay.ScaleFor(float64(cols), float64(rows)))

	// Must not panic; everything lands inside the grid.
	lines := sceneLines(scene, cols, rows)
	require.Len(t, lines, rows+3)
	assert.Equal(t, byte('o'), lines[2][cols])
}
