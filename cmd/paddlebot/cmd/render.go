package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/kmorse/paddlebot/replay"
)

// Characters used when rasterizing a scene. The web player draws colored
// shapes; in a terminal the z-order does the same job, ball over paddles
// over the divider.
const (
	cellPaddle  = '='
	cellBall    = 'o'
	cellDivider = '.'
)

// sceneLines rasterizes a laid-out scene onto a cols-by-rows character
// grid, one text cell per display unit. Callers scale the frame with
// replay.ScaleFor(cols, rows) so the scene already speaks in cells. The
// result is the score header followed by the bordered court.
func sceneLines(s replay.Scene, cols, rows int) []string {
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	div := clamp(int(math.Round(s.DividerX)), 0, cols-1)
	for y := 0; y < rows; y += 2 {
		grid[y][div] = cellDivider
	}

	for _, p := range s.Paddles {
		x0 := clamp(int(math.Round(p.X)), 0, cols-1)
		y0 := clamp(int(math.Round(p.Y)), 0, rows-1)
		w := int(math.Round(p.W))
		if w < 1 {
			w = 1
		}
		h := int(math.Round(p.H))
		if h < 1 {
			h = 1
		}
		for y := y0; y < y0+h && y < rows; y++ {
			for x := x0; x < x0+w && x < cols; x++ {
				grid[y][x] = cellPaddle
			}
		}
	}

	if s.Ball != nil {
		x := clamp(int(math.Round(s.Ball.X)), 0, cols-1)
		y := clamp(int(math.Round(s.Ball.Y)), 0, rows-1)
		grid[y][x] = cellBall
	}

	border := "+" + strings.Repeat("-", cols) + "+"
	lines := make([]string, 0, rows+3)
	lines = append(lines, fmt.Sprintf("step %s    %s : %s", s.Step, s.ScoreBot1, s.ScoreBot2))
	lines = append(lines, border)
	for _, row := range grid {
		lines = append(lines, "|"+string(row)+"|")
	}
	lines = append(lines, border)
	return lines
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
