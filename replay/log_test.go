package replay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogTwoFrames(t *testing.T) {
	log, err := ParseLog("step,ball_x,ball_y\n0,1.5,2.0\n1,1.6,2.1\n")
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())
	assert.Equal(t, []string{"step", "ball_x", "ball_y"}, log.Headers)

	f := log.Frames[0]
	assert.Equal(t, Value{Set: true, V: 0}, f.Step)
	assert.Equal(t, Value{Set: true, V: 1.5}, f.BallX)
	assert.Equal(t, Value{Set: true, V: 2.0}, f.BallY)

	f = log.Frames[1]
	assert.Equal(t, Value{Set: true, V: 1}, f.Step)
	assert.Equal(t, Value{Set: true, V: 1.6}, f.BallX)
	assert.Equal(t, Value{Set: true, V: 2.1}, f.BallY)
}

func TestParseLogHeaderOnly(t *testing.T) {
	_, err := ParseLog("step,ball_x,ball_y\n")
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestParseLogEmptyText(t *testing.T) {
	_, err := ParseLog("")
	assert.ErrorIs(t, err, ErrEmptyLog)

	_, err = ParseLog("   \n  ")
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestParseLogCRLFAndPadding(t *testing.T) {
	log, err := ParseLog("step, ball_x ,ball_y\r\n 0 , 1.5 ,2.0\r\n")
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, []string{"step", "ball_x", "ball_y"}, log.Headers)
	assert.Equal(t, 1.5, log.Frames[0].BallX.V)
}

func TestParseLogEmptyNumericCellIsAbsent(t *testing.T) {
	log, err := ParseLog("step,ball_x,ball_y\n0,,2.0\n")
	require.NoError(t, err)
	f := log.Frames[0]
	assert.False(t, f.BallX.Set)
	assert.True(t, f.BallY.Set)
}

func TestParseLogMalformedNumericIsNaN(t *testing.T) {
	log, err := ParseLog("step,ball_x\n0,oops\n")
	require.NoError(t, err)
	f := log.Frames[0]
	assert.True(t, f.BallX.Set)
	assert.True(t, math.IsNaN(f.BallX.V))
	assert.False(t, f.BallX.Valid())
}

func TestParseLogShortRowLeavesTrailingCellsAbsent(t *testing.T) {
	log, err := ParseLog("step,ball_x,ball_y,score_bot1\n0,1.5\n")
	require.NoError(t, err)
	f := log.Frames[0]
	assert.True(t, f.BallX.Set)
	assert.False(t, f.BallY.Set)
	assert.False(t, f.ScoreBot1.Set)
}

func TestParseLogTextColumns(t *testing.T) {
	log, err := ParseLog("step,event\n0,serve\n1,bounce\n")
	require.NoError(t, err)
	assert.Equal(t, "serve", log.Frames[0].Text["event"])
	assert.Equal(t, "bounce", log.Frames[1].Text["event"])
}

func TestParseLogKeepsRowOrder(t *testing.T) {
	log, err := ParseLog("step\n3\n1\n2\n")
	require.NoError(t, err)
	require.Equal(t, 3, log.Len())
	assert.Equal(t, 3.0, log.Frames[0].Step.V)
	assert.Equal(t, 1.0, log.Frames[1].Step.V)
	assert.Equal(t, 2.0, log.Frames[2].Step.V)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "--", Value{}.String())
	assert.Equal(t, "0", Value{Set: true, V: 0}.String())
	assert.Equal(t, "1.5", Value{Set: true, V: 1.5}.String())
	assert.Equal(t, "NaN", Value{Set: true, V: math.NaN()}.String())
}
