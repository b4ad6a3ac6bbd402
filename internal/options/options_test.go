package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTarget struct {
	ratio  float64
	window uint32
}

func TestApplyRunsInOrderAndStopsAtFirstError(t *testing.T) {
	target := &testTarget{}

	err := Apply(target,
		NoError(func(tg *testTarget) { tg.ratio = 1.5 }),
		New(func(tg *testTarget) error { return errors.New("boom") }),
		NoError(func(tg *testTarget) { tg.window = 999 }),
	)
	require.Error(t, err)
	assert.Equal(t, 1.5, target.ratio)
	assert.Zero(t, target.window) // option after the error never ran
}

func TestAtLeastAssignsWhenValueMeetsMinimum(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("too small")

	opt := AtLeast(1.1, 1.0, sentinel, func(tg *testTarget, v float64) { tg.ratio = v })
	require.NoError(t, Apply(target, opt))
	assert.Equal(t, 1.1, target.ratio)
}

func TestAtLeastRejectsBelowMinimum(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("too small")

	opt := AtLeast(0.5, 1.0, sentinel, func(tg *testTarget, v float64) { tg.ratio = v })
	err := Apply(target, opt)
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, target.ratio) // rejected value must not be assigned
}

func TestPowerOfTwoAtMostAssignsValidSizes(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("bad window")

	opt := PowerOfTwoAtMost(uint32(32768), uint32(1<<17), sentinel, func(tg *testTarget, v uint32) { tg.window = v })
	require.NoError(t, Apply(target, opt))
	assert.EqualValues(t, 32768, target.window)
}

func TestPowerOfTwoAtMostRejectsNonPowerOfTwo(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("bad window")

	opt := PowerOfTwoAtMost(uint32(1000), uint32(1<<17), sentinel, func(tg *testTarget, v uint32) { tg.window = v })
	err := Apply(target, opt)
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, target.window)
}

func TestPowerOfTwoAtMostRejectsAboveMax(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("bad window")

	opt := PowerOfTwoAtMost(uint32(1<<18), uint32(1<<17), sentinel, func(tg *testTarget, v uint32) { tg.window = v })
	err := Apply(target, opt)
	assert.ErrorIs(t, err, sentinel)
}

func TestPowerOfTwoAtMostRejectsZero(t *testing.T) {
	target := &testTarget{}
	sentinel := errors.New("bad window")

	opt := PowerOfTwoAtMost(uint32(0), uint32(1<<17), sentinel, func(tg *testTarget, v uint32) { tg.window = v })
	err := Apply(target, opt)
	assert.ErrorIs(t, err, sentinel)
}
