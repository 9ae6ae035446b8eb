package fx

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntParam(t *testing.T) {
	p := NewIntParam("which", 0, 0, 9)

	require.NoError(t, p.Set("3"))
	assert.Equal(t, 3, p.Value())
	assert.Equal(t, "3", p.String())
	assert.Equal(t, 0, p.Default())

	err := p.SetValue(10)
	assert.True(t, errors.Is(err, ErrParamRange))
	assert.Equal(t, 3, p.Value())

	assert.Error(t, p.Set("three"))

	p.SetDisplayRange(0, 1)
	min, max := p.DisplayRange()
	assert.Equal(t, 0, min)
	assert.Equal(t, 1, max)
	min, max = p.Range()
	assert.Equal(t, 0, min)
	assert.Equal(t, 9, max)

	assert.True(t, p.Animates())
	p.SetAnimates(false)
	assert.False(t, p.Animates())
}

func TestUnboundedIntParam(t *testing.T) {
	p := NewUnboundedIntParam("timeOffset", 0)
	require.NoError(t, p.SetValue(math.MinInt))
	require.NoError(t, p.SetValue(math.MaxInt))
	assert.Equal(t, math.MaxInt, p.Value())
}

func TestBoolParam(t *testing.T) {
	p := NewBoolParam("reverseInput", false)
	require.NoError(t, p.Set("true"))
	assert.True(t, p.Value())
	assert.Equal(t, "true", p.String())
	assert.Error(t, p.Set("maybe"))
	assert.False(t, p.Default())
}

func TestDoubleParam(t *testing.T) {
	p := NewDoubleParam("mix", 1, 0, 1)
	require.NoError(t, p.Set("0.25"))
	assert.Equal(t, 0.25, p.Value())
	assert.True(t, errors.Is(p.SetValue(1.5), ErrParamRange))
	assert.True(t, errors.Is(p.SetValue(math.NaN()), ErrParamRange))
	assert.Equal(t, "0.25", p.String())
}

func TestParamSet(t *testing.T) {
	set := ParamSet{NewIntParam("a", 0, 0, 5), NewBoolParam("b", false)}

	require.NoError(t, set.Set("a", "4"))
	assert.Equal(t, "4", set.Get("a").String())

	err := set.Set("c", "1")
	assert.True(t, errors.Is(err, ErrUnknownParam))

	err = set.Set("a", "6")
	assert.True(t, errors.Is(err, ErrParamRange))
	assert.Nil(t, set.Get("c"))
}
