package fx

import (
	"fmt"
	"math"
	"strconv"
	"sync"
)

// Param is a named effect parameter that can be set from text.
type Param interface {
	Name() string
	Set(value string) error
	String() string
}

// ParamSet is the list of parameters of an effect.
type ParamSet []Param

// Get returns the parameter called name, or nil.
func (s ParamSet) Get(name string) Param {
	for _, p := range s {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Set parses value into the parameter called name.
func (s ParamSet) Set(name, value string) error {
	p := s.Get(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if err := p.Set(value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// IntParam is an integer parameter with a hard range and a display range.
type IntParam struct {
	mu                     sync.RWMutex
	name                   string
	value, def             int
	min, max               int
	displayMin, displayMax int
	animates               bool
}

// NewIntParam creates an animatable parameter whose hard and display range
// are both [min, max].
func NewIntParam(name string, def, min, max int) *IntParam {
	return &IntParam{
		name:       name,
		value:      def,
		def:        def,
		min:        min,
		max:        max,
		displayMin: min,
		displayMax: max,
		animates:   true,
	}
}

// NewUnboundedIntParam creates a parameter covering the whole int range.
func NewUnboundedIntParam(name string, def int) *IntParam {
	return NewIntParam(name, def, math.MinInt, math.MaxInt)
}

func (p *IntParam) Name() string { return p.name }

func (p *IntParam) Value() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *IntParam) Default() int { return p.def }

// SetValue changes the value, which must lie in the hard range.
func (p *IntParam) SetValue(v int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < p.min || v > p.max {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrParamRange, v, p.min, p.max)
	}
	p.value = v
	return nil
}

func (p *IntParam) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

func (p *IntParam) String() string {
	return strconv.Itoa(p.Value())
}

func (p *IntParam) Range() (min, max int) {
	return p.min, p.max
}

// DisplayRange is the range a user interface should offer. It may be
// narrower than the hard range and change while the effect is alive.
func (p *IntParam) DisplayRange() (min, max int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.displayMin, p.displayMax
}

func (p *IntParam) SetDisplayRange(min, max int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displayMin, p.displayMax = min, max
}

func (p *IntParam) Animates() bool { return p.animates }

func (p *IntParam) SetAnimates(animates bool) { p.animates = animates }

// BoolParam is a boolean parameter.
type BoolParam struct {
	mu       sync.RWMutex
	name     string
	value    bool
	def      bool
	animates bool
}

func NewBoolParam(name string, def bool) *BoolParam {
	return &BoolParam{name: name, value: def, def: def, animates: true}
}

func (p *BoolParam) Name() string { return p.name }

func (p *BoolParam) Value() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *BoolParam) Default() bool { return p.def }

func (p *BoolParam) SetValue(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

func (p *BoolParam) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	p.SetValue(v)
	return nil
}

func (p *BoolParam) String() string {
	return strconv.FormatBool(p.Value())
}

func (p *BoolParam) Animates() bool { return p.animates }

func (p *BoolParam) SetAnimates(animates bool) { p.animates = animates }

// DoubleParam is a floating point parameter limited to [min, max].
type DoubleParam struct {
	mu         sync.RWMutex
	name       string
	value, def float64
	min, max   float64
}

func NewDoubleParam(name string, def, min, max float64) *DoubleParam {
	return &DoubleParam{name: name, value: def, def: def, min: min, max: max}
}

func (p *DoubleParam) Name() string { return p.name }

func (p *DoubleParam) Value() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *DoubleParam) Default() float64 { return p.def }

func (p *DoubleParam) SetValue(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if math.IsNaN(v) || v < p.min || v > p.max {
		return fmt.Errorf("%w: %g not in [%g,%g]", ErrParamRange, v, p.min, p.max)
	}
	p.value = v
	return nil
}

func (p *DoubleParam) Set(value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

func (p *DoubleParam) String() string {
	return strconv.FormatFloat(p.Value(), 'g', -1, 64)
}

func (p *DoubleParam) Range() (min, max float64) {
	return p.min, p.max
}
