package indicators

// EMA represents the Exponential Moving Average.
// The first defined input seeds the average and every later input applies
// ema = alpha*x + (1-alpha)*ema, with no bias correction.
type EMA struct {
	span        int
	alpha       float64
	lastValue   float64
	initialized bool
}

// NewEMA creates a new EMA with alpha = 2/(span+1)
func NewEMA(span int) *EMA {
	return &EMA{
		span:  span,
		alpha: 2.0 / float64(span+1),
	}
}

// UpdateSingle feeds one value and returns the updated average
func (e *EMA) UpdateSingle(value float64) float64 {
	if !e.initialized {
		e.lastValue = value
		e.initialized = true
	} else {
		e.lastValue = (value * e.alpha) + (e.lastValue * (1 - e.alpha))
	}

	return e.lastValue
}

// IsInitialized returns whether the EMA has been seeded
func (e *EMA) IsInitialized() bool {
	return e.initialized
}

// GetLastValue returns the last calculated EMA value
func (e *EMA) GetLastValue() float64 {
	return e.lastValue
}

// ResetState clears the seed
func (e *EMA) ResetState() {
	e.lastValue = 0.0
	e.initialized = false
}

// CalculateEMA runs the recursion over s. Positions before the first defined input stay
// undefined; an undefined input after the seed repeats the previous average.
func CalculateEMA(s Series, span int) Series {
	out := make(Series, len(s))
	if span < 1 {
		return out
	}
	ema := NewEMA(span)
	for i, v := range s {
		switch {
		case v.Defined:
			out[i] = Defined(ema.UpdateSingle(v.V))
		case ema.IsInitialized():
			out[i] = Defined(ema.GetLastValue())
		}
	}
	return out
}
