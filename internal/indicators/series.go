package indicators

// Value is a single point of a derived series. A zero Value is undefined.
type Value struct {
	V       float64
	Defined bool
}

// Undefined marks a position without a numeric result (warm-up or degenerate arithmetic).
var Undefined = Value{}

// Defined wraps a numeric result.
func Defined(v float64) Value {
	return Value{V: v, Defined: true}
}

// Series is a derived series aligned 1:1 with the input bars.
type Series []Value

// FromFloats builds a fully defined series.
func FromFloats(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Defined(v)
	}
	return s
}

// LeadingUndefined returns the length of the undefined run at the start of the series.
func (s Series) LeadingUndefined() int {
	for i, v := range s {
		if v.Defined {
			return i
		}
	}
	return len(s)
}

// DefinedCount returns how many positions carry a value.
func (s Series) DefinedCount() int {
	n := 0
	for _, v := range s {
		if v.Defined {
			n++
		}
	}
	return n
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return s[i].V, s[i].Defined
}

// Last returns the most recent defined value.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Defined {
			return s[i].V, true
		}
	}
	return 0, false
}

// Values returns the numeric values; undefined positions are reported as 0 and should be
// checked through Defined.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v.V
	}
	return out
}

// diff returns x_t - x_{t-lag}, undefined for the first lag positions.
func diff(x []float64, lag int) Series {
	out := make(Series, len(x))
	for i := lag; i < len(x); i++ {
		out[i] = Defined(x[i] - x[i-lag])
	}
	return out
}
