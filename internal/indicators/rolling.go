package indicators

// RollingWindow keeps a trailing window sum that is updated incrementally: each push adds the
// new value and evicts the oldest one, so a full pass over a series is O(n).
//
// The window is only ready when it holds size consecutive defined values. It also counts the
// non-zero entries so a window of zeros sums to exactly 0 regardless of earlier float drift.
type RollingWindow struct {
	size       int
	buf        []Value
	writeIndex int
	count      int

	sum  float64
	comp float64 // Kahan compensation

	undefined int
	nonZero   int
}

// NewRollingWindow creates a trailing window of the given size (size >= 1).
func NewRollingWindow(size int) *RollingWindow {
	if size < 1 {
		size = 1
	}
	return &RollingWindow{
		size: size,
		buf:  make([]Value, size),
	}
}

// Push appends v, evicting the oldest value once the window is full.
func (w *RollingWindow) Push(v Value) {
	if w.count == w.size {
		w.remove(w.buf[w.writeIndex])
	} else {
		w.count++
	}
	w.buf[w.writeIndex] = v
	w.insert(v)
	w.writeIndex = (w.writeIndex + 1) % w.size
}

// Ready reports whether the window holds size defined values.
func (w *RollingWindow) Ready() bool {
	return w.count == w.size && w.undefined == 0
}

// Sum returns the window sum, or Undefined until the window is ready.
func (w *RollingWindow) Sum() Value {
	if !w.Ready() {
		return Undefined
	}
	if w.nonZero == 0 {
		return Defined(0)
	}
	return Defined(w.sum)
}

// Mean returns the window average, or Undefined until the window is ready.
func (w *RollingWindow) Mean() Value {
	s := w.Sum()
	if !s.Defined {
		return Undefined
	}
	return Defined(s.V / float64(w.size))
}

// Reset empties the window.
func (w *RollingWindow) Reset() {
	for i := range w.buf {
		w.buf[i] = Undefined
	}
	w.writeIndex, w.count = 0, 0
	w.sum, w.comp = 0, 0
	w.undefined, w.nonZero = 0, 0
}

func (w *RollingWindow) insert(v Value) {
	if !v.Defined {
		w.undefined++
		return
	}
	if v.V != 0 {
		w.nonZero++
	}
	w.accumulate(v.V)
}

func (w *RollingWindow) remove(v Value) {
	if !v.Defined {
		w.undefined--
		return
	}
	if v.V != 0 {
		w.nonZero--
	}
	w.accumulate(-v.V)
	if w.nonZero == 0 {
		w.sum, w.comp = 0, 0
	}
}

func (w *RollingWindow) accumulate(x float64) {
	y := x - w.comp
	t := w.sum + y
	w.comp = (t - w.sum) - y
	w.sum = t
}

// rollingSum applies a trailing window sum over s.
func rollingSum(s Series, window int) Series {
	out := make(Series, len(s))
	w := NewRollingWindow(window)
	for i, v := range s {
		w.Push(v)
		out[i] = w.Sum()
	}
	return out
}

// rollingMean applies a trailing simple moving average over s.
func rollingMean(s Series, window int) Series {
	out := make(Series, len(s))
	w := NewRollingWindow(window)
	for i, v := range s {
		w.Push(v)
		out[i] = w.Mean()
	}
	return out
}
