package glucose

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	// ErrInvalidRange is returned when start is not strictly before end.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrInvalidValueRange is returned when minValue > maxValue.
	ErrInvalidValueRange = errors.New("invalid value range")
)

// Series is an ordered glucose time series in mg/dL.
// Timestamps and Values always have the same length.
type Series struct {
	Timestamps []time.Time
	Values     []int
}

func (s Series) Len() int {
	return len(s.Timestamps)
}

// Window returns the first min(Len, n) points. n <= 0 returns s unchanged.
func (s Series) Window(n int) Series {
	if n <= 0 || n >= s.Len() {
		return s
	}
	return Series{
		Timestamps: s.Timestamps[:n],
		Values:     s.Values[:n],
	}
}

// Floats returns the values as float64, the form chart and stats libraries want.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = float64(v)
	}
	return out
}

// NewRand returns a PCG-backed source. seed == 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds a series covering [start, end] stepped by g, with every value
// drawn independently and uniformly from [minValue, maxValue].
// If the step divides the span evenly the last timestamp equals end.
func Generate(rng *rand.Rand, start, end time.Time, minValue, maxValue int, g Granularity) (Series, error) {
	if !start.Before(end) {
		return Series{}, fmt.Errorf("%w: start %s must be before end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	policy, err := g.Policy()
	if err != nil {
		return Series{}, err
	}
	if minValue > maxValue {
		return Series{}, fmt.Errorf("%w: min %d > max %d", ErrInvalidValueRange, minValue, maxValue)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	n := int(end.Sub(start)/policy.Step) + 1
	s := Series{
		Timestamps: make([]time.Time, 0, n),
		Values:     make([]int, 0, n),
	}
	for cursor := start; !cursor.After(end); cursor = cursor.Add(policy.Step) {
		s.Timestamps = append(s.Timestamps, cursor)
		s.Values = append(s.Values, drawValue(rng, minValue, maxValue))
	}
	return s, nil
}

// drawValue picks uniformly from [lo, hi]. The span is computed in uint64 so
// ranges wider than MaxInt do not overflow; a span of 0 is the full int range.
func drawValue(rng *rand.Rand, lo, hi int) int {
	span := uint64(hi) - uint64(lo) + 1
	var off uint64
	if span == 0 {
		off = rng.Uint64()
	} else {
		off = rng.Uint64N(span)
	}
	return int(uint64(lo) + off)
}
