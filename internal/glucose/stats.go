package glucose

import (
	"github.com/montanaflynn/stats"
)

// Standard time-in-range target band, mg/dL.
const (
	TargetLow  = 70
	TargetHigh = 180
)

// Summary describes a series for chart headers and captions.
type Summary struct {
	Count       int
	Mean        float64
	StdDev      float64
	Median      float64
	Min         int
	Max         int
	Latest      int
	TimeInRange float64 // percent of readings within [TargetLow, TargetHigh]
}

// Summarize computes descriptive statistics. An empty series gives a zero Summary.
func Summarize(s Series) (Summary, error) {
	if s.Len() == 0 {
		return Summary{}, nil
	}
	data := stats.LoadRawData(s.Values)

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	dev, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	lo, err := stats.Min(data)
	if err != nil {
		return Summary{}, err
	}
	hi, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}

	inRange := 0
	for _, v := range s.Values {
		if v >= TargetLow && v <= TargetHigh {
			inRange++
		}
	}

	return Summary{
		Count:       s.Len(),
		Mean:        mean,
		StdDev:      dev,
		Median:      median,
		Min:         int(lo),
		Max:         int(hi),
		Latest:      s.Values[len(s.Values)-1],
		TimeInRange: float64(inRange) / float64(s.Len()) * 100,
	}, nil
}
