package market

import "math"

// ZScoreFlags flags values more than nStd sample standard deviations from
// the mean. Nil entries are never flagged and do not contribute to the
// mean or deviation. Flags annotate the merged-data export; no row is ever
// dropped for being an outlier.
func ZScoreFlags(values []*float64, nStd float64) []bool {
	var defined []float64
	for _, v := range values {
		if v != nil {
			defined = append(defined, *v)
		}
	}

	flags := make([]bool, len(values))
	if len(defined) < 2 {
		return flags
	}

	mean := *Mean(defined)
	var sumSq float64
	for _, x := range defined {
		d := x - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(defined)-1))
	if std == 0 {
		return flags
	}

	for i, v := range values {
		if v != nil && math.Abs(*v-mean)/std > nStd {
			flags[i] = true
		}
	}
	return flags
}
