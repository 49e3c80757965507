package stats

import (
	"github.com/montanaflynn/stats"

	"predix/domain/pheno"
)

// Summary describes the finite portion of a phenotype or residual vector.
type Summary struct {
	Samples int     `json:"samples"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Summarize computes summary statistics over the finite values of v.
// NaN entries count toward Missing and are excluded from the moments.
func Summarize(v pheno.Vector) Summary {
	finite := v.Finite()
	s := Summary{
		Samples: len(v),
		Missing: v.MissingCount(),
	}
	if len(finite) == 0 {
		return s
	}
	s.Mean, _ = stats.Mean(finite)
	s.StdDev, _ = stats.StandardDeviation(finite)
	s.Min, _ = stats.Min(finite)
	s.Max, _ = stats.Max(finite)
	s.Median, _ = stats.Median(finite)
	return s
}
