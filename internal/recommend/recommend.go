// Package recommend derives stock and waste figures from historical demand.
package recommend

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDemand is returned when no demand history is given.
var ErrEmptyDemand = errors.New("demand history is empty")

// Heuristic constants. They are applied verbatim.
const (
	ZValue95         = 1.645 // one-sided 95% standard normal quantile
	CurrentWasteRate = 0.20
	TargetWasteRate  = 0.05
	DaysPerMonth     = 30
)

// Recommendation holds the inventory figures, in units of product.
type Recommendation struct {
	MeanDemand     float64
	StdDev         float64
	StockLevel     float64 // covers 95% of days under a normal assumption
	CurrentWaste   float64 // per day
	TargetWaste    float64 // per day
	DailySavings   float64
	MonthlySavings float64
}

// FromDemand computes the recommendation from a demand history.
// A single observation has no sample standard deviation; StdDev is then 0.
func FromDemand(demand []float64) (Recommendation, error) {
	if len(demand) == 0 {
		return Recommendation{}, ErrEmptyDemand
	}
	mean := stat.Mean(demand, nil)
	std := 0.0
	if len(demand) > 1 {
		std = stat.StdDev(demand, nil)
	}
	return FromMoments(mean, std), nil
}

// FromMoments computes the recommendation from a mean and standard deviation.
func FromMoments(mean, std float64) Recommendation {
	current := CurrentWasteRate * mean
	target := TargetWasteRate * mean
	daily := current - target
	return Recommendation{
		MeanDemand:     mean,
		StdDev:         std,
		StockLevel:     mean + ZValue95*std,
		CurrentWaste:   current,
		TargetWaste:    target,
		DailySavings:   daily,
		MonthlySavings: daily * DaysPerMonth,
	}
}
