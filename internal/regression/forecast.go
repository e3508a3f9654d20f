package regression

import (
	"fmt"
	"math"
	"time"

	"github.com/your-org/acai-demand-study/internal/synth"
)

// Metrics are fit quality measures computed directly from residuals.
type Metrics struct {
	R2   float64
	RMSE float64
}

// Evaluate compares predictions with observed values.
func Evaluate(actual, predicted []float64) (Metrics, error) {
	if len(actual) != len(predicted) {
		return Metrics{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return Metrics{}, fmt.Errorf("%w: no values", ErrLengthMismatch)
	}

	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		e := v - predicted[i]
		ssRes += e * e
		d := v - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return Metrics{}, ErrConstantResponse
	}
	return Metrics{
		R2:   1 - ssRes/ssTot,
		RMSE: math.Sqrt(ssRes / float64(len(actual))),
	}, nil
}

// ForecastRecord is a point prediction for one future day.
type ForecastRecord struct {
	Date        time.Time
	Temperature float64
	IsWeekend   int
	Demand      float64
}

// Forecast predicts demand for each row. No intervals are produced.
func Forecast(m *Model, rows []synth.Covariates) []ForecastRecord {
	preds := m.Predict(rows)
	out := make([]ForecastRecord, len(rows))
	for i, r := range rows {
		out[i] = ForecastRecord{
			Date:        r.Date,
			Temperature: r.Temperature,
			IsWeekend:   r.IsWeekend,
			Demand:      preds[i],
		}
	}
	return out
}
