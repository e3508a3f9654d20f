// Package hypothesis implements the two-sample t-test used to compare
// weekday and weekend demand.
package hypothesis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when a sample has fewer than two values.
	ErrInsufficientData = errors.New("each sample needs at least 2 observations")
	// ErrZeroVariance is returned when both samples are constant.
	ErrZeroVariance = errors.New("samples have zero variance")
)

// DefaultAlpha is the significance level of the reference study.
const DefaultAlpha = 0.05

// Options selects the test variant.
type Options struct {
	Alpha         float64
	EqualVariance bool // true: Student's pooled test; false: Welch's test
}

// DefaultOptions returns Student's test at the 5% level.
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha, EqualVariance: true}
}

// Result is the outcome of a two-sided two-sample t-test.
type Result struct {
	Method      string
	NA, NB      int
	MeanA       float64
	MeanB       float64
	T           float64
	DF          float64
	PValue      float64
	Alpha       float64
	Significant bool // PValue < Alpha
}

// TTest tests the null hypothesis that a and b have equal means.
func TTest(a, b []float64, opts Options) (Result, error) {
	if len(a) < 2 || len(b) < 2 {
		return Result{}, fmt.Errorf("%w: got %d and %d", ErrInsufficientData, len(a), len(b))
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = DefaultAlpha
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)

	var se, df float64
	method := "Student"
	if opts.EqualVariance {
		df = na + nb - 2
		pooled := ((na-1)*varA + (nb-1)*varB) / df
		se = math.Sqrt(pooled * (1/na + 1/nb))
	} else {
		method = "Welch"
		qa, qb := varA/na, varB/nb
		se = math.Sqrt(qa + qb)
		df = (qa + qb) * (qa + qb) / (qa*qa/(na-1) + qb*qb/(nb-1))
	}
	if se == 0 || math.IsNaN(se) {
		return Result{}, ErrZeroVariance
	}

	t := (meanA - meanB) / se
	p := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(-math.Abs(t))

	return Result{
		Method:      method,
		NA:          len(a),
		NB:          len(b),
		MeanA:       meanA,
		MeanB:       meanB,
		T:           t,
		DF:          df,
		PValue:      p,
		Alpha:       opts.Alpha,
		Significant: p < opts.Alpha,
	}, nil
}
