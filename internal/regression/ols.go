// Package regression fits the ordinary least squares demand model
//
//	demand = b0 + b1*temperature + b2*weekend + b3*holiday + e
//
// and reports the usual fit diagnostics.
package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/your-org/acai-demand-study/internal/synth"
)

var (
	// ErrRankDeficient is returned when the design matrix does not have full
	// column rank (a constant or collinear regressor, or too few rows).
	ErrRankDeficient = errors.New("design matrix is rank deficient")
	// ErrConstantResponse is returned when demand has no variance.
	ErrConstantResponse = errors.New("response has zero variance")
	// ErrLengthMismatch is returned when actual and predicted differ in length.
	ErrLengthMismatch = errors.New("actual and predicted lengths differ")
)

// Term names, in design matrix column order.
var TermNames = []string{"const", "temperature", "weekend", "holiday"}

const (
	numTerms = 4
	// rankTolerance is the singular value cutoff relative to the largest one.
	rankTolerance = 1e-10
	confLevel     = 0.95
)

// Term is one fitted coefficient with its inference statistics.
type Term struct {
	Name   string
	Coef   float64
	StdErr float64
	T      float64
	P      float64
	Lower  float64 // 95% confidence interval
	Upper  float64
}

// Model is a fitted OLS model. It is not modified after Fit returns.
type Model struct {
	terms []Term

	N            int
	DFModel      float64
	DFResid      float64
	R2           float64
	AdjR2        float64
	FStat        float64
	FPValue      float64
	LogLik       float64
	AIC          float64
	BIC          float64
	DurbinWatson float64
	RSS          float64
	TSS          float64
	Condition    float64
}

// Terms returns a copy of the fitted terms.
func (m *Model) Terms() []Term {
	return append([]Term(nil), m.terms...)
}

// Coefficients returns b0..b3 in TermNames order.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.Coef
	}
	return out
}

// Intercept returns b0.
func (m *Model) Intercept() float64 { return m.terms[0].Coef }

// Temperature returns the temperature coefficient.
func (m *Model) Temperature() float64 { return m.terms[1].Coef }

// Weekend returns the weekend coefficient.
func (m *Model) Weekend() float64 { return m.terms[2].Coef }

// Holiday returns the holiday coefficient.
func (m *Model) Holiday() float64 { return m.terms[3].Coef }

// Fit estimates the model on ds by least squares.
func Fit(ds synth.Dataset) (*Model, error) {
	n := len(ds)
	if n <= numTerms {
		return nil, fmt.Errorf("%w: %d observations for %d terms", ErrRankDeficient, n, numTerms)
	}

	x := designMatrix(ds.Covariates())
	y := mat.NewVecDense(n, ds.Demand())

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrRankDeficient)
	}
	if rank := svd.Rank(rankTolerance); rank < numTerms {
		return nil, fmt.Errorf("%w: rank %d < %d", ErrRankDeficient, rank, numTerms)
	}
	values := svd.Values(nil)
	cond := values[0] / values[len(values)-1]

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankDeficient, err)
	}

	// (X'X)^-1 for the coefficient covariance.
	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, fmt.Errorf("%w: X'X is not positive definite", ErrRankDeficient)
	}
	var xtxInv mat.SymDense
	if err := chol.InverseTo(&xtxInv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankDeficient, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	yMean := mat.Sum(y) / float64(n)
	var rss, tss, dwNum float64
	prevResid := 0.0
	for i := 0; i < n; i++ {
		e := y.AtVec(i) - fitted.AtVec(i)
		rss += e * e
		d := y.AtVec(i) - yMean
		tss += d * d
		if i > 0 {
			dwNum += (e - prevResid) * (e - prevResid)
		}
		prevResid = e
	}
	if tss == 0 {
		return nil, ErrConstantResponse
	}

	nf := float64(n)
	dfResid := nf - numTerms
	dfModel := float64(numTerms - 1)
	sigma2 := rss / dfResid

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfResid}
	tCrit := tDist.Quantile(1 - (1-confLevel)/2)

	terms := make([]Term, numTerms)
	for j := range terms {
		coef := beta.AtVec(j)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		tv := coef / se
		terms[j] = Term{
			Name:   TermNames[j],
			Coef:   coef,
			StdErr: se,
			T:      tv,
			P:      2 * tDist.CDF(-math.Abs(tv)),
			Lower:  coef - tCrit*se,
			Upper:  coef + tCrit*se,
		}
	}

	r2 := 1 - rss/tss
	fStat := ((tss - rss) / dfModel) / sigma2
	logLik := -nf / 2 * (math.Log(2*math.Pi) + math.Log(rss/nf) + 1)

	return &Model{
		terms:        terms,
		N:            n,
		DFModel:      dfModel,
		DFResid:      dfResid,
		R2:           r2,
		AdjR2:        1 - (1-r2)*(nf-1)/dfResid,
		FStat:        fStat,
		FPValue:      1 - distuv.F{D1: dfModel, D2: dfResid}.CDF(fStat),
		LogLik:       logLik,
		AIC:          -2*logLik + 2*numTerms,
		BIC:          -2*logLik + numTerms*math.Log(nf),
		DurbinWatson: dwNum / rss,
		RSS:          rss,
		TSS:          tss,
		Condition:    cond,
	}, nil
}

// Predict applies the fitted coefficients to rows.
func (m *Model) Predict(rows []synth.Covariates) []float64 {
	if len(rows) == 0 {
		return nil
	}
	x := designMatrix(rows)
	var out mat.VecDense
	out.MulVec(x, mat.NewVecDense(numTerms, m.Coefficients()))
	return out.RawVector().Data
}

// PredictDataset returns the in-sample predictions for ds.
func (m *Model) PredictDataset(ds synth.Dataset) []float64 {
	return m.Predict(ds.Covariates())
}

func designMatrix(rows []synth.Covariates) *mat.Dense {
	x := mat.NewDense(len(rows), numTerms, nil)
	for i, r := range rows {
		x.SetRow(i, []float64{1, r.Temperature, float64(r.IsWeekend), float64(r.IsHoliday)})
	}
	return x
}
