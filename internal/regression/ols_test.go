package regression

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/acai-demand-study/internal/synth"
)

const float64EqualityThreshold = 1e-9

var studyStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func almostEqualRel(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func history(t *testing.T, seed uint64, n int, p synth.Params) (*synth.Generator, synth.Dataset) {
	t.Helper()
	g, err := synth.NewGenerator(seed, p)
	require.NoError(t, err)
	ds, err := g.History(studyStart, n)
	require.NoError(t, err)
	return g, ds
}

func TestFit_RecoversNoiseFreeCoefficients(t *testing.T) {
	p := synth.DefaultParams()
	p.NoiseStdDev = 0
	p.HolidayProb = 0.3
	_, ds := history(t, 42, 120, p)

	m, err := Fit(ds)
	require.NoError(t, err)

	want := []float64{50, 2.5, 15, 10}
	for i, c := range m.Coefficients() {
		assert.InDelta(t, want[i], c, 1e-8, "coefficient %s", TermNames[i])
	}
	assert.InDelta(t, 1.0, m.R2, 1e-12)
}

func TestFit_StudyDataset(t *testing.T) {
	_, ds := history(t, 42, 60, synth.DefaultParams())

	m, err := Fit(ds)
	require.NoError(t, err)

	assert.Equal(t, 60, m.N)
	assert.Equal(t, 56.0, m.DFResid)
	assert.Equal(t, 3.0, m.DFModel)
	assert.Greater(t, m.R2, 0.5, "covariates drive demand")
	assert.Less(t, m.R2, 1.0)
	assert.Less(t, m.AdjR2, m.R2)
	assert.InDelta(t, 2.5, m.Temperature(), 1.5)
	assert.InDelta(t, 15, m.Weekend(), 7.5)
	assert.Less(t, m.FPValue, 1e-6)

	terms := m.Terms()
	require.Len(t, terms, 4)
	for i, term := range terms {
		assert.Equal(t, TermNames[i], term.Name)
		assert.Greater(t, term.StdErr, 0.0)
		assert.True(t, almostEqualRel(term.Coef/term.StdErr, term.T))
		assert.GreaterOrEqual(t, term.P, 0.0)
		assert.LessOrEqual(t, term.P, 1.0)
		assert.Less(t, term.Lower, term.Coef)
		assert.Greater(t, term.Upper, term.Coef)
	}
	assert.Less(t, terms[1].P, 0.001, "temperature is significant")
}

func TestFit_DiagnosticIdentities(t *testing.T) {
	_, ds := history(t, 7, 80, synth.DefaultParams())
	m, err := Fit(ds)
	require.NoError(t, err)

	n := float64(m.N)
	assert.True(t, almostEqualRel(1-m.RSS/m.TSS, m.R2))
	assert.True(t, almostEqualRel((m.R2/m.DFModel)/((1-m.R2)/m.DFResid), m.FStat))
	assert.True(t, almostEqualRel(-2*m.LogLik+8, m.AIC))
	assert.True(t, almostEqualRel(-2*m.LogLik+4*math.Log(n), m.BIC))
	assert.Greater(t, m.DurbinWatson, 0.0)
	assert.Less(t, m.DurbinWatson, 4.0)
	assert.GreaterOrEqual(t, m.Condition, 1.0)

	preds := m.PredictDataset(ds)
	sum := 0.0
	for i, o := range ds {
		sum += o.Demand - preds[i]
	}
	assert.InDelta(t, 0.0, sum, 1e-8, "residuals sum to zero with an intercept")
}

func TestEvaluate_MatchesModelR2(t *testing.T) {
	for _, seed := range []uint64{1, 42, 2024} {
		_, ds := history(t, seed, 60, synth.DefaultParams())
		m, err := Fit(ds)
		require.NoError(t, err)

		metrics, err := Evaluate(ds.Demand(), m.PredictDataset(ds))
		require.NoError(t, err)

		if !almostEqualRel(metrics.R2, m.R2) {
			t.Errorf("seed %d: Evaluate R2 = %v, model R2 = %v", seed, metrics.R2, m.R2)
		}
		if !almostEqualRel(metrics.RMSE, math.Sqrt(m.RSS/float64(m.N))) {
			t.Errorf("seed %d: RMSE = %v, want sqrt(RSS/n) = %v", seed, metrics.RMSE, math.Sqrt(m.RSS/float64(m.N)))
		}
	}
}

func TestEvaluate(t *testing.T) {
	metrics, err := Evaluate([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1-1.0/5.0, metrics.R2, float64EqualityThreshold)
	assert.InDelta(t, 0.5, metrics.RMSE, float64EqualityThreshold)

	_, err = Evaluate([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Evaluate(nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Evaluate([]float64{3, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrConstantResponse)
}

func TestFit_RankDeficient(t *testing.T) {
	t.Run("constant holiday column", func(t *testing.T) {
		p := synth.DefaultParams()
		p.HolidayProb = 0
		_, ds := history(t, 42, 60, p)
		_, err := Fit(ds)
		assert.ErrorIs(t, err, ErrRankDeficient)
	})

	t.Run("holiday equals weekend", func(t *testing.T) {
		_, ds := history(t, 42, 60, synth.DefaultParams())
		for i := range ds {
			ds[i].IsHoliday = ds[i].IsWeekend
		}
		_, err := Fit(ds)
		assert.ErrorIs(t, err, ErrRankDeficient)
	})

	t.Run("too few rows", func(t *testing.T) {
		_, ds := history(t, 42, 4, synth.DefaultParams())
		_, err := Fit(ds)
		assert.ErrorIs(t, err, ErrRankDeficient)
	})
}

func TestFit_ConstantResponse(t *testing.T) {
	_, ds := history(t, 3, 40, synth.DefaultParams())
	for i := range ds {
		ds[i].IsHoliday = i % 3 / 2
		ds[i].Demand = 100
	}
	_, err := Fit(ds)
	assert.ErrorIs(t, err, ErrConstantResponse)
}

func TestForecast(t *testing.T) {
	g, ds := history(t, 42, 60, synth.DefaultParams())
	m, err := Fit(ds)
	require.NoError(t, err)

	for _, k := range []int{1, 7, 30} {
		rows, err := g.FutureCovariates(ds.Last(), k)
		require.NoError(t, err)
		records := Forecast(m, rows)
		require.Len(t, records, k)
		for i, r := range records {
			want := m.Intercept() + m.Temperature()*r.Temperature + m.Weekend()*float64(r.IsWeekend)
			assert.InDelta(t, want, r.Demand, float64EqualityThreshold)
			assert.Equal(t, rows[i].Date, r.Date)
		}
	}
	assert.Empty(t, Forecast(m, nil))
}
