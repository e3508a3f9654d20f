package explore

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/acai-demand-study/internal/synth"
)

const floatTolerance = 1e-9

func studyDataset(t *testing.T) synth.Dataset {
	t.Helper()
	g, err := synth.NewGenerator(42, synth.DefaultParams())
	require.NoError(t, err)
	ds, err := g.History(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	return ds
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		p    float64
		want float64
	}{
		{name: "median odd", data: []float64{1, 2, 3, 4, 5}, p: 0.5, want: 3},
		{name: "median even", data: []float64{1, 2, 3, 4}, p: 0.5, want: 2.5},
		{name: "q25 four values", data: []float64{1, 2, 3, 4}, p: 0.25, want: 1.75},
		{name: "q75 four values", data: []float64{1, 2, 3, 4}, p: 0.75, want: 3.25},
		{name: "min", data: []float64{-3, 0, 9}, p: 0, want: -3},
		{name: "max", data: []float64{-3, 0, 9}, p: 1, want: 9},
		{name: "single", data: []float64{7}, p: 0.25, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.data, tt.p), floatTolerance)
		})
	}
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribeColumn(t *testing.T) {
	s := DescribeColumn("x", []float64{4, 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, floatTolerance)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, floatTolerance)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, floatTolerance)
	assert.InDelta(t, 2.5, s.Median, floatTolerance)
	assert.InDelta(t, 3.25, s.Q75, floatTolerance)
	assert.Equal(t, 4.0, s.Max)

	single := DescribeColumn("y", []float64{5})
	assert.True(t, math.IsNaN(single.Std), "sample std of one value is undefined")
}

func TestDescribe(t *testing.T) {
	ds := studyDataset(t)
	s, err := Describe(ds)
	require.NoError(t, err)
	require.Len(t, s.Columns, len(Columns))

	for i, name := range Columns {
		c := s.Columns[i]
		assert.Equal(t, name, c.Name)
		assert.Equal(t, 60, c.Count)
		assert.LessOrEqual(t, c.Min, c.Q25)
		assert.LessOrEqual(t, c.Q25, c.Median)
		assert.LessOrEqual(t, c.Median, c.Q75)
		assert.LessOrEqual(t, c.Q75, c.Max)
	}

	weekend, ok := s.Column(ColWeekend)
	require.True(t, ok)
	assert.InDelta(t, 16.0/60.0, weekend.Mean, floatTolerance)

	_, err = Describe(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestCorrelate_SymmetricUnitDiagonal(t *testing.T) {
	corr, err := Correlate(studyDataset(t))
	require.NoError(t, err)

	n := len(corr.Labels)
	require.Equal(t, 4, n)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, corr.At(i, i), 1e-12, "diagonal %s", corr.Labels[i])
		for j := 0; j < n; j++ {
			assert.Equal(t, corr.At(i, j), corr.At(j, i), "symmetry at (%d,%d)", i, j)
			assert.LessOrEqual(t, math.Abs(corr.At(i, j)), 1.0+1e-12)
		}
	}

	// Temperature and weekend are the strongest drivers of demand.
	r, ok := corr.Between(ColDemand, ColTemperature)
	require.True(t, ok)
	assert.Greater(t, r, 0.3)
	r, ok = corr.Between(ColDemand, ColWeekend)
	require.True(t, ok)
	assert.Greater(t, r, 0.2)

	_, ok = corr.Between(ColDemand, "price")
	assert.False(t, ok)
}

func TestCorrelate_KnownValues(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := synth.Dataset{
		{Date: start, Demand: 1, Temperature: 2, IsWeekend: 0, IsHoliday: 1},
		{Date: start.AddDate(0, 0, 1), Demand: 2, Temperature: 4, IsWeekend: 1, IsHoliday: 0},
		{Date: start.AddDate(0, 0, 2), Demand: 3, Temperature: 6, IsWeekend: 0, IsHoliday: 1},
	}
	corr, err := Correlate(ds)
	require.NoError(t, err)

	r, _ := corr.Between(ColDemand, ColTemperature)
	assert.InDelta(t, 1.0, r, floatTolerance)
	r, _ = corr.Between(ColDemand, ColWeekend)
	assert.InDelta(t, 0.0, r, floatTolerance)
	r, _ = corr.Between(ColWeekend, ColHoliday)
	assert.InDelta(t, -1.0, r, floatTolerance)

	_, err = Correlate(ds[:1])
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSplitByWeekend(t *testing.T) {
	ds := studyDataset(t)
	weekday, weekend := SplitByWeekend(ds)
	assert.Len(t, weekday, 44)
	assert.Len(t, weekend, 16)
}
