// Package explore computes descriptive statistics and correlations of the
// demand history.
package explore

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/your-org/acai-demand-study/internal/synth"
)

// ErrEmptyDataset is returned when there is nothing to summarize.
var ErrEmptyDataset = errors.New("dataset is empty")

// Column names, in the order used by Describe and Correlate.
const (
	ColDemand      = "demand"
	ColTemperature = "temperature"
	ColWeekend     = "weekend"
	ColHoliday     = "holiday"
)

// Columns lists the numeric columns of a dataset.
var Columns = []string{ColDemand, ColTemperature, ColWeekend, ColHoliday}

// ColumnSummary holds the descriptive statistics of one column.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Summary is the per-column description of a dataset.
type Summary struct {
	Columns []ColumnSummary
}

// Column returns the summary with the given name.
func (s Summary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Describe computes count, mean, std, min, quartiles and max per column.
func Describe(ds synth.Dataset) (Summary, error) {
	if len(ds) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	cols := columnData(ds)
	out := Summary{Columns: make([]ColumnSummary, len(Columns))}
	for i, name := range Columns {
		out.Columns[i] = DescribeColumn(name, cols[i])
	}
	return out, nil
}

// DescribeColumn summarizes a single non-empty column.
func DescribeColumn(name string, x []float64) ColumnSummary {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	std := math.NaN()
	if len(x) > 1 {
		std = stat.StdDev(x, nil)
	}
	return ColumnSummary{
		Name:   name,
		Count:  len(x),
		Mean:   stat.Mean(x, nil),
		Std:    std,
		Min:    floats.Min(sorted),
		Q25:    Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q75:    Quantile(sorted, 0.75),
		Max:    floats.Max(sorted),
	}
}

// Quantile returns the p-quantile of sorted data by linear interpolation
// between closest ranks, h = (n-1)p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// CorrelationMatrix is the Pearson correlation matrix of Labels.
type CorrelationMatrix struct {
	Labels []string
	Values *mat.SymDense
}

// At returns the correlation between columns i and j.
func (c CorrelationMatrix) At(i, j int) float64 {
	return c.Values.At(i, j)
}

// Between returns the correlation between two named columns.
func (c CorrelationMatrix) Between(a, b string) (float64, bool) {
	i, j := indexOf(c.Labels, a), indexOf(c.Labels, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return c.Values.At(i, j), true
}

// Correlate computes the correlation matrix among demand, temperature,
// weekend and holiday. A constant column yields NaN entries.
func Correlate(ds synth.Dataset) (CorrelationMatrix, error) {
	if len(ds) < 2 {
		return CorrelationMatrix{}, ErrEmptyDataset
	}
	cols := columnData(ds)
	x := mat.NewDense(len(ds), len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return CorrelationMatrix{
		Labels: append([]string(nil), Columns...),
		Values: &corr,
	}, nil
}

// SplitByWeekend partitions demand into weekday and weekend samples.
func SplitByWeekend(ds synth.Dataset) (weekday, weekend []float64) {
	for _, o := range ds {
		if o.IsWeekend == 1 {
			weekend = append(weekend, o.Demand)
		} else {
			weekday = append(weekday, o.Demand)
		}
	}
	return weekday, weekend
}

func columnData(ds synth.Dataset) [][]float64 {
	return [][]float64{ds.Demand(), ds.Temperature(), ds.Weekend(), ds.Holiday()}
}

func indexOf(labels []string, name string) int {
	for i, l := range labels {
		if l == name {
			return i
		}
	}
	return -1
}
