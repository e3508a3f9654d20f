// Package synth generates the simulated daily demand history of the shop.
//
// Demand follows a known affine formula of the covariates plus Gaussian
// noise, so a regression fitted on the output should recover the
// generating coefficients.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidDays    = errors.New("day count must be positive")
	ErrLengthMismatch = errors.New("per-day columns have different lengths")
	ErrInvalidParams  = errors.New("invalid generator parameters")
)

// Params describes the generative model.
type Params struct {
	Intercept       float64
	TemperatureCoef float64
	WeekendCoef     float64
	HolidayCoef     float64

	TemperatureMean   float64
	TemperatureStdDev float64
	HolidayProb       float64
	NoiseStdDev       float64
}

// DefaultParams returns the parameters of the reference study.
func DefaultParams() Params {
	return Params{
		Intercept:         50,
		TemperatureCoef:   2.5,
		WeekendCoef:       15,
		HolidayCoef:       10,
		TemperatureMean:   28,
		TemperatureStdDev: 3,
		HolidayProb:       0.1,
		NoiseStdDev:       5,
	}
}

// Validate checks that the distributions are well defined.
func (p Params) Validate() error {
	if p.TemperatureStdDev <= 0 {
		return fmt.Errorf("%w: temperature std dev %v", ErrInvalidParams, p.TemperatureStdDev)
	}
	if p.NoiseStdDev < 0 {
		return fmt.Errorf("%w: noise std dev %v", ErrInvalidParams, p.NoiseStdDev)
	}
	if p.HolidayProb < 0 || p.HolidayProb > 1 {
		return fmt.Errorf("%w: holiday probability %v", ErrInvalidParams, p.HolidayProb)
	}
	return nil
}

// Demand evaluates the generative formula for one day.
func (p Params) Demand(temperature float64, weekend, holiday int, noise float64) float64 {
	return p.Intercept +
		p.TemperatureCoef*temperature +
		p.WeekendCoef*float64(weekend) +
		p.HolidayCoef*float64(holiday) +
		noise
}

// Generator draws every random quantity from a single seeded source, so the
// order of calls determines the output.
type Generator struct {
	params      Params
	temperature distuv.Normal
	holiday     distuv.Bernoulli
	noise       distuv.Normal
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed uint64, params Params) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	src := rand.NewPCG(seed, seed)
	return &Generator{
		params:      params,
		temperature: distuv.Normal{Mu: params.TemperatureMean, Sigma: params.TemperatureStdDev, Src: src},
		holiday:     distuv.Bernoulli{P: params.HolidayProb, Src: src},
		noise:       distuv.Normal{Mu: 0, Sigma: params.NoiseStdDev, Src: src},
	}, nil
}

// Params returns the generator's parameters.
func (g *Generator) Params() Params {
	return g.params
}

// History produces n consecutive days starting at start.
// Draw order: all temperatures, then all holiday flags, then all noise terms.
func (g *Generator) History(start time.Time, n int) (Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, n)
	}
	dates := Dates(start, n)

	temps := make([]float64, n)
	for i := range temps {
		temps[i] = g.temperature.Rand()
	}
	holidays := make([]int, n)
	for i := range holidays {
		holidays[i] = int(g.holiday.Rand())
	}
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = g.noise.Rand()
	}

	return Assemble(g.params, dates, temps, WeekendFlags(dates), holidays, noise)
}

// FutureCovariates produces k covariate rows for the days following after.
// Temperatures are freshly sampled; holidays are assumed absent.
func (g *Generator) FutureCovariates(after time.Time, k int) ([]Covariates, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, k)
	}
	dates := Dates(after.AddDate(0, 0, 1), k)
	rows := make([]Covariates, k)
	for i, d := range dates {
		rows[i] = Covariates{
			Date:        d,
			Temperature: g.temperature.Rand(),
			IsWeekend:   weekendFlag(d),
		}
	}
	return rows, nil
}

// Assemble joins per-day columns into a Dataset, computing demand with the
// generative formula. Every column must have the same length as dates.
func Assemble(p Params, dates []time.Time, temps []float64, weekend, holiday []int, noise []float64) (Dataset, error) {
	n := len(dates)
	if n == 0 {
		return nil, ErrInvalidDays
	}
	if len(temps) != n || len(weekend) != n || len(holiday) != n || len(noise) != n {
		return nil, fmt.Errorf("%w: dates=%d temperature=%d weekend=%d holiday=%d noise=%d",
			ErrLengthMismatch, n, len(temps), len(weekend), len(holiday), len(noise))
	}

	ds := make(Dataset, n)
	for i := range ds {
		ds[i] = Observation{
			Date:        dates[i],
			Demand:      p.Demand(temps[i], weekend[i], holiday[i], noise[i]),
			Temperature: temps[i],
			IsWeekend:   weekend[i],
			IsHoliday:   holiday[i],
		}
	}
	return ds, nil
}

// Dates returns n consecutive calendar days beginning at start.
func Dates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekendFlags returns 1 for Saturdays and Sundays, 0 otherwise.
func WeekendFlags(dates []time.Time) []int {
	flags := make([]int, len(dates))
	for i, d := range dates {
		flags[i] = weekendFlag(d)
	}
	return flags
}

func weekendFlag(d time.Time) int {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 1
	}
	return 0
}
