package synth

import "time"

// Observation is one simulated day.
type Observation struct {
	Date        time.Time
	Demand      float64
	Temperature float64
	IsWeekend   int // 1 on Saturday/Sunday
	IsHoliday   int
}

// Covariates is a day's regressor values without an observed demand.
type Covariates struct {
	Date        time.Time
	Temperature float64
	IsWeekend   int
	IsHoliday   int
}

// Dataset is a chronologically ordered sequence of observations.
type Dataset []Observation

// Demand returns the demand column.
func (d Dataset) Demand() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = o.Demand
	}
	return out
}

// Temperature returns the temperature column.
func (d Dataset) Temperature() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = o.Temperature
	}
	return out
}

// Weekend returns the weekend flag column as floats.
func (d Dataset) Weekend() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = float64(o.IsWeekend)
	}
	return out
}

// Holiday returns the holiday flag column as floats.
func (d Dataset) Holiday() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = float64(o.IsHoliday)
	}
	return out
}

// Covariates strips the demand column.
func (d Dataset) Covariates() []Covariates {
	out := make([]Covariates, len(d))
	for i, o := range d {
		out[i] = Covariates{
			Date:        o.Date,
			Temperature: o.Temperature,
			IsWeekend:   o.IsWeekend,
			IsHoliday:   o.IsHoliday,
		}
	}
	return out
}

// Last returns the final observation's date, or the zero time if empty.
func (d Dataset) Last() time.Time {
	if len(d) == 0 {
		return time.Time{}
	}
	return d[len(d)-1].Date
}
