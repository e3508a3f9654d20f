// Package study runs the demand study end to end and returns every
// intermediate result. It performs no IO.
package study

import (
	"fmt"
	"time"

	"github.com/your-org/acai-demand-study/internal/config"
	"github.com/your-org/acai-demand-study/internal/explore"
	"github.com/your-org/acai-demand-study/internal/hypothesis"
	"github.com/your-org/acai-demand-study/internal/recommend"
	"github.com/your-org/acai-demand-study/internal/regression"
	"github.com/your-org/acai-demand-study/internal/synth"
)

// Stage names used in StageError.
const (
	StageGenerate   = "generate"
	StageDescribe   = "describe"
	StageHypothesis = "hypothesis"
	StageRegression = "regression"
	StageEvaluate   = "evaluate"
	StageForecast   = "forecast"
	StageRecommend  = "recommend"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options parameterizes a run.
type Options struct {
	Seed         uint64
	Days         int
	Start        time.Time
	ForecastDays int
	Params       synth.Params
	Hypothesis   hypothesis.Options
}

// DefaultOptions returns the reference run: seed 42, 60 days from
// 2024-01-01, 7 forecast days.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps application configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Seed:         cfg.Seed,
		Days:         cfg.Days,
		Start:        cfg.StartDate.Time,
		ForecastDays: cfg.ForecastDays,
		Params:       synth.DefaultParams(),
		Hypothesis: hypothesis.Options{
			Alpha:         cfg.Hypothesis.Alpha,
			EqualVariance: bool(cfg.Hypothesis.EqualVariance),
		},
	}
}

// Result carries the outputs of every stage.
type Result struct {
	Options Options

	Dataset     synth.Dataset
	Predictions []float64 // in-sample, aligned with Dataset

	Summary       explore.Summary
	Correlation   explore.CorrelationMatrix
	WeekdayDemand []float64
	WeekendDemand []float64

	TTest   hypothesis.Result
	Model   *regression.Model
	Metrics regression.Metrics

	Forecast       []regression.ForecastRecord
	Recommendation recommend.Recommendation
}

// Run executes generate, describe, test, fit, evaluate, forecast and
// recommend in order. The first failing stage aborts the run.
func Run(opts Options) (*Result, error) {
	gen, err := synth.NewGenerator(opts.Seed, opts.Params)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	ds, err := gen.History(opts.Start, opts.Days)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	res := &Result{Options: opts, Dataset: ds}

	if res.Summary, err = explore.Describe(ds); err != nil {
		return nil, &StageError{Stage: StageDescribe, Err: err}
	}
	if res.Correlation, err = explore.Correlate(ds); err != nil {
		return nil, &StageError{Stage: StageDescribe, Err: err}
	}

	res.WeekdayDemand, res.WeekendDemand = explore.SplitByWeekend(ds)
	if res.TTest, err = hypothesis.TTest(res.WeekdayDemand, res.WeekendDemand, opts.Hypothesis); err != nil {
		return nil, &StageError{Stage: StageHypothesis, Err: err}
	}

	if res.Model, err = regression.Fit(ds); err != nil {
		return nil, &StageError{Stage: StageRegression, Err: err}
	}
	res.Predictions = res.Model.PredictDataset(ds)
	if res.Metrics, err = regression.Evaluate(ds.Demand(), res.Predictions); err != nil {
		return nil, &StageError{Stage: StageEvaluate, Err: err}
	}

	future, err := gen.FutureCovariates(ds.Last(), opts.ForecastDays)
	if err != nil {
		return nil, &StageError{Stage: StageForecast, Err: err}
	}
	res.Forecast = regression.Forecast(res.Model, future)

	if res.Recommendation, err = recommend.FromDemand(ds.Demand()); err != nil {
		return nil, &StageError{Stage: StageRecommend, Err: err}
	}
	return res, nil
}
