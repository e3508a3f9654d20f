package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/your-org/acai-demand-study/internal/chart"
	"github.com/your-org/acai-demand-study/internal/config"
	"github.com/your-org/acai-demand-study/internal/csvwriter"
	"github.com/your-org/acai-demand-study/internal/report"
	"github.com/your-org/acai-demand-study/internal/study"
	"github.com/your-org/acai-demand-study/pkg/logger"
)

// Completion is printed once every artifact has been attempted.
const Completion = "=== ANÁLISE CONCLUÍDA ==="

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	outDir := flag.String("out", "", "output directory (overrides output_dir)")
	flag.Parse()

	// --- Load Configuration ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	// --- Logger Setup ---
	l := logger.NewLogger(cfg.LogLevel).With("run_id", uuid.NewString())
	logger.SetGlobal(l)
	defer logger.Sync()

	if err := run(cfg, os.Stdout, l); err != nil {
		var stageErr *study.StageError
		if errors.As(err, &stageErr) {
			l.Fatalf("Study aborted at %s stage: %v", stageErr.Stage, stageErr.Err)
		}
		l.Fatalf("Study failed: %v", err)
	}
}

// run executes the study, prints the narrative to out and writes the
// artifacts. Only study failures are returned; artifact errors are logged.
func run(cfg *config.Config, out io.Writer, l logger.Logger) error {
	l.Infof("Starting demand study: seed=%d days=%d start=%s forecast_days=%d",
		cfg.Seed, cfg.Days, cfg.StartDate.Format(config.DateLayout), cfg.ForecastDays)

	res, err := study.Run(study.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	if err := report.Write(out, res); err != nil {
		l.Errorf("Failed to print report: %v", err)
	}

	paths := writeArtifacts(cfg, res, out, l)

	fmt.Fprintln(out)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "✓ %s foi criado com sucesso!\n", path)
		} else {
			fmt.Fprintf(out, "✗ %s não foi criado!\n", path)
		}
	}
	fmt.Fprintf(out, "\n%s\n", Completion)
	return nil
}

// writeArtifacts saves the chart and both tables. A failed write is logged
// and the next one proceeds. It returns every path it attempted.
func writeArtifacts(cfg *config.Config, res *study.Result, out io.Writer, l logger.Logger) []string {
	var paths []string
	zl := logger.Zap(l)

	if cfg.Chart.Enabled {
		path := cfg.OutputPath(config.ChartFile)
		paths = append(paths, path)
		opts := chart.DefaultOptions()
		opts.DPI = cfg.Chart.DPI
		if err := chart.SaveFile(path, res.Dataset, opts); err != nil {
			l.Errorf("Failed to save chart: %v", err)
		} else {
			fmt.Fprintf(out, "\nGráfico salvo em: %s\n", path)
		}
	} else {
		l.Debug("Chart disabled by configuration")
	}

	datasetPath := cfg.OutputPath(config.DatasetFile)
	paths = append(paths, datasetPath)
	if err := csvwriter.WriteDataset(datasetPath, res.Dataset, res.Predictions, zl); err != nil {
		l.Errorf("Failed to save dataset: %v", err)
	} else {
		fmt.Fprintf(out, "Arquivo salvo: %s\n", datasetPath)
	}

	forecastPath := cfg.OutputPath(config.ForecastFile)
	paths = append(paths, forecastPath)
	if err := csvwriter.WriteForecast(forecastPath, res.Forecast, zl); err != nil {
		l.Errorf("Failed to save forecast: %v", err)
	} else {
		fmt.Fprintf(out, "Arquivo salvo: %s\n", forecastPath)
	}

	return paths
}
