// Package report renders the console narrative of a study run.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/your-org/acai-demand-study/internal/config"
	"github.com/your-org/acai-demand-study/internal/explore"
	"github.com/your-org/acai-demand-study/internal/study"
)

// PreviewRows is the number of observations shown in the data preview.
const PreviewRows = 5

// Section headings.
const (
	HeadingData       = "=== DADOS SIMULADOS ==="
	HeadingExplore    = "=== ANÁLISE EXPLORATÓRIA ==="
	HeadingHypothesis = "=== TESTE DE HIPÓTESE ==="
	HeadingRegression = "=== MODELO DE REGRESSÃO LINEAR ==="
	HeadingForecast   = "=== PREVISÃO PARA PRÓXIMOS %d DIAS ==="
	HeadingRecommend  = "=== RECOMENDAÇÕES ==="
)

var columnLabels = map[string]string{
	explore.ColDemand:      "Demanda",
	explore.ColTemperature: "Temperatura",
	explore.ColWeekend:     "Fim_de_Semana",
	explore.ColHoliday:     "Feriado",
}

// Write prints every section of res to w. It stops at the first write error.
func Write(w io.Writer, res *study.Result) error {
	p := &printer{w: w}
	writeData(p, res)
	writeExplore(p, res)
	writeHypothesis(p, res)
	writeRegression(p, res)
	writeForecast(p, res)
	writeRecommendation(p, res)
	return p.err
}

// printer keeps the first write error and ignores later writes.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

// table writes tab separated rows aligned with text/tabwriter.
func (p *printer) table(rows [][]string) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(r, "\t")+"\t"); err != nil {
			p.err = err
			return
		}
	}
	p.err = tw.Flush()
}

func writeData(p *printer, res *study.Result) {
	p.println(HeadingData)
	rows := [][]string{{"Data", "Demanda", "Temperatura", "Fim_de_Semana", "Feriado"}}
	for i, o := range res.Dataset {
		if i == PreviewRows {
			break
		}
		rows = append(rows, []string{
			o.Date.Format(config.DateLayout),
			Fixed(o.Demand, 2),
			Fixed(o.Temperature, 2),
			fmt.Sprint(o.IsWeekend),
			fmt.Sprint(o.IsHoliday),
		})
	}
	p.table(rows)

	p.println("\nEstatísticas descritivas:")
	header := []string{""}
	for _, c := range res.Summary.Columns {
		header = append(header, label(c.Name))
	}
	stats := []struct {
		name string
		get  func(explore.ColumnSummary) float64
	}{
		{"count", func(c explore.ColumnSummary) float64 { return float64(c.Count) }},
		{"mean", func(c explore.ColumnSummary) float64 { return c.Mean }},
		{"std", func(c explore.ColumnSummary) float64 { return c.Std }},
		{"min", func(c explore.ColumnSummary) float64 { return c.Min }},
		{"25%", func(c explore.ColumnSummary) float64 { return c.Q25 }},
		{"50%", func(c explore.ColumnSummary) float64 { return c.Median }},
		{"75%", func(c explore.ColumnSummary) float64 { return c.Q75 }},
		{"max", func(c explore.ColumnSummary) float64 { return c.Max }},
	}
	rows = [][]string{header}
	for _, s := range stats {
		row := []string{s.name}
		for _, c := range res.Summary.Columns {
			row = append(row, Fixed(s.get(c), 4))
		}
		rows = append(rows, row)
	}
	p.table(rows)
}

func writeExplore(p *printer, res *study.Result) {
	p.println("\n" + HeadingExplore)
	p.println("\nMatriz de correlação:")
	corr := res.Correlation
	header := []string{""}
	for _, l := range corr.Labels {
		header = append(header, label(l))
	}
	rows := [][]string{header}
	for i, l := range corr.Labels {
		row := []string{label(l)}
		for j := range corr.Labels {
			row = append(row, Fixed(corr.At(i, j), 4))
		}
		rows = append(rows, row)
	}
	p.table(rows)
}

func writeHypothesis(p *printer, res *study.Result) {
	t := res.TTest
	p.println("\n" + HeadingHypothesis)
	p.printf("Teste t para diferença de médias (%s):\n", t.Method)
	p.printf("Média dias úteis: %s\n", Fixed(t.MeanA, 2))
	p.printf("Média fins de semana: %s\n", Fixed(t.MeanB, 2))
	p.printf("Estatística t: %s, Valor p: %s\n", Fixed(t.T, 4), Fixed(t.PValue, 4))
	p.println(Decision(t.Significant, t.Alpha))
}

// Decision is the verdict line of the hypothesis test.
func Decision(significant bool, alpha float64) string {
	if significant {
		return fmt.Sprintf("Há diferença significativa na demanda entre dias úteis e fins de semana (p < %s)",
			decimal.NewFromFloat(alpha).String())
	}
	return "Não há diferença significativa na demanda entre dias úteis e fins de semana"
}

func writeRegression(p *printer, res *study.Result) {
	m := res.Model
	p.println("\n" + HeadingRegression)
	p.println("Variável dependente: Demanda    Método: Mínimos Quadrados")
	p.table([][]string{
		{"Observações:", fmt.Sprint(m.N), "R²:", Fixed(m.R2, 3)},
		{"GL Resíduos:", Fixed(m.DFResid, 0), "R² ajustado:", Fixed(m.AdjR2, 3)},
		{"GL Modelo:", Fixed(m.DFModel, 0), "Estatística F:", Fixed(m.FStat, 2)},
		{"Log-Verossimilhança:", Fixed(m.LogLik, 2), "Prob (F):", Sci(m.FPValue)},
		{"AIC:", Fixed(m.AIC, 2), "BIC:", Fixed(m.BIC, 2)},
	})
	p.println("")

	rows := [][]string{{"", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]"}}
	for _, t := range m.Terms() {
		rows = append(rows, []string{
			t.Name,
			Fixed(t.Coef, 4),
			Fixed(t.StdErr, 3),
			Fixed(t.T, 3),
			Fixed(t.P, 3),
			Fixed(t.Lower, 3),
			Fixed(t.Upper, 3),
		})
	}
	p.table(rows)
	p.println("")
	p.table([][]string{
		{"Durbin-Watson:", Fixed(m.DurbinWatson, 3)},
		{"Número de condição:", Fixed(m.Condition, 1)},
	})

	p.println("\nMétricas de avaliação:")
	p.printf("R²: %s\n", Fixed(res.Metrics.R2, 4))
	p.printf("RMSE: %s\n", Fixed(res.Metrics.RMSE, 4))
}

func writeForecast(p *printer, res *study.Result) {
	p.println("\n" + fmt.Sprintf(HeadingForecast, len(res.Forecast)))
	rows := [][]string{{"Data", "Temperatura_Prevista", "Fim_de_Semana", "Demanda_Prevista"}}
	for _, f := range res.Forecast {
		rows = append(rows, []string{
			f.Date.Format(config.DateLayout),
			Fixed(f.Temperature, 2),
			fmt.Sprint(f.IsWeekend),
			Fixed(f.Demand, 2),
		})
	}
	p.table(rows)
}

func writeRecommendation(p *printer, res *study.Result) {
	r := res.Recommendation
	p.println("\n" + HeadingRecommend)
	p.printf("Demanda média histórica: %s unidades/dia\n", Fixed(r.MeanDemand, 2))
	p.printf("Desvio padrão: %s unidades\n", Fixed(r.StdDev, 2))
	p.printf("Estoque ideal para atender 95%% da demanda: %s unidades\n", Fixed(r.StockLevel, 2))
	p.println("\nEconomia estimada com redução de desperdício:")
	p.printf("Redução de %s para %s unidades/dia\n", Fixed(r.CurrentWaste, 2), Fixed(r.TargetWaste, 2))
	p.printf("Economia mensal estimada: %s unidades\n", Fixed(r.MonthlySavings, 2))
}

// Fixed rounds v half away from zero to places decimals. Non-finite values
// are spelled out since decimal cannot represent them.
func Fixed(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Sci formats small probabilities in exponent notation.
func Sci(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 || v >= 1e-3 {
		return Fixed(v, 4)
	}
	return fmt.Sprintf("%.2e", v)
}

func label(name string) string {
	if l, ok := columnLabels[name]; ok {
		return l
	}
	return name
}
