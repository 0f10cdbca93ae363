package render

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"strings"

	"StockCharter/internal/calculator"
	"StockCharter/internal/model"
)

// SymbolChart is the renderer input for one symbol: the enriched series and
// the indicator names that were requested for it. Err marks symbols whose
// pipeline failed; they render as an error card instead of aborting the
// dashboard.
type SymbolChart struct {
	Symbol     string
	Series     *model.Series
	Indicators []string
	Err        error
}

const (
	chartWidth  = 560
	chartHeight = 300
)

// Price-scale overlays drawn on the chart, matching the classic colors.
var overlayColors = map[string]string{
	calculator.ColMA20:     "red",
	calculator.ColMA50:     "green",
	calculator.ColMA200:    "blue",
	calculator.ColBBUpper:  "rgba(0,0,255,0.35)",
	calculator.ColBBLower:  "rgba(0,0,255,0.35)",
	calculator.ColBBMiddle: "blue",
	calculator.ColTenkan:   "blue",
	calculator.ColKijun:    "red",
	calculator.ColSpanA:    "green",
	calculator.ColSpanB:    "orange",
	calculator.ColChikou:   "lightgrey",
}

type line struct {
	Name   string
	Color  string
	Points string
}

type reading struct {
	Name  string
	Value string
}

type card struct {
	Symbol    string
	Err       string
	Range     string
	LastClose string
	CloudTone string
	Lines     []line
	Readings  []reading
}

type page struct {
	Title string
	Cards []card
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: lightsteelblue; margin: 20px; }
.card { background: white; display: inline-block; vertical-align: top;
        margin: 10px; padding: 12px; border-radius: 4px; width: 600px; }
.card h2 { margin: 0 0 6px 0; font-size: 16px; }
.err { color: #b00; }
table { font-size: 12px; border-collapse: collapse; }
td { padding: 1px 8px 1px 0; }
.legend { font-size: 11px; color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Cards}}
<div class="card">
<h2>{{.Symbol}}</h2>
{{if .Err}}<p class="err">{{.Err}}</p>{{else}}
<p>{{.Range}} | last close {{.LastClose}}{{if .CloudTone}} | cloud {{.CloudTone}}{{end}}</p>
<svg width="560" height="300" viewBox="0 0 560 300">
<rect width="560" height="300" fill="white" stroke="#ccc"/>
{{range .Lines}}<polyline fill="none" stroke="{{.Color}}" stroke-width="1" points="{{.Points}}"/>
{{end}}</svg>
<p class="legend">{{range .Lines}}{{.Name}} ({{.Color}}) {{end}}</p>
{{if .Readings}}<table>
{{range .Readings}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>{{end}}
{{end}}
</div>
{{end}}
</body>
</html>
`))

// WriteDashboard renders all symbol cards into a single HTML file.
func WriteDashboard(path, title string, charts []SymbolChart) error {
	p := page{Title: title}
	for _, c := range charts {
		p.Cards = append(p.Cards, buildCard(c))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()
	if err := dashboardTmpl.Execute(f, p); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func buildCard(c SymbolChart) card {
	out := card{Symbol: c.Symbol}
	if c.Err != nil {
		out.Err = c.Err.Error()
		return out
	}
	s := c.Series
	n := s.Len()
	if n == 0 {
		out.Err = "no data"
		return out
	}

	out.Range = fmt.Sprintf("%s .. %s (%d days)",
		s.Dates[0].Format("2006-01-02"), s.Dates[n-1].Format("2006-01-02"), n)
	out.LastClose = fmt.Sprintf("%.2f", s.Close[n-1])
	if len(s.Cloud) == n && n > 1 {
		out.CloudTone = s.Cloud[n-1].String()
	}

	// Scale every price-axis line to a common min/max.
	lines := [][]float64{s.Close}
	names := []string{"close"}
	colors := []string{"black"}
	for _, col := range s.Derived {
		color, ok := overlayColors[col.Name]
		if !ok {
			continue
		}
		lines = append(lines, col.Values)
		names = append(names, col.Name)
		colors = append(colors, color)
	}
	lo, hi := priceBounds(lines)
	for i, values := range lines {
		pts := polyline(values, lo, hi)
		if pts == "" {
			continue
		}
		out.Lines = append(out.Lines, line{Name: names[i], Color: colors[i], Points: pts})
	}

	// Off-chart indicators as a latest-value readout.
	for _, col := range s.Derived {
		if _, drawn := overlayColors[col.Name]; drawn {
			continue
		}
		out.Readings = append(out.Readings, reading{
			Name:  col.Name,
			Value: latestDefined(col.Values),
		})
	}
	return out
}

func priceBounds(lines [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, values := range lines {
		for _, v := range values {
			if !model.Defined(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// polyline maps a value sequence to SVG points, skipping undefined values.
func polyline(values []float64, lo, hi float64) string {
	if len(values) < 2 {
		return ""
	}
	var b strings.Builder
	step := float64(chartWidth) / float64(len(values)-1)
	for i, v := range values {
		if !model.Defined(v) {
			continue
		}
		x := float64(i) * step
		y := float64(chartHeight) * (1 - (v-lo)/(hi-lo))
		fmt.Fprintf(&b, "%.1f,%.1f ", x, y)
	}
	return strings.TrimSpace(b.String())
}

func latestDefined(values []float64) string {
	for i := len(values) - 1; i >= 0; i-- {
		if model.Defined(values[i]) {
			return fmt.Sprintf("%.2f", values[i])
		}
	}
	return "n/a"
}
