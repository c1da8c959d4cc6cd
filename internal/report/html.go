package report

import (
	"fmt"
	"html/template"
	"io"
)

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":   func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f2":    func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"label": passLabel,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - Evaluation Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f0f0f0; }
.pass { color: #0a7d2e; font-weight: bold; }
.fail { color: #b01818; font-weight: bold; }
.meta { color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Evaluation Report: {{.Title}}</h1>
<p class="meta">Generated {{.Meta.Timestamp.Format "2006-01-02 15:04:05 UTC"}} by pipeline v{{.Meta.Version}} ({{.Meta.Environment.GoVersion}}, {{.Meta.Environment.OS}}/{{.Meta.Environment.Arch}})</p>

<h2>Summary</h2>
<table>
<tr><th>Evaluated</th><td>{{.Summary.Total}}</td></tr>
<tr><th>Passed</th><td>{{.Summary.Passed}} ({{pct .Summary.PassRate}})</td></tr>
<tr><th>Average score</th><td>{{f2 .Summary.AvgScore}}</td></tr>
<tr><th>Score range</th><td>{{f2 .Summary.MinScore}} &ndash; {{f2 .Summary.MaxScore}}</td></tr>
<tr><th>Mean processing</th><td>{{f2 .Summary.MeanProcessingMS}}ms</td></tr>
</table>

<h2>Results</h2>
<table>
<tr><th>Submission</th><th>Overall</th><th>Criteria</th><th>Status</th></tr>
{{range .Entries}}
<tr>
<td>{{.SubmissionTitle}}</td>
<td>{{f2 .Evaluation.OverallScore}}</td>
<td>
{{range .Evaluation.CriterionScores}}{{.CriterionName}}: {{f2 .Score}} ({{label .Passed}})<br>{{end}}
</td>
<td class="{{if .Evaluation.Passed}}pass{{else}}fail{{end}}">{{label .Evaluation.Passed}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// WriteHTML renders the evaluation report as a standalone HTML page.
func WriteHTML(r *Report, w io.Writer) error {
	if err := htmlTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

var runHTMLTmpl = template.Must(template.New("run-report").Funcs(template.FuncMap{
	"pct":   func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f2":    func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"f4":    func(f float64) string { return fmt.Sprintf("%.4f", f) },
	"f6":    func(f float64) string { return fmt.Sprintf("%.6f", f) },
	"label": passLabel,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Suite}} - Reproducibility Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f0f0f0; }
.pass { color: #0a7d2e; font-weight: bold; }
.fail { color: #b01818; font-weight: bold; }
.meta { color: #666; font-size: 0.85rem; }
code { font-size: 0.8rem; }
</style>
</head>
<body>
<h1>Reproducibility Report: {{.Suite}}</h1>
<p class="meta">Generated {{.Meta.Timestamp.Format "2006-01-02 15:04:05 UTC"}} by pipeline v{{.Meta.Version}} ({{.Meta.Environment.GoVersion}}, {{.Meta.Environment.OS}}/{{.Meta.Environment.Arch}})</p>

<h2>Summary</h2>
<table>
<tr><th>Cases</th><td>{{.Summary.Total}}</td></tr>
<tr><th>Passed</th><td>{{.Summary.Passed}} ({{pct .Summary.PassRate}})</td></tr>
<tr><th>Avg reproducibility</th><td>{{f4 .Summary.AvgReproducibility}}</td></tr>
<tr><th>Avg variance ratio</th><td>{{f6 .Summary.AvgVarianceRatio}}</td></tr>
<tr><th>Avg latency</th><td>{{f2 .Summary.AvgLatencyMeanMS}}ms</td></tr>
<tr><th>Latency p50 / p95 / max</th><td>{{f2 .Summary.LatencyP50MS}} / {{f2 .Summary.LatencyP95MS}} / {{f2 .Summary.LatencyMaxMS}}ms</td></tr>
</table>

<h2>Cases</h2>
<table>
<tr><th>Case</th><th>Seed</th><th>Runs</th><th>Reproducibility</th><th>Latency mean</th><th>Variance ratio</th><th>Results hash</th><th>Status</th></tr>
{{range .Cases}}
<tr>
<td>{{.ID}}</td>
<td>{{.Result.Seed}}</td>
<td>{{.Result.Runs}}</td>
<td>{{f4 .Result.ReproducibilityScore}}</td>
<td>{{f2 .Result.LatencyMeanMS}}ms</td>
<td>{{f6 .Result.LatencyVarianceRatio}}</td>
<td><code>{{.Result.ResultsSHA256}}</code></td>
<td class="{{if .Result.OverallPassed}}pass{{else}}fail{{end}}">{{label .Result.OverallPassed}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// WriteRunHTML renders the suite run report as a standalone HTML page.
func WriteRunHTML(r *RunReport, w io.Writer) error {
	if err := runHTMLTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
