package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// Render writes an HTML page with one chart per requested view.
func Render(w io.Writer, in *Insights, views []View) error {
	page := components.NewPage()
	page.PageTitle = "Review Insights"

	for _, v := range views {
		chart, err := chartFor(in, v)
		if err != nil {
			return err
		}
		page.AddCharts(chart)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

func chartFor(in *Insights, v View) (components.Charter, error) {
	switch v {
	case ViewMonthlySentiment:
		return monthlySentimentChart(in), nil
	case ViewScoreTrend:
		return scoreTrendChart(in), nil
	case ViewOverallCounts:
		return overallCountsChart(in), nil
	case ViewScoreDistribution:
		return scoreDistributionChart(in), nil
	case ViewMonthlyCounts:
		return monthlyCountsChart(in), nil
	case ViewProducts:
		return productsChart(in), nil
	default:
		return nil, fmt.Errorf("unknown view %q", v)
	}
}

func titled(v View, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: v.Title()}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

func overallCountsChart(in *Insights) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(titled(ViewOverallCounts, "Overall Feeling", "Count")...)

	x := make([]string, len(in.OverallCounts))
	data := make([]opts.BarData, len(in.OverallCounts))
	for i, c := range in.OverallCounts {
		x[i] = string(c.Label)
		data[i] = opts.BarData{Value: c.Count}
	}
	bar.SetXAxis(x).AddSeries("Count", data)
	return bar
}

func scoreDistributionChart(in *Insights) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(titled(ViewScoreDistribution, "", "Sentiment Score")...)

	s := in.ScoreDistribution
	box.SetXAxis([]string{"Sentiment Score"}).AddSeries("Sentiment Score", []opts.BoxPlotData{
		{Value: []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}},
	})
	return box
}

func scoreTrendChart(in *Insights) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(titled(ViewScoreTrend, "Date", "Sentiment Score")...)

	x := make([]string, len(in.ScoreTrend))
	data := make([]opts.LineData, len(in.ScoreTrend))
	for i, p := range in.ScoreTrend {
		x[i] = p.Date
		data[i] = opts.LineData{Value: p.Score}
	}
	line.SetXAxis(x).AddSeries("Sentiment Score", data)
	return line
}

func monthlySentimentChart(in *Insights) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(titled(ViewMonthlySentiment, "Month", "Count / Average Score")...)

	x := make([]string, len(in.MonthlySentiment))
	avg := make([]opts.LineData, len(in.MonthlySentiment))
	for i, m := range in.MonthlySentiment {
		x[i] = m.Month
		avg[i] = opts.LineData{Value: m.AverageScore}
	}
	line.SetXAxis(x).AddSeries("Average Sentiment Score", avg)

	for _, label := range domain.Labels {
		series := make([]opts.LineData, len(in.MonthlySentiment))
		seen := false
		for i, m := range in.MonthlySentiment {
			n := m.Counts[label]
			seen = seen || n > 0
			series[i] = opts.LineData{Value: n}
		}
		if seen {
			line.AddSeries(string(label), series)
		}
	}
	return line
}

func monthlyCountsChart(in *Insights) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(titled(ViewMonthlyCounts, "Month", "Count")...)

	x := make([]string, len(in.MonthlyCounts))
	data := make([]opts.BarData, len(in.MonthlyCounts))
	for i, m := range in.MonthlyCounts {
		x[i] = m.Month
		data[i] = opts.BarData{Value: m.Count}
	}
	bar.SetXAxis(x).AddSeries("Count", data)
	return bar
}

func productsChart(in *Insights) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(titled(ViewProducts, "Product", "Count")...)

	x := make([]string, len(in.Products))
	pos := make([]opts.BarData, len(in.Products))
	neu := make([]opts.BarData, len(in.Products))
	neg := make([]opts.BarData, len(in.Products))
	for i, p := range in.Products {
		x[i] = p.Product
		pos[i] = opts.BarData{Value: p.Positive}
		neu[i] = opts.BarData{Value: p.Neutral}
		neg[i] = opts.BarData{Value: p.Negative}
	}
	bar.SetXAxis(x).
		AddSeries(string(domain.LabelPositive), pos).
		AddSeries(string(domain.LabelNeutral), neu).
		AddSeries(string(domain.LabelNegative), neg)
	return bar
}
