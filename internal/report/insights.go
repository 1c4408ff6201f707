// Package report aggregates scored datasets into descriptive views.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// View names a single insight.
type View string

const (
	ViewMonthlySentiment  View = "monthly_sentiment"
	ViewScoreTrend        View = "score_trend"
	ViewOverallCounts     View = "overall_counts"
	ViewScoreDistribution View = "score_distribution"
	ViewMonthlyCounts     View = "monthly_counts"
	ViewProducts          View = "products"
)

// AllViews lists every view in page order.
var AllViews = []View{
	ViewMonthlySentiment,
	ViewScoreTrend,
	ViewOverallCounts,
	ViewScoreDistribution,
	ViewMonthlyCounts,
	ViewProducts,
}

var viewTitles = map[View]string{
	ViewMonthlySentiment:  "Overall Sentiment Across Months",
	ViewScoreTrend:        "Trend of Sentiment Scores over Time",
	ViewOverallCounts:     "Distribution of Overall Feelings",
	ViewScoreDistribution: "Distribution of Sentiment Scores",
	ViewMonthlyCounts:     "Monthly Count of Reviews",
	ViewProducts:          "Sentiment by Product",
}

// Title returns the display title of a view.
func (v View) Title() string {
	return viewTitles[v]
}

// ParseViews parses a comma separated view list. An empty list selects all views.
func ParseViews(raw string) ([]View, error) {
	if strings.TrimSpace(raw) == "" {
		return AllViews, nil
	}
	var views []View
	for _, part := range strings.Split(raw, ",") {
		v := View(strings.TrimSpace(part))
		if _, ok := viewTitles[v]; !ok {
			return nil, fmt.Errorf("unknown view %q", part)
		}
		views = append(views, v)
	}
	return views, nil
}

// LabelCount is one bar of the overall label chart.
type LabelCount struct {
	Label domain.Label `json:"label"`
	Count int          `json:"count"`
}

// BoxStats summarises the score distribution.
type BoxStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// TrendPoint is one dated score.
type TrendPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// MonthSentiment holds the mean score and label counts of one month.
type MonthSentiment struct {
	Month        string               `json:"month"`
	AverageScore float64              `json:"average_score"`
	Counts       map[domain.Label]int `json:"counts"`
}

// MonthCount is the number of reviews in one month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ProductLabels is one row of the product by label pivot table.
type ProductLabels struct {
	Product  string `json:"product"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// Insights holds every aggregate view of a dataset.
type Insights struct {
	Rows              int              `json:"rows"`
	OverallCounts     []LabelCount     `json:"overall_counts"`
	ScoreDistribution BoxStats         `json:"score_distribution"`
	ScoreTrend        []TrendPoint     `json:"score_trend"`
	MonthlySentiment  []MonthSentiment `json:"monthly_sentiment"`
	MonthlyCounts     []MonthCount     `json:"monthly_counts"`
	Products          []ProductLabels  `json:"products"`
}

// Build computes all views of ds.
func Build(ds *domain.Dataset) *Insights {
	return &Insights{
		Rows:              len(ds.Records),
		OverallCounts:     OverallCounts(ds.Records),
		ScoreDistribution: ScoreDistribution(ds.Records),
		ScoreTrend:        ScoreTrend(ds.Records),
		MonthlySentiment:  MonthlySentiment(ds.Records),
		MonthlyCounts:     MonthlyCounts(ds.Records),
		Products:          ProductBreakdown(ds.Records),
	}
}

// OverallCounts counts records per label, most frequent first. Unset labels are skipped.
func OverallCounts(records []domain.ReviewRecord) []LabelCount {
	counts := make(map[domain.Label]int)
	for _, r := range records {
		if r.Overall != domain.LabelUnset {
			counts[r.Overall]++
		}
	}

	out := make([]LabelCount, 0, len(counts))
	for _, l := range domain.Labels {
		if n := counts[l]; n > 0 {
			out = append(out, LabelCount{Label: l, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ScoreDistribution computes box plot statistics with linear interpolation
// between order statistics.
func ScoreDistribution(records []domain.ReviewRecord) BoxStats {
	if len(records) == 0 {
		return BoxStats{}
	}
	xs := make([]float64, len(records))
	sum := 0.0
	for i, r := range records {
		xs[i] = float64(r.SentimentScore)
		sum += xs[i]
	}
	sort.Float64s(xs)

	return BoxStats{
		Count:  len(xs),
		Min:    xs[0],
		Q1:     percentile(xs, 0.25),
		Median: percentile(xs, 0.5),
		Q3:     percentile(xs, 0.75),
		Max:    xs[len(xs)-1],
		Mean:   sum / float64(len(xs)),
	}
}

func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ScoreTrend returns dated scores in date order. Undated records are skipped.
func ScoreTrend(records []domain.ReviewRecord) []TrendPoint {
	type dated struct {
		at    time.Time
		score int
	}
	var rows []dated
	for _, r := range records {
		if r.HasDate() {
			rows = append(rows, dated{at: r.Date, score: r.SentimentScore})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	out := make([]TrendPoint, len(rows))
	for i, row := range rows {
		out[i] = TrendPoint{Date: row.at.Format("2006-01-02"), Score: row.score}
	}
	return out
}

// MonthlySentiment groups records by month in calendar order.
// Records without a recognisable month are skipped.
func MonthlySentiment(records []domain.ReviewRecord) []MonthSentiment {
	type acc struct {
		sum    int
		n      int
		counts map[domain.Label]int
	}
	byMonth := make(map[time.Month]*acc)
	for _, r := range records {
		if r.Month == 0 {
			continue
		}
		a := byMonth[r.Month]
		if a == nil {
			a = &acc{counts: make(map[domain.Label]int)}
			byMonth[r.Month] = a
		}
		a.sum += r.SentimentScore
		a.n++
		if r.Overall != domain.LabelUnset {
			a.counts[r.Overall]++
		}
	}

	var out []MonthSentiment
	for _, m := range domain.CanonicalMonths {
		a, ok := byMonth[m]
		if !ok {
			continue
		}
		out = append(out, MonthSentiment{
			Month:        m.String(),
			AverageScore: float64(a.sum) / float64(a.n),
			Counts:       a.counts,
		})
	}
	return out
}

// MonthlyCounts counts reviews per month in calendar order.
func MonthlyCounts(records []domain.ReviewRecord) []MonthCount {
	counts := make(map[time.Month]int)
	for _, r := range records {
		if r.Month != 0 {
			counts[r.Month]++
		}
	}

	var out []MonthCount
	for _, m := range domain.CanonicalMonths {
		if n := counts[m]; n > 0 {
			out = append(out, MonthCount{Month: m.String(), Count: n})
		}
	}
	return out
}

// ProductBreakdown pivots products against labels, sorted by product name.
func ProductBreakdown(records []domain.ReviewRecord) []ProductLabels {
	byProduct := make(map[string]*ProductLabels)
	for _, r := range records {
		if r.Overall == domain.LabelUnset {
			continue
		}
		p := byProduct[r.ProductName]
		if p == nil {
			p = &ProductLabels{Product: r.ProductName}
			byProduct[r.ProductName] = p
		}
		switch r.Overall {
		case domain.LabelPositive:
			p.Positive++
		case domain.LabelNeutral:
			p.Neutral++
		case domain.LabelNegative:
			p.Negative++
		}
	}

	out := make([]ProductLabels, 0, len(byProduct))
	for _, p := range byProduct {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}
