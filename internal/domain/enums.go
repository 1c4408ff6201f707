// Package domain defines the core domain models for the review analyzer.
package domain

// Label is the coarse three-way bucket for a sentiment score.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
	// LabelUnset marks rows that were never scored or whose scoring failed.
	LabelUnset Label = ""
)

// Labels lists the set labels in display order.
var Labels = []Label{LabelPositive, LabelNeutral, LabelNegative}

// Role represents the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Column names used by the pipeline. Headers are compared after lower-casing.
const (
	ColumnProductName    = "product_name"
	ColumnReview         = "review"
	ColumnMonth          = "month"
	ColumnYear           = "year"
	ColumnDate           = "date"
	ColumnSentimentScore = "sentiment score"
	ColumnOverall        = "overall"
)

// RequiredColumns must be present in an uploaded review file before scoring.
var RequiredColumns = []string{ColumnProductName, ColumnReview, ColumnMonth, ColumnYear}

// ScoredColumns must be present in an imported, already scored file.
var ScoredColumns = []string{ColumnProductName, ColumnReview, ColumnSentimentScore}

// UnscoredScore is the sentinel score for rows without a classifier result.
const UnscoredScore = 0

// LabelForScore maps a 1-5 sentiment score onto its overall label.
// Scores outside 1-5, including the sentinel 0, have no label.
func LabelForScore(score int) Label {
	switch score {
	case 5, 4:
		return LabelPositive
	case 3:
		return LabelNeutral
	case 2, 1:
		return LabelNegative
	default:
		return LabelUnset
	}
}
