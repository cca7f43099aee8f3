package models

import "time"

// Sentiment is the categorical summary of overall review tone.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the three known sentiment values.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// ProductInfo identifies the analyzed product.
type ProductInfo struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ReviewCounts holds the per-sentiment review breakdown.
type ReviewCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total returns the number of reviews across all sentiments.
func (rc ReviewCounts) Total() int {
	return rc.Positive + rc.Neutral + rc.Negative
}

// Summary is the aggregated outcome of one analysis run.
type Summary struct {
	OverallSentiment Sentiment    `json:"overall_sentiment"`
	ConfidenceScore  float64      `json:"confidence_score"`
	ReviewCounts     ReviewCounts `json:"review_counts"`
	Recommendation   string       `json:"recommendation"`
}

// AnalysisResult is the parsed analysis artifact for one product.
// Immutable once loaded; identified externally by product id plus the
// artifact timestamp.
type AnalysisResult struct {
	ProductID   string      `json:"product_id"`
	ProductInfo ProductInfo `json:"product_info"`
	Summary     Summary     `json:"summary"`
	Timestamp   time.Time   `json:"timestamp"`
}
