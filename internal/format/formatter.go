// internal/format/formatter.go
package format

import (
	"fmt"
	"math"
	"strings"

	"reviewbot/internal/models"
)

// sentimentGlyphs decorate the sentiment line of an analysis reply.
var sentimentGlyphs = map[models.Sentiment]string{
	models.SentimentPositive: "✨",
	models.SentimentNeutral:  "😐",
	models.SentimentNegative: "⚠️",
}

// comparableThreshold is the score gap below which two products are
// reported as having similar review profiles.
const comparableThreshold = 0.1

// Confidence renders a confidence score as a percentage with one
// decimal place, e.g. 0.856 -> "85.6".
func Confidence(score float64) string {
	return fmt.Sprintf("%.1f", score*100)
}

// Analysis renders the full analysis reply for one product.
func Analysis(result *models.AnalysisResult) string {
	summary := result.Summary
	glyph := sentimentGlyphs[summary.OverallSentiment]

	var b strings.Builder
	b.WriteString("*📊 Product Review Analysis*\n\n")
	if result.ProductInfo.Name != "" {
		fmt.Fprintf(&b, "*%s*\n%s\n\n", result.ProductInfo.Name, result.ProductInfo.URL)
	}
	fmt.Fprintf(&b, "%s *Overall Sentiment:* %s\n", glyph, strings.ToUpper(string(summary.OverallSentiment)))
	fmt.Fprintf(&b, "🎯 *Confidence:* %s%%\n\n", Confidence(summary.ConfidenceScore))
	b.WriteString("*Review Distribution:*\n")
	fmt.Fprintf(&b, "📈 Positive: %d\n", summary.ReviewCounts.Positive)
	fmt.Fprintf(&b, "😐 Neutral: %d\n", summary.ReviewCounts.Neutral)
	fmt.Fprintf(&b, "📉 Negative: %d\n\n", summary.ReviewCounts.Negative)
	fmt.Fprintf(&b, "*Key Insights:*\n%s\n\n", keyInsights(summary))
	fmt.Fprintf(&b, "*Recommendation:*\n%s\n\n", summary.Recommendation)
	b.WriteString(buyingAdvice(summary))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "_Analysis updated: %s_", result.Timestamp.Local().Format("1/2/2006, 3:04:05 PM"))
	return b.String()
}

func keyInsights(summary models.Summary) string {
	var insights []string

	if summary.ConfidenceScore > 0.8 {
		insights = append(insights, "✓ High confidence in analysis")
	}

	// No review-distribution insights when there are no reviews.
	if total := summary.ReviewCounts.Total(); total > 0 {
		positiveRatio := float64(summary.ReviewCounts.Positive) / float64(total)
		neutralRatio := float64(summary.ReviewCounts.Neutral) / float64(total)

		if positiveRatio > 0.8 {
			insights = append(insights, "✓ Overwhelmingly positive reviews")
		} else if positiveRatio < 0.3 {
			insights = append(insights, "⚠️ High number of negative reviews")
		}

		if neutralRatio > 0.3 {
			insights = append(insights, "😐 Mixed opinions - reviews are divided")
		}
	}

	return strings.Join(insights, "\n")
}

func buyingAdvice(summary models.Summary) string {
	confidenceHigh := summary.ConfidenceScore > 0.8
	sentimentPositive := summary.OverallSentiment == models.SentimentPositive

	switch {
	case confidenceHigh && sentimentPositive:
		return "💡 *Pro Tip:* Strong buy recommendation based on review analysis!"
	case sentimentPositive:
		return "💡 *Pro Tip:* Generally positive reviews, but consider your specific needs."
	case summary.OverallSentiment == models.SentimentNeutral:
		return "💡 *Pro Tip:* Mixed reviews - research specific features important to you."
	default:
		return "💡 *Pro Tip:* Consider alternative products based on review analysis."
	}
}

// Score collapses one analysis into a single comparable number:
// confidence weighted by sentiment (positive 1.0, neutral 0.5,
// negative 0.0).
func Score(result *models.AnalysisResult) float64 {
	weight := 0.0
	switch result.Summary.OverallSentiment {
	case models.SentimentPositive:
		weight = 1.0
	case models.SentimentNeutral:
		weight = 0.5
	}
	return result.Summary.ConfidenceScore * weight
}

// Comparison renders the side-by-side comparison reply for two
// products, in the order they were supplied.
func Comparison(first, second *models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("*📊 Product Comparison*\n\n")
	b.WriteString("*Product 1:*\n")
	fmt.Fprintf(&b, "Sentiment: %s\n", first.Summary.OverallSentiment)
	fmt.Fprintf(&b, "Confidence: %s%%\n", Confidence(first.Summary.ConfidenceScore))
	fmt.Fprintf(&b, "Reviews: %d\n\n", first.Summary.ReviewCounts.Total())
	b.WriteString("*Product 2:*\n")
	fmt.Fprintf(&b, "Sentiment: %s\n", second.Summary.OverallSentiment)
	fmt.Fprintf(&b, "Confidence: %s%%\n", Confidence(second.Summary.ConfidenceScore))
	fmt.Fprintf(&b, "Reviews: %d\n\n", second.Summary.ReviewCounts.Total())
	fmt.Fprintf(&b, "*Recommendation:*\n%s", comparisonVerdict(first, second))
	return b.String()
}

func comparisonVerdict(first, second *models.AnalysisResult) string {
	score1 := Score(first)
	score2 := Score(second)

	switch {
	case math.Abs(score1-score2) < comparableThreshold:
		return "Both products have similar review profiles. Consider your specific needs and price points."
	case score1 > score2:
		return "Product 1 has more favorable reviews and might be the better choice."
	default:
		return "Product 2 has more favorable reviews and might be the better choice."
	}
}

// Stats renders the abbreviated statistics reply.
func Stats(result *models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("*📊 Quick Stats*\n\n")
	fmt.Fprintf(&b, "Total Reviews: %d\n", result.Summary.ReviewCounts.Total())
	fmt.Fprintf(&b, "Overall Sentiment: %s\n", result.Summary.OverallSentiment)
	fmt.Fprintf(&b, "Confidence: %s%%", Confidence(result.Summary.ConfidenceScore))
	return b.String()
}
