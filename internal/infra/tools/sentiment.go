package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ecomlabs/research-agent/internal/domain/research"
)

// sentimentTool aggregates the pre-labelled review sentiments already
// collected in the research context.
type sentimentTool struct{}

func (t *sentimentTool) Name() string { return "analyze_and_store_sentiment" }

func (t *sentimentTool) Description() string {
	return "Analyze the sentiment of the reviews previously stored in the research context and store the aggregated result."
}

func (t *sentimentTool) Parameters() map[string]any { return noParams() }

func (t *sentimentTool) Call(_ context.Context, _ json.RawMessage, rc *research.Context) (string, error) {
	if rc.ProductName == "" || rc.Reviews == nil {
		return errPayload("Product name or reviews data not found"), nil
	}

	analysis := aggregateSentiment(rc.Reviews)
	rc.Sentiment = analysis
	return marshal(analysis)
}

// aggregateSentiment classifies each review by its sentiment label and
// derives the overall verdict. Plurality wins; a positive/negative tie is
// broken by the average rating (>=4 positive, <=2 negative, else neutral).
// Confidence is the largest sentiment percentage.
func aggregateSentiment(reviews []research.Review) *research.SentimentAnalysis {
	counts := map[string]int{"positive": 0, "negative": 0, "neutral": 0}
	if len(reviews) == 0 {
		return &research.SentimentAnalysis{
			Summary:          counts,
			Percentages:      map[string]float64{"positive": 0, "negative": 0, "neutral": 0},
			OverallSentiment: "neutral",
		}
	}

	var totalRating float64
	for _, r := range reviews {
		label := strings.ToLower(r.Sentiment)
		if _, ok := counts[label]; ok {
			counts[label]++
		}
		totalRating += r.Rating
	}

	total := len(reviews)
	avgRating := totalRating / float64(total)

	percentages := make(map[string]float64, len(counts))
	maxPct := 0.0
	for label, n := range counts {
		pct := float64(n) / float64(total) * 100
		percentages[label] = round1(pct)
		if pct > maxPct {
			maxPct = pct
		}
	}

	overall := plurality(counts)
	if counts["positive"] == counts["negative"] {
		switch {
		case avgRating >= 4:
			overall = "positive"
		case avgRating <= 2:
			overall = "negative"
		default:
			overall = "neutral"
		}
	}

	return &research.SentimentAnalysis{
		TotalReviews:     total,
		Summary:          counts,
		Percentages:      percentages,
		AverageRating:    round1(avgRating),
		OverallSentiment: overall,
		ConfidenceScore:  round1(maxPct),
	}
}

// plurality returns the label with the highest count, preferring
// positive over negative over neutral on equal counts.
func plurality(counts map[string]int) string {
	best := "positive"
	for _, label := range []string{"negative", "neutral"} {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
