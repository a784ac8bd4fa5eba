package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/research-agent/internal/domain/research"
)

func TestAggregateSentimentPlurality(t *testing.T) {
	reviews := []research.Review{
		{Rating: 5, Sentiment: "positive"},
		{Rating: 4, Sentiment: "positive"},
		{Rating: 2, Sentiment: "negative"},
	}

	got := aggregateSentiment(reviews)

	assert.Equal(t, 3, got.TotalReviews)
	assert.Equal(t, "positive", got.OverallSentiment)
	assert.Equal(t, 3.7, got.AverageRating)
	assert.Equal(t, 66.7, got.Percentages["positive"])
	assert.Equal(t, 33.3, got.Percentages["negative"])
	assert.Equal(t, 66.7, got.ConfidenceScore)
	assert.Equal(t, 2, got.Summary["positive"])
	assert.Equal(t, 1, got.Summary["negative"])
	assert.Equal(t, 0, got.Summary["neutral"])
}

func TestAggregateSentimentTieBreak(t *testing.T) {
	cases := []struct {
		name    string
		ratings [2]float64
		want    string
	}{
		{"average of exactly 4 wins positive", [2]float64{5, 3}, "positive"},
		{"average of exactly 2 wins negative", [2]float64{3, 1}, "negative"},
		{"middling average stays neutral", [2]float64{4, 2}, "neutral"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := []research.Review{
				{Rating: tc.ratings[0], Sentiment: "positive"},
				{Rating: tc.ratings[1], Sentiment: "negative"},
			}
			got := aggregateSentiment(reviews)
			assert.Equal(t, tc.want, got.OverallSentiment)
		})
	}
}

func TestAggregateSentimentEmpty(t *testing.T) {
	got := aggregateSentiment(nil)
	assert.Equal(t, 0, got.TotalReviews)
	assert.Equal(t, "neutral", got.OverallSentiment)
	assert.Zero(t, got.ConfidenceScore)
}

func TestSentimentToolRequiresContext(t *testing.T) {
	tool := &sentimentTool{}
	rc := &research.Context{}

	out, err := tool.Call(context.Background(), nil, rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Product name or reviews data not found"}`, out)
	assert.Nil(t, rc.Sentiment)
}

func TestSentimentToolStoresResult(t *testing.T) {
	tool := &sentimentTool{}
	rc := &research.Context{
		ProductName: "iPhone 15 Pro",
		Reviews: []research.Review{
			{Rating: 5, Sentiment: "positive"},
			{Rating: 1, Sentiment: "negative"},
			{Rating: 5, Sentiment: "positive"},
		},
	}

	_, err := tool.Call(context.Background(), nil, rc)
	require.NoError(t, err)
	require.NotNil(t, rc.Sentiment)
	assert.Equal(t, "positive", rc.Sentiment.OverallSentiment)
}
