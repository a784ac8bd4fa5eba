package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func TestFetchProductToolKnownProduct(t *testing.T) {
	cat := loadCatalog(t)
	tool := &fetchProductTool{cat: cat, now: fixedNow}
	rc := &research.Context{}

	args := json.RawMessage(`{"product_name": "iPhone 15 Pro"}`)
	out, err := tool.Call(context.Background(), args, rc)
	require.NoError(t, err)
	assert.NotContains(t, out, `"error"`)

	require.NotNil(t, rc.Product)
	assert.Equal(t, "iPhone 15 Pro", rc.ProductName)
	assert.Equal(t, "Apple", rc.Product.Product.Brand)
	assert.Len(t, rc.Product.Retailers, len(cat.Retailers()))

	// Target is out of stock and must not influence pricing aggregates
	assert.Equal(t, 1, rc.Product.Availability.OutOfStockCount)
	p := rc.Product.Pricing
	require.NotNil(t, p.MinPrice)
	require.NotNil(t, p.MaxPrice)
	require.NotNil(t, p.AveragePrice)
	assert.LessOrEqual(t, *p.MinPrice, *p.AveragePrice)
	assert.LessOrEqual(t, *p.AveragePrice, *p.MaxPrice)
	assert.Equal(t, "USD", p.Currency)
}

func TestFetchProductToolOfferSynthesisIsDeterministic(t *testing.T) {
	cat := loadCatalog(t)
	tool := &fetchProductTool{cat: cat, now: fixedNow}

	first := &research.Context{}
	second := &research.Context{}
	args := json.RawMessage(`{"product_name": "iPhone 15 Pro"}`)

	_, err := tool.Call(context.Background(), args, first)
	require.NoError(t, err)
	_, err = tool.Call(context.Background(), args, second)
	require.NoError(t, err)

	assert.Equal(t, first.Product, second.Product)
}

func TestFetchProductToolUnknownProduct(t *testing.T) {
	cat := loadCatalog(t)
	tool := &fetchProductTool{cat: cat, now: fixedNow}
	rc := &research.Context{}

	out, err := tool.Call(context.Background(), json.RawMessage(`{"product_name": "Nokia 3310"}`), rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Product not found"}`, out)

	// the context stays untouched on a miss
	assert.Empty(t, rc.ProductName)
	assert.Nil(t, rc.Product)
}

func TestFetchReviewsToolMissingReviews(t *testing.T) {
	cat := loadCatalog(t)
	tool := &fetchReviewsTool{cat: cat}
	rc := &research.Context{}

	out, err := tool.Call(context.Background(), json.RawMessage(`{"product_name": "Dell XPS 13"}`), rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Reviews not found for this product"}`, out)
	assert.Nil(t, rc.Reviews)
}

func TestMarketTrendsToolMissingEntry(t *testing.T) {
	cat := loadCatalog(t)
	tool := &marketTrendsTool{cat: cat}
	rc := &research.Context{ProductName: "Dell XPS 13"}

	out, err := tool.Call(context.Background(), nil, rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Market data not found for product: Dell XPS 13"}`, out)
	assert.Nil(t, rc.Trends)
}
