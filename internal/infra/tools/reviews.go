package tools

import (
	"context"
	"encoding/json"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
)

// fetchReviewsTool loads the customer reviews on file for a product.
type fetchReviewsTool struct {
	cat *catalog.Catalog
}

func (t *fetchReviewsTool) Name() string { return "fetch_and_store_reviews" }

func (t *fetchReviewsTool) Description() string {
	return "Fetch customer reviews for an exact catalog product name and store them in the research context for sentiment analysis."
}

func (t *fetchReviewsTool) Parameters() map[string]any { return productNameParams() }

func (t *fetchReviewsTool) Call(_ context.Context, args json.RawMessage, rc *research.Context) (string, error) {
	var in productNameArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return errPayload("invalid arguments: " + err.Error()), nil
	}

	if _, ok := t.cat.Product(in.ProductName); !ok {
		return errPayload("Product not found"), nil
	}
	reviews, ok := t.cat.Reviews(in.ProductName)
	if !ok {
		return errPayload("Reviews not found for this product"), nil
	}

	rc.Reviews = reviews
	return marshal(reviews)
}
