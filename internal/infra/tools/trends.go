package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
)

// marketTrendsTool looks up the market entry for the product currently in
// the research context.
type marketTrendsTool struct {
	cat *catalog.Catalog
}

func (t *marketTrendsTool) Name() string { return "analyze_and_store_market_trends" }

func (t *marketTrendsTool) Description() string {
	return "Analyze market conditions for the product stored in the research context and store the market trends result."
}

func (t *marketTrendsTool) Parameters() map[string]any { return noParams() }

func (t *marketTrendsTool) Call(_ context.Context, _ json.RawMessage, rc *research.Context) (string, error) {
	trends, ok := t.cat.Trends(rc.ProductName)
	if !ok {
		return errPayload(fmt.Sprintf("Market data not found for product: %s", rc.ProductName)), nil
	}

	rc.Trends = &trends
	return marshal(trends)
}
