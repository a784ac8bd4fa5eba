package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
)

// similarityTool resolves a free-text name to the closest catalog entry.
// It always returns a name, even when the best match is poor; downstream
// tools report unknown products themselves.
type similarityTool struct {
	cat *catalog.Catalog
}

func (t *similarityTool) Name() string { return "get_most_similar_product" }

func (t *similarityTool) Description() string {
	return "Resolve a free-text product name to the best-matching name in the catalog. Always returns a name; verify it before trusting a poor match. Beware of product versions: a Samsung Galaxy S23 is not a Samsung Galaxy S23 Ultra."
}

func (t *similarityTool) Parameters() map[string]any { return productNameParams() }

func (t *similarityTool) Call(_ context.Context, args json.RawMessage, _ *research.Context) (string, error) {
	var in productNameArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return errPayload("invalid arguments: " + err.Error()), nil
	}

	best := ""
	bestScore := -1.0
	for _, name := range t.cat.Names() {
		score := tokenSortSimilarity(in.ProductName, name)
		if score > bestScore {
			bestScore = score
			best = name
		}
	}
	return marshal(map[string]string{"product_name": best})
}

// tokenSortSimilarity lowercases, tokenizes and sorts both strings before
// computing Levenshtein similarity, so word order does not matter.
func tokenSortSimilarity(a, b string) float64 {
	return levenshtein.Similarity(tokenSort(a), tokenSort(b), nil)
}

func tokenSort(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// availableProductsTool lists every catalog product name.
type availableProductsTool struct {
	cat *catalog.Catalog
}

func (t *availableProductsTool) Name() string { return "available_products" }

func (t *availableProductsTool) Description() string {
	return "List all product names available in the catalog."
}

func (t *availableProductsTool) Parameters() map[string]any { return noParams() }

func (t *availableProductsTool) Call(_ context.Context, _ json.RawMessage, _ *research.Context) (string, error) {
	return marshal(t.cat.Names())
}
