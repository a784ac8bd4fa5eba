package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/research-agent/internal/domain/research"
)

func TestTokenSortSimilarityIgnoresWordOrder(t *testing.T) {
	assert.Equal(t, 1.0, tokenSortSimilarity("pro iphone 15", "iPhone 15 Pro"))
	assert.Greater(t, tokenSortSimilarity("iphone", "iPhone 15 Pro"), tokenSortSimilarity("iphone", "Sony WH-1000XM5"))
}

func TestSimilarityToolResolvesName(t *testing.T) {
	cat := loadCatalog(t)
	tool := &similarityTool{cat: cat}

	cases := []struct {
		query string
		want  string
	}{
		{"iphone 15 pro", "iPhone 15 Pro"},
		{"pro iphone 15", "iPhone 15 Pro"},
		{"galaxy s23 samsung", "Samsung Galaxy S23"},
		{"macbook air", "MacBook Air M2"},
	}

	for _, tc := range cases {
		out, err := tool.Call(context.Background(), json.RawMessage(`{"product_name": "`+tc.query+`"}`), nil)
		require.NoError(t, err)

		var resolved struct {
			ProductName string `json:"product_name"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resolved))
		assert.Equal(t, tc.want, resolved.ProductName, "query %q", tc.query)
	}
}

func TestAvailableProductsTool(t *testing.T) {
	cat := loadCatalog(t)
	tool := &availableProductsTool{cat: cat}

	out, err := tool.Call(context.Background(), nil, &research.Context{})
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, "iPhone 15 Pro")
	assert.Contains(t, names, "Dell XPS 13")
}
