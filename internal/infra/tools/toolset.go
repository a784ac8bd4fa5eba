package tools

import (
	"encoding/json"
	"math"
	"time"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
	"github.com/ecomlabs/research-agent/internal/infra/report"
)

// New assembles the full tool set exposed to the research agent.
func New(cat *catalog.Catalog, gen *report.Generator) []research.Tool {
	now := time.Now
	return []research.Tool{
		&similarityTool{cat: cat},
		&availableProductsTool{cat: cat},
		&fetchProductTool{cat: cat, now: now},
		&fetchReviewsTool{cat: cat},
		&sentimentTool{},
		&marketTrendsTool{cat: cat},
		&reportTool{gen: gen},
		&finishTool{},
	}
}

// errPayload is the in-band error envelope handed back to the model.
// Tool failures never abort the run.
func errPayload(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func marshal(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// noParams is the schema for tools that read everything from the context.
func noParams() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func productNameParams() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"product_name": map[string]any{
				"type":        "string",
				"description": "Product name to look up",
			},
		},
		"required": []string{"product_name"},
	}
}

type productNameArgs struct {
	ProductName string `json:"product_name"`
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
func round2(f float64) float64 { return math.Round(f*100) / 100 }
