package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/pkg/logger"
)

// Runner executes the research workflow as a fixed sequence of tool calls:
// resolve the product name, gather product and review data, run the
// analyses, generate the report, then exit. It shares the tool set with the
// model-driven runner, so both paths produce the same context and report.
// Used when no OpenAI credential is configured.
type Runner struct {
	tools map[string]research.Tool
	log   *logger.Logger
}

func NewRunner(tools []research.Tool) *Runner {
	byName := make(map[string]research.Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Runner{
		tools: byName,
		log:   logger.Get().With("component", "pipeline"),
	}
}

func (r *Runner) Run(ctx context.Context, query string, rc *research.Context) error {
	out, err := r.call(ctx, "get_most_similar_product", map[string]any{"product_name": query}, rc)
	if err != nil {
		return err
	}

	name := query
	var resolved struct {
		ProductName string `json:"product_name"`
	}
	if json.Unmarshal([]byte(out), &resolved) == nil && resolved.ProductName != "" {
		name = resolved.ProductName
	}

	steps := []struct {
		tool string
		args map[string]any
	}{
		{"fetch_and_store_product_data", map[string]any{"product_name": name}},
		{"fetch_and_store_reviews", map[string]any{"product_name": name}},
		{"analyze_and_store_sentiment", nil},
		{"analyze_and_store_market_trends", nil},
		{"generate_comprehensive_report", nil},
	}
	for _, step := range steps {
		out, err := r.call(ctx, step.tool, step.args, rc)
		if err != nil {
			return err
		}
		// In-band error payloads mean a data gap, not a failure; later
		// steps degrade on their own.
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal([]byte(out), &payload) == nil && payload.Error != "" {
			r.log.Debugw("step reported missing data", "tool", step.tool, "reason", payload.Error)
		}
	}

	if _, err := r.call(ctx, "exit_program", nil, rc); err != nil {
		return err
	}
	return research.ErrRunFinished
}

func (r *Runner) call(ctx context.Context, name string, args map[string]any, rc *research.Context) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("pipeline tool %s not registered", name)
	}
	raw := json.RawMessage("{}")
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("marshal %s args: %w", name, err)
		}
		raw = b
	}
	out, err := tool.Call(ctx, raw, rc)
	if err != nil {
		if err == research.ErrRunFinished {
			return out, research.ErrRunFinished
		}
		return "", fmt.Errorf("tool %s: %w", name, err)
	}
	return out, nil
}
