package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/ai/prompt"
	"github.com/ecomlabs/research-agent/pkg/logger"
)

const maxTokens = 2048

// maxTurns caps the tool-calling loop so a model that never calls
// exit_program cannot spin forever.
const maxTurns = 24

// Runner drives the research workflow through the OpenAI chat-completions
// tool-calling protocol. The model decides the tool order; the runner just
// executes what it asks for and feeds results back until the termination
// signal is raised.
type Runner struct {
	client *openai.Client
	model  string
	tools  []research.Tool
	log    *logger.Logger
}

func NewRunner(apiKey, model string, tools []research.Tool) *Runner {
	return NewRunnerWithBaseURL(apiKey, "", model, tools)
}

// NewRunnerWithBaseURL points the runner at an alternate chat-completions
// endpoint, e.g. a proxy or an OpenAI-compatible local server.
func NewRunnerWithBaseURL(apiKey, baseURL, model string, tools []research.Tool) *Runner {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Runner{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		tools:  tools,
		log:    logger.Get().With("component", "agent"),
	}
}

func (r *Runner) Run(ctx context.Context, query string, rc *research.Context) error {
	model := r.model
	if model == "" {
		model = "gpt-4o"
	}

	defs := make([]openai.Tool, 0, len(r.tools))
	byName := make(map[string]research.Tool, len(r.tools))
	for _, t := range r.tools {
		byName[t.Name()] = t
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
		{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(query)},
	}

	for turn := 0; turn < maxTurns; turn++ {
		req := openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
			Tools:    defs,
		}
		// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
		if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
			req.MaxCompletionTokens = maxTokens
		} else {
			req.MaxTokens = maxTokens
		}

		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("create chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			// Model stopped choosing tools without exiting. Treat as done.
			r.log.Debugw("model finished without termination tool", "content", msg.Content)
			return research.ErrRunFinished
		}

		for _, call := range msg.ToolCalls {
			tool, ok := byName[call.Function.Name]
			if !ok {
				messages = append(messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					ToolCallID: call.ID,
					Content:    fmt.Sprintf(`{"error": "unknown tool: %s"}`, call.Function.Name),
				})
				continue
			}

			r.log.Debugw("tool call", "tool", call.Function.Name)
			result, err := tool.Call(ctx, json.RawMessage(call.Function.Arguments), rc)
			if err != nil {
				if errors.Is(err, research.ErrRunFinished) {
					return research.ErrRunFinished
				}
				return fmt.Errorf("tool %s: %w", call.Function.Name, err)
			}

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return fmt.Errorf("agent did not terminate within %d turns", maxTurns)
}
