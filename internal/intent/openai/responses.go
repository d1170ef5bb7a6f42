package openai

import (
	"context"
	"fmt"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"

	"deskvox/internal/action"
	"deskvox/internal/intent"
)

// Resolver resolves through the Responses API with one function tool per
// catalog action. Parallel tool calls are disabled.
type Resolver struct {
	client sdk.Client
	model  string
}

func New(client sdk.Client, model string) *Resolver {
	return &Resolver{client: client, model: model}
}

func (r *Resolver) Resolve(ctx context.Context, req intent.Request) (intent.Resolution, error) {
	params := responses.ResponseNewParams{
		Model:        r.model,
		Instructions: sdk.String(intent.Instructions(req.Catalog)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: sdk.String(req.Utterance),
		},
		Tools:             functionTools(req.Catalog),
		ParallelToolCalls: sdk.Bool(false),
	}

	resp, err := r.client.Responses.New(ctx, params)
	if err != nil {
		return intent.Resolution{}, fmt.Errorf("responses: %w", err)
	}

	var calls []intent.Call
	for _, item := range resp.Output {
		if item.Type != "function_call" {
			continue
		}
		fc := item.AsFunctionCall()
		args, err := intent.DecodeArguments(fc.Arguments)
		if err != nil {
			return intent.Resolution{}, fmt.Errorf("decode %s arguments: %w (raw: %s)", fc.Name, err, fc.Arguments)
		}
		calls = append(calls, intent.Call{Name: fc.Name, Args: args})
	}

	return intent.Decide("openai", req, calls), nil
}

func functionTools(catalog *action.Catalog) []responses.ToolUnionParam {
	tools := make([]responses.ToolUnionParam, 0, catalog.Len())
	for _, d := range catalog.All() {
		tools = append(tools, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        d.Name,
				Description: sdk.String(d.Description),
				Parameters:  intent.Schema(d),
				Strict:      sdk.Bool(false),
			},
		})
	}
	return tools
}
