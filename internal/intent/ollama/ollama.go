// Package ollama resolves intents with a local model through Ollama.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"

	"deskvox/internal/intent"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Resolver resolves through the Ollama chat API with tools.
type Resolver struct {
	client *api.Client
	model  string
}

// New connects to baseURL, or to OLLAMA_HOST when baseURL is empty.
func New(baseURL, model string, httpClient *http.Client) (*Resolver, error) {
	var (
		client *api.Client
		err    error
	)

	if baseURL != "" {
		u, perr := url.Parse(baseURL)
		if perr != nil {
			return nil, fmt.Errorf("invalid ollama url: %w", perr)
		}
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		client = api.NewClient(u, httpClient)
	} else {
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
	}

	return &Resolver{client: client, model: model}, nil
}

func (r *Resolver) Resolve(ctx context.Context, req intent.Request) (intent.Resolution, error) {
	// The SDK tool types change between releases; the JSON layout does not.
	var tools []api.Tool
	raw, err := json.Marshal(intent.ToolDefinitions(req.Catalog))
	if err != nil {
		return intent.Resolution{}, fmt.Errorf("marshal tools: %w", err)
	}
	if err := json.Unmarshal(raw, &tools); err != nil {
		return intent.Resolution{}, fmt.Errorf("convert tools: %w", err)
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model: r.model,
		Messages: []api.Message{
			{Role: "system", Content: intent.Instructions(req.Catalog)},
			{Role: "user", Content: req.Utterance},
		},
		Tools:  tools,
		Stream: &stream,
	}

	var calls []intent.Call
	err = r.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		for _, tc := range resp.Message.ToolCalls {
			argsB, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				return fmt.Errorf("marshal %s arguments: %w", tc.Function.Name, err)
			}
			args, err := intent.DecodeArguments(string(argsB))
			if err != nil {
				return fmt.Errorf("decode %s arguments: %w", tc.Function.Name, err)
			}
			calls = append(calls, intent.Call{Name: tc.Function.Name, Args: args})
		}
		return nil
	})
	if err != nil {
		return intent.Resolution{}, fmt.Errorf("ollama chat: %w", err)
	}

	return intent.Decide("ollama", req, calls), nil
}
