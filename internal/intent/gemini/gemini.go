// Package gemini resolves intents with function declarations on the
// Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"deskvox/internal/action"
	"deskvox/internal/intent"
)

type Resolver struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Resolver, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Resolver{client: client, model: model}, nil
}

func (r *Resolver) Resolve(ctx context.Context, req intent.Request) (intent.Resolution, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Utterance}},
	}}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: intent.Instructions(req.Catalog)}},
		},
		Tools: []*genai.Tool{{FunctionDeclarations: functionDeclarations(req.Catalog)}},
	})
	if err != nil {
		return intent.Resolution{}, fmt.Errorf("generate content: %w", err)
	}

	var calls []intent.Call
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.FunctionCall == nil {
				continue
			}
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			calls = append(calls, intent.Call{Name: part.FunctionCall.Name, Args: args})
		}
	}

	return intent.Decide("gemini", req, calls), nil
}

func functionDeclarations(catalog *action.Catalog) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, catalog.Len())
	for _, d := range catalog.All() {
		props := make(map[string]*genai.Schema, len(d.Params))
		for _, p := range d.Params {
			props[p.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: p.Description,
			}
		}

		decl := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if len(props) > 0 {
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   d.Required(),
			}
		}
		decls = append(decls, decl)
	}
	return decls
}
