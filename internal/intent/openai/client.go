// Package openai resolves intents with the OpenAI API, through the
// Responses tool calling endpoint or a JSON-only chat completion.
package openai

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewClient builds an API client. baseURL may point at any compatible
// gateway, empty keeps the default.
func NewClient(apiKey, baseURL string, httpClient *http.Client) sdk.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return sdk.NewClient(opts...)
}
