package openai

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	sdk "github.com/openai/openai-go/v3"

	"deskvox/internal/intent"
)

// ChatJSON resolves with a plain chat completion that must answer with a
// JSON object. Works with models or gateways lacking tool calling.
type ChatJSON struct {
	client sdk.Client
	model  string
}

func NewChatJSON(client sdk.Client, model string) *ChatJSON {
	return &ChatJSON{client: client, model: model}
}

type chatReply struct {
	Action string         `json:"action"`
	Args   map[string]any `json:"args"`
}

func (r *ChatJSON) Resolve(ctx context.Context, req intent.Request) (intent.Resolution, error) {
	resp, err := r.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(intent.CatalogPrompt(req.Catalog)),
			sdk.UserMessage(req.Utterance),
		},
		Model: sdk.ChatModel(r.model),
	})
	if err != nil {
		return intent.Resolution{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return intent.Resolution{}, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return intent.Resolution{}, fmt.Errorf("empty message content")
	}

	log.Debug("Processed", "data", content)

	calls, err := parseChatReply(content)
	if err != nil {
		return intent.Resolution{}, err
	}
	return intent.Decide("chat", req, calls), nil
}

// parseChatReply accepts the bare object or one wrapped in a markdown
// fence, which models emit despite instructions.
func parseChatReply(content string) ([]intent.Call, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var out chatReply
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("unmarshal intent reply: %w (raw: %s)", err, content)
	}

	name := strings.TrimSpace(out.Action)
	if name == "" || strings.EqualFold(name, "none") {
		return nil, nil
	}
	if out.Args == nil {
		out.Args = map[string]any{}
	}
	return []intent.Call{{Name: name, Args: out.Args}}, nil
}
