package bot

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator calls the chat completions API with a single
// non-conversational request; all transcript context travels in the prompt.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(300),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
