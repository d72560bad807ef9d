package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Backend translates one block of text. Implementations must be safe for
// sequential reuse; the translator calls blocks strictly in order.
type Backend interface {
	TranslateBlock(ctx context.Context, text string) (string, error)
}

// ChatClient is the minimal surface of an OpenAI-compatible client needed
// for translation. Any local or hosted backend matching the chat completion
// call can be plugged in.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIBackend translates blocks through an OpenAI-compatible chat model.
type OpenAIBackend struct {
	Client ChatClient
	Model  string
	// Target is the translation target language tag, e.g. "de".
	Target language.Tag
}

// NewOpenAIBackend validates the target language and builds a backend.
func NewOpenAIBackend(client ChatClient, model, target string) (*OpenAIBackend, error) {
	tag, err := language.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse target language %q: %w", target, err)
	}
	return &OpenAIBackend{Client: client, Model: model, Target: tag}, nil
}

func (b *OpenAIBackend) TranslateBlock(ctx context.Context, text string) (string, error) {
	if b.Client == nil || b.Model == "" {
		return "", errors.New("translation backend not configured")
	}
	langName := display.English.Languages().Name(b.Target)
	system := fmt.Sprintf(
		"You are a translation engine. Translate the user's text into %s. "+
			"Output only the translation, no commentary. Keep sentence order and factual content unchanged.",
		langName)

	resp, err := b.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.Model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
