// Package completion streams generated text from a hosted chat-completion
// API, fragment by fragment.
package completion

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/metrics"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-1.5-flash-latest"
)

var ErrGenerate = domain.NewError(domain.KindUpstream, "Failed to generate itinerary.", nil)

// Streamer delivers generated text in arrival order. emit is called once
// per non-empty fragment; an emit error stops the stream and is returned.
type Streamer interface {
	Stream(ctx context.Context, prompt string, emit func(fragment string) error) error
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAIStreamer struct {
	client openai.Client
	model  string
}

var _ Streamer = (*OpenAIStreamer)(nil)

func NewOpenAIStreamer(cfg Config) (*OpenAIStreamer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("completion: api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return &OpenAIStreamer{client: client, model: model}, nil
}

func (s *OpenAIStreamer) Stream(ctx context.Context, prompt string, emit func(fragment string) error) error {
	stream := s.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := emit(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return ErrGenerate.Wrap(err)
	}
	return nil
}

// Instrumented counts relayed fragments and bytes.
type Instrumented struct {
	next Streamer
}

func Instrument(next Streamer) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Stream(ctx context.Context, prompt string, emit func(fragment string) error) error {
	return i.next.Stream(ctx, prompt, func(fragment string) error {
		metrics.ObserveFragment(len(fragment))
		return emit(fragment)
	})
}
