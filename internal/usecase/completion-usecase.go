package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/okadapy/persona-bot/config"
	"github.com/okadapy/persona-bot/internal/model"
	"github.com/okadapy/persona-bot/pkg/tokens"
)

// CompletionUsecase wraps the external chat completion endpoint. Every
// request is a two-turn prompt: the persona's system prompt and the raw
// user text. No history, no retries.
type CompletionUsecase struct {
	cfg         config.OpenAI
	client      *openai.Client
	countTokens func(messages []openai.ChatCompletionMessage, model string) (int, error)
}

func NewCompletionUsecase(cfg config.OpenAI) *CompletionUsecase {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &CompletionUsecase{
		cfg:         cfg,
		client:      openai.NewClientWithConfig(clientConfig),
		countTokens: tokens.Count,
	}
}

func (c *CompletionUsecase) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userText,
		},
	}

	if c.cfg.MaxPromptTokens > 0 {
		tokenCount, err := c.countTokens(messages, c.cfg.Model)
		if err != nil {
			// Counting is best-effort; let the endpoint be the judge.
			log.Printf("failed to count prompt tokens: %v\n", err)
		} else if tokenCount > c.cfg.MaxPromptTokens {
			return "", &model.CompletionError{
				Failure: model.CompletionFailurePrompt,
				Err:     fmt.Errorf("prompt is %d tokens, limit is %d", tokenCount, c.cfg.MaxPromptTokens),
			}
		}
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(
		ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.Model,
			Temperature: c.cfg.ModelTemperature,
			TopP:        1,
			N:           1,
			Messages:    messages,
		},
	)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &model.CompletionError{
				Failure: model.CompletionFailureStatus,
				Status:  apiErr.HTTPStatusCode,
				Err:     err,
			}
		}
		// A 200 with a body the client cannot decode surfaces as a
		// json error, not as an APIError.
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return "", &model.CompletionError{
				Failure: model.CompletionFailureMalformed,
				Err:     err,
			}
		}
		return "", &model.CompletionError{
			Failure: model.CompletionFailureNetwork,
			Err:     err,
		}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &model.CompletionError{
			Failure: model.CompletionFailureMalformed,
			Err:     errors.New("response has no reply content"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}
