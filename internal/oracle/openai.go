package oracle

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIBaseURL points the OpenAI client at Together's compatible API.
const DefaultOpenAIBaseURL = "https://api.together.xyz/v1"

type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("oracle api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultOpenAIBaseURL
	if u := strings.TrimSpace(baseURL); u != "" {
		cfg.BaseURL = u
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}, nil
}

func (o *OpenAI) Provider() string { return "openai" }

func (o *OpenAI) Open(ctx context.Context, req Request) (Stream, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	if req.Prompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})
	}
	if len(msgs) == 0 {
		return nil, errors.New("oracle request has no content")
	}

	s, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}
	return &openaiStream{stream: s}, nil
}

type openaiStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openaiStream) Next(_ context.Context) (string, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
