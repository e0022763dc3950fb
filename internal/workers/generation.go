package workers

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/voxroute/voxroute/internal/oracle"
	"github.com/voxroute/voxroute/pkg/models"
)

// generationSystemPrompt frames the model as the response worker of the
// voice pipeline.
const generationSystemPrompt = "You are the response generator of a voice assistant pipeline. " +
	"Write a concise, spoken-style reply to the user's utterance."

// GenerationWorker produces conversational responses through Claude.
// It shares the oracle package's client construction so the direct API
// and AWS Bedrock are both supported.
type GenerationWorker struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewGenerationWorker creates the Claude-backed response worker.
func NewGenerationWorker(cfg oracle.AnthropicConfig) (*GenerationWorker, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	client, model, maxTokens, err := oracle.NewAnthropicClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("generation worker: %w", err)
	}
	return &GenerationWorker{inner: client, model: model, maxTokens: maxTokens}, nil
}

// Capability describes the worker for registration.
func (w *GenerationWorker) Capability() models.Capability {
	return models.Capability{
		ID:             "claude-generator",
		Name:           "Response Generator",
		Description:    "Generates conversational responses with Claude",
		ExpertiseTags:  []string{"response-generation", "conversation", "nlp"},
		BaseConfidence: 0.95,
	}
}

// Call sends the input text as a user message and returns the model's
// reply as UTF-8 text.
func (w *GenerationWorker) Call(ctx context.Context, input []byte) ([]byte, error) {
	text := strings.TrimSpace(string(input))
	if text == "" {
		return nil, fmt.Errorf("generate: empty payload")
	}

	resp, err := w.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     w.model,
		MaxTokens: w.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: generationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return nil, fmt.Errorf("generate: model returned no text")
	}
	return []byte(reply), nil
}
