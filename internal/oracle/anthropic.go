package oracle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// reasoningSystemPrompt keeps oracle answers short and parseable.
const reasoningSystemPrompt = "You are a routing assistant for a task orchestrator. " +
	"Answer concisely. When asked to choose a worker, name exactly one of the listed workers."

// AnthropicConfig contains configuration for creating an AnthropicOracle.
type AnthropicConfig struct {
	// Model is the Claude model to use. Defaults to Haiku; tie-breaking
	// prompts are small and latency-sensitive.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// MaxTokens caps the response length. Defaults to 512.
	MaxTokens int64
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of the direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// AnthropicOracle answers reasoning prompts through the Anthropic API
// (or AWS Bedrock).
type AnthropicOracle struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicClient builds a configured Anthropic client together with
// the resolved model and token cap. Shared by the oracle and the
// Claude-backed generation worker.
func NewAnthropicClient(cfg AnthropicConfig) (anthropic.Client, anthropic.Model, int64, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return anthropic.Client{}, "", 0, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaude3_5Haiku20241022
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return anthropic.NewClient(opts...), model, maxTokens, nil
}

// NewAnthropicOracle creates an oracle backed by the Anthropic API.
func NewAnthropicOracle(cfg AnthropicConfig) (*AnthropicOracle, error) {
	client, model, maxTokens, err := NewAnthropicClient(cfg)
	if err != nil {
		return nil, err
	}

	return &AnthropicOracle{
		inner:     client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Ask sends the prompt as a single user message and concatenates the
// text blocks of the response.
func (o *AnthropicOracle) Ask(ctx context.Context, prompt string) (string, error) {
	resp, err := o.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: reasoningSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle request: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("oracle returned empty response")
	}
	return text, nil
}

// Model returns the configured model name.
func (o *AnthropicOracle) Model() anthropic.Model {
	return o.model
}
