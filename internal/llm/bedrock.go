package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockInvoker is the subset of the Bedrock runtime client we call
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient implements Provider for Amazon Bedrock
type BedrockClient struct {
	Region      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64

	svc bedrockInvoker
}

// NewBedrock initializes a Bedrock client using the default AWS config chain
func NewBedrock(ctx context.Context, region, model string, timeout time.Duration) (*BedrockClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("bedrock model is required")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var opts []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(loadCtx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not resolved: set llm.region, AWS_REGION or a region in the AWS profile")
	}
	return newBedrockWithInvoker(bedrockruntime.NewFromConfig(cfg), cfg.Region, model, timeout), nil
}

func newBedrockWithInvoker(svc bedrockInvoker, region, model string, timeout time.Duration) *BedrockClient {
	return &BedrockClient{
		Region:      region,
		Model:       model,
		Timeout:     timeout,
		MaxTokens:   1024,
		Temperature: 0.2,
		svc:         svc,
	}
}

// Name returns provider name
func (b *BedrockClient) Name() string { return "bedrock" }

// Generate sends a prompt to Bedrock and returns the generated text. Only
// Anthropic models are supported.
func (b *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !isAnthropicModel(b.Model) {
		return "", fmt.Errorf("unsupported Bedrock model family for %q", b.Model)
	}

	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        b.MaxTokens,
		"temperature":       b.Temperature,
		"messages": []any{
			map[string]any{
				"role":    "user",
				"content": []any{map[string]any{"type": "text", "text": prompt}},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	modelID := normalizeModelID(b.Model)
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()
	out, err := b.svc.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", annotateBedrockError(fmt.Errorf("bedrock invoke error: %w", err), modelID)
	}
	return parseAnthropicBody(out.Body)
}

func parseAnthropicBody(body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		OutputText string `json:"outputText"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode Bedrock response: %w", err)
	}
	for _, c := range resp.Content {
		if c.Type == "text" && strings.TrimSpace(c.Text) != "" {
			return strings.TrimSpace(c.Text), nil
		}
	}
	if text := strings.TrimSpace(resp.OutputText); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("empty response from Bedrock model")
}

// normalizeModelID adds the ":0" revision some integrations require. ARNs
// and inference profiles are passed through untouched.
func normalizeModelID(model string) string {
	lower := strings.ToLower(model)
	if strings.HasPrefix(lower, "arn:") || strings.Contains(lower, "inference-profile/") {
		return model
	}
	if !strings.Contains(model, ":") {
		return model + ":0"
	}
	return model
}

func isAnthropicModel(model string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(model)), "anthropic.")
}

// annotateBedrockError adds hints for common model ID mistakes
func annotateBedrockError(err error, modelID string) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "validationexception") && strings.Contains(msg, "throughput isn't supported") {
		return fmt.Errorf("%w\nHint: %q may need an inference profile; set llm.model to the profile ID or ARN", err, modelID)
	}
	if strings.Contains(msg, "provided model identifier is invalid") {
		return fmt.Errorf("%w\nHint: check the Bedrock model ID; regional prefixes (us.) and a revision suffix (:0) may be required", err)
	}
	return err
}
