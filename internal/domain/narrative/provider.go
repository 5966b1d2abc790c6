// Package narrative generates AI-written strategic commentary for analysis
// results. Generation is asynchronous and strictly best-effort: the numeric
// pipeline never waits on, or fails because of, a language model.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ledgerlens/internal/core/apperror"
)

// Chat completion parameters. Low temperature keeps the commentary anchored
// to the supplied figures.
const (
	temperature = 0.2
	maxTokens   = 4000
)

const (
	deepSeekURL     = "https://api.deepseek.com/chat/completions"
	openAIURL       = "https://api.openai.com/v1/chat/completions"
	deepSeekTimeout = 180 * time.Second
	openAITimeout   = 120 * time.Second

	defaultDeepSeekModel = "deepseek-reasoner"
	defaultOpenAIModel   = "gpt-4o"
)

// Provider produces a narrative from a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a chat provider.
type Config struct {
	Provider string // "deepseek" or "openai"
	Model    string
	APIKey   string
	BaseURL  string // override for tests
}

// NewProvider builds a provider from config. A missing API key yields nil:
// callers treat a nil provider as "narrative disabled".
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "deepseek":
		return NewDeepSeek(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", cfg.Provider)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatProvider calls an OpenAI-compatible chat completion endpoint.
type ChatProvider struct {
	name   string
	url    string
	model  string
	apiKey string
	client *http.Client

	// annotateReasoning appends a footer when the model returned separate
	// reasoning content (DeepSeek reasoner models).
	annotateReasoning bool
}

// NewDeepSeek builds a DeepSeek-backed provider.
func NewDeepSeek(apiKey, model, baseURL string) *ChatProvider {
	if model == "" {
		model = defaultDeepSeekModel
	}
	if baseURL == "" {
		baseURL = deepSeekURL
	}
	return &ChatProvider{
		name:              "deepseek",
		url:               baseURL,
		model:             model,
		apiKey:            apiKey,
		client:            &http.Client{Timeout: deepSeekTimeout},
		annotateReasoning: true,
	}
}

// NewOpenAI builds an OpenAI-backed provider.
func NewOpenAI(apiKey, model, baseURL string) *ChatProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = openAIURL
	}
	return &ChatProvider{
		name:   "openai",
		url:    baseURL,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{Timeout: openAITimeout},
	}
}

func (p *ChatProvider) Name() string { return p.name }

// Generate sends the prompt and returns the model's commentary.
func (p *ChatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", apperror.NewExternalService(p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperror.NewExternalService(p.name,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperror.NewExternalService(p.name, fmt.Errorf("decode response: %w", err))
	}
	if len(out.Choices) == 0 {
		return "", apperror.NewExternalService(p.name, fmt.Errorf("empty choices"))
	}

	msg := out.Choices[0].Message
	if p.annotateReasoning && msg.ReasoningContent != "" {
		return fmt.Sprintf("**التحليل المتعمق:**\n\n%s\n\n---\n*تم إنشاء هذا التحليل باستخدام نموذج التفكير المتقدم*", msg.Content), nil
	}
	return msg.Content, nil
}
