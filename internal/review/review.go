// Package review implements the Code-Review Orchestrator peripheral: it
// assembles a prompt from a diff, sends it to a
// generative model, and tracks token/cost usage. Grounded on the
// teacher's ZAIClient (internal/perception/client.go: Config/NewClient
// shape, one HTTP POST per completion) generalized to a single
// provider-agnostic HTTP client, and on its usage.Tracker
// (internal/usage/usage_tracker.go: workspace-scoped JSON persistence,
// load-on-construct, best-effort error handling).
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultSystemPrompt = "You are a precise code reviewer. Point out correctness bugs, missed edge cases, and security issues. Do not restate what the diff does; only flag problems. Ground every comment in the diff text provided."

// Config configures a GenerativeClient.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	SystemPrompt string
}

// DefaultConfig mirrors the teacher's DefaultZAIConfig: sane defaults for
// a single pluggable generative backend.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:       apiKey,
		BaseURL:      "https://api.openai.com/v1/chat/completions",
		Model:        "gpt-4o-mini",
		Timeout:      120 * time.Second,
		SystemPrompt: defaultSystemPrompt,
	}
}

// GenerativeClient is a single HTTP-based chat-completion client,
// standing in for the specific generative backend the operator deploys.
type GenerativeClient struct {
	cfg  Config
	http *http.Client
}

// NewGenerativeClient constructs a GenerativeClient per cfg.
func NewGenerativeClient(cfg Config) *GenerativeClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	return &GenerativeClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Result is one completed review request's outcome plus its token cost.
type Result struct {
	Review           string
	PromptTokens     int
	CompletionTokens int
}

// Review sends diffText to the generative backend and returns its review
// comments.
func (c *GenerativeClient) Review(ctx context.Context, diffText string) (Result, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: diffText},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("review: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("review: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("review: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("review: provider returned %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("review: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return Result{}, fmt.Errorf("review: provider returned no choices")
	}

	return Result{
		Review:           out.Choices[0].Message.Content,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
	}, nil
}

// pricePerMillionTokens is a per-model-class cost table, grounded on the
// teacher's usage.Tracker cost-accumulation idiom. Prices are USD per
// million tokens, input/output.
var pricePerMillionTokens = map[string][2]float64{
	"gpt-4o-mini": {0.15, 0.60},
	"gpt-4o":      {2.50, 10.00},
	"standard":    {0.50, 1.50},
}

// CostUSD estimates the dollar cost of an inference given its model and
// token counts, falling back to the "standard" tier for unknown models.
func CostUSD(model string, promptTokens, completionTokens int) float64 {
	prices, ok := pricePerMillionTokens[model]
	if !ok {
		prices = pricePerMillionTokens["standard"]
	}
	return float64(promptTokens)/1_000_000*prices[0] + float64(completionTokens)/1_000_000*prices[1]
}

// UsageData is the on-disk usage ledger, grounded on the teacher's
// UsageData/AggregatedStats shape, collapsed to the fields a single
// code-review peripheral needs.
type UsageData struct {
	Version        string             `json:"version"`
	TotalUSD       float64            `json:"total_usd"`
	ByModel        map[string]float64 `json:"by_model"`
	PromptTokens   int                `json:"prompt_tokens"`
	CompletionToks int                `json:"completion_tokens"`
}

// Tracker persists cumulative review cost to a workspace-scoped JSON
// file, grounded on the teacher's usage.Tracker (load-on-construct,
// best-effort persistence, never fatal on a corrupt file).
type Tracker struct {
	mu       sync.Mutex
	data     UsageData
	filePath string
}

// NewTracker constructs a Tracker persisting to
// <workspacePath>/.guardhook/usage.json.
func NewTracker(workspacePath string) (*Tracker, error) {
	dir := filepath.Join(workspacePath, ".guardhook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("review: create usage dir: %w", err)
	}
	t := &Tracker{
		filePath: filepath.Join(dir, "usage.json"),
		data: UsageData{
			Version: "1.0",
			ByModel: make(map[string]float64),
		},
	}
	_ = t.load() // a missing or corrupt usage file starts fresh, never fatal
	return t, nil
}

func (t *Tracker) load() error {
	data, err := os.ReadFile(t.filePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &t.data)
}

// Record adds one completion's cost to the ledger and persists it.
func (t *Tracker) Record(model string, promptTokens, completionTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cost := CostUSD(model, promptTokens, completionTokens)
	t.data.TotalUSD += cost
	t.data.ByModel[model] += cost
	t.data.PromptTokens += promptTokens
	t.data.CompletionToks += completionTokens

	if data, err := json.MarshalIndent(t.data, "", "  "); err == nil {
		_ = os.WriteFile(t.filePath, data, 0o644)
	}
}

// TotalUSD returns the cumulative estimated cost recorded so far.
func (t *Tracker) TotalUSD() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.TotalUSD
}
