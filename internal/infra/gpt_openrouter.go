package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

type GPTClient struct {
	apiKey string
	model  string
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewGPTClient(apiKey, model string, log *zap.Logger) ports.ClassifierService {
	if apiKey == "" {
		log.Warn("OpenRouter API key not set, classification will be degraded")
	}
	return &GPTClient{
		apiKey: apiKey,
		model:  model,
		url:    "https://openrouter.ai/api/v1/chat/completions",
		client: &http.Client{},
		log:    log,
	}
}

// sanitize drops broken UTF-8 before the prompt goes out.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "")
}

type orMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type orRequest struct {
	Model     string      `json:"model"`
	Messages  []orMessage `json:"messages"`
	MaxTokens int         `json:"max_tokens"`
}

type orResponse struct {
	Choices []struct {
		Message orMessage `json:"message"`
	} `json:"choices"`
}

func (g *GPTClient) Complete(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("no OPENROUTER_API_KEY")
	}

	body := orRequest{
		Model:     g.model,
		MaxTokens: 500,
		Messages: []orMessage{
			{Role: "user", Content: sanitize(prompt)},
		},
	}

	j, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", g.url, bytes.NewReader(j))
		if err != nil {
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}

		rawResp, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != 200 {
			g.log.Warn("classifier http error",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt))
			continue
		}

		var out orResponse
		if err := json.Unmarshal(rawResp, &out); err != nil {
			continue
		}

		if len(out.Choices) == 0 {
			continue
		}

		return out.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("classifier failed after retries")
}
