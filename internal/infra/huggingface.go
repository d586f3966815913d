package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

type CaptionClient struct {
	url    string
	token  string
	client *http.Client
	log    *zap.Logger
}

func NewCaptionClient(url, token string, log *zap.Logger) ports.CaptionService {
	if token == "" {
		log.Warn("caption API token not set, requests may be rate-limited")
	}
	return &CaptionClient{
		url:    url,
		token:  token,
		client: http.DefaultClient,
		log:    log,
	}
}

type captionResponse struct {
	GeneratedText string `json:"generated_text"`
}

func (c *CaptionClient) Caption(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(image))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	rawResp, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("caption http %d: %s", resp.StatusCode, rawResp)
	}

	// The inference API answers with a one-element array; a bare
	// object is accepted too.
	var list []captionResponse
	if err := json.Unmarshal(rawResp, &list); err == nil && len(list) > 0 {
		return list[0].GeneratedText, nil
	}

	var single captionResponse
	if err := json.Unmarshal(rawResp, &single); err != nil {
		return "", fmt.Errorf("caption parse: %w", err)
	}
	if single.GeneratedText == "" {
		return "", fmt.Errorf("caption response contained no text")
	}
	return single.GeneratedText, nil
}
