// Package deepl implements the clients.Translator interface against the
// DeepL v2 API. Source language is auto-detected; only English input is
// translated, anything else is skipped via clients.ErrSourceNotEnglish.
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"translatebot/clients"
)

const (
	freeAPIBaseURL = "https://api-free.deepl.com"
	proAPIBaseURL  = "https://api.deepl.com"

	sourceLangFilter = "EN"
	targetLang       = "DE"
)

// Client calls the DeepL translation API
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a DeepL client. Keys ending in ":fx" belong to the free
// API plan and are routed to the free endpoint.
func NewClient(apiKey string) *Client {
	baseURL := proAPIBaseURL
	if strings.HasSuffix(apiKey, ":fx") {
		baseURL = freeAPIBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a test server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// TranslateToGerman translates English text to German. Returns
// clients.ErrSourceNotEnglish when DeepL detects a non-English source.
func (c *Client) TranslateToGerman(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to translate")
	}

	values := url.Values{}
	values.Set("text", text)
	values.Set("target_lang", targetLang)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v2/translate",
		strings.NewReader(values.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call DeepL: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return "", fmt.Errorf("DeepL rejected the API key")
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("DeepL rate limit exceeded")
	case 456:
		return "", fmt.Errorf("DeepL translation quota exhausted")
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("DeepL request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode DeepL response: %w", err)
	}
	if len(decoded.Translations) == 0 {
		return "", fmt.Errorf("DeepL returned no translations")
	}

	first := decoded.Translations[0]
	if !strings.EqualFold(first.DetectedSourceLanguage, sourceLangFilter) {
		return "", fmt.Errorf("%w: got %s", clients.ErrSourceNotEnglish, first.DetectedSourceLanguage)
	}
	return first.Text, nil
}
