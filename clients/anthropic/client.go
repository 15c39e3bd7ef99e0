// Package anthropic implements the clients.Translator interface on top of
// the Claude Messages API. It is the alternate translation backend, selected
// with TRANSLATE_BACKEND=anthropic.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"translatebot/clients"
)

const defaultModel = anthropic.Model("claude-3-5-sonnet-20241022")

// The placeholder token format must stay in sync with the extract package:
// shortcodes are swapped for EMOJISLACK<n>X tokens before translation.
const systemPrompt = "You are a professional translator. Translate the user's message from English " +
	"to German. Preserve line breaks exactly. Any token of the form EMOJISLACK<number>X must appear " +
	"in the output unchanged. If the message is not in English, reply with exactly NOT_ENGLISH. " +
	"Reply with the translation only, no commentary."

// Client translates via the Claude Messages API
type Client struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClient creates a Claude-backed translator
func NewClient(apiKey string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}
}

// TranslateToGerman translates English text to German
func (c *Client) TranslateToGerman(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to translate")
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	translated := strings.TrimSpace(sb.String())
	if translated == "" {
		return "", fmt.Errorf("Claude returned an empty translation")
	}
	if translated == "NOT_ENGLISH" {
		return "", clients.ErrSourceNotEnglish
	}
	return translated, nil
}
