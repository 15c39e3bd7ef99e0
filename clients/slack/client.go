// Package slack implements the clients.SlackClient interface against the
// Slack Web API. The SDK's high-level methods are not used for these calls
// because the API accepts parameters inconsistently across methods and token
// types: some calls reject a form-encoded body with an invalid_arguments
// error yet accept the identical parameters as query string. Each call is
// attempted form-encoded first and retried once with query parameters.
// Response decoding reuses the slack-go wire types.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"translatebot/clients"
)

const (
	defaultBaseURL = "https://slack.com/api/"

	// maxPageLimit bounds every history/replies page. The resolver only ever
	// needs messages near the target timestamp.
	maxPageLimit = 15
)

// Client talks to the Slack Web API with layered credentials: conversation
// reads prefer the user token when one is configured (bot tokens cannot read
// some thread replies), falling back to the bot token. Writes always use the
// bot token.
type Client struct {
	httpClient *http.Client
	botToken   string
	userToken  string
	baseURL    string
}

// NewClient creates a Slack Web API client. userToken may be empty.
func NewClient(botToken, userToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		botToken:   botToken,
		userToken:  userToken,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a test server.
func NewClientWithBaseURL(botToken, userToken, baseURL string) *Client {
	c := NewClient(botToken, userToken)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c.baseURL = baseURL
	return c
}

// apiEnvelope is the common part of every Web API response.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (e *apiEnvelope) apiResult() (bool, string) { return e.OK, e.Error }

type responder interface {
	apiResult() (ok bool, errorCode string)
}

type historyResponse struct {
	apiEnvelope
	Messages []slackapi.Message `json:"messages"`
	HasMore  bool               `json:"has_more"`
}

type reactionsResponse struct {
	apiEnvelope
	Message *slackapi.Message `json:"message,omitempty"`
}

type postMessageResponse struct {
	apiEnvelope
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

type authTestResponse struct {
	apiEnvelope
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
	TeamID string `json:"team_id"`
}

// AuthTest verifies the bot token and returns the bot's own identity
func (c *Client) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	var resp authTestResponse
	if err := c.callAPI(ctx, "auth.test", c.botToken, url.Values{}, &resp); err != nil {
		return nil, err
	}
	return &clients.SlackAuthTestResponse{
		UserID: resp.UserID,
		BotID:  resp.BotID,
		TeamID: resp.TeamID,
	}, nil
}

// GetConversationHistory fetches channel messages via conversations.history
func (c *Client) GetConversationHistory(
	ctx context.Context,
	params clients.SlackHistoryParameters,
) (*clients.SlackHistoryResponse, error) {
	values := url.Values{}
	values.Set("channel", params.ChannelID)
	if params.Oldest != "" {
		values.Set("oldest", params.Oldest)
	}
	if params.Latest != "" {
		values.Set("latest", params.Latest)
	}
	if params.Inclusive {
		values.Set("inclusive", "true")
	}
	values.Set("limit", strconv.Itoa(clampLimit(params.Limit)))

	var resp historyResponse
	if err := c.callWithTokenFallback(ctx, "conversations.history", values, func() responder {
		resp = historyResponse{}
		return &resp
	}); err != nil {
		return nil, err
	}
	return &clients.SlackHistoryResponse{Messages: resp.Messages, HasMore: resp.HasMore}, nil
}

// GetConversationReplies fetches a thread's messages via conversations.replies
func (c *Client) GetConversationReplies(
	ctx context.Context,
	params clients.SlackRepliesParameters,
) (*clients.SlackRepliesResponse, error) {
	values := url.Values{}
	values.Set("channel", params.ChannelID)
	values.Set("ts", params.ThreadTS)
	if params.Inclusive {
		values.Set("inclusive", "true")
	}
	values.Set("limit", strconv.Itoa(clampLimit(params.Limit)))

	var resp historyResponse
	if err := c.callWithTokenFallback(ctx, "conversations.replies", values, func() responder {
		resp = historyResponse{}
		return &resp
	}); err != nil {
		return nil, err
	}
	return &clients.SlackRepliesResponse{Messages: resp.Messages, HasMore: resp.HasMore}, nil
}

// GetReactions fetches the current reactions on a message via reactions.get
func (c *Client) GetReactions(ctx context.Context, item clients.SlackItemRef) ([]slackapi.ItemReaction, error) {
	values := url.Values{}
	values.Set("channel", item.Channel)
	values.Set("timestamp", item.Timestamp)
	values.Set("full", "true")

	var resp reactionsResponse
	if err := c.callAPI(ctx, "reactions.get", c.botToken, values, &resp); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, nil
	}
	return resp.Message.Reactions, nil
}

// PostThreadReply posts text as a thread reply via chat.postMessage
func (c *Client) PostThreadReply(
	ctx context.Context,
	channelID, threadTS, text string,
) (*clients.SlackPostMessageResponse, error) {
	values := url.Values{}
	values.Set("channel", channelID)
	values.Set("thread_ts", threadTS)
	values.Set("text", text)

	var resp postMessageResponse
	if err := c.callAPI(ctx, "chat.postMessage", c.botToken, values, &resp); err != nil {
		return nil, err
	}
	return &clients.SlackPostMessageResponse{Channel: resp.Channel, Timestamp: resp.TS}, nil
}

// callWithTokenFallback runs a read call with the user token when configured,
// retrying once with the bot token on any failure from the preferred
// credential.
func (c *Client) callWithTokenFallback(
	ctx context.Context,
	method string,
	params url.Values,
	fresh func() responder,
) error {
	if c.userToken != "" {
		err := c.callAPI(ctx, method, c.userToken, params, fresh())
		if err == nil {
			return nil
		}
		log.Printf("⚠️ Slack method %s failed with user token, retrying with bot token: %v", method, err)
	}
	return c.callAPI(ctx, method, c.botToken, params, fresh())
}

// callAPI posts a Web API method form-encoded, retrying once with query
// parameters when the method rejects the form body.
func (c *Client) callAPI(ctx context.Context, method, token string, params url.Values, out responder) error {
	if err := c.doCall(ctx, method, token, params, false, out); err != nil {
		return err
	}
	ok, code := out.apiResult()
	if ok {
		return nil
	}
	if !isInvalidArguments(code) {
		return fmt.Errorf("slack api %s failed: %s", method, code)
	}

	log.Printf("⚠️ Slack method %s rejected form encoding (%s), retrying with query params", method, code)
	if err := c.doCall(ctx, method, token, params, true, out); err != nil {
		return err
	}
	if ok, code := out.apiResult(); !ok {
		return fmt.Errorf("slack api %s failed: %s", method, code)
	}
	return nil
}

func (c *Client) doCall(
	ctx context.Context,
	method, token string,
	params url.Values,
	asQuery bool,
	out responder,
) error {
	endpoint := c.baseURL + method
	var req *http.Request
	var err error
	if asQuery {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack api %s failed: status %d, body: %s", method, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// isInvalidArguments matches the error codes Slack uses when a method rejects
// the parameter encoding rather than the parameters themselves.
func isInvalidArguments(code string) bool {
	switch code {
	case "invalid_arguments", "invalid_arg_name", "invalid_array_arg", "invalid_form_data":
		return true
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
