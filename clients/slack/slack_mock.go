package slack

import (
	"context"

	slackapi "github.com/slack-go/slack"

	"translatebot/clients"
)

// MockSlackClient implements clients.SlackClient for testing
type MockSlackClient struct {
	MockAuthTest               func(ctx context.Context) (*clients.SlackAuthTestResponse, error)
	MockGetConversationHistory func(ctx context.Context, params clients.SlackHistoryParameters) (*clients.SlackHistoryResponse, error)
	MockGetConversationReplies func(ctx context.Context, params clients.SlackRepliesParameters) (*clients.SlackRepliesResponse, error)
	MockGetReactions           func(ctx context.Context, item clients.SlackItemRef) ([]slackapi.ItemReaction, error)
	MockPostThreadReply        func(ctx context.Context, channelID, threadTS, text string) (*clients.SlackPostMessageResponse, error)

	// PostedReplies records every PostThreadReply call for assertions
	PostedReplies []PostedReply
}

// PostedReply is one recorded PostThreadReply invocation
type PostedReply struct {
	ChannelID string
	ThreadTS  string
	Text      string
}

// NewMockSlackClient creates a new mock Slack client
func NewMockSlackClient() *MockSlackClient {
	return &MockSlackClient{}
}

func (m *MockSlackClient) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	if m.MockAuthTest != nil {
		return m.MockAuthTest(ctx)
	}
	return &clients.SlackAuthTestResponse{
		UserID: "U0BOT00000",
		BotID:  "B0BOT00000",
		TeamID: "T123456789",
	}, nil
}

func (m *MockSlackClient) GetConversationHistory(
	ctx context.Context,
	params clients.SlackHistoryParameters,
) (*clients.SlackHistoryResponse, error) {
	if m.MockGetConversationHistory != nil {
		return m.MockGetConversationHistory(ctx, params)
	}
	return &clients.SlackHistoryResponse{}, nil
}

func (m *MockSlackClient) GetConversationReplies(
	ctx context.Context,
	params clients.SlackRepliesParameters,
) (*clients.SlackRepliesResponse, error) {
	if m.MockGetConversationReplies != nil {
		return m.MockGetConversationReplies(ctx, params)
	}
	return &clients.SlackRepliesResponse{}, nil
}

func (m *MockSlackClient) GetReactions(
	ctx context.Context,
	item clients.SlackItemRef,
) ([]slackapi.ItemReaction, error) {
	if m.MockGetReactions != nil {
		return m.MockGetReactions(ctx, item)
	}
	return nil, nil
}

func (m *MockSlackClient) PostThreadReply(
	ctx context.Context,
	channelID, threadTS, text string,
) (*clients.SlackPostMessageResponse, error) {
	m.PostedReplies = append(m.PostedReplies, PostedReply{ChannelID: channelID, ThreadTS: threadTS, Text: text})
	if m.MockPostThreadReply != nil {
		return m.MockPostThreadReply(ctx, channelID, threadTS, text)
	}
	return &clients.SlackPostMessageResponse{Channel: channelID, Timestamp: "1700000000.000100"}, nil
}
