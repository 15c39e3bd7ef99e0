package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translatebot/clients"
)

type recordedCall struct {
	method     string
	token      string
	params     url.Values
	queryEmpty bool
}

// apiServer fakes the Slack Web API and records how each call arrived.
func apiServer(t *testing.T, respond func(call recordedCall) string) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		call := recordedCall{
			method:     r.URL.Path[len("/"):],
			token:      r.Header.Get("Authorization"),
			params:     r.Form,
			queryEmpty: r.URL.RawQuery == "",
		}
		calls = append(calls, call)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond(call)))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestGetConversationHistory(t *testing.T) {
	t.Run("FormEncodedCallSucceeds", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			return `{"ok":true,"messages":[{"ts":"100.1","text":"Hello"}],"has_more":false}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

		resp, err := client.GetConversationHistory(context.Background(), clients.SlackHistoryParameters{
			ChannelID: "C1", Oldest: "100.1", Latest: "100.1", Inclusive: true, Limit: 1,
		})

		require.NoError(t, err)
		require.Len(t, resp.Messages, 1)
		assert.Equal(t, "Hello", resp.Messages[0].Text)

		require.Len(t, *calls, 1)
		call := (*calls)[0]
		assert.Equal(t, "conversations.history", call.method)
		assert.Equal(t, "Bearer xoxb-bot", call.token)
		assert.Equal(t, "C1", call.params.Get("channel"))
		assert.Equal(t, "100.1", call.params.Get("oldest"))
		assert.Equal(t, "true", call.params.Get("inclusive"))
		assert.Equal(t, "1", call.params.Get("limit"))
		assert.True(t, call.queryEmpty, "first attempt must carry params in the form body")
	})

	t.Run("InvalidArgumentsRetriesAsQueryParams", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			if call.queryEmpty {
				return `{"ok":false,"error":"invalid_arguments"}`
			}
			return `{"ok":true,"messages":[{"ts":"100.1","text":"Hello"}]}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

		resp, err := client.GetConversationHistory(context.Background(), clients.SlackHistoryParameters{ChannelID: "C1"})

		require.NoError(t, err)
		require.Len(t, resp.Messages, 1)
		require.Len(t, *calls, 2)
		assert.True(t, (*calls)[0].queryEmpty)
		assert.False(t, (*calls)[1].queryEmpty)
		assert.Equal(t, "C1", (*calls)[1].params.Get("channel"))
	})

	t.Run("NonEncodingErrorDoesNotRetry", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			return `{"ok":false,"error":"channel_not_found"}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

		_, err := client.GetConversationHistory(context.Background(), clients.SlackHistoryParameters{ChannelID: "C1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel_not_found")
		assert.Len(t, *calls, 1)
	})

	t.Run("UserTokenPreferredWithBotFallback", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			if call.token == "Bearer xoxp-user" {
				return `{"ok":false,"error":"missing_scope"}`
			}
			return `{"ok":true,"messages":[]}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "xoxp-user", server.URL)

		_, err := client.GetConversationHistory(context.Background(), clients.SlackHistoryParameters{ChannelID: "C1"})

		require.NoError(t, err)
		require.Len(t, *calls, 2)
		assert.Equal(t, "Bearer xoxp-user", (*calls)[0].token)
		assert.Equal(t, "Bearer xoxb-bot", (*calls)[1].token)
	})

	t.Run("PageLimitIsClamped", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			return `{"ok":true,"messages":[]}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

		_, err := client.GetConversationHistory(context.Background(), clients.SlackHistoryParameters{ChannelID: "C1", Limit: 500})

		require.NoError(t, err)
		assert.Equal(t, "15", (*calls)[0].params.Get("limit"))
	})
}

func TestGetConversationReplies(t *testing.T) {
	server, calls := apiServer(t, func(call recordedCall) string {
		return `{"ok":true,"messages":[{"ts":"123.0"},{"ts":"456.0","thread_ts":"123.0"}]}`
	})
	client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

	resp, err := client.GetConversationReplies(context.Background(), clients.SlackRepliesParameters{
		ChannelID: "C1", ThreadTS: "123.0", Inclusive: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "conversations.replies", (*calls)[0].method)
	assert.Equal(t, "123.0", (*calls)[0].params.Get("ts"))
}

func TestGetReactions(t *testing.T) {
	t.Run("ReturnsMessageReactions", func(t *testing.T) {
		server, calls := apiServer(t, func(call recordedCall) string {
			return `{"ok":true,"message":{"ts":"111.001","reactions":[{"name":"de","count":2,"users":["U1","U2"]}]}}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "xoxp-user", server.URL)

		reactions, err := client.GetReactions(context.Background(), clients.SlackItemRef{Channel: "C1", Timestamp: "111.001"})

		require.NoError(t, err)
		require.Len(t, reactions, 1)
		assert.Equal(t, "de", reactions[0].Name)
		assert.Equal(t, 2, reactions[0].Count)

		// reactions.get is a bot-token call even when a user token exists.
		assert.Equal(t, "Bearer xoxb-bot", (*calls)[0].token)
		assert.Equal(t, "111.001", (*calls)[0].params.Get("timestamp"))
	})

	t.Run("NoMessageYieldsNoReactions", func(t *testing.T) {
		server, _ := apiServer(t, func(call recordedCall) string {
			return `{"ok":true}`
		})
		client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

		reactions, err := client.GetReactions(context.Background(), clients.SlackItemRef{Channel: "C1", Timestamp: "111.001"})

		require.NoError(t, err)
		assert.Empty(t, reactions)
	})
}

func TestPostThreadReply(t *testing.T) {
	server, calls := apiServer(t, func(call recordedCall) string {
		return `{"ok":true,"channel":"C1","ts":"999.123"}`
	})
	client := NewClientWithBaseURL("xoxb-bot", "xoxp-user", server.URL)

	resp, err := client.PostThreadReply(context.Background(), "C1", "100.1", "Hallo Welt")

	require.NoError(t, err)
	assert.Equal(t, "C1", resp.Channel)
	assert.Equal(t, "999.123", resp.Timestamp)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "chat.postMessage", call.method)
	// Writes never use the user token.
	assert.Equal(t, "Bearer xoxb-bot", call.token)
	assert.Equal(t, "100.1", call.params.Get("thread_ts"))
	assert.Equal(t, "Hallo Welt", call.params.Get("text"))
}

func TestAuthTest(t *testing.T) {
	server, _ := apiServer(t, func(call recordedCall) string {
		return `{"ok":true,"user_id":"U0BOT","bot_id":"B0BOT","team_id":"T123"}`
	})
	client := NewClientWithBaseURL("xoxb-bot", "", server.URL)

	resp, err := client.AuthTest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "U0BOT", resp.UserID)
	assert.Equal(t, "B0BOT", resp.BotID)
	assert.Equal(t, "T123", resp.TeamID)
}
