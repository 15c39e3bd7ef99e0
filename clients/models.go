package clients

import "github.com/slack-go/slack"

// SlackHistoryParameters are the arguments for a conversations.history call.
// Oldest/Latest bound the window; with Inclusive set and both equal to one
// timestamp the call anchors at exactly that message.
type SlackHistoryParameters struct {
	ChannelID string
	Oldest    string
	Latest    string
	Inclusive bool
	Limit     int
}

type SlackHistoryResponse struct {
	Messages []slack.Message
	HasMore  bool
}

// SlackRepliesParameters are the arguments for a conversations.replies call.
// ThreadTS must be the thread root timestamp.
type SlackRepliesParameters struct {
	ChannelID string
	ThreadTS  string
	Inclusive bool
	Limit     int
}

type SlackRepliesResponse struct {
	Messages []slack.Message
	HasMore  bool
}

// SlackItemRef identifies a message for reaction lookups.
type SlackItemRef struct {
	Channel   string
	Timestamp string
}

type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

type SlackAuthTestResponse struct {
	UserID string
	BotID  string
	TeamID string
}
