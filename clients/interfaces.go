package clients

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
)

// ErrSourceNotEnglish is returned by translators that detect the source
// language and skip non-English input. The caller drops the event silently.
var ErrSourceNotEnglish = errors.New("detected source language is not English")

// SlackClient is the surface of the Slack Web API the bot depends on
type SlackClient interface {
	// AuthTest verifies the bot token and returns the bot's own identity
	AuthTest(ctx context.Context) (*SlackAuthTestResponse, error)

	// GetConversationHistory fetches channel messages around a timestamp
	GetConversationHistory(ctx context.Context, params SlackHistoryParameters) (*SlackHistoryResponse, error)

	// GetConversationReplies fetches a thread's messages given its root timestamp
	GetConversationReplies(ctx context.Context, params SlackRepliesParameters) (*SlackRepliesResponse, error)

	// GetReactions fetches the current reactions on a message
	GetReactions(ctx context.Context, item SlackItemRef) ([]slack.ItemReaction, error)

	// PostThreadReply posts text into a channel as a reply anchored at threadTS
	PostThreadReply(ctx context.Context, channelID, threadTS, text string) (*SlackPostMessageResponse, error)
}

// Translator converts English text to German. Implementations do not retry;
// a failure drops the event.
type Translator interface {
	TranslateToGerman(ctx context.Context, text string) (string, error)
}
